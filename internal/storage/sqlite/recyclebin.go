package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/constants"
	"github.com/trailhead-labs/habitkeep/internal/logger"
	"github.com/trailhead-labs/habitkeep/internal/models"
)

// DeleteHabit moves a habit to the recycle bin: a denormalized snapshot is
// written and the habit row removed, in one transaction. Progress rows are
// left alone so history survives a later restore.
func (s *Store) DeleteHabit(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var name string
	var description sql.NullString
	var categoryID sql.NullInt64
	var addedAt string
	err = tx.QueryRow(
		"SELECT name, description, category_id, added_at FROM habits WHERE id = ?", id).
		Scan(&name, &description, &categoryID, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("habit %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read habit %d: %w", id, err)
	}

	// INSERT OR REPLACE overwrites a stale snapshot left behind by an
	// earlier partial failure.
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO recycle_bin (habit_id, habit_name, habit_description, category_id, added_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, name, description, categoryID, addedAt); err != nil {
		return fmt.Errorf("failed to snapshot habit %d: %w", id, err)
	}

	if _, err := tx.Exec("DELETE FROM habits WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete habit %d: %w", id, err)
	}

	return tx.Commit()
}

// RestoreHabit re-creates a habit from its recycle-bin snapshot, keeping its
// original id so existing progress rows rejoin it, and removes the bin entry.
// A missing bin entry is tolerated: restoring an already-restored or
// never-deleted id returns (false, nil) with a logged warning.
func (s *Store) RestoreHabit(id int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var name string
	var description sql.NullString
	var categoryID sql.NullInt64
	var addedAt sql.NullString
	err = tx.QueryRow(`
		SELECT habit_name, habit_description, category_id, added_at
		FROM recycle_bin WHERE habit_id = ?`, id).
		Scan(&name, &description, &categoryID, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		logger.Warn("restore skipped: no recycle bin entry", "habit_id", id)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read recycle bin entry for habit %d: %w", id, err)
	}

	// The snapshot's category may have been deleted in the meantime; null
	// the reference rather than trip the foreign key.
	if categoryID.Valid {
		var exists int
		err := tx.QueryRow("SELECT COUNT(*) FROM categories WHERE id = ?", categoryID.Int64).Scan(&exists)
		if err != nil {
			return false, err
		}
		if exists == 0 {
			logger.Warn("restored habit lost its category", "habit_id", id, "category_id", categoryID.Int64)
			categoryID = sql.NullInt64{}
		}
	}

	if addedAt.Valid {
		_, err = tx.Exec(
			"INSERT INTO habits (id, name, description, category_id, added_at) VALUES (?, ?, ?, ?, ?)",
			id, name, description, categoryID, addedAt.String)
	} else {
		_, err = tx.Exec(
			"INSERT INTO habits (id, name, description, category_id) VALUES (?, ?, ?, ?)",
			id, name, description, categoryID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to restore habit %d: %w", id, err)
	}

	if _, err := tx.Exec("DELETE FROM recycle_bin WHERE habit_id = ?", id); err != nil {
		return false, fmt.Errorf("failed to clear recycle bin entry for habit %d: %w", id, err)
	}

	return true, tx.Commit()
}

// DeleteHabitPermanently discards the recycle-bin snapshot for a habit.
// A missing entry returns (false, nil) with a logged warning.
func (s *Store) DeleteHabitPermanently(id int64) (bool, error) {
	result, err := s.db.Exec("DELETE FROM recycle_bin WHERE habit_id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete recycle bin entry for habit %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		logger.Warn("permanent delete skipped: no recycle bin entry", "habit_id", id)
		return false, nil
	}
	return true, nil
}

// GetDeletedHabits returns the recycle bin contents, most recently deleted first.
func (s *Store) GetDeletedHabits() ([]models.RecycleBinEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, habit_name, habit_description, category_id, added_at, deleted_at
		FROM recycle_bin ORDER BY deleted_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.RecycleBinEntry{}
	for rows.Next() {
		var e models.RecycleBinEntry
		var description, addedAt sql.NullString
		var categoryID sql.NullInt64
		var deletedAt string

		if err := rows.Scan(&e.ID, &e.HabitID, &e.HabitName, &description, &categoryID, &addedAt, &deletedAt); err != nil {
			return nil, err
		}
		if description.Valid {
			e.Description = description.String
		}
		if categoryID.Valid {
			e.CategoryID = &categoryID.Int64
		}
		if addedAt.Valid {
			t, err := parseTimestamp(addedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse added_at for bin entry %d: %w", e.ID, err)
			}
			e.AddedAt = &t
		}
		e.DeletedAt, err = parseTimestamp(deletedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse deleted_at for bin entry %d: %w", e.ID, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CleanRecycleBin removes entries deleted 30 or more days ago, measured
// against the storage engine's clock to avoid client time skew. Returns the
// number of entries removed.
func (s *Store) CleanRecycleBin() (int64, error) {
	result, err := s.db.Exec(
		fmt.Sprintf("DELETE FROM recycle_bin WHERE deleted_at <= datetime('now', '-%d days')",
			constants.RecycleBinRetentionDays))
	if err != nil {
		return 0, fmt.Errorf("failed to clean recycle bin: %w", err)
	}
	return result.RowsAffected()
}
