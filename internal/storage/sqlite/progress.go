package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/logger"
	"github.com/trailhead-labs/habitkeep/internal/models"
)

// AddProgress records a habit as completed for a calendar day. Upsert
// semantics: a second record for the same (habit, day) replaces the first,
// keeping at most one row per pair.
func (s *Store) AddProgress(habitID int64, date, customValue string) error {
	_, err := s.db.Exec(`
		INSERT INTO habit_progress (habit_id, date, completed, custom_value)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			completed = excluded.completed,
			custom_value = excluded.custom_value`,
		habitID, date, nullableText(customValue))
	if err != nil {
		return fmt.Errorf("failed to add progress for habit %d on %s: %w", habitID, date, err)
	}
	return nil
}

// RemoveProgress deletes the (habit, day) completion record. A missing row
// returns (false, nil) with a logged warning.
func (s *Store) RemoveProgress(habitID int64, date string) (bool, error) {
	result, err := s.db.Exec(
		"DELETE FROM habit_progress WHERE habit_id = ? AND date = ?", habitID, date)
	if err != nil {
		return false, fmt.Errorf("failed to remove progress for habit %d on %s: %w", habitID, date, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		logger.Warn("remove progress skipped: no record", "habit_id", habitID, "date", date)
		return false, nil
	}
	return true, nil
}

func scanProgressRows(rows *sql.Rows) ([]models.ProgressRow, error) {
	records := []models.ProgressRow{}
	for rows.Next() {
		var r models.ProgressRow
		var habitName, customValue sql.NullString
		var completed int

		if err := rows.Scan(&r.HabitID, &habitName, &r.Date, &completed, &customValue); err != nil {
			return nil, err
		}
		if habitName.Valid {
			r.HabitName = habitName.String
		}
		if customValue.Valid {
			r.CustomValue = customValue.String
		}
		r.Completed = completed != 0

		records = append(records, r)
	}
	return records, rows.Err()
}

// GetProgressByHabit returns a habit's completion records, newest first.
// Zero rows is an empty slice, not an error.
func (s *Store) GetProgressByHabit(habitID int64) ([]models.ProgressRow, error) {
	rows, err := s.db.Query(`
		SELECT p.habit_id, h.name, p.date, p.completed, p.custom_value
		FROM habit_progress p
		LEFT JOIN habits h ON h.id = p.habit_id
		WHERE p.habit_id = ?
		ORDER BY p.date DESC`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProgressRows(rows)
}

// GetProgress returns all completion records joined with the live habit
// name, newest first. Rows whose habit sits in the recycle bin come back
// with an empty name.
func (s *Store) GetProgress() ([]models.ProgressRow, error) {
	rows, err := s.db.Query(`
		SELECT p.habit_id, h.name, p.date, p.completed, p.custom_value
		FROM habit_progress p
		LEFT JOIN habits h ON h.id = p.habit_id
		ORDER BY p.date DESC, p.habit_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProgressRows(rows)
}
