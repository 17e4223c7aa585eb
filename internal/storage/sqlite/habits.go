package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/logger"
	"github.com/trailhead-labs/habitkeep/internal/models"
)

func scanHabit(scan func(dest ...any) error) (models.Habit, error) {
	var h models.Habit
	var description sql.NullString
	var categoryID sql.NullInt64
	var addedAt, updatedAt string

	if err := scan(&h.ID, &h.Name, &description, &categoryID, &addedAt, &updatedAt); err != nil {
		return models.Habit{}, err
	}

	if description.Valid {
		h.Description = description.String
	}
	if categoryID.Valid {
		h.CategoryID = &categoryID.Int64
	}

	var err error
	h.AddedAt, err = parseTimestamp(addedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse added_at for habit %d: %w", h.ID, err)
	}
	h.UpdatedAt, err = parseTimestamp(updatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at for habit %d: %w", h.ID, err)
	}

	return h, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func nullableText(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// AddHabit inserts a habit and returns the stored row. A categoryID that does
// not exist surfaces as a FOREIGN KEY constraint error (enforcement is always
// on).
func (s *Store) AddHabit(name, description string, categoryID *int64) (models.Habit, error) {
	result, err := s.db.Exec(
		"INSERT INTO habits (name, description, category_id) VALUES (?, ?, ?)",
		name, nullableText(description), nullableID(categoryID))
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to add habit %q: %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to read habit id: %w", err)
	}

	return s.GetHabit(id)
}

// UpdateHabit replaces the mutable fields of a habit. A missing id is a
// no-op, not an error. The update_habit_timestamp trigger refreshes
// updated_at.
func (s *Store) UpdateHabit(id int64, name, description string, categoryID *int64) error {
	result, err := s.db.Exec(
		"UPDATE habits SET name = ?, description = ?, category_id = ? WHERE id = ?",
		name, nullableText(description), nullableID(categoryID), id)
	if err != nil {
		return fmt.Errorf("failed to update habit %d: %w", id, err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		logger.Warn("update skipped: habit not found", "id", id)
	}
	return nil
}

func (s *Store) GetHabit(id int64) (models.Habit, error) {
	row := s.db.QueryRow(
		"SELECT id, name, description, category_id, added_at, updated_at FROM habits WHERE id = ?", id)
	h, err := scanHabit(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %d not found", id)
	}
	return h, err
}

// GetHabits returns all habits in insertion order.
func (s *Store) GetHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(
		"SELECT id, name, description, category_id, added_at, updated_at FROM habits ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows.Scan)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}
