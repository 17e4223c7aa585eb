package sqlite

import (
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/logger"
	"github.com/trailhead-labs/habitkeep/internal/models"
)

// AddCategory inserts a category and returns the stored row. A duplicate
// name surfaces as a UNIQUE constraint error from the engine.
func (s *Store) AddCategory(name string) (models.Category, error) {
	result, err := s.db.Exec("INSERT INTO categories (name) VALUES (?)", name)
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to add category %q: %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to read category id: %w", err)
	}

	return s.getCategory(id)
}

func (s *Store) getCategory(id int64) (models.Category, error) {
	var c models.Category
	var createdAt string
	err := s.db.QueryRow("SELECT id, name, created_at FROM categories WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &createdAt)
	if err != nil {
		return models.Category{}, err
	}

	c.CreatedAt, err = parseTimestamp(createdAt)
	if err != nil {
		return models.Category{}, fmt.Errorf("failed to parse created_at for category %d: %w", id, err)
	}
	return c, nil
}

// GetCategories returns all categories, newest first.
func (s *Store) GetCategories() ([]models.Category, error) {
	rows, err := s.db.Query("SELECT id, name, created_at FROM categories ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt, err = parseTimestamp(createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for category %d: %w", c.ID, err)
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// DeleteCategory removes a category. Dependent habits are removed by the
// declared ON DELETE CASCADE; their progress rows are cleaned up in the same
// transaction since habit_progress carries no foreign key. Returns false when
// no such category exists.
func (s *Store) DeleteCategory(id int64) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		DELETE FROM habit_progress
		WHERE habit_id IN (SELECT id FROM habits WHERE category_id = ?)`, id); err != nil {
		return false, fmt.Errorf("failed to remove progress for category %d: %w", id, err)
	}

	result, err := tx.Exec("DELETE FROM categories WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		logger.Warn("delete skipped: category not found", "id", id)
		return false, nil
	}

	return true, tx.Commit()
}
