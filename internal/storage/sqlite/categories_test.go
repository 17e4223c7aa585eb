package sqlite

import (
	"strings"
	"testing"
)

func TestAddCategory(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	category, err := store.AddCategory("Health")
	if err != nil {
		t.Fatalf("AddCategory() failed: %v", err)
	}
	if category.ID == 0 {
		t.Error("AddCategory() returned zero id")
	}
	if category.Name != "Health" {
		t.Errorf("AddCategory() name = %q, want %q", category.Name, "Health")
	}
	if category.CreatedAt.IsZero() {
		t.Error("AddCategory() returned zero created_at")
	}
}

func TestAddCategoryDuplicateName(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := store.AddCategory("Health"); err != nil {
		t.Fatalf("AddCategory() failed: %v", err)
	}

	_, err := store.AddCategory("Health")
	if err == nil {
		t.Fatal("duplicate AddCategory() succeeded, want UNIQUE constraint error")
	}
	if !strings.Contains(strings.ToUpper(err.Error()), "UNIQUE") {
		t.Errorf("duplicate AddCategory() error = %q, want UNIQUE constraint", err)
	}
}

func TestGetCategories(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	for _, name := range []string{"Health", "Work", "Learning"} {
		if _, err := store.AddCategory(name); err != nil {
			t.Fatalf("AddCategory(%q) failed: %v", name, err)
		}
	}

	categories, err := store.GetCategories()
	if err != nil {
		t.Fatalf("GetCategories() failed: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("GetCategories() = %d categories, want 3", len(categories))
	}
	// Same-second inserts fall back to id ordering, newest first.
	if categories[0].Name != "Learning" {
		t.Errorf("GetCategories()[0] = %q, want newest first", categories[0].Name)
	}
}

func TestDeleteCategory(t *testing.T) {
	t.Run("existing", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		category, err := store.AddCategory("Health")
		if err != nil {
			t.Fatalf("AddCategory() failed: %v", err)
		}

		deleted, err := store.DeleteCategory(category.ID)
		if err != nil {
			t.Fatalf("DeleteCategory() failed: %v", err)
		}
		if !deleted {
			t.Error("DeleteCategory() = false, want true")
		}
	})

	t.Run("missing id is tolerated", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		deleted, err := store.DeleteCategory(999)
		if err != nil {
			t.Fatalf("DeleteCategory(999) failed: %v", err)
		}
		if deleted {
			t.Error("DeleteCategory(999) = true, want false")
		}
	})

	t.Run("cascades to habits and their progress", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		category, err := store.AddCategory("Health")
		if err != nil {
			t.Fatalf("AddCategory() failed: %v", err)
		}
		habit, err := store.AddHabit("Run", "", &category.ID)
		if err != nil {
			t.Fatalf("AddHabit() failed: %v", err)
		}
		other, err := store.AddHabit("Read", "", nil)
		if err != nil {
			t.Fatalf("AddHabit() failed: %v", err)
		}
		if err := store.AddProgress(habit.ID, "2026-03-01", ""); err != nil {
			t.Fatalf("AddProgress() failed: %v", err)
		}
		if err := store.AddProgress(other.ID, "2026-03-01", ""); err != nil {
			t.Fatalf("AddProgress() failed: %v", err)
		}

		if _, err := store.DeleteCategory(category.ID); err != nil {
			t.Fatalf("DeleteCategory() failed: %v", err)
		}

		if _, err := store.GetHabit(habit.ID); err == nil {
			t.Error("habit in deleted category still exists")
		}
		records, err := store.GetProgressByHabit(habit.ID)
		if err != nil {
			t.Fatalf("GetProgressByHabit() failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("progress for cascaded habit = %d rows, want 0", len(records))
		}

		// The uncategorized habit and its history are untouched.
		if _, err := store.GetHabit(other.ID); err != nil {
			t.Errorf("unrelated habit lost: %v", err)
		}
		records, err = store.GetProgressByHabit(other.ID)
		if err != nil {
			t.Fatalf("GetProgressByHabit() failed: %v", err)
		}
		if len(records) != 1 {
			t.Errorf("progress for unrelated habit = %d rows, want 1", len(records))
		}
	})
}
