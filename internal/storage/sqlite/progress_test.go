package sqlite

import (
	"testing"
)

func TestAddProgress(t *testing.T) {
	t.Run("records a day", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		habit, err := store.AddHabit("Run", "", nil)
		if err != nil {
			t.Fatalf("AddHabit() failed: %v", err)
		}

		if err := store.AddProgress(habit.ID, "2026-03-01", "5km"); err != nil {
			t.Fatalf("AddProgress() failed: %v", err)
		}

		records, err := store.GetProgressByHabit(habit.ID)
		if err != nil {
			t.Fatalf("GetProgressByHabit() failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("progress = %d rows, want 1", len(records))
		}
		r := records[0]
		if r.Date != "2026-03-01" || !r.Completed || r.CustomValue != "5km" {
			t.Errorf("record = %+v, want completed 2026-03-01 with value 5km", r)
		}
		if r.HabitName != "Run" {
			t.Errorf("record habit name = %q, want %q", r.HabitName, "Run")
		}
	})

	t.Run("same day upserts to one row", func(t *testing.T) {
		store, cleanup := setupTestStore(t)
		defer cleanup()

		habit, err := store.AddHabit("Run", "", nil)
		if err != nil {
			t.Fatalf("AddHabit() failed: %v", err)
		}

		if err := store.AddProgress(habit.ID, "2026-03-01", "3km"); err != nil {
			t.Fatalf("AddProgress() failed: %v", err)
		}
		if err := store.AddProgress(habit.ID, "2026-03-01", "8km"); err != nil {
			t.Fatalf("second AddProgress() failed: %v", err)
		}

		records, err := store.GetProgressByHabit(habit.ID)
		if err != nil {
			t.Fatalf("GetProgressByHabit() failed: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("progress after double mark = %d rows, want 1", len(records))
		}
		if records[0].CustomValue != "8km" {
			t.Errorf("custom value = %q, want the later %q", records[0].CustomValue, "8km")
		}
	})
}

func TestRemoveProgress(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	habit, err := store.AddHabit("Run", "", nil)
	if err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	if err := store.AddProgress(habit.ID, "2026-03-01", ""); err != nil {
		t.Fatalf("AddProgress() failed: %v", err)
	}

	removed, err := store.RemoveProgress(habit.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("RemoveProgress() failed: %v", err)
	}
	if !removed {
		t.Error("RemoveProgress() = false, want true")
	}

	removed, err = store.RemoveProgress(habit.ID, "2026-03-01")
	if err != nil {
		t.Fatalf("second RemoveProgress() failed: %v", err)
	}
	if removed {
		t.Error("second RemoveProgress() = true, want false")
	}
}

func TestGetProgress(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	run, err := store.AddHabit("Run", "", nil)
	if err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}
	read, err := store.AddHabit("Read", "", nil)
	if err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}

	if err := store.AddProgress(run.ID, "2026-03-01", ""); err != nil {
		t.Fatalf("AddProgress() failed: %v", err)
	}
	if err := store.AddProgress(read.ID, "2026-03-02", ""); err != nil {
		t.Fatalf("AddProgress() failed: %v", err)
	}

	records, err := store.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("GetProgress() = %d rows, want 2", len(records))
	}
	if records[0].Date != "2026-03-02" {
		t.Errorf("GetProgress()[0].Date = %q, want newest first", records[0].Date)
	}

	// A habit sitting in the recycle bin loses its live name, not its rows.
	if err := store.DeleteHabit(run.ID); err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}
	records, err = store.GetProgress()
	if err != nil {
		t.Fatalf("GetProgress() after delete failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("GetProgress() after delete = %d rows, want 2", len(records))
	}
	for _, r := range records {
		if r.HabitID == run.ID && r.HabitName != "" {
			t.Errorf("binned habit row kept name %q, want empty", r.HabitName)
		}
	}
}
