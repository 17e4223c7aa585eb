package sqlite

import (
	"path/filepath"
	"strings"
	"testing"
)

// setupTestStore creates an initialized store backed by a temp database.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}

	return store, func() { store.Close() }
}

func TestInitIsIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.Init(); err != nil {
		t.Errorf("second Init() failed: %v", err)
	}
}

func TestOpenWithoutInit(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))

	err := store.Open()
	if err == nil {
		t.Fatal("Open() on a missing database succeeded, want error")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("Open() error = %q, want mention of initialization", err)
	}
}

func TestOpenAfterInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened := NewStore(dbPath)
	if err := reopened.Open(); err != nil {
		t.Fatalf("Open() after Init() failed: %v", err)
	}
	defer reopened.Close()

	habits, err := reopened.GetHabits()
	if err != nil {
		t.Fatalf("GetHabits() failed: %v", err)
	}
	if len(habits) != 0 {
		t.Errorf("GetHabits() on fresh database = %d habits, want 0", len(habits))
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	store, _ := setupTestStore(t)

	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() failed: %v", err)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		name  string
		value string
		ok    bool
	}{
		{"sqlite format", "2026-03-15 09:30:00", true},
		{"rfc3339", "2026-03-15T09:30:00Z", true},
		{"date only", "2026-03-15", false},
		{"garbage", "not a timestamp", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTimestamp(tc.value)
			if tc.ok && err != nil {
				t.Errorf("parseTimestamp(%q) failed: %v", tc.value, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("parseTimestamp(%q) succeeded, want error", tc.value)
			}
		})
	}
}
