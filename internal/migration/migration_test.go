package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sqlFS(files map[string]string) fstest.MapFS {
	m := fstest.MapFS{}
	for name, content := range files {
		m[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return m
}

func TestLoad(t *testing.T) {
	t.Run("sorted by version", func(t *testing.T) {
		r := NewRunner(nil, sqlFS(map[string]string{
			"002_second.sql": "CREATE TABLE b (id INTEGER);",
			"001_first.sql":  "CREATE TABLE a (id INTEGER);",
			"010_tenth.sql":  "CREATE TABLE c (id INTEGER);",
			"README.md":      "not a migration",
		}))

		migrations, err := r.Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if len(migrations) != 3 {
			t.Fatalf("Load() = %d migrations, want 3", len(migrations))
		}
		for i, want := range []int{1, 2, 10} {
			if migrations[i].Version != want {
				t.Errorf("migrations[%d].Version = %d, want %d", i, migrations[i].Version, want)
			}
		}
		if migrations[0].Name != "first" {
			t.Errorf("migrations[0].Name = %q, want %q", migrations[0].Name, "first")
		}
	})

	t.Run("rejects bad filenames", func(t *testing.T) {
		for _, name := range []string{"noversion.sql", "abc_bad.sql", "000_zero.sql"} {
			r := NewRunner(nil, sqlFS(map[string]string{name: "SELECT 1;"}))
			if _, err := r.Load(); err == nil {
				t.Errorf("Load() with %s succeeded, want error", name)
			}
		}
	})

	t.Run("rejects duplicate versions", func(t *testing.T) {
		r := NewRunner(nil, sqlFS(map[string]string{
			"001_first.sql": "SELECT 1;",
			"001_other.sql": "SELECT 1;",
		}))
		_, err := r.Load()
		if err == nil || !strings.Contains(err.Error(), "duplicate") {
			t.Errorf("Load() with duplicate versions = %v, want duplicate error", err)
		}
	})
}

func TestApply(t *testing.T) {
	fsys := sqlFS(map[string]string{
		"001_users.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);",
		"002_email.sql": "ALTER TABLE users ADD COLUMN email TEXT;",
	})

	db := openTestDB(t)
	r := NewRunner(db, fsys)

	applied, err := r.Apply()
	if err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if applied != 2 {
		t.Errorf("Apply() = %d, want 2", applied)
	}

	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() failed: %v", err)
	}
	if version != 2 {
		t.Errorf("CurrentVersion() = %d, want 2", version)
	}

	if _, err := db.Exec("INSERT INTO users (name, email) VALUES ('a', 'a@example.com')"); err != nil {
		t.Errorf("migrated schema unusable: %v", err)
	}

	// A second run has nothing to do.
	applied, err = r.Apply()
	if err != nil {
		t.Fatalf("second Apply() failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Apply() = %d, want 0", applied)
	}
}

func TestApplyFailedMigrationRollsBack(t *testing.T) {
	db := openTestDB(t)
	r := NewRunner(db, sqlFS(map[string]string{
		"001_good.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
		"002_bad.sql":  "THIS IS NOT SQL;",
	}))

	applied, err := r.Apply()
	if err == nil {
		t.Fatal("Apply() with broken migration succeeded, want error")
	}
	if applied != 1 {
		t.Errorf("Apply() = %d before failing, want 1", applied)
	}

	// The version stopped at the last good migration.
	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion() failed: %v", err)
	}
	if version != 1 {
		t.Errorf("CurrentVersion() after failure = %d, want 1", version)
	}
}

func TestValidate(t *testing.T) {
	db := openTestDB(t)
	fsys := sqlFS(map[string]string{
		"001_users.sql": "CREATE TABLE users (id INTEGER PRIMARY KEY);",
	})
	r := NewRunner(db, fsys)

	if err := r.Validate(); err != nil {
		t.Errorf("Validate() on fresh database failed: %v", err)
	}

	if _, err := r.Apply(); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}
	if err := r.Validate(); err != nil {
		t.Errorf("Validate() on current database failed: %v", err)
	}

	// A database written by a newer binary is rejected.
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bumping schema version failed: %v", err)
	}
	if err := r.Validate(); err == nil {
		t.Error("Validate() on newer schema succeeded, want error")
	}
}
