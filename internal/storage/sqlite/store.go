// Package sqlite implements the storage.Provider interface on an embedded
// SQLite database via modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trailhead-labs/habitkeep/internal/migration"
	"github.com/trailhead-labs/habitkeep/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Init creates the database directory, opens the database, and applies all
// pending schema migrations. Any schema failure is returned, not swallowed.
// Safe to call on an already-initialized database.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, s.migrationFS())
	if _, err := runner.Apply(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Open connects to an existing database and validates its schema version.
func (s *Store) Open() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'habitkeep init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, s.migrationFS())
	return runner.Validate()
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer; a pool of one keeps application-level
	// read-modify-write sequences from interleaving.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) Path() string {
	return s.path
}

// DB returns the underlying database connection, or nil before Init/Open.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrationFS() fs.FS {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// The embedded tree always contains sqlite/; reaching this means a
		// broken build.
		panic(fmt.Sprintf("embedded migrations missing: %v", err))
	}
	return subFS
}

// timestampFormats covers SQLite's CURRENT_TIMESTAMP format plus RFC 3339,
// which earlier data files used.
var timestampFormats = []string{"2006-01-02 15:04:05", time.RFC3339}

func parseTimestamp(value string) (time.Time, error) {
	var lastErr error
	for _, format := range timestampFormats {
		t, err := time.Parse(format, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q: %w", value, lastErr)
}
