package cli

import (
	"time"

	"github.com/trailhead-labs/habitkeep/internal/backup"
	"github.com/trailhead-labs/habitkeep/internal/constants"
	"github.com/trailhead-labs/habitkeep/internal/storage"
)

// Context carries the dependencies commands run against.
type Context struct {
	Store storage.Provider
}

// BackupManager builds a backup manager for the store's database file.
func (c *Context) BackupManager() *backup.Manager {
	return backup.NewManager(c.Store.Path())
}

// Today returns the current calendar day in the application's date format.
func Today() string {
	return time.Now().Format(constants.DateFormat)
}

// ParseDay validates a YYYY-MM-DD argument, defaulting to today when empty.
func ParseDay(s string) (string, error) {
	if s == "" {
		return Today(), nil
	}
	if _, err := time.Parse(constants.DateFormat, s); err != nil {
		return "", err
	}
	return s, nil
}
