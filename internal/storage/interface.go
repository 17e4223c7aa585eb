package storage

import "github.com/trailhead-labs/habitkeep/internal/models"

// Provider is the persistence gateway. Implementations are constructed
// explicitly and carry their own lifecycle; there is no package-level handle.
//
// Operations that tolerate a missing target (restore, permanent delete,
// progress removal) report it through their bool result instead of an error,
// so callers can tell "nothing to do" from a failed write.
type Provider interface {
	// Lifecycle
	Init() error
	Open() error
	Close() error

	// Categories
	AddCategory(name string) (models.Category, error)
	GetCategories() ([]models.Category, error)
	DeleteCategory(id int64) (bool, error)

	// Habits
	AddHabit(name, description string, categoryID *int64) (models.Habit, error)
	UpdateHabit(id int64, name, description string, categoryID *int64) error
	GetHabit(id int64) (models.Habit, error)
	GetHabits() ([]models.Habit, error)

	// Recycle bin
	DeleteHabit(id int64) error
	RestoreHabit(id int64) (bool, error)
	DeleteHabitPermanently(id int64) (bool, error)
	GetDeletedHabits() ([]models.RecycleBinEntry, error)
	CleanRecycleBin() (int64, error)

	// Progress
	AddProgress(habitID int64, date, customValue string) error
	RemoveProgress(habitID int64, date string) (bool, error)
	GetProgressByHabit(habitID int64) ([]models.ProgressRow, error)
	GetProgress() ([]models.ProgressRow, error)

	// Path returns the path of the underlying database file.
	Path() string
}
