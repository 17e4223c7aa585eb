package models

import "time"

// Habit represents a recurring practice to track.
type Habit struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	AddedAt     time.Time `json:"added_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProgressRow is a progress record joined with the habit's current name,
// as returned by the read paths. HabitName is empty when the habit row is
// absent (e.g. sitting in the recycle bin).
type ProgressRow struct {
	HabitID     int64  `json:"habit_id"`
	HabitName   string `json:"habit_name"`
	Date        string `json:"date"`
	Completed   bool   `json:"completed"`
	CustomValue string `json:"custom_value,omitempty"`
}

// RecycleBinEntry is the denormalized snapshot of a deleted habit. The habit
// row itself is gone, so the snapshot is the only record of what it was.
type RecycleBinEntry struct {
	ID          int64      `json:"id"`
	HabitID     int64      `json:"habit_id"`
	HabitName   string     `json:"habit_name"`
	Description string     `json:"habit_description,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	AddedAt     *time.Time `json:"added_at,omitempty"`
	DeletedAt   time.Time  `json:"deleted_at"`
}
