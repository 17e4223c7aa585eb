// Package streak derives consecutive-day completion counts from progress
// records. The computation is a pure function of its inputs: "today" is an
// explicit parameter, never read from the system clock here.
package streak

import (
	"sort"
	"time"

	"github.com/trailhead-labs/habitkeep/internal/constants"
	"github.com/trailhead-labs/habitkeep/internal/models"
)

// Summary is a habit's current streak.
type Summary struct {
	HabitID   int64  `json:"habit_id"`
	HabitName string `json:"habit_name"`
	Streak    int    `json:"streak"`
}

// Count returns the length of the consecutive-day run ending at today, or at
// yesterday if today has not been completed yet (a streak in progress isn't
// zeroed out before the day is logged). Dates are YYYY-MM-DD strings;
// duplicates and unparseable entries are ignored. A gap stops the count at
// the gap nearest today; older runs don't contribute.
func Count(dates []string, today string) int {
	if len(dates) == 0 {
		return 0
	}

	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}

	cursor, err := time.Parse(constants.DateFormat, today)
	if err != nil {
		return 0
	}

	if _, ok := set[today]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := set[cursor.Format(constants.DateFormat)]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}

	return streak
}

// Summarize groups progress rows per habit and computes each habit's current
// streak. Only completed records count. Output is ordered by habit id for
// stable display.
func Summarize(records []models.ProgressRow, today string) []Summary {
	type group struct {
		name  string
		dates []string
	}
	groups := map[int64]*group{}

	for _, r := range records {
		if !r.Completed {
			continue
		}
		g, ok := groups[r.HabitID]
		if !ok {
			g = &group{name: r.HabitName}
			groups[r.HabitID] = g
		}
		if g.name == "" {
			g.name = r.HabitName
		}
		g.dates = append(g.dates, r.Date)
	}

	summaries := make([]Summary, 0, len(groups))
	for id, g := range groups {
		summaries = append(summaries, Summary{
			HabitID:   id,
			HabitName: g.name,
			Streak:    Count(g.dates, today),
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].HabitID < summaries[j].HabitID })
	return summaries
}
