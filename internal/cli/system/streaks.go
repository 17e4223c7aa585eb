package system

import (
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/cli"
	"github.com/trailhead-labs/habitkeep/internal/streak"
)

type StreaksCmd struct{}

// Run prints the current streak for every habit with at least one
// completion on record.
func (c *StreaksCmd) Run(ctx *cli.Context) error {
	records, err := ctx.Store.GetProgress()
	if err != nil {
		return err
	}

	summaries := streak.Summarize(records, cli.Today())
	if len(summaries) == 0 {
		fmt.Println("No progress recorded yet.")
		return nil
	}

	fmt.Println("Current streaks:")
	for _, s := range summaries {
		name := s.HabitName
		if name == "" {
			name = fmt.Sprintf("habit %d", s.HabitID)
		}
		fmt.Printf("%3d  %-30s %d day(s)\n", s.HabitID, name, s.Streak)
	}
	return nil
}
