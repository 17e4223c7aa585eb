package bin

import (
	"fmt"

	"github.com/trailhead-labs/habitkeep/internal/cli"
	"github.com/trailhead-labs/habitkeep/internal/constants"
)

type BinCmd struct {
	List    BinListCmd    `cmd:"" help:"List habits in the recycle bin." default:"1"`
	Restore BinRestoreCmd `cmd:"" help:"Restore a habit from the recycle bin."`
	Purge   BinPurgeCmd   `cmd:"" help:"Permanently delete a habit from the recycle bin."`
	Clean   BinCleanCmd   `cmd:"" help:"Remove entries deleted more than 30 days ago."`
}

type BinListCmd struct{}

func (c *BinListCmd) Run(ctx *cli.Context) error {
	entries, err := ctx.Store.GetDeletedHabits()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("Recycle bin is empty.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%3d  %-30s deleted %s\n",
			e.HabitID, e.HabitName, e.DeletedAt.Format(constants.DateFormat))
	}
	return nil
}

type BinRestoreCmd struct {
	ID int64 `arg:"" help:"Habit id to restore."`
}

func (c *BinRestoreCmd) Run(ctx *cli.Context) error {
	restored, err := ctx.Store.RestoreHabit(c.ID)
	if err != nil {
		return err
	}
	if !restored {
		fmt.Printf("Habit %d is not in the recycle bin.\n", c.ID)
		return nil
	}

	fmt.Printf("Restored habit %d.\n", c.ID)
	return nil
}

type BinPurgeCmd struct {
	ID int64 `arg:"" help:"Habit id to permanently delete."`
}

func (c *BinPurgeCmd) Run(ctx *cli.Context) error {
	purged, err := ctx.Store.DeleteHabitPermanently(c.ID)
	if err != nil {
		return err
	}
	if !purged {
		fmt.Printf("Habit %d is not in the recycle bin.\n", c.ID)
		return nil
	}

	fmt.Printf("Permanently deleted habit %d.\n", c.ID)
	return nil
}

type BinCleanCmd struct{}

func (c *BinCleanCmd) Run(ctx *cli.Context) error {
	removed, err := ctx.Store.CleanRecycleBin()
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d expired entr%s from the recycle bin.\n",
		removed, pluralY(removed))
	return nil
}

func pluralY(n int64) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
