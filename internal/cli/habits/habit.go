package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/trailhead-labs/habitkeep/internal/cli"
	"github.com/trailhead-labs/habitkeep/internal/constants"
	"github.com/trailhead-labs/habitkeep/internal/streak"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
	List    HabitListCmd    `cmd:"" help:"List habits." default:"1"`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit with its progress history."`
	Mark    HabitMarkCmd    `cmd:"" help:"Mark a habit as done for a day."`
	Unmark  HabitUnmarkCmd  `cmd:"" help:"Remove a day's completion record."`
	Log     HabitLogCmd     `cmd:"" help:"Show habit history as an ASCII grid."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Move a habit to the recycle bin."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a habit from the recycle bin."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description." short:"d"`
	Category    *int64 `help:"Category id." short:"c"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("habit name must not be empty")
	}

	habit, err := ctx.Store.AddHabit(c.Name, c.Description, c.Category)
	if err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (id %d)\n", habit.Name, habit.ID)
	return nil
}

type HabitEditCmd struct {
	ID          int64  `arg:"" help:"Habit id."`
	Name        string `help:"New name."`
	Description string `help:"New description." short:"d"`
	Category    *int64 `help:"New category id." short:"c"`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(c.ID)
	if err != nil {
		return err
	}

	name := habit.Name
	if c.Name != "" {
		name = c.Name
	}
	description := habit.Description
	if c.Description != "" {
		description = c.Description
	}
	categoryID := habit.CategoryID
	if c.Category != nil {
		categoryID = c.Category
	}

	if err := ctx.Store.UpdateHabit(c.ID, name, description, categoryID); err != nil {
		return err
	}

	fmt.Printf("Updated habit %d.\n", c.ID)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetHabits()
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		category := "-"
		if habit.CategoryID != nil {
			category = fmt.Sprintf("%d", *habit.CategoryID)
		}
		fmt.Printf("%3d  %-30s category:%s\n", habit.ID, habit.Name, category)
	}
	return nil
}

type HabitShowCmd struct {
	ID int64 `arg:"" help:"Habit id."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Habit: %s (id %d)\n", habit.Name, habit.ID)
	if habit.Description != "" {
		fmt.Printf("Description: %s\n", habit.Description)
	}
	if habit.CategoryID != nil {
		fmt.Printf("Category: %d\n", *habit.CategoryID)
	}
	fmt.Printf("Added: %s\n", habit.AddedAt.Format(constants.DateFormat))

	records, err := ctx.Store.GetProgressByHabit(c.ID)
	if err != nil {
		return err
	}

	var dates []string
	for _, r := range records {
		if r.Completed {
			dates = append(dates, r.Date)
		}
	}
	fmt.Printf("Current streak: %d day(s)\n", streak.Count(dates, cli.Today()))

	if len(records) == 0 {
		fmt.Println("No progress recorded yet.")
		return nil
	}

	fmt.Println("\nHistory (newest first):")
	for _, r := range records {
		line := "  " + r.Date
		if r.CustomValue != "" {
			line += "  " + r.CustomValue
		}
		fmt.Println(line)
	}
	return nil
}

type HabitMarkCmd struct {
	ID    int64  `arg:"" help:"Habit id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
	Value string `help:"Optional custom value for this day (e.g. '2km')."`
}

func (c *HabitMarkCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
	}

	habit, err := ctx.Store.GetHabit(c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.AddProgress(habit.ID, day, c.Value); err != nil {
		return err
	}

	fmt.Printf("Marked %q for %s\n", habit.Name, day)
	return nil
}

type HabitUnmarkCmd struct {
	ID   int64  `arg:"" help:"Habit id."`
	Date string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitUnmarkCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(c.Date)
	if err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", c.Date)
	}

	removed, err := ctx.Store.RemoveProgress(c.ID, day)
	if err != nil {
		return err
	}
	if !removed {
		fmt.Printf("No record for habit %d on %s.\n", c.ID, day)
		return nil
	}

	fmt.Printf("Unmarked habit %d for %s\n", c.ID, day)
	return nil
}

type HabitLogCmd struct {
	Days int `help:"Number of days to show." default:"14"`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetHabits()
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	records, err := ctx.Store.GetProgress()
	if err != nil {
		return err
	}

	done := make(map[int64]map[string]bool)
	for _, r := range records {
		if !r.Completed {
			continue
		}
		if done[r.HabitID] == nil {
			done[r.HabitID] = make(map[string]bool)
		}
		done[r.HabitID][r.Date] = true
	}

	end := time.Now()
	start := end.AddDate(0, 0, -(c.Days - 1))

	const nameWidth = 20
	fmt.Printf("Habit log (last %d days):\n\n", c.Days)
	fmt.Print(strings.Repeat(" ", nameWidth))
	for i := 0; i < c.Days; i++ {
		fmt.Printf(" %5s", start.AddDate(0, 0, i).Format("01/02"))
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", nameWidth+6*c.Days))

	for _, habit := range habits {
		name := habit.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		}
		fmt.Printf("%-*s", nameWidth, name)

		for i := 0; i < c.Days; i++ {
			day := start.AddDate(0, 0, i).Format(constants.DateFormat)
			if done[habit.ID][day] {
				fmt.Print("  x   ")
			} else {
				fmt.Print("  .   ")
			}
		}
		fmt.Println()
	}

	return nil
}

type HabitDeleteCmd struct {
	ID int64 `arg:"" help:"Habit id to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabit(c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Moved habit %q to the recycle bin.\n", habit.Name)
	fmt.Println("(Use 'habitkeep habit restore' or 'habitkeep bin restore' to undo.)")
	return nil
}

type HabitRestoreCmd struct {
	ID int64 `arg:"" help:"Habit id to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
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
