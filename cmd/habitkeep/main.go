package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/trailhead-labs/habitkeep/internal/backup"
	"github.com/trailhead-labs/habitkeep/internal/cli"
	"github.com/trailhead-labs/habitkeep/internal/cli/backups"
	"github.com/trailhead-labs/habitkeep/internal/cli/bin"
	"github.com/trailhead-labs/habitkeep/internal/cli/categories"
	"github.com/trailhead-labs/habitkeep/internal/cli/habits"
	"github.com/trailhead-labs/habitkeep/internal/cli/system"
	"github.com/trailhead-labs/habitkeep/internal/constants"
	"github.com/trailhead-labs/habitkeep/internal/errors"
	"github.com/trailhead-labs/habitkeep/internal/logger"
	"github.com/trailhead-labs/habitkeep/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Db      string `help:"Database file path." type:"path" default:"~/.config/habitkeep/habitkeep.db"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init     system.InitCmd         `cmd:"" help:"Initialize habitkeep storage."`
	Category categories.CategoryCmd `cmd:"" help:"Manage habit categories."`
	Habit    habits.HabitCmd        `cmd:"" help:"Manage habits and daily progress."`
	Bin      bin.BinCmd             `cmd:"" help:"Inspect and manage the recycle bin."`
	Backup   backups.BackupCmd      `cmd:"" help:"Manage database backups."`
	Streaks  system.StreaksCmd      `cmd:"" help:"Show current streaks for all habits."`
	Watch    system.WatchCmd        `cmd:"" help:"Run the periodic backup sidecar."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with categories, streaks, and automatic backups"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Db),
	}); err != nil {
		// Logging is best-effort; commands still work without it.
		fmt.Fprintf(os.Stderr, "Warning: could not set up logging: %v\n", err)
	}

	store := sqlite.NewStore(CLI.Db)
	appCtx := &cli.Context{Store: store}

	// Init handles its own setup; every other command needs an opened store,
	// recovered from the newest backup first if the database file is gone.
	if sel := ctx.Selected(); sel != nil && sel.Name != "init" {
		restored, err := backup.NewManager(CLI.Db).CheckAndRestore()
		if err != nil {
			logger.Warn("startup restore check failed", "error", err)
		} else if restored {
			fmt.Println("Database file was missing; restored from the latest backup.")
		}

		errors.Fatal(store.Open())
		defer store.Close()
	}

	errors.Fatal(ctx.Run(appCtx))
}
