package system

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/trailhead-labs/habitkeep/internal/cli"
	"github.com/trailhead-labs/habitkeep/internal/constants"
	"github.com/trailhead-labs/habitkeep/internal/logger"
	"github.com/trailhead-labs/habitkeep/internal/scheduler"
)

type WatchCmd struct {
	Interval  time.Duration `short:"i" default:"24h" help:"How often to snapshot the database."`
	SweepHour int           `default:"3" help:"Hour of day (0-23) for the recycle bin sweep."`
}

// Run starts the backup sidecar and blocks until interrupted. A snapshot is
// taken immediately, then repeated on the configured interval, with a daily
// sweep dropping recycle bin entries past the retention window.
func (c *WatchCmd) Run(ctx *cli.Context) error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}

	mgr := ctx.BackupManager()
	if err := mgr.StartAuto(c.Interval); err != nil {
		return fmt.Errorf("starting backup schedule: %w", err)
	}
	defer mgr.StopAuto()

	sched := scheduler.New(time.Local)
	if _, err := sched.ScheduleDaily(c.SweepHour, func() {
		purged, err := ctx.Store.CleanRecycleBin()
		if err != nil {
			logger.Error("recycle bin sweep failed", "error", err)
			return
		}
		if purged > 0 {
			logger.Info("recycle bin sweep", "purged", purged)
		}
	}); err != nil {
		return fmt.Errorf("scheduling recycle bin sweep: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	fmt.Printf("Watching %s (backup every %s, retention %d days). Press Ctrl+C to stop.\n",
		ctx.Store.Path(), c.Interval, constants.RecycleBinRetentionDays)

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	fmt.Println("Shutting down.")
	return nil
}
