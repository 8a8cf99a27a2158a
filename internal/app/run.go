package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
)

var runInterval string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the delivery scheduler in the foreground",
	Long: `Run the nightpulse scheduler. On startup a full scan runs immediately
(ignoring the active-hours window), then a delivery cycle runs on the
configured interval. If the manual channel is enabled, a daily share
reminder fires at its configured time.

Examples:
  nightpulse run                   # run in foreground (ctrl-c to stop)
  nightpulse run --interval 5m     # cycle every 5 minutes (default: 15m)`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runInterval, "interval", "15m", "Cycle interval as duration string (e.g. 15m, 1h)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	interval, err := time.ParseDuration(runInterval)
	if err != nil {
		return fmt.Errorf("invalid interval %q: %w", runInterval, err)
	}
	if interval < time.Minute {
		return fmt.Errorf("interval must be at least 1m, got %s", interval)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, shutdownSignals...)
	go func() {
		<-sigCh
		cancel()
	}()

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			d.orch.RunCycle(ctx, false)
		}),
	)
	if err != nil {
		return fmt.Errorf("registering delivery job: %w", err)
	}

	if d.cfg.Channels.Manual.Enabled {
		hour, minute, err := parseClock(d.cfg.Channels.Manual.ReminderTime)
		if err != nil {
			return fmt.Errorf("invalid reminder time %q: %w", d.cfg.Channels.Manual.ReminderTime, err)
		}
		_, err = sched.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(hour), uint(minute), 0))),
			gocron.NewTask(func() {
				d.orch.RemindManualShare(ctx)
			}),
		)
		if err != nil {
			return fmt.Errorf("registering reminder job: %w", err)
		}
	}

	d.log.Infow("nightpulse started", "interval", interval)

	// Startup scan runs unrestricted so a night that finished while the
	// process was down is picked up immediately.
	d.orch.RunCycle(ctx, true)

	sched.Start()
	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		d.log.Warnw("scheduler shutdown failed", "error", err)
	}
	d.log.Infow("nightpulse stopped")
	return nil
}

// parseClock parses "HH:MM" into its hour and minute parts.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("bad hour %q", parts[0])
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("bad minute %q", parts[1])
	}
	return hour, minute, nil
}
