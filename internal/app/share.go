package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nightpulse/nightpulse/internal/chart"
	"github.com/nightpulse/nightpulse/internal/report"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

var shareDate string

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Export a report to the share directory",
	Long: `Write the report text and chart image for a date (default: today) into
the configured share directory, and mark the manual channel as shared for
that date.`,
	RunE: runShare,
}

func init() {
	shareCmd.Flags().StringVar(&shareDate, "date", "", "Date to share (YYYY-MM-DD, default: today)")
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	date := shareDate
	if date == "" {
		date = sleep.DateKey(time.Now())
	}

	day, err := d.db.GetSleepDay(date)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if day == nil || !day.HasData {
		return fmt.Errorf("no sleep data for %s", date)
	}

	shareDir := d.cfg.Channels.Manual.ShareDir
	if err := os.MkdirAll(shareDir, 0o755); err != nil {
		return fmt.Errorf("creating share dir: %w", err)
	}

	text := report.Generate(*day, report.FormatPlain, report.Options{
		UserName:        d.cfg.UserName,
		IncludeMetadata: flagVerbose,
	})
	textPath := filepath.Join(shareDir, fmt.Sprintf("sleep_report_%s.txt", date))
	if err := os.WriteFile(textPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing report text: %w", err)
	}

	charts := chart.NewRenderer(shareDir, d.log)
	chartPath, err := charts.Generate(*day)
	if err != nil {
		// The text report alone is still worth sharing.
		d.log.Warnw("chart generation failed", "date", date, "error", err)
		chartPath = ""
	}

	if err := d.db.UpdateSendStatus(date, sleep.ChannelManual, sleep.StatusShared); err != nil {
		return fmt.Errorf("recording share: %w", err)
	}

	fmt.Printf("Shared report for %s:\n  %s\n", date, textPath)
	if chartPath != "" {
		fmt.Printf("  %s\n", chartPath)
	}
	return nil
}
