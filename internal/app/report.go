package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nightpulse/nightpulse/internal/health"
	"github.com/nightpulse/nightpulse/internal/output"
	"github.com/nightpulse/nightpulse/internal/report"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

var reportDate string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the sleep report for a date",
	Long: `Display the analyzed sleep report for a date (default: today). The
persisted record is used when one exists; otherwise the night is analyzed
on the fly from the health export without being persisted.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Date to report on (YYYY-MM-DD, default: today)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	date := reportDate
	if date == "" {
		date = sleep.DateKey(time.Now())
	}
	if _, err := time.ParseInLocation(sleep.DateFormat, date, time.Local); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	day, err := d.db.GetSleepDay(date)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if day == nil {
		forDate, _ := time.ParseInLocation(sleep.DateFormat, date, time.Local)
		provider := health.NewExportProvider(d.cfg.HealthExportDir, d.log)
		fresh := sleep.NewDay(context.Background(), provider, forDate)
		day = &fresh
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(day)
	}

	if !day.HasData || day.Data == nil {
		fmt.Printf("No sleep data for %s.\n", date)
		return nil
	}

	printReport(*day)
	return nil
}

func printReport(day sleep.Day) {
	data := day.Data

	fmt.Println(output.Section(fmt.Sprintf("Sleep Report — %s", report.DisplayDate(day.Date))))
	fmt.Println()
	fmt.Printf(" %s%s\n", output.StyleLabel.Render("Bedtime"), output.StyleValue.Render(sleep.FormatClock(data.SleepStart)))
	fmt.Printf(" %s%s\n", output.StyleLabel.Render("Wake time"), output.StyleValue.Render(sleep.FormatClock(data.SleepEnd)))
	fmt.Printf(" %s%s\n", output.StyleLabel.Render("Time asleep"), output.StyleValue.Render(sleep.FormatDuration(data.Duration)))
	fmt.Printf(" %s%s\n", output.StyleLabel.Render("Average heart rate"), output.StyleValue.Render(fmt.Sprintf("%d bpm", data.Stats.Average)))
	fmt.Printf(" %s%s %s\n", output.StyleLabel.Render("Lowest heart rate"),
		output.StyleValue.Render(fmt.Sprintf("%d bpm", data.Stats.Min)),
		output.StyleMuted.Render("at "+sleep.FormatClock(data.Stats.MinTime)))
	fmt.Printf(" %s%s %s\n", output.StyleLabel.Render("Highest heart rate"),
		output.StyleValue.Render(fmt.Sprintf("%d bpm", data.Stats.Max)),
		output.StyleMuted.Render("at "+sleep.FormatClock(data.Stats.MaxTime)))

	fmt.Println(output.Section("Phases"))
	fmt.Println()
	for _, phase := range health.Phases {
		ps, ok := data.Phases[phase]
		if !ok || ps.Duration == 0 {
			continue
		}
		frac := 0.0
		if data.Duration > 0 {
			frac = float64(ps.Duration) / float64(data.Duration)
		}
		fmt.Printf(" %s%s  %s\n",
			output.StyleLabel.Render(string(phase)),
			output.StyleValue.Render(sleep.FormatDuration(ps.Duration)),
			output.PhaseBar(frac, 20))
	}

	if len(day.Sends) > 0 {
		fmt.Println(output.Section("Delivery"))
		fmt.Println()
		for ch, rec := range day.Sends {
			fmt.Printf(" %s%s\n", output.StyleLabel.Render(string(ch)), output.StatusBadge(string(rec.Status)))
		}
	}
	fmt.Println()
}
