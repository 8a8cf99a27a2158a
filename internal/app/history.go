package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nightpulse/nightpulse/internal/output"
	"github.com/nightpulse/nightpulse/internal/sleep"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent nights and their delivery status",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 14, "Maximum number of nights to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	days, err := d.db.GetHistory()
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}
	if historyLimit > 0 && len(days) > historyLimit {
		days = days[:historyLimit]
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(days)
	}

	if len(days) == 0 {
		fmt.Println("No sleep history yet.")
		return nil
	}

	tbl := output.NewTable("Date", "Asleep", "Avg HR", "Email", "Telegram", "Manual")
	for _, day := range days {
		asleep, avg := "—", "—"
		if day.HasData && day.Data != nil {
			asleep = sleep.FormatDuration(day.Data.Duration)
			avg = fmt.Sprintf("%d bpm", day.Data.Stats.Average)
		}
		tbl.AddRow(
			day.Date,
			asleep,
			avg,
			sendBadge(day, sleep.ChannelEmail),
			sendBadge(day, sleep.ChannelTelegram),
			sendBadge(day, sleep.ChannelManual),
		)
	}
	tbl.Print()
	return nil
}

func sendBadge(day sleep.Day, ch sleep.Channel) string {
	rec, ok := day.Sends[ch]
	if !ok {
		return output.StatusBadge("")
	}
	return output.StatusBadge(string(rec.Status))
}
