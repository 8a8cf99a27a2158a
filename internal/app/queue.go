package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nightpulse/nightpulse/internal/output"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Show pending delivery retries",
	RunE:  runQueue,
}

func init() {
	rootCmd.AddCommand(queueCmd)
}

func runQueue(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	items, err := d.db.OldestPending(0)
	if err != nil {
		return fmt.Errorf("reading queue: %w", err)
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	}

	if len(items) == 0 {
		fmt.Println("Retry queue is empty.")
		return nil
	}

	tbl := output.NewTable("Date", "Channel", "Attempts", "Last Attempt", "Queued Since")
	for _, item := range items {
		last := "—"
		if !item.LastAttempt.IsZero() {
			last = item.LastAttempt.Local().Format("2006-01-02 15:04")
		}
		tbl.AddRow(
			item.Date,
			string(item.Channel),
			fmt.Sprintf("%d", item.Attempts),
			last,
			item.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}
	tbl.Print()
	return nil
}
