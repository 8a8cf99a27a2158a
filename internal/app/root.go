// Package app contains the Cobra command tree for nightpulse.
package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "nightpulse",
	Short: "Sleep report analysis and delivery",
	Long: `nightpulse reads nightly heart-rate and sleep-phase data from a health
data export, derives cleaned per-phase statistics, and delivers a formatted
report to the configured channels once the night's sleep is judged complete.
Failed deliveries are queued and retried automatically.

Run 'nightpulse' with no arguments to see available subcommands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("nightpulse", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  run       Run the delivery scheduler in the foreground")
		fmt.Println("  check     Run one scan/send/retry cycle and exit")
		fmt.Println("  report    Show the sleep report for a date")
		fmt.Println("  history   List recent nights and their delivery status")
		fmt.Println("  queue     Show pending delivery retries")
		fmt.Println("  share     Export a report to the share directory")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/nightpulse/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}
