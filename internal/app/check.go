package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	checkForce    bool
	checkScanOnly bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one scan/send/retry cycle and exit",
	Long: `Run a single delivery cycle: scan the recent-night window, analyze and
persist each night, send finished reports to the enabled channels, and
retry queued failures.

Outside the configured active hours the cycle is a no-op unless --force
is given.

Examples:
  nightpulse check               # one cycle, respecting active hours
  nightpulse check --force       # one cycle, ignoring active hours
  nightpulse check --scan-only   # analyze and persist without sending`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkForce, "force", false, "Run even outside active hours")
	checkCmd.Flags().BoolVar(&checkScanOnly, "scan-only", false, "Analyze and persist without sending or retrying")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	d, err := openDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := context.Background()
	if checkScanOnly {
		d.orch.ScanOnly(ctx)
		fmt.Println("Scan complete.")
		return nil
	}

	d.orch.RunCycle(ctx, checkForce)
	fmt.Println("Cycle complete.")
	return nil
}
