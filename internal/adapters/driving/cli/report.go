package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

var reportJSON bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the latest stored run",
	Long:  `Prints the match report of the most recent reconciliation from run history.`,
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	if reconcileService == nil {
		return errors.New("reconcile service not configured")
	}

	run, err := reconcileService.LatestRun(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			cmd.Println("No runs recorded yet. Run 'lexsync reconcile' first.")
			return nil
		}
		return fmt.Errorf("loading run history: %w", err)
	}

	if reportJSON {
		return printReportJSON(cmd.OutOrStdout(), run.Report)
	}

	cmd.Printf("Run %s (%s), started %s, took %s\n", run.ID, run.Mode,
		run.StartedAt.Local().Format("2006-01-02 15:04:05"),
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
	cmd.Println()
	printReport(cmd.OutOrStdout(), &run.Report)

	if run.Applied != nil {
		cmd.Println()
		printApplySummary(cmd, run.Applied)
	}
	return nil
}
