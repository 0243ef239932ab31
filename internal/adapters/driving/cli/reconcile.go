package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexsync/internal/adapters/driven/output"
	"github.com/custodia-labs/lexsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

var (
	reconcileLimit  int
	reconcileReport string
	reconcileGraph  string
	reconcileJSON   bool
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Match registry records to corpus files (dry run)",
	Long: `Fetches every registry record, scans the corpus, classifies each record
as Matched, Ambiguous or Unmatched, and writes the match report and the
relationship graph. Nothing is written to the registry.

A completed run exits 0 whatever it found. Only registry fetch, corpus
scan and configuration failures exit non-zero.`,
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().IntVarP(&reconcileLimit, "limit", "n", 0, "report at most N registry records (0 = all)")
	reconcileCmd.Flags().StringVar(&reconcileReport, "report", "", "match report path (default from output.report)")
	reconcileCmd.Flags().StringVar(&reconcileGraph, "graph", "", "relationship graph path (default from output.graph)")
	reconcileCmd.Flags().BoolVar(&reconcileJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	if err := requireReconcile(); err != nil {
		return err
	}

	result, err := reconcileService.Reconcile(cmd.Context(), driving.ReconcileOptions{
		Limit: reconcileLimit,
		Mode:  domain.RunModeDryRun,
	})
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	reportPath, graphPath, err := writeArtifacts(result, reconcileReport, reconcileGraph)
	if err != nil {
		return err
	}

	if reconcileJSON {
		return printReportJSON(cmd.OutOrStdout(), result.Run.Report)
	}

	printReport(cmd.OutOrStdout(), &result.Run.Report)
	cmd.Println()
	cmd.Printf("Report written to %s\n", reportPath)
	cmd.Printf("Graph written to %s\n", graphPath)
	return nil
}

// writeArtifacts writes the report and the graph, falling back to the
// configured paths. It returns the paths written.
func writeArtifacts(result *driving.RunResult, reportPath, graphPath string) (string, string, error) {
	if artifactStore == nil {
		return "", "", fmt.Errorf("%w: artifact output", domain.ErrNotConfigured)
	}
	if reportPath == "" {
		reportPath = outputSettings.ReportPath
	}
	if graphPath == "" {
		graphPath = outputSettings.GraphPath
	}

	if err := artifactStore.WriteReport(reportPath, result.Run.Report); err != nil {
		return "", "", fmt.Errorf("writing report: %w", err)
	}
	if err := artifactStore.WriteGraph(graphPath, result.Graph); err != nil {
		return "", "", fmt.Errorf("writing graph: %w", err)
	}
	return reportPath, graphPath, nil
}

func printReport(w io.Writer, report *domain.Report) {
	fmt.Fprint(w, tui.RenderSummary(nil, report.Summary()))
	if details := tui.RenderResults(nil, report); details != "" {
		fmt.Fprintln(w)
		fmt.Fprint(w, details)
	}
}

func printReportJSON(w io.Writer, report domain.Report) error {
	data, err := output.MarshalReport(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
