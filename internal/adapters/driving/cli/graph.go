package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

var graphPathFlag string

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Rebuild the relationship graph",
	Long: `Runs a dry-run reconciliation and writes only the relationship graph
consumed by the navigation layer.`,
	Args: cobra.NoArgs,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringVar(&graphPathFlag, "graph", "", "relationship graph path (default from output.graph)")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, _ []string) error {
	if err := requireReconcile(); err != nil {
		return err
	}
	if artifactStore == nil {
		return fmt.Errorf("%w: artifact output", domain.ErrNotConfigured)
	}

	result, err := reconcileService.Reconcile(cmd.Context(), driving.ReconcileOptions{Mode: domain.RunModeDryRun})
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}

	path := graphPathFlag
	if path == "" {
		path = outputSettings.GraphPath
	}
	if err := artifactStore.WriteGraph(path, result.Graph); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}

	cmd.Printf("Graph: %d documents, %d dangling references\n",
		len(result.Graph.DocumentKeys()), len(result.Graph.Dangling()))
	cmd.Printf("Written to %s\n", path)
	return nil
}
