package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/lexsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
	"github.com/custodia-labs/lexsync/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the dry run whenever the corpus changes",
	Long: `Runs a dry-run reconciliation, then watches the corpus directory and runs
again after every change, rewriting the report and the graph.
Only the filesystem corpus source can be watched. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := requireReconcile(); err != nil {
		return err
	}
	if corpusWatcher == nil {
		return errors.New("watch requires the filesystem corpus source")
	}

	ctx := cmd.Context()
	changes, err := corpusWatcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching corpus: %w", err)
	}

	if err := watchRun(ctx, cmd); err != nil {
		return err
	}
	cmd.Println("Watching for changes...")

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			logger.Debug("Changed: %s", change.Path)
			n := 1 + drain(changes)
			cmd.Printf("%d corpus changes, reconciling...\n", n)
			if err := watchRun(ctx, cmd); err != nil {
				return err
			}
		}
	}
}

// watchRun runs one reconciliation. Fetch and scan failures are printed
// and the watch continues; anything else stops it.
func watchRun(ctx context.Context, cmd *cobra.Command) error {
	result, err := reconcileService.Reconcile(ctx, driving.ReconcileOptions{Mode: domain.RunModeDryRun})
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		if domain.IsFatal(err) {
			cmd.PrintErrf("Reconcile failed: %v\n", err)
			return nil
		}
		return fmt.Errorf("reconcile failed: %w", err)
	}

	if _, _, err := writeArtifacts(result, "", ""); err != nil {
		return err
	}
	cmd.Print(tui.RenderSummary(nil, result.Run.Report.Summary()))
	return nil
}

// drain discards changes already queued and returns how many there were.
func drain(changes <-chan driven.CorpusChange) int {
	n := 0
	for {
		select {
		case _, ok := <-changes:
			if !ok {
				return n
			}
			n++
		default:
			return n
		}
	}
}
