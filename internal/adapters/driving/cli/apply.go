package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/lexsync/internal/adapters/driving/tui"
	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

var (
	applyLimit int
	applyYes   bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Create registry records for corpus files that have none",
	Long: `Runs a reconciliation, then proposes one new registry record for every
corpus file no record claimed. Each record is confirmed before it is
written, unless --yes is given.

Answers: y = create, n = skip, a = create this and all remaining,
q = skip this and all remaining.

A failed write is reported and the remaining records are still offered.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().IntVarP(&applyLimit, "limit", "n", 0, "report at most N registry records (0 = all)")
	applyCmd.Flags().BoolVarP(&applyYes, "yes", "y", false, "create every proposed record without asking")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	if err := requireReconcile(); err != nil {
		return err
	}

	ctx := cmd.Context()
	result, err := reconcileService.Reconcile(ctx, driving.ReconcileOptions{
		Limit: applyLimit,
		Mode:  domain.RunModeApply,
	})
	if err != nil {
		return fmt.Errorf("reconcile failed: %w", err)
	}
	if _, _, err := writeArtifacts(result, "", ""); err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), &result.Run.Report)
	cmd.Println()

	candidates := reconcileService.Candidates(result)
	if len(candidates) == 0 {
		cmd.Println("Nothing to create: every parseable corpus file has a registry record.")
		return nil
	}
	cmd.Printf("%d registry records to create.\n", len(candidates))

	summary, err := reconcileService.Apply(ctx, result, confirmFunc(cmd, len(candidates)))
	if summary != nil {
		cmd.Println()
		printApplySummary(cmd, summary)
	}
	if err != nil {
		return fmt.Errorf("apply stopped: %w", err)
	}
	return nil
}

// confirmFunc picks the prompt: none with --yes, the interactive prompt on
// a terminal, a line prompt otherwise.
func confirmFunc(cmd *cobra.Command, total int) driving.ConfirmFunc {
	if applyYes {
		return func(context.Context, driving.ApplyCandidate) (driving.Decision, error) {
			return driving.DecisionCreate, nil
		}
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return tui.NewPrompter(f, cmd.OutOrStdout(), total).Confirm
	}
	return newLinePrompter(in, cmd.OutOrStdout()).Confirm
}

// linePrompter asks on plain text streams.
type linePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{reader: bufio.NewReader(in), out: out}
}

// Confirm implements driving.ConfirmFunc. End of input counts as quit.
func (p *linePrompter) Confirm(ctx context.Context, c driving.ApplyCandidate) (driving.Decision, error) {
	for {
		if err := ctx.Err(); err != nil {
			return driving.DecisionQuit, err
		}
		fmt.Fprintf(p.out, "Create %q for %s? [y/N/a/q] ", c.Identifier, c.Entry.Path)

		line, err := p.reader.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if err != nil && answer == "" {
			fmt.Fprintln(p.out)
			return driving.DecisionQuit, nil
		}

		if d, ok := parseDecision(answer); ok {
			return d, nil
		}
		fmt.Fprintln(p.out, "Please answer y, n, a or q.")
	}
}

func parseDecision(answer string) (driving.Decision, bool) {
	switch answer {
	case "y", "yes":
		return driving.DecisionCreate, true
	case "", "n", "no":
		return driving.DecisionSkip, true
	case "a", "all":
		return driving.DecisionCreateAll, true
	case "q", "quit":
		return driving.DecisionQuit, true
	default:
		return driving.DecisionSkip, false
	}
}

func printApplySummary(cmd *cobra.Command, s *domain.ApplySummary) {
	cmd.Printf("Created %d, skipped %d, failed %d\n", len(s.Created), len(s.Skipped), len(s.Failed))

	paths := make([]string, 0, len(s.Created))
	for p := range s.Created {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		cmd.Printf("  + %s (%s)\n", p, s.Created[p])
	}
	for _, f := range s.Failed {
		cmd.Printf("  ! %s: %s\n", f.Path, f.Error)
	}
}
