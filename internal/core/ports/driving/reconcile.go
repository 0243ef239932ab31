package driving

import (
	"context"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// ReconcileOptions controls one reconciliation run.
type ReconcileOptions struct {
	// Limit caps the number of registry results reported. Every record is still
	// reconciled, so claims and unmatched corpus reflect the full snapshot.
	// Zero means no cap.
	Limit int

	// Mode records whether the run will be followed by registry writes.
	Mode domain.RunMode
}

// RunResult is everything one run produced.
type RunResult struct {
	// Run holds the id, timestamps and report.
	Run domain.Run

	// Graph is the relationship graph built from the matched documents.
	Graph *domain.RelationshipGraph

	// Corpus is every scanned corpus entry.
	Corpus []domain.CorpusEntry
}

// ApplyCandidate is one registry record apply mode proposes to create.
type ApplyCandidate struct {
	// Entry is the unmatched corpus file.
	Entry domain.CorpusEntry

	// Identifier is the registry identifier that will be written.
	Identifier string

	// Fields are the registry fields that will be written.
	Fields map[string]any
}

// Decision is an operator's answer to one ApplyCandidate.
type Decision int

const (
	// DecisionSkip declines this candidate.
	DecisionSkip Decision = iota

	// DecisionCreate accepts this candidate.
	DecisionCreate

	// DecisionCreateAll accepts this and every remaining candidate.
	DecisionCreateAll

	// DecisionQuit declines this and every remaining candidate.
	DecisionQuit
)

// ConfirmFunc asks the operator about one candidate.
type ConfirmFunc func(ctx context.Context, candidate ApplyCandidate) (Decision, error)

// ReconcileService drives fetch, scan, reconcile and graph building.
type ReconcileService interface {
	// Reconcile runs one full reconciliation. It never writes to the registry.
	// Only precondition failures (fetch, scan, configuration) return an error.
	Reconcile(ctx context.Context, opts ReconcileOptions) (*RunResult, error)

	// Candidates returns the registry records apply mode would create.
	Candidates(result *RunResult) []ApplyCandidate

	// Apply creates missing registry records one at a time, asking confirm
	// before each. A failed write is recorded and the loop continues.
	Apply(ctx context.Context, result *RunResult, confirm ConfirmFunc) (*domain.ApplySummary, error)

	// LatestRun returns the most recently stored run.
	LatestRun(ctx context.Context) (*domain.Run, error)

	// ParseIdentifier parses identifier text with the configured conventions.
	ParseIdentifier(text string) (domain.DocumentRef, error)
}
