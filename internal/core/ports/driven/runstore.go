package driven

import (
	"context"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// RunStore persists reconciliation run history.
type RunStore interface {
	// Save stores a run. Saving a run with an existing ID replaces it.
	Save(ctx context.Context, run domain.Run) error

	// Latest returns the most recently started run.
	// Returns domain.ErrNotFound if no run has been stored.
	Latest(ctx context.Context) (*domain.Run, error)

	// List returns stored runs, newest first, without their reports.
	List(ctx context.Context, limit int) ([]domain.Run, error)
}
