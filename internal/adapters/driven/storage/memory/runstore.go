package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]domain.Run
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]domain.Run),
	}
}

// Save stores or replaces a run.
func (s *RunStore) Save(_ context.Context, run domain.Run) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	return nil
}

// Latest returns the most recently started run.
func (s *RunStore) Latest(_ context.Context) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.sorted()
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	run := runs[0]
	return &run, nil
}

// List returns runs newest first. Reports are omitted.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.sorted()
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	for i := range runs {
		runs[i].Report = domain.Report{}
	}
	return runs, nil
}

// sorted must be called with the lock held.
func (s *RunStore) sorted() []domain.Run {
	runs := make([]domain.Run, 0, len(s.runs))
	for _, r := range s.runs {
		runs = append(runs, r)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].StartedAt.Equal(runs[j].StartedAt) {
			return runs[i].StartedAt.After(runs[j].StartedAt)
		}
		return runs[i].ID > runs[j].ID
	})
	return runs
}
