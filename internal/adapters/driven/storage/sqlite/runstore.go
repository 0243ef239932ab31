package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/lexsync/internal/adapters/driven/output"
	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// appliedJSON is the stored form of domain.ApplySummary.
type appliedJSON struct {
	Created map[string]string `json:"created"`
	Skipped []string          `json:"skipped"`
	Failed  []failureJSON     `json:"failed"`
}

type failureJSON struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Save stores or replaces a run.
func (s *runStore) Save(ctx context.Context, run domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	report, err := output.MarshalReport(run.Report)
	if err != nil {
		return err
	}
	applied, err := marshalApplied(run.Applied)
	if err != nil {
		return err
	}

	summary := run.Report.Summary()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs (
			id, mode, started_at, finished_at,
			total, matched, ambiguous, unmatched, unmatched_corpus, unparseable,
			report, applied
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, string(run.Mode), run.StartedAt.UnixNano(), run.FinishedAt.UnixNano(),
		summary.Total, summary.Matched, summary.Ambiguous, summary.Unmatched,
		summary.UnmatchedCorpus, summary.Unparseable,
		string(report), applied,
	)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

// Latest returns the most recently started run with its report.
func (s *runStore) Latest(ctx context.Context) (*domain.Run, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, mode, started_at, finished_at, report, applied
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`)

	var (
		run               domain.Run
		mode              string
		started, finished int64
		report            string
		applied           sql.NullString
	)
	if err := row.Scan(&run.ID, &mode, &started, &finished, &report, &applied); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("loading latest run: %w", err)
	}

	run.Mode = domain.RunMode(mode)
	run.StartedAt = fromNanos(started)
	run.FinishedAt = fromNanos(finished)

	var err error
	if run.Report, err = output.UnmarshalReport([]byte(report)); err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	if run.Applied, err = unmarshalApplied(applied); err != nil {
		return nil, fmt.Errorf("run %s: %w", run.ID, err)
	}
	return &run, nil
}

// List returns runs newest first without their reports.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.Run, error) {
	query := `
		SELECT id, mode, started_at, finished_at, applied
		FROM runs
		ORDER BY started_at DESC, id DESC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var (
			run               domain.Run
			mode              string
			started, finished int64
			applied           sql.NullString
		)
		if err := rows.Scan(&run.ID, &mode, &started, &finished, &applied); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Mode = domain.RunMode(mode)
		run.StartedAt = fromNanos(started)
		run.FinishedAt = fromNanos(finished)
		if run.Applied, err = unmarshalApplied(applied); err != nil {
			return nil, fmt.Errorf("run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func marshalApplied(a *domain.ApplySummary) (sql.NullString, error) {
	if a == nil {
		return sql.NullString{}, nil
	}
	v := appliedJSON{Created: a.Created, Skipped: a.Skipped}
	for _, f := range a.Failed {
		v.Failed = append(v.Failed, failureJSON{Path: f.Path, Error: f.Error})
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode apply summary: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func unmarshalApplied(s sql.NullString) (*domain.ApplySummary, error) {
	if !s.Valid {
		return nil, nil
	}
	var v appliedJSON
	if err := json.Unmarshal([]byte(s.String), &v); err != nil {
		return nil, fmt.Errorf("decode apply summary: %w", err)
	}
	a := &domain.ApplySummary{Created: v.Created, Skipped: v.Skipped}
	for _, f := range v.Failed {
		a.Failed = append(a.Failed, domain.ApplyFailure{Path: f.Path, Error: f.Error})
	}
	return a, nil
}
