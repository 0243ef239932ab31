package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/logger"
)

// Reconciler classifies every registry record against the corpus.
// It only returns results; persisting or acting on them is the caller's job.
type Reconciler struct {
	parser *IdentifierParser
}

// NewReconciler creates a reconciler using parser for registry identifiers.
func NewReconciler(parser *IdentifierParser) *Reconciler {
	return &Reconciler{parser: parser}
}

// Reconcile matches every record and reports the corpus entries no Matched
// result consumed. Unmatched corpus entries remember which unresolved records
// named them as candidates. Results keep record order; unmatched corpus is sorted by
// path, so identical inputs give identical reports.
func (r *Reconciler) Reconcile(records []domain.RegistryRecord, corpus []domain.CorpusEntry) *domain.Report {
	report := &domain.Report{Results: make([]domain.MatchResult, 0, len(records))}
	claims := make(map[string][]int)

	for _, rec := range records {
		result := r.reconcileOne(rec, corpus)
		if result.Status == domain.StatusMatched {
			claims[result.CorpusPath] = append(claims[result.CorpusPath], len(report.Results))
		}
		report.Results = append(report.Results, result)
	}

	for corpusPath, idx := range claims {
		if len(idx) < 2 {
			continue
		}
		ids := make([]string, len(idx))
		for i, n := range idx {
			ids[i] = report.Results[n].RegistryID
		}
		msg := fmt.Sprintf("%s is also matched by %s", corpusPath, strings.Join(ids, ", "))
		for _, n := range idx {
			report.Results[n].Diagnostics = append(report.Results[n].Diagnostics, domain.Diagnostic{
				Code:    domain.DiagDuplicateClaim,
				Message: msg,
			})
		}
		logger.Warn("Duplicate claim on %s by %s", corpusPath, strings.Join(ids, ", "))
	}

	contested := make(map[string][]string)
	for _, res := range report.Results {
		if res.Status == domain.StatusMatched {
			continue
		}
		for _, p := range res.Candidates {
			contested[p] = append(contested[p], res.RegistryID)
		}
	}

	for _, e := range corpus {
		if _, consumed := claims[e.Path]; consumed {
			continue
		}
		u := domain.UnmatchedCorpus{
			Entry:       e,
			Unparseable: !e.Parsed(),
			ContestedBy: contested[e.Path],
		}
		if u.Unparseable {
			u.Diagnostics = append(u.Diagnostics, domain.Diagnostic{
				Code:    domain.DiagUnparseableFilename,
				Message: fmt.Sprintf("no filename grammar matches %s", e.Path),
			})
		}
		report.UnmatchedCorpus = append(report.UnmatchedCorpus, u)
	}
	sort.SliceStable(report.UnmatchedCorpus, func(i, j int) bool {
		return report.UnmatchedCorpus[i].Entry.Path < report.UnmatchedCorpus[j].Entry.Path
	})

	return report
}

func (r *Reconciler) reconcileOne(rec domain.RegistryRecord, corpus []domain.CorpusEntry) domain.MatchResult {
	result := domain.MatchResult{
		RegistryID: rec.ID,
		Identifier: rec.Identifier,
		Status:     domain.StatusUnmatched,
	}

	ref, err := r.parser.Parse(rec.Identifier)
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
			Code:    domain.DiagUnrecognizedFormat,
			Message: err.Error(),
		})
		logger.Debug("%s: %v", rec.ID, err)
		return result
	}

	outcome := Explain(ref, corpus)
	result.Diagnostics = append(result.Diagnostics, outcome.Diagnostics...)

	switch len(outcome.Selected) {
	case 0:
		result.Candidates = entryPaths(outcome.Considered)
	case 1:
		result.Status = domain.StatusMatched
		result.CorpusPath = outcome.Selected[0].Path
		result.Candidates = entryPaths(outcome.Considered)
	default:
		result.Status = domain.StatusAmbiguous
		result.Candidates = entryPaths(outcome.Selected)
		result.Diagnostics = append(result.Diagnostics, domain.Diagnostic{
			Code:    domain.DiagAmbiguousMatch,
			Message: fmt.Sprintf("%d candidates for %q", len(outcome.Selected), rec.Identifier),
		})
	}

	logger.Debug("%s %q -> %s %s", rec.ID, rec.Identifier, result.Status, result.CorpusPath)
	return result
}
