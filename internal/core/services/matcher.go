package services

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// MatchOutcome is the Matcher's full answer for one target.
type MatchOutcome struct {
	// Selected is the candidate set after disambiguation.
	Selected []domain.CorpusEntry

	// Considered are the same-kind entries that passed the identity filter
	// (number or section), reported for diagnostics.
	Considered []domain.CorpusEntry

	// Diagnostics note advisory fallbacks and out-of-range ordinals.
	Diagnostics []domain.Diagnostic
}

// Match returns the corpus entries that match target: none, one, or many.
func Match(target domain.DocumentRef, corpus []domain.CorpusEntry) []domain.CorpusEntry {
	return Explain(target, corpus).Selected
}

// Explain runs the matching policy and reports how it got there.
// It has no side effects; corpus is never reordered.
func Explain(target domain.DocumentRef, corpus []domain.CorpusEntry) MatchOutcome {
	sameKind := make([]domain.CorpusEntry, 0, len(corpus))
	for _, e := range corpus {
		if e.Parsed() && e.Ref.Kind == target.Kind {
			sameKind = append(sameKind, e)
		}
	}

	if target.Number != "" {
		return matchNumbered(target, sameKind)
	}
	if target.Section != "" {
		return matchInterpretation(target, sameKind)
	}
	return MatchOutcome{}
}

// matchNumbered requires number equality. The year only narrows: a registry
// record without a year matches on number alone, and a year that would leave
// no candidate is ignored and flagged.
func matchNumbered(target domain.DocumentRef, entries []domain.CorpusEntry) MatchOutcome {
	want := target.NumberKey()
	var byNumber []domain.CorpusEntry
	for _, e := range entries {
		if e.Ref.NumberKey() == want {
			byNumber = append(byNumber, e)
		}
	}

	out := MatchOutcome{Considered: byNumber, Selected: byNumber}
	if !target.HasYear() || len(byNumber) == 0 {
		return out
	}

	var byYear []domain.CorpusEntry
	for _, e := range byNumber {
		if e.Ref.Year == target.Year {
			byYear = append(byYear, e)
		}
	}
	if len(byYear) > 0 {
		out.Selected = byYear
		return out
	}

	out.Diagnostics = append(out.Diagnostics, domain.Diagnostic{
		Code:    domain.DiagYearMismatch,
		Message: fmt.Sprintf("no candidate from %d; matched on number alone", target.Year),
	})
	return out
}

// matchInterpretation requires section equality after normalisation.
// Several candidates and an ordinal "#N" select the N-th chronologically.
func matchInterpretation(target domain.DocumentRef, entries []domain.CorpusEntry) MatchOutcome {
	want := target.SectionKey()
	var bySection []domain.CorpusEntry
	for _, e := range entries {
		if e.Ref.SectionKey() == want {
			bySection = append(bySection, e)
		}
	}

	out := MatchOutcome{Considered: bySection, Selected: bySection}
	if len(bySection) <= 1 || !target.HasOrdinal() {
		return out
	}

	ordered := SortChronologically(bySection)
	if target.Ordinal > len(ordered) {
		out.Selected = nil
		out.Diagnostics = append(out.Diagnostics, domain.Diagnostic{
			Code:    domain.DiagOrdinalOutOfRange,
			Message: fmt.Sprintf("ordinal #%d but only %d interpretations of %s", target.Ordinal, len(ordered), target.Section),
		})
		return out
	}

	out.Selected = []domain.CorpusEntry{ordered[target.Ordinal-1]}
	return out
}

// SortChronologically returns a new slice ordered by RawDate ascending,
// ties broken by path. The input is not modified.
func SortChronologically(entries []domain.CorpusEntry) []domain.CorpusEntry {
	out := make([]domain.CorpusEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RawDate != out[j].RawDate {
			return out[i].RawDate < out[j].RawDate
		}
		return out[i].Path < out[j].Path
	})
	return out
}

func entryPaths(entries []domain.CorpusEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
