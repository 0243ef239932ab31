package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Summary(t *testing.T) {
	r := &Report{
		Results: []MatchResult{
			{RegistryID: "a", Status: StatusMatched, CorpusPath: "x.md"},
			{RegistryID: "b", Status: StatusAmbiguous},
			{RegistryID: "c", Status: StatusUnmatched},
			{RegistryID: "d", Status: StatusMatched, CorpusPath: "y.md"},
		},
		UnmatchedCorpus: []UnmatchedCorpus{
			{Entry: CorpusEntry{Path: "z.md"}, Unparseable: true},
			{Entry: CorpusEntry{Path: "w.md"}},
		},
	}

	s := r.Summary()
	assert.Equal(t, ReportSummary{Total: 4, Matched: 2, Ambiguous: 1, Unmatched: 1, UnmatchedCorpus: 2, Unparseable: 1}, s)
	assert.Len(t, r.Matched(), 2)
}

func TestMatchResult_HasDiagnostic(t *testing.T) {
	r := MatchResult{Diagnostics: []Diagnostic{{Code: DiagYearMismatch}}}
	assert.True(t, r.HasDiagnostic(DiagYearMismatch))
	assert.False(t, r.HasDiagnostic(DiagAmbiguousMatch))
}
