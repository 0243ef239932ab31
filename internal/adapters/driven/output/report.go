package output

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// ReportDocument is the JSON form of a match report.
// Results keep registry order; unmatched corpus entries are sorted by path.
type ReportDocument struct {
	Summary         SummaryJSON           `json:"summary"`
	Results         []ResultJSON          `json:"results"`
	UnmatchedCorpus []UnmatchedCorpusJSON `json:"unmatchedCorpus"`
}

// SummaryJSON counts results by status.
type SummaryJSON struct {
	Total           int `json:"total"`
	Matched         int `json:"matched"`
	Ambiguous       int `json:"ambiguous"`
	Unmatched       int `json:"unmatched"`
	UnmatchedCorpus int `json:"unmatchedCorpus"`
	Unparseable     int `json:"unparseable"`
}

// ResultJSON is one reconciled registry record.
type ResultJSON struct {
	RegistryID  string           `json:"registryId"`
	Identifier  string           `json:"identifier"`
	Status      string           `json:"status"`
	CorpusPath  string           `json:"corpusPath,omitempty"`
	Candidates  []string         `json:"candidates,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// DiagnosticJSON is a coded note on a result.
type DiagnosticJSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UnmatchedCorpusJSON is a corpus file no record claimed.
type UnmatchedCorpusJSON struct {
	Path        string   `json:"path"`
	Kind        string   `json:"kind"`
	Ref         *RefJSON `json:"ref,omitempty"`
	RawDate     string   `json:"rawDate,omitempty"`
	Unparseable bool     `json:"unparseable,omitempty"`

	ContestedBy []string         `json:"contestedBy,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"`
}

// RefJSON is a parsed document identity.
type RefJSON struct {
	Kind       string `json:"kind"`
	Number     string `json:"number,omitempty"`
	Year       int    `json:"year,omitempty"`
	Section    string `json:"section,omitempty"`
	Ordinal    int    `json:"ordinal,omitempty"`
	Date       string `json:"date,omitempty"`
	SourceText string `json:"sourceText,omitempty"`
}

// NewReportDocument converts a report to its JSON form.
func NewReportDocument(report domain.Report) ReportDocument {
	s := report.Summary()
	doc := ReportDocument{
		Summary: SummaryJSON{
			Total:           s.Total,
			Matched:         s.Matched,
			Ambiguous:       s.Ambiguous,
			Unmatched:       s.Unmatched,
			UnmatchedCorpus: s.UnmatchedCorpus,
			Unparseable:     s.Unparseable,
		},
		Results:         make([]ResultJSON, 0, len(report.Results)),
		UnmatchedCorpus: make([]UnmatchedCorpusJSON, 0, len(report.UnmatchedCorpus)),
	}

	for _, r := range report.Results {
		res := ResultJSON{
			RegistryID: r.RegistryID,
			Identifier: r.Identifier,
			Status:     string(r.Status),
			CorpusPath: r.CorpusPath,
			Candidates: r.Candidates,
		}
		res.Diagnostics = newDiagnosticsJSON(r.Diagnostics)
		doc.Results = append(doc.Results, res)
	}

	unmatched := append([]domain.UnmatchedCorpus(nil), report.UnmatchedCorpus...)
	sort.SliceStable(unmatched, func(i, j int) bool {
		return unmatched[i].Entry.Path < unmatched[j].Entry.Path
	})
	for _, u := range unmatched {
		doc.UnmatchedCorpus = append(doc.UnmatchedCorpus, UnmatchedCorpusJSON{
			Path:        u.Entry.Path,
			Kind:        string(u.Entry.Kind),
			Ref:         NewRefJSON(u.Entry.Ref),
			RawDate:     u.Entry.RawDate,
			Unparseable: u.Unparseable,
			ContestedBy: u.ContestedBy,
			Diagnostics: newDiagnosticsJSON(u.Diagnostics),
		})
	}
	return doc
}

// ToDomain converts the JSON form back to a report.
func (d ReportDocument) ToDomain() domain.Report {
	report := domain.Report{
		Results:         make([]domain.MatchResult, 0, len(d.Results)),
		UnmatchedCorpus: make([]domain.UnmatchedCorpus, 0, len(d.UnmatchedCorpus)),
	}
	for _, r := range d.Results {
		res := domain.MatchResult{
			RegistryID: r.RegistryID,
			Identifier: r.Identifier,
			Status:     domain.MatchStatus(r.Status),
			CorpusPath: r.CorpusPath,
			Candidates: r.Candidates,
		}
		res.Diagnostics = diagnosticsToDomain(r.Diagnostics)
		report.Results = append(report.Results, res)
	}
	for _, u := range d.UnmatchedCorpus {
		report.UnmatchedCorpus = append(report.UnmatchedCorpus, domain.UnmatchedCorpus{
			Entry: domain.CorpusEntry{
				Path:    u.Path,
				Kind:    domain.Kind(u.Kind),
				Ref:     u.Ref.toDomain(),
				RawDate: u.RawDate,
			},
			Unparseable: u.Unparseable,
			ContestedBy: u.ContestedBy,
			Diagnostics: diagnosticsToDomain(u.Diagnostics),
		})
	}
	return report
}

func newDiagnosticsJSON(diags []domain.Diagnostic) []DiagnosticJSON {
	var out []DiagnosticJSON
	for _, d := range diags {
		out = append(out, DiagnosticJSON{Code: string(d.Code), Message: d.Message})
	}
	return out
}

func diagnosticsToDomain(diags []DiagnosticJSON) []domain.Diagnostic {
	var out []domain.Diagnostic
	for _, d := range diags {
		out = append(out, domain.Diagnostic{Code: domain.DiagnosticCode(d.Code), Message: d.Message})
	}
	return out
}

// MarshalReport encodes a report as indented JSON with a trailing newline.
func MarshalReport(report domain.Report) ([]byte, error) {
	data, err := json.MarshalIndent(NewReportDocument(report), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}

// UnmarshalReport decodes a report written by MarshalReport.
func UnmarshalReport(data []byte) (domain.Report, error) {
	var doc ReportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Report{}, fmt.Errorf("decode report: %w", err)
	}
	return doc.ToDomain(), nil
}

// NewRefJSON converts a ref. A nil ref stays nil.
func NewRefJSON(ref *domain.DocumentRef) *RefJSON {
	if ref == nil {
		return nil
	}
	return &RefJSON{
		Kind:       string(ref.Kind),
		Number:     ref.Number,
		Year:       ref.Year,
		Section:    ref.Section,
		Ordinal:    ref.Ordinal,
		Date:       ref.Date,
		SourceText: ref.SourceText,
	}
}

func (r *RefJSON) toDomain() *domain.DocumentRef {
	if r == nil {
		return nil
	}
	return &domain.DocumentRef{
		Kind:       domain.Kind(r.Kind),
		Number:     r.Number,
		Year:       r.Year,
		Section:    r.Section,
		Ordinal:    r.Ordinal,
		Date:       r.Date,
		SourceText: r.SourceText,
	}
}
