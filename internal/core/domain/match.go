package domain

// RegistryRecord is one record fetched from the registry.
// ID is opaque; Identifier is the string fed to the identifier parser.
type RegistryRecord struct {
	ID         string
	Identifier string
	Fields     map[string]any
}

// MatchStatus classifies a reconciled registry record.
type MatchStatus string

// Match statuses.
const (
	StatusMatched   MatchStatus = "Matched"
	StatusAmbiguous MatchStatus = "Ambiguous"
	StatusUnmatched MatchStatus = "Unmatched"
)

// DiagnosticCode names a per-record condition recorded in the report.
type DiagnosticCode string

// Diagnostic codes. None of these are fatal.
const (
	DiagUnrecognizedFormat  DiagnosticCode = "unrecognized_format"
	DiagAmbiguousMatch      DiagnosticCode = "ambiguous_match"
	DiagDanglingReference   DiagnosticCode = "dangling_reference"
	DiagYearMismatch        DiagnosticCode = "year_mismatch"
	DiagOrdinalOutOfRange   DiagnosticCode = "ordinal_out_of_range"
	DiagDuplicateClaim      DiagnosticCode = "duplicate_claim"
	DiagUnparseableFilename DiagnosticCode = "unparseable_filename"
)

// Diagnostic is a coded, human-readable note attached to a result.
type Diagnostic struct {
	Code    DiagnosticCode
	Message string
}

// MatchResult is the outcome of reconciling one registry record.
type MatchResult struct {
	// RegistryID is the opaque registry record id.
	RegistryID string

	// Identifier is the raw registry identifier.
	Identifier string

	// Status is Matched, Ambiguous or Unmatched.
	Status MatchStatus

	// CorpusPath is set iff Status is Matched.
	CorpusPath string

	// Candidates lists the corpus paths considered.
	Candidates []string

	// Diagnostics explains anything unusual about the result.
	Diagnostics []Diagnostic
}

// HasDiagnostic returns true if the result carries the given code.
func (r MatchResult) HasDiagnostic(code DiagnosticCode) bool {
	for _, d := range r.Diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

// UnmatchedCorpus is a corpus file no Matched result consumed.
type UnmatchedCorpus struct {
	Entry CorpusEntry

	// Unparseable is true when no grammar matched the filename.
	Unparseable bool

	// ContestedBy lists the Ambiguous or Unmatched records that name this
	// file as a candidate. A contested file is not offered for creation.
	ContestedBy []string

	// Diagnostics explains why the file is unmatched, when that is known.
	Diagnostics []Diagnostic
}

// Contested returns true if an unresolved record names the file as a candidate.
func (u UnmatchedCorpus) Contested() bool {
	return len(u.ContestedBy) > 0
}

// ReportSummary counts results by status.
type ReportSummary struct {
	Total           int
	Matched         int
	Ambiguous       int
	Unmatched       int
	UnmatchedCorpus int
	Unparseable     int
}

// Report is the full output of one reconciliation.
type Report struct {
	Results         []MatchResult
	UnmatchedCorpus []UnmatchedCorpus
}

// Summary counts the report's results.
func (r *Report) Summary() ReportSummary {
	s := ReportSummary{Total: len(r.Results), UnmatchedCorpus: len(r.UnmatchedCorpus)}
	for _, res := range r.Results {
		switch res.Status {
		case StatusMatched:
			s.Matched++
		case StatusAmbiguous:
			s.Ambiguous++
		case StatusUnmatched:
			s.Unmatched++
		}
	}
	for _, u := range r.UnmatchedCorpus {
		if u.Unparseable {
			s.Unparseable++
		}
	}
	return s
}

// Matched returns the results with status Matched.
func (r *Report) Matched() []MatchResult {
	var out []MatchResult
	for _, res := range r.Results {
		if res.Status == StatusMatched {
			out = append(out, res)
		}
	}
	return out
}
