package domain

import "time"

// CorpusSourceType selects where the corpus is read from.
type CorpusSourceType string

// Available corpus sources.
const (
	// CorpusSourceFilesystem reads a local document tree.
	CorpusSourceFilesystem CorpusSourceType = "filesystem"

	// CorpusSourceGitHub reads the document tree of a GitHub repository.
	CorpusSourceGitHub CorpusSourceType = "github"
)

// IsValid returns true if the source type is recognised.
func (t CorpusSourceType) IsValid() bool {
	return t == CorpusSourceFilesystem || t == CorpusSourceGitHub
}

// String returns the string representation.
func (t CorpusSourceType) String() string {
	return string(t)
}

// Settings is the complete lexsync configuration.
type Settings struct {
	Registry RegistrySettings
	Corpus   CorpusSettings
	Output   OutputSettings
	Policy   PolicySettings
}

// RegistrySettings configures the registry client.
type RegistrySettings struct {
	// BaseURL is the API root, e.g. https://api.airtable.com/v0.
	BaseURL string

	// BaseID identifies the registry base.
	BaseID string

	// Table is the table holding document records.
	Table string

	// View optionally restricts the records returned.
	View string

	// IdentifierField is the field holding the identifier string.
	IdentifierField string

	// PathField is the field apply mode writes the corpus path to.
	PathField string

	// Token is the API token.
	Token string

	// RequestDelay is the fixed delay between requests.
	RequestDelay time.Duration

	// MaxAttempts caps attempts per request on transient failures.
	MaxAttempts int

	// Timeout is the per-request timeout.
	Timeout time.Duration
}

// CorpusSettings configures the corpus source and layout.
type CorpusSettings struct {
	Source      CorpusSourceType
	Root        string
	GitHubRepo  string
	GitHubRef   string
	GitHubToken string

	// Include are doublestar globs matched against corpus-relative paths.
	Include []string

	// Directories maps corpus directories to kinds.
	Directories []CorpusDirectory
}

// OutputSettings configures artifact locations.
type OutputSettings struct {
	GraphPath  string
	ReportPath string
	DataDir    string
}

// PolicySettings holds matching policy constants.
type PolicySettings struct {
	TwoDigitYearPivot int
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Registry: RegistrySettings{
			BaseURL:         "https://api.airtable.com/v0",
			IdentifierField: "Name",
			PathField:       "File",
			RequestDelay:    250 * time.Millisecond,
			MaxAttempts:     3,
			Timeout:         30 * time.Second,
		},
		Corpus: CorpusSettings{
			Source:      CorpusSourceFilesystem,
			Root:        ".",
			GitHubRef:   "main",
			Include:     []string{"**/*.md"},
			Directories: DefaultCorpusDirectories(),
		},
		Output: OutputSettings{
			GraphPath:  "_data/relationships.json",
			ReportPath: "reconcile-report.json",
		},
		Policy: PolicySettings{
			TwoDigitYearPivot: DefaultTwoDigitYearPivot,
		},
	}
}

// Conventions builds the immutable parser/scanner configuration.
func (s Settings) Conventions() (*Conventions, error) {
	return NewConventions(s.Corpus.Directories, s.Policy.TwoDigitYearPivot)
}
