package domain

import (
	"fmt"
	"regexp"
)

// DefaultTwoDigitYearPivot is the policy constant for expanding two-digit years:
// values above it map to 19xx, values at or below it map to 20xx. It fits the
// 1974-2025 range of the corpus and must be revisited before 2050.
const DefaultTwoDigitYearPivot = 50

// Filename grammars. Named groups: year, date, number, section, slug.
const (
	ordinanceFilenamePattern      = `(?i)^(?P<year>\d{4})-Ord-#?(?P<number>\d+[a-z]?)(?:-(?P<slug>.+))?\.md$`
	resolutionFilenamePattern     = `(?i)^(?P<year>\d{4})-Res-#?(?P<number>\d+[a-z]?)(?:-(?P<slug>.+))?\.md$`
	interpretationFilenamePattern = `(?i)^(?P<date>(?P<year>\d{4})-\d{2}-\d{2})-RE-` +
		`(?P<section>\d+[.-]\d+(?:\([a-z]\)|[a-z])?)(?:-(?P<slug>.+))?\.md$`
)

// DefaultCorpusDirectories returns the conventional directory-to-kind table.
func DefaultCorpusDirectories() []CorpusDirectory {
	return []CorpusDirectory{
		{Path: "_ordinances", Kind: KindOrdinance},
		{Path: "_resolutions", Kind: KindResolution},
		{Path: "_interpretations", Kind: KindInterpretation},
	}
}

// Conventions is the immutable configuration shared by the identifier parser
// and the corpus scanner: which directory holds which kind, the filename
// grammar per kind, and the two-digit-year policy.
type Conventions struct {
	directories []CorpusDirectory
	grammars    map[Kind]*regexp.Regexp
	yearPivot   int
}

// NewConventions validates the directory table and compiles the grammars.
func NewConventions(directories []CorpusDirectory, yearPivot int) (*Conventions, error) {
	if len(directories) == 0 {
		return nil, fmt.Errorf("%w: no corpus directories", ErrInvalidInput)
	}
	if yearPivot < 0 || yearPivot > 99 {
		return nil, fmt.Errorf("%w: year pivot %d out of range 0-99", ErrInvalidInput, yearPivot)
	}

	seen := make(map[string]struct{}, len(directories))
	dirs := make([]CorpusDirectory, 0, len(directories))
	for _, d := range directories {
		if d.Path == "" {
			return nil, fmt.Errorf("%w: empty directory for kind %s", ErrInvalidInput, d.Kind)
		}
		if !d.Kind.IsValid() {
			return nil, fmt.Errorf("%w: unknown kind %q for %s", ErrInvalidInput, d.Kind, d.Path)
		}
		if _, dup := seen[d.Path]; dup {
			return nil, fmt.Errorf("%w: directory %s listed twice", ErrInvalidInput, d.Path)
		}
		seen[d.Path] = struct{}{}
		dirs = append(dirs, d)
	}

	return &Conventions{
		directories: dirs,
		grammars: map[Kind]*regexp.Regexp{
			KindOrdinance:      regexp.MustCompile(ordinanceFilenamePattern),
			KindResolution:     regexp.MustCompile(resolutionFilenamePattern),
			KindInterpretation: regexp.MustCompile(interpretationFilenamePattern),
		},
		yearPivot: yearPivot,
	}, nil
}

// DefaultConventions returns the conventions for the standard corpus layout.
func DefaultConventions() *Conventions {
	c, err := NewConventions(DefaultCorpusDirectories(), DefaultTwoDigitYearPivot)
	if err != nil {
		panic(err) // static table
	}
	return c
}

// Directories returns a copy of the directory-to-kind table.
func (c *Conventions) Directories() []CorpusDirectory {
	out := make([]CorpusDirectory, len(c.directories))
	copy(out, c.directories)
	return out
}

// Grammar returns the filename grammar for a kind.
func (c *Conventions) Grammar(kind Kind) (*regexp.Regexp, bool) {
	re, ok := c.grammars[kind]
	return re, ok
}

// YearPivot returns the two-digit-year pivot.
func (c *Conventions) YearPivot() int {
	return c.yearPivot
}

// ExpandYear turns a two-digit year into four digits using the pivot.
// Values of 100 and above are returned unchanged.
func (c *Conventions) ExpandYear(y int) int {
	if y >= 100 || y < 0 {
		return y
	}
	if y > c.yearPivot {
		return 1900 + y
	}
	return 2000 + y
}
