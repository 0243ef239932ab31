package services

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

var (
	// "#54-89", "#259-2018", "#12A". The year must not run into further digits.
	numberPattern = regexp.MustCompile(`(?i)#\s*(\d+[a-z]?)(?:-(\d{4}|\d{2})(?:\D|$))?`)

	// "Interpretation of 5.080 #2", "Interpretation of 2.040(h)".
	interpretationPattern = regexp.MustCompile(
		`(?i)interpretation\s+of\s+(?:section\s+)?(\d+[.-]\d+(?:\s*\([a-z]\)|[a-z])?)(?:\s*#\s*(\d+))?`)
)

// IdentifierParser turns registry identifier strings into DocumentRefs.
type IdentifierParser struct {
	conventions *domain.Conventions
}

// NewIdentifierParser creates a parser using the given conventions.
func NewIdentifierParser(conventions *domain.Conventions) *IdentifierParser {
	return &IdentifierParser{conventions: conventions}
}

// Classify returns the kind named by an identifier. Interpretation is tested
// first, then Ordinance, then Resolution, since a string may carry more than
// one keyword ("Interpretation of Ordinance ...").
func Classify(sourceText string) domain.Kind {
	lower := strings.ToLower(sourceText)
	switch {
	case strings.Contains(lower, "interpretation"):
		return domain.KindInterpretation
	case strings.Contains(lower, "ordinance"):
		return domain.KindOrdinance
	case strings.Contains(lower, "resolution"):
		return domain.KindResolution
	default:
		return domain.KindOther
	}
}

// Parse extracts a DocumentRef from an identifier.
// Returns a *domain.ParseError when the identifier matches no known shape.
func (p *IdentifierParser) Parse(sourceText string) (domain.DocumentRef, error) {
	text := strings.TrimSpace(sourceText)
	if text == "" {
		return domain.DocumentRef{}, &domain.ParseError{Input: sourceText, Reason: domain.ReasonUnrecognizedFormat}
	}

	kind := Classify(text)
	if kind == domain.KindInterpretation {
		return p.parseInterpretation(sourceText, text)
	}
	return p.parseNumbered(kind, sourceText, text)
}

func (p *IdentifierParser) parseInterpretation(sourceText, text string) (domain.DocumentRef, error) {
	m := interpretationPattern.FindStringSubmatch(text)
	if m == nil {
		return domain.DocumentRef{}, &domain.ParseError{Input: sourceText, Reason: domain.ReasonMissingSection}
	}

	section := strings.ReplaceAll(m[1], " ", "")
	ordinal := 0
	if m[2] != "" {
		n, err := strconv.Atoi(m[2])
		if err != nil || n < 1 {
			return domain.DocumentRef{}, &domain.ParseError{Input: sourceText, Reason: domain.ReasonUnrecognizedFormat}
		}
		ordinal = n
	}

	ref, err := domain.NewInterpretationRef(section, ordinal, "", sourceText)
	if err != nil {
		return domain.DocumentRef{}, &domain.ParseError{Input: sourceText, Reason: domain.ReasonMissingSection}
	}
	return ref, nil
}

func (p *IdentifierParser) parseNumbered(kind domain.Kind, sourceText, text string) (domain.DocumentRef, error) {
	m := numberPattern.FindStringSubmatch(text)
	if m == nil {
		reason := domain.ReasonMissingNumber
		if kind == domain.KindOther {
			reason = domain.ReasonUnrecognizedFormat
		}
		return domain.DocumentRef{}, &domain.ParseError{Input: sourceText, Reason: reason}
	}

	year := 0
	if m[2] != "" {
		y, err := strconv.Atoi(m[2])
		if err == nil {
			year = p.conventions.ExpandYear(y)
		}
	}

	ref, err := domain.NewNumberedRef(kind, m[1], year, sourceText)
	if err != nil {
		return domain.DocumentRef{}, &domain.ParseError{Input: sourceText, Reason: domain.ReasonMissingNumber}
	}
	return ref, nil
}
