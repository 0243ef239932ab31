package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind discriminates the document types held in the registry and the corpus.
type Kind string

// Known document kinds.
const (
	KindOrdinance      Kind = "ordinance"
	KindResolution     Kind = "resolution"
	KindInterpretation Kind = "interpretation"
	KindOther          Kind = "other"
)

// AllKinds returns every kind in classification order.
func AllKinds() []Kind {
	return []Kind{KindInterpretation, KindOrdinance, KindResolution, KindOther}
}

// IsValid returns true if the kind is recognised.
func (k Kind) IsValid() bool {
	switch k {
	case KindOrdinance, KindResolution, KindInterpretation, KindOther:
		return true
	default:
		return false
	}
}

// IsNumbered returns true for kinds identified by an assigned number.
func (k Kind) IsNumbered() bool {
	return k == KindOrdinance || k == KindResolution
}

// Label returns the title-case name used in registry identifiers.
func (k Kind) Label() string {
	switch k {
	case KindOrdinance:
		return "Ordinance"
	case KindResolution:
		return "Resolution"
	case KindInterpretation:
		return "Interpretation"
	default:
		return "Other"
	}
}

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a configuration value to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.IsValid()
}

// DocumentRef is the canonical parsed identity of one document.
// Numbered kinds carry Number (and usually Year); interpretations carry
// Section, and Ordinal or Date to tell same-section interpretations apart.
type DocumentRef struct {
	// Kind is the discriminant.
	Kind Kind

	// Number is the ordinance or resolution number, empty when absent.
	Number string

	// Year is the four-digit year, zero when not derivable.
	Year int

	// Section is the code section as written, e.g. "5.080" or "2.040(h)".
	Section string

	// Ordinal is the 1-based "#N" position among same-section interpretations, zero when absent.
	Ordinal int

	// Date is the YYYY-MM-DD date of a dated corpus interpretation.
	Date string

	// SourceText is the identifier or filename the ref was derived from.
	SourceText string
}

// NewNumberedRef builds a ref for an ordinance or resolution.
func NewNumberedRef(kind Kind, number string, year int, sourceText string) (DocumentRef, error) {
	if !kind.IsNumbered() && kind != KindOther {
		return DocumentRef{}, fmt.Errorf("%w: kind %q is not numbered", ErrInvalidInput, kind)
	}
	ref := DocumentRef{Kind: kind, Number: strings.TrimSpace(number), Year: year, SourceText: sourceText}
	return ref, ref.Validate()
}

// NewInterpretationRef builds a ref for an interpretation of a code section.
func NewInterpretationRef(section string, ordinal int, date, sourceText string) (DocumentRef, error) {
	ref := DocumentRef{
		Kind:       KindInterpretation,
		Section:    strings.TrimSpace(section),
		Ordinal:    ordinal,
		Date:       date,
		SourceText: sourceText,
	}
	return ref, ref.Validate()
}

// Validate enforces the kind-specific required fields.
func (r DocumentRef) Validate() error {
	if !r.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, r.Kind)
	}
	if r.Number == "" && r.Section == "" {
		return ErrInvalidRef
	}
	if r.Kind.IsNumbered() && r.Number == "" {
		return fmt.Errorf("%w: %s requires a number", ErrInvalidRef, r.Kind)
	}
	if r.Kind == KindInterpretation && r.Section == "" {
		return fmt.Errorf("%w: interpretation requires a section", ErrInvalidRef)
	}
	if r.Ordinal < 0 {
		return fmt.Errorf("%w: negative ordinal", ErrInvalidInput)
	}
	return nil
}

// HasYear returns true if the year is known.
func (r DocumentRef) HasYear() bool {
	return r.Year > 0
}

// HasOrdinal returns true if the ref encodes a "#N" disambiguator.
func (r DocumentRef) HasOrdinal() bool {
	return r.Ordinal > 0
}

// NumberKey returns the number in comparable form.
func (r DocumentRef) NumberKey() string {
	return NormalizeNumber(r.Number)
}

// SectionKey returns the section in comparable form.
func (r DocumentRef) SectionKey() string {
	return NormalizeSection(r.Section)
}

// Identifier formats the ref the way registry identifiers are written.
func (r DocumentRef) Identifier() string {
	switch {
	case r.Kind == KindInterpretation:
		id := "Interpretation of " + DisplaySection(r.Section)
		if r.HasOrdinal() {
			id += " #" + strconv.Itoa(r.Ordinal)
		}
		return id
	case r.Number != "":
		id := r.Kind.Label() + " #" + r.Number
		if r.HasYear() {
			id += "-" + strconv.Itoa(r.Year)
		}
		return id
	default:
		return r.SourceText
	}
}

// NormalizeNumber strips leading zeros and lowercases any letter suffix.
func NormalizeNumber(n string) string {
	n = strings.ToLower(strings.TrimSpace(n))
	trimmed := strings.TrimLeft(n, "0")
	if trimmed == "" && n != "" {
		return "0"
	}
	return trimmed
}

// NormalizeSection folds the identifier and filename spellings of a section
// onto one form: "2.040(h)", "2.040h" and "2-040h" all become "2-040h".
func NormalizeSection(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("(", "", ")", "", " ", "", ".", "-").Replace(s)
	return s
}

var displaySectionPattern = regexp.MustCompile(`^(\d+)[.-](\d+)\(?([a-z])?\)?$`)

// DisplaySection renders a section the way identifiers write it ("2-040h" -> "2.040(h)").
func DisplaySection(s string) string {
	m := displaySectionPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(s)))
	if m == nil {
		return s
	}
	out := m[1] + "." + m[2]
	if m[3] != "" {
		out += "(" + m[3] + ")"
	}
	return out
}
