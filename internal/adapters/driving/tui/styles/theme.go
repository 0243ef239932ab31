// Package styles holds the colours of the reconciliation summary and the
// apply confirmation card.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

// Theme assigns a colour to each role in lexsync output. The three status
// colours follow the match status of a registry record.
type Theme struct {
	Heading    lipgloss.Color
	Identifier lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color

	Matched   lipgloss.Color
	Ambiguous lipgloss.Color
	Unmatched lipgloss.Color

	Card lipgloss.Color
}

// DefaultTheme returns the palette used when no other is configured.
func DefaultTheme() *Theme {
	return &Theme{
		Heading:    lipgloss.Color("#7C3AED"),
		Identifier: lipgloss.Color("#06B6D4"),
		Text:       lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Matched:    lipgloss.Color("#A6E3A1"),
		Ambiguous:  lipgloss.Color("#F9E2AF"),
		Unmatched:  lipgloss.Color("#F38BA8"),
		Card:       lipgloss.Color("#45475A"),
	}
}

// Styles are the rendered forms of a theme.
type Styles struct {
	theme *Theme

	// Title heads the summary and the confirmation card.
	Title lipgloss.Style

	// Subtitle renders identifiers and section headings under a title.
	Subtitle lipgloss.Style

	Normal lipgloss.Style
	Muted  lipgloss.Style

	// Success, Warning and Error carry the Matched, Ambiguous and Unmatched
	// colours so failures and creations read the same as statuses.
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Help renders the key bindings under the card.
	Help lipgloss.Style

	// Border frames one apply candidate.
	Border lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when theme is nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Heading).Bold(true),
		Subtitle: fg(theme.Identifier).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Muted),
		Success:  fg(theme.Matched),
		Warning:  fg(theme.Ambiguous),
		Error:    fg(theme.Unmatched),
		Help:     fg(theme.Muted),
		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Card).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Status returns the style for a match status.
func (s *Styles) Status(status domain.MatchStatus) lipgloss.Style {
	switch status {
	case domain.StatusMatched:
		return s.Success
	case domain.StatusAmbiguous:
		return s.Warning
	case domain.StatusUnmatched:
		return s.Error
	default:
		return s.Normal
	}
}
