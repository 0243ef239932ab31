package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexsync/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, theme.Heading)
	assert.NotEmpty(t, theme.Matched)
	assert.NotEmpty(t, theme.Ambiguous)
	assert.NotEmpty(t, theme.Unmatched)

	// Each status is told apart by colour alone.
	assert.NotEqual(t, theme.Matched, theme.Ambiguous)
	assert.NotEqual(t, theme.Ambiguous, theme.Unmatched)
	assert.NotEqual(t, theme.Matched, theme.Unmatched)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestNewStyles_CustomTheme(t *testing.T) {
	theme := DefaultTheme()
	theme.Heading = "#000000"

	s := NewStyles(theme)
	assert.Equal(t, theme, s.Theme())
	assert.Equal(t, lipgloss.Color("#000000"), s.Title.GetForeground())
}

func TestStyles_Status(t *testing.T) {
	s := DefaultStyles()
	theme := s.Theme()

	tests := []struct {
		status domain.MatchStatus
		want   interface{}
	}{
		{domain.StatusMatched, theme.Matched},
		{domain.StatusAmbiguous, theme.Ambiguous},
		{domain.StatusUnmatched, theme.Unmatched},
		{domain.MatchStatus("other"), theme.Text},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, s.Status(tt.status).GetForeground())
		})
	}
}

func TestStyles_RenderKeepsText(t *testing.T) {
	s := DefaultStyles()

	assert.Contains(t, s.Title.Render("Reconcile"), "Reconcile")
	assert.Contains(t, s.Status(domain.StatusMatched).Render("Matched"), "Matched")
}
