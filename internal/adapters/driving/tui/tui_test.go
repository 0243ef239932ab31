package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexsync/internal/core/domain"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

func testCandidate() driving.ApplyCandidate {
	return driving.ApplyCandidate{
		Entry:      domain.CorpusEntry{Path: "_ordinances/1990-Ord-60.md", Kind: domain.KindOrdinance},
		Identifier: "Ordinance #60-1990",
		Fields: map[string]any{
			"Name": "Ordinance #60-1990",
			"File": "_ordinances/1990-Ord-60.md",
		},
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestConfirmModel_Init(t *testing.T) {
	m := NewConfirmModel(testCandidate(), 1, 3)

	assert.Nil(t, m.Init())
	_, decided := m.Decision()
	assert.False(t, decided)
}

func TestConfirmModel_Decisions(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want driving.Decision
	}{
		{"y creates", runeKey('y'), driving.DecisionCreate},
		{"enter creates", tea.KeyMsg{Type: tea.KeyEnter}, driving.DecisionCreate},
		{"n skips", runeKey('n'), driving.DecisionSkip},
		{"a creates all", runeKey('a'), driving.DecisionCreateAll},
		{"q quits", runeKey('q'), driving.DecisionQuit},
		{"esc quits", tea.KeyMsg{Type: tea.KeyEsc}, driving.DecisionQuit},
		{"ctrl+c quits", tea.KeyMsg{Type: tea.KeyCtrlC}, driving.DecisionQuit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewConfirmModel(testCandidate(), 1, 1)

			_, cmd := m.Update(tt.msg)
			require.NotNil(t, cmd, "answer quits the program")

			d, decided := m.Decision()
			assert.True(t, decided)
			assert.Equal(t, tt.want, d)
			assert.Empty(t, m.View())
		})
	}
}

func TestConfirmModel_IgnoresOtherInput(t *testing.T) {
	m := NewConfirmModel(testCandidate(), 1, 1)

	_, cmd := m.Update(runeKey('x'))
	assert.Nil(t, cmd)
	_, cmd = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)

	_, decided := m.Decision()
	assert.False(t, decided)
}

func TestConfirmModel_HelpToggle(t *testing.T) {
	m := NewConfirmModel(testCandidate(), 1, 1)
	short := m.View()

	_, cmd := m.Update(runeKey('?'))
	assert.Nil(t, cmd)
	assert.True(t, m.help.ShowAll)
	assert.NotEqual(t, short, m.View())
	assert.Contains(t, m.View(), "create all")
}

func TestConfirmModel_View(t *testing.T) {
	m := NewConfirmModel(testCandidate(), 2, 5)

	view := m.View()
	assert.Contains(t, view, "Create registry record 2/5")
	assert.Contains(t, view, "Ordinance #60-1990")
	assert.Contains(t, view, "_ordinances/1990-Ord-60.md")
	assert.Contains(t, view, "File:")
	assert.Contains(t, view, "Name:")
}

func TestNewPrompter(t *testing.T) {
	p := NewPrompter(nil, nil, 4)

	assert.Equal(t, 4, p.total)
	assert.Equal(t, 0, p.asked)
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary(nil, domain.ReportSummary{
		Total: 5, Matched: 3, Ambiguous: 1, Unmatched: 1, UnmatchedCorpus: 2, Unparseable: 1,
	})

	assert.Contains(t, out, "Registry records:  5")
	assert.Contains(t, out, "Matched:")
	assert.Contains(t, out, "Unmatched corpus:  2 (1 unparseable)")
}

func TestRenderResults(t *testing.T) {
	report := &domain.Report{
		Results: []domain.MatchResult{
			{Identifier: "Ordinance #54-89", Status: domain.StatusMatched, CorpusPath: "_ordinances/1989-Ord-54.md"},
			{
				Identifier: "Ordinance #54",
				Status:     domain.StatusAmbiguous,
				Candidates: []string{"_ordinances/1989-Ord-54.md", "_ordinances/2004-Ord-54.md"},
				Diagnostics: []domain.Diagnostic{
					{Code: domain.DiagAmbiguousMatch, Message: "2 candidates"},
				},
			},
		},
		UnmatchedCorpus: []domain.UnmatchedCorpus{
			{Entry: domain.CorpusEntry{Path: "_ordinances/notes.md"}, Unparseable: true},
			{Entry: domain.CorpusEntry{Path: "_ordinances/2004-Ord-54.md"}, ContestedBy: []string{"rec2"}},
		},
	}

	out := RenderResults(nil, report)
	assert.Contains(t, out, "_ordinances/2004-Ord-54.md (named by rec2)")
	assert.NotContains(t, out, "Ordinance #54-89", "clean matches are omitted")
	assert.Contains(t, out, "Ordinance #54")
	assert.Contains(t, out, "_ordinances/2004-Ord-54.md")
	assert.Contains(t, out, "ambiguous_match 2 candidates")
	assert.Contains(t, out, "_ordinances/notes.md (unparseable)")

	assert.Empty(t, RenderResults(nil, nil))
}
