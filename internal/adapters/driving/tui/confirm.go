// Package tui provides the interactive terminal prompts used by apply mode
// and the styled rendering of reconciliation results.
package tui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/lexsync/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/lexsync/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/lexsync/internal/core/ports/driving"
)

// ConfirmModel asks about a single proposed registry record.
type ConfirmModel struct {
	candidate driving.ApplyCandidate
	index     int
	total     int

	keys   *keymap.KeyMap
	styles *styles.Styles
	help   help.Model

	decision driving.Decision
	decided  bool
}

// NewConfirmModel creates a prompt for candidate index (1-based) of total.
func NewConfirmModel(candidate driving.ApplyCandidate, index, total int) *ConfirmModel {
	return &ConfirmModel{
		candidate: candidate,
		index:     index,
		total:     total,
		keys:      keymap.DefaultKeyMap(),
		styles:    styles.DefaultStyles(),
		help:      help.New(),
	}
}

// Init implements tea.Model.
func (m *ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		return m.decide(driving.DecisionCreate)
	case key.Matches(keyMsg, m.keys.No):
		return m.decide(driving.DecisionSkip)
	case key.Matches(keyMsg, m.keys.All):
		return m.decide(driving.DecisionCreateAll)
	case key.Matches(keyMsg, m.keys.Quit):
		return m.decide(driving.DecisionQuit)
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *ConfirmModel) decide(d driving.Decision) (tea.Model, tea.Cmd) {
	m.decision = d
	m.decided = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m *ConfirmModel) View() string {
	if m.decided {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Create registry record %d/%d", m.index, m.total)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Subtitle.Render(m.candidate.Identifier))
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(m.candidate.Entry.Path))
	b.WriteString("\n\n")

	names := make([]string, 0, len(m.candidate.Fields))
	for name := range m.candidate.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "%s %v\n", m.styles.Muted.Render(name+":"), m.candidate.Fields[name])
	}

	card := m.styles.Border.Render(strings.TrimRight(b.String(), "\n"))
	return card + "\n" + m.styles.Help.Render(m.help.View(m.keys)) + "\n"
}

// Decision returns the operator's answer once one has been given.
func (m *ConfirmModel) Decision() (driving.Decision, bool) {
	return m.decision, m.decided
}

// Prompter runs one ConfirmModel per candidate on a terminal.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	total int
	asked int
}

// NewPrompter creates a prompter for total candidates.
func NewPrompter(in io.Reader, out io.Writer, total int) *Prompter {
	return &Prompter{in: in, out: out, total: total}
}

// Confirm implements driving.ConfirmFunc.
// A prompt closed without an answer counts as quit.
func (p *Prompter) Confirm(ctx context.Context, candidate driving.ApplyCandidate) (driving.Decision, error) {
	p.asked++
	model := NewConfirmModel(candidate, p.asked, p.total)

	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		return driving.DecisionQuit, fmt.Errorf("prompt: %w", err)
	}

	m, ok := final.(*ConfirmModel)
	if !ok {
		return driving.DecisionQuit, nil
	}
	d, decided := m.Decision()
	if !decided {
		return driving.DecisionQuit, nil
	}
	return d, nil
}
