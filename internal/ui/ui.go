// Package ui renders the one-button popup. Pressing the button runs a copy
// cycle in the background; the button shows the outcome for a moment and
// then reverts to its idle label.
package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pokeflix/internal/action"
)

// Cycle runs one copy cycle.
type Cycle func(ctx context.Context) action.Report

type keyMap struct {
	Copy key.Binding
	Quit key.Binding
}

func (k keyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Copy, k.Quit} }
func (k keyMap) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }

var defaultKeys = keyMap{
	Copy: key.NewBinding(
		key.WithKeys("enter", " ", "c"),
		key.WithHelp("enter", "copy"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	buttonStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(18).
			Align(lipgloss.Center)
	detailStyle = lipgloss.NewStyle().Faint(true)

	outcomeColors = map[action.Outcome]lipgloss.Color{
		action.Idle:       lipgloss.Color("12"),
		action.Copied:     lipgloss.Color("10"),
		action.NotFound:   lipgloss.Color("11"),
		action.CopyFailed: lipgloss.Color("9"),
		action.Error:      lipgloss.Color("9"),
	}
)

type resultMsg struct {
	seq    int
	report action.Report
}

type resetMsg struct {
	seq int
}

// Model is the bubbletea model for the popup.
type Model struct {
	ctx   context.Context
	cycle Cycle
	keys  keyMap
	help  help.Model
	title string

	seq     int // last cycle started
	shown   int // cycle whose outcome is on the button
	running int // cycles started but not yet reported
	outcome action.Outcome
	detail  string
}

// New creates the popup model. title is shown above the button.
func New(ctx context.Context, title string, cycle Cycle) Model {
	return Model{
		ctx:   ctx,
		cycle: cycle,
		keys:  defaultKeys,
		help:  help.New(),
		title: title,
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Copy):
			m.seq++
			m.running++
			return m, m.start(m.seq)
		}

	case resultMsg:
		m.running--
		m.shown = msg.seq
		m.outcome = msg.report.Outcome
		m.detail = describe(msg.report)
		seq := msg.seq
		return m, tea.Tick(action.ResetDelay, func(time.Time) tea.Msg {
			return resetMsg{seq: seq}
		})

	case resetMsg:
		// A newer outcome owns the button; its own tick will reset it.
		if msg.seq == m.shown {
			m.outcome = action.Idle
			m.detail = ""
		}
	}
	return m, nil
}

func (m Model) start(seq int) tea.Cmd {
	ctx, cycle := m.ctx, m.cycle
	return func() tea.Msg {
		return resultMsg{seq: seq, report: cycle(ctx)}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")

	style := buttonStyle.BorderForeground(outcomeColors[m.outcome]).
		Foreground(outcomeColors[m.outcome])
	b.WriteString(style.Render(m.Label()))
	b.WriteString("\n")

	if m.running > 0 {
		b.WriteString(detailStyle.Render("working…"))
		b.WriteString("\n")
	}

	if m.detail != "" {
		b.WriteString(detailStyle.Render(m.detail))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Label returns the current button text.
func (m Model) Label() string {
	return m.outcome.Label()
}

func describe(rep action.Report) string {
	switch rep.Outcome {
	case action.Copied:
		return rep.Result.String()
	case action.CopyFailed, action.Error:
		if rep.Err != nil {
			return rep.Err.Error()
		}
	case action.NotFound:
		return "No values were found on the page."
	}
	return ""
}

// Run shows the popup until the user quits or ctx is cancelled.
func Run(ctx context.Context, title string, cycle Cycle) error {
	p := tea.NewProgram(New(ctx, title, cycle), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
