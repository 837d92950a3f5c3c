package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/lua-bridge/engine"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	inputEchoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historyLimit = 200

type consoleModel struct {
	s       *engine.State
	input   textinput.Model
	history []historyLine
	prior   []string
	priorIx int
}

type historyLine struct {
	text  string
	isErr bool
	echo  bool
}

func newConsoleModel(s *engine.State) *consoleModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "chunk or expression"
	ti.Width = 72
	ti.Focus()
	return &consoleModel{s: s, input: ti, priorIx: -1}
}

func (m *consoleModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			return m, tea.Quit

		case "enter":
			chunk := strings.TrimSpace(m.input.Value())
			if chunk == "" {
				return m, nil
			}
			m.remember(chunk)
			m.evaluate(chunk)
			m.input.SetValue("")
			return m, nil

		case "up":
			if len(m.prior) > 0 && m.priorIx+1 < len(m.prior) {
				m.priorIx++
				m.input.SetValue(m.prior[len(m.prior)-1-m.priorIx])
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if m.priorIx > 0 {
				m.priorIx--
				m.input.SetValue(m.prior[len(m.prior)-1-m.priorIx])
				m.input.CursorEnd()
			} else if m.priorIx == 0 {
				m.priorIx = -1
				m.input.SetValue("")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *consoleModel) remember(chunk string) {
	m.prior = append(m.prior, chunk)
	m.priorIx = -1
}

// evaluate runs a chunk, preferring expression form so `1 + 2` works the
// way it does in a stock REPL, and records results in the scrollback.
func (m *consoleModel) evaluate(chunk string) {
	m.append(historyLine{text: "> " + chunk, echo: true})

	base := m.s.Top()
	err := m.s.RunString("return " + chunk)
	if err != nil {
		m.s.SetTop(base)
		err = m.s.RunString(chunk)
	}
	if err != nil {
		m.s.SetTop(base)
		m.append(historyLine{text: err.Error(), isErr: true})
		return
	}

	for i := base + 1; i <= m.s.Top(); i++ {
		m.append(historyLine{text: m.s.Get(i).String()})
	}
	m.s.SetTop(base)
}

func (m *consoleModel) append(l historyLine) {
	m.history = append(m.history, l)
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

func (m *consoleModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("lua-bridge console"))
	b.WriteString("\n\n")

	for _, l := range m.history {
		switch {
		case l.isErr:
			b.WriteString(errorStyle.Render(l.text))
		case l.echo:
			b.WriteString(inputEchoStyle.Render(l.text))
		default:
			b.WriteString(resultStyle.Render(l.text))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter eval • ↑/↓ history • esc quit"))

	return b.String()
}

func runInteractive(s *engine.State) error {
	p := tea.NewProgram(newConsoleModel(s), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
