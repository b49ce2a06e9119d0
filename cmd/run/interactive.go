package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/script-bridge/bridge"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historyLimit = 20

type replEntry struct {
	script string
	result string
	err    error
}

type replModel struct {
	b       *bridge.Bridge
	input   textinput.Model
	history []replEntry
	busy    bool
}

type evalDoneMsg struct {
	script string
	result string
	err    error
}

func newReplModel(b *bridge.Bridge) *replModel {
	ti := textinput.New()
	ti.Placeholder = "1 + 2"
	ti.Prompt = promptStyle.Render("js> ")
	ti.Width = 60
	ti.Focus()

	return &replModel{
		b:     b,
		input: ti,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit

		case "enter":
			if m.busy {
				return m, nil
			}
			script := strings.TrimSpace(m.input.Value())
			if script == "" {
				return m, nil
			}
			if script == "exit" || script == "quit" {
				return m, tea.Quit
			}
			m.busy = true
			m.input.SetValue("")
			return m, m.evaluate(script)
		}

	case evalDoneMsg:
		m.busy = false
		m.history = append(m.history, replEntry{
			script: msg.script,
			result: msg.result,
			err:    msg.err,
		})
		if len(m.history) > historyLimit {
			m.history = m.history[len(m.history)-historyLimit:]
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) evaluate(script string) tea.Cmd {
	return func() tea.Msg {
		v, err := m.b.EvaluateBlocking(script)
		if err != nil {
			return evalDoneMsg{script: script, err: err}
		}
		return evalDoneMsg{script: script, result: fmt.Sprintf("%v", v)}
	}
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("script-bridge REPL"))
	b.WriteString("\n\n")

	for _, e := range m.history {
		b.WriteString(promptStyle.Render("js> "))
		b.WriteString(e.script)
		b.WriteString("\n")
		if e.err != nil {
			b.WriteString(errorStyle.Render(e.err.Error()))
		} else {
			b.WriteString(resultStyle.Render(e.result))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.busy {
		b.WriteString(helpStyle.Render("evaluating..."))
	} else {
		b.WriteString(m.input.View())
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("enter evaluate • ctrl+c quit"))

	return b.String()
}

func runInteractive(initFiles string, timeout time.Duration) error {
	b, env, err := newBridge(initFiles, timeout)
	if err != nil {
		return err
	}
	defer env.Close()
	defer b.Close()

	p := tea.NewProgram(newReplModel(b), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
