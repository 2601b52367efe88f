package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleInputKey handles keyboard input while the log line field is
// focused. Enter logs the line and keeps the field open for the next one.
func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.submitLine()
		return nil

	case key.Matches(msg, m.keys.Escape):
		m.mode = modeNormal
		m.lineInput.Blur()
		m.lineInput.SetValue("")
		return nil

	case msg.String() == "ctrl+c":
		return tea.Quit
	}

	var cmd tea.Cmd
	m.lineInput, cmd = m.lineInput.Update(msg)
	return cmd
}

// submitLine logs the typed text with the configured prefix, severity and
// category. Blank lines are ignored.
func (m *Model) submitLine() {
	text := strings.TrimSpace(m.lineInput.Value())
	m.lineInput.SetValue("")
	if text == "" || m.store == nil {
		return
	}
	m.store.Log(m.input.Prefix+text, m.input.Severity, m.input.Category)
	m.panel.follow = true
	m.refresh()
	m.updateViewport()
}
