package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logpanel/internal/search"
)

// openSearch focuses the search field. The filter follows every keystroke;
// esc restores the term that was active before.
func (m *Model) openSearch() tea.Cmd {
	m.mode = modeSearch
	m.searchBefore = m.panel.filter.SearchTerm
	m.searchInput.SetValue(m.panel.filter.SearchTerm)
	m.searchInput.CursorEnd()
	return m.searchInput.Focus()
}

// handleSearchKey handles keyboard input while the search field is focused.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.closeSearch()
		return nil

	case key.Matches(msg, m.keys.Escape):
		m.searchInput.SetValue(m.searchBefore)
		m.setSearchTerm(m.searchBefore)
		m.closeSearch()
		return nil

	case msg.String() == "ctrl+c":
		return tea.Quit
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.setSearchTerm(m.searchInput.Value())
	return cmd
}

// setSearchTerm applies a sanitized term to the filter.
func (m *Model) setSearchTerm(term string) {
	term = search.SanitizeTerm(term)
	if term == m.panel.filter.SearchTerm {
		return
	}
	m.panel.filter.SearchTerm = term
	m.filterChanged()
}

func (m *Model) closeSearch() {
	m.mode = modeNormal
	m.searchInput.Blur()
}
