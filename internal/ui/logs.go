package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/five82/logpanel/internal/filter"
	"github.com/five82/logpanel/internal/logstore"
	"github.com/five82/logpanel/internal/search"
)

// panelState holds the filter, the display options and the rows of the
// current frame.
type panelState struct {
	filter filter.Config
	format filter.FormatOptions
	follow bool

	// Current frame
	visible   []logstore.Record
	total     int
	searchErr error

	// Query caching - skip re-filtering when neither the store nor the
	// filter changed since the last frame
	queried       bool
	storeVersion  uint64
	filterVersion uint64
	queriedFilter uint64

	// Content caching - skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

// filterChanged marks the filter as edited so the next refresh re-queries.
func (m *Model) filterChanged() {
	m.panel.filterVersion++
	m.refresh()
	m.updateViewport()
}

// formatChanged re-renders rows without re-querying.
func (m *Model) formatChanged() {
	m.panel.contentVersion++
	m.updateViewport()
}

// refresh snapshots and filters the store when anything changed.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	// Read the version before the snapshot: an append in between only
	// causes one extra query next frame.
	version := m.store.Version()
	if m.panel.queried && version == m.panel.storeVersion && m.panel.filterVersion == m.panel.queriedFilter {
		return
	}

	res := filter.Query(m.store, m.panel.filter, m.compiler)
	m.panel.visible = res.Records
	m.panel.total = res.Total
	m.panel.searchErr = res.Err
	m.panel.queried = true
	m.panel.storeVersion = version
	m.panel.queriedFilter = m.panel.filterVersion
	m.panel.contentVersion++
}

// updateViewport sizes the viewport and re-renders rows when needed.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	// Box height = m.height - chromeRows, inner = box height - borders
	width := max(m.width-4, 1)
	height := max(m.height-chromeRows-boxBorders, 1)
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(width, height)
	}
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	if m.panel.contentVersion != m.panel.lastRendered {
		m.viewport.SetContent(m.renderLogContent())
		m.panel.lastRendered = m.panel.contentVersion
	}

	if m.panel.follow {
		m.viewport.GotoBottom()
	}
}

// renderLogs renders the log box and the status line below it.
func (m Model) renderLogs() string {
	box := m.renderBox(m.logTitle(), m.viewport.View(), m.width, m.height-chromeRows)
	return box + "\n" + m.renderBottomLine()
}

// logTitle returns the plain text title of the log box.
func (m Model) logTitle() string {
	if m.panel.filter.Active() {
		return "Log (filtered)"
	}
	return "Log"
}

// renderBox draws a rounded border around content with the title set into
// the top edge.
func (m Model) renderBox(title, content string, width, height int) string {
	border := lipgloss.RoundedBorder()
	borderStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.BorderFocus)).
		Background(lipgloss.Color(m.theme.Background))
	titleStyle := m.theme.Styles().AccentText.Bold(true).
		Background(lipgloss.Color(m.theme.Background))

	label := " " + clipCells(title, max(width-6, 0)) + " "
	fill := max(width-3-cellWidth(label), 0)
	top := borderStyle.Render(border.TopLeft+border.Top) +
		titleStyle.Render(label) +
		borderStyle.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	body := lipgloss.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Padding(0, 1).
		Width(max(width-2, 0)).
		Height(max(height-boxBorders, 0)).
		Render(content)

	return top + "\n" + body
}

// renderLogContent renders the visible records, one row each.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.viewport.Width

	if m.panel.searchErr != nil {
		return bg.FillLine(bg.Render(searchErrorText(m.panel.searchErr), styles.DangerText), width)
	}
	if len(m.panel.visible) == 0 {
		text := "No log entries"
		if m.panel.total > 0 {
			text = "No records match the current filters"
		}
		return bg.FillLine(bg.Render(text, styles.MutedText), width)
	}

	var b strings.Builder
	for i, rec := range m.panel.visible {
		b.WriteString(bg.FillLine(renderRow(rec, m.panel.format, styles, bg, width), width))
		if i < len(m.panel.visible)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderRow renders one record with its enabled columns, clipped so the row
// never wraps. Columns that do not fit are dropped from the right.
func renderRow(rec logstore.Record, format filter.FormatOptions, styles Styles, bg BgStyle, width int) string {
	type column struct {
		text  string
		style lipgloss.Style
	}
	var cols []column

	if ts := format.Timestamp(rec.Timestamp); ts != "" {
		cols = append(cols, column{ts, styles.FaintText})
	}
	if format.ShowSeverity {
		cols = append(cols, column{fmt.Sprintf("%-5s", rec.Severity), styles.SeverityStyle(rec.Severity).Bold(true)})
	}
	if format.ShowCategory && rec.Category != "" {
		cols = append(cols, column{"[" + rec.Category + "]", styles.AccentText})
	}

	msgStyle := styles.Text
	switch rec.Severity {
	case logstore.SeverityWarn:
		msgStyle = styles.WarningText
	case logstore.SeverityError:
		msgStyle = styles.DangerText.Bold(false)
	}
	cols = append(cols, column{rec.Message, msgStyle})

	var b strings.Builder
	remaining := width
	for i, col := range cols {
		if i > 0 {
			if remaining < 2 {
				break
			}
			b.WriteString(bg.Space())
			remaining--
		}
		text := clipCells(col.text, remaining)
		b.WriteString(bg.Render(text, col.style))
		remaining -= cellWidth(text)
	}
	return b.String()
}

// renderBottomLine shows the active text input, or the status bar.
func (m Model) renderBottomLine() string {
	switch m.mode {
	case modeSearch:
		return m.searchInput.View()
	case modeInput:
		bg := NewBgStyle(m.theme.Background)
		styles := m.theme.Styles()
		prefix := ""
		if m.input.Prefix != "" {
			prefix = bg.Render(m.input.Prefix, styles.FaintText)
		}
		return prefix + m.lineInput.View()
	}
	return m.renderLogStatus()
}

// renderLogStatus renders the status bar.
func (m Model) renderLogStatus() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()
	f := m.panel.filter

	if m.status.text != "" {
		style := styles.SuccessText
		if m.status.isError {
			style = styles.DangerText
		}
		return bg.Render(m.status.text, style)
	}

	var parts []string

	capacity := 0
	if m.store != nil {
		capacity = m.store.Config().MaxRecords
	}
	parts = append(parts,
		bg.Render(humanize.Comma(int64(len(m.panel.visible))), styles.Text)+bg.Space()+
			bg.Render("shown", styles.FaintText))
	parts = append(parts,
		bg.Render(humanize.Comma(int64(m.panel.total))+"/"+humanize.Comma(int64(capacity)), styles.MutedText)+bg.Space()+
			bg.Render("buffered", styles.FaintText))

	if f.MinSeverity > logstore.SeverityDebug {
		parts = append(parts,
			bg.Render("min", styles.FaintText)+bg.Space()+
				bg.Render(f.MinSeverity.String(), styles.SeverityStyle(f.MinSeverity)))
	}
	if f.Category != "" {
		parts = append(parts, bg.Render("only "+f.Category, styles.AccentText))
	}
	if hidden := len(f.HiddenCategories); hidden > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d hidden", hidden), styles.WarningText))
	}

	if f.SearchTerm != "" {
		parts = append(parts, bg.Render("/"+clipCells(f.SearchTerm, 24), styles.AccentText))
	}
	parts = append(parts, bg.Render(searchFlags(f), styles.MutedText))
	if m.panel.searchErr != nil {
		parts = append(parts, bg.Render(searchErrorText(m.panel.searchErr), styles.DangerText))
	}

	follow := "off"
	if m.panel.follow {
		follow = "on"
	}
	parts = append(parts, bg.Render("follow "+follow, styles.FaintText))

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return strings.Join(parts, sep)
}

// searchFlags describes how the search term is matched.
func searchFlags(f filter.Config) string {
	mode := "text"
	if f.UseRegex {
		mode = "regex"
	}
	if f.CaseSensitive {
		return mode + " Aa"
	}
	return mode + " aa"
}

// searchErrorText shortens a compile error for the status line.
func searchErrorText(err error) string {
	var compileErr *search.CompileError
	if errors.As(err, &compileErr) {
		return "invalid pattern: " + compileErr.Err.Error()
	}
	return err.Error()
}

// handlePanelKey processes keyboard input for the log panel.
func (m *Model) handlePanelKey(msg tea.KeyMsg) tea.Cmd {
	f := &m.panel.filter

	switch {
	case key.Matches(msg, m.keys.Search):
		return m.openSearch()

	case key.Matches(msg, m.keys.Input):
		m.mode = modeInput
		return m.lineInput.Focus()

	case key.Matches(msg, m.keys.Categories):
		m.openCategories()
		return nil

	case key.Matches(msg, m.keys.Escape):
		if f.SearchTerm != "" {
			f.SearchTerm = ""
			m.searchInput.SetValue("")
			m.filterChanged()
		}
		return nil

	case key.Matches(msg, m.keys.ToggleRegex):
		f.UseRegex = !f.UseRegex
		m.filterChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.ToggleCase):
		f.CaseSensitive = !f.CaseSensitive
		m.filterChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.CycleSeverity):
		f.MinSeverity = f.MinSeverity.Next()
		m.filterChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.ResetFilters):
		f.MinSeverity = logstore.SeverityDebug
		f.Category = ""
		f.HiddenCategories = nil
		f.SearchTerm = ""
		m.searchInput.SetValue("")
		m.filterChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.CycleTime):
		m.panel.format.Time = m.panel.format.Time.Next()
		m.formatChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.TogglePrecision):
		if m.panel.format.Precision == filter.PrecisionMillis {
			m.panel.format.Precision = filter.PrecisionSeconds
		} else {
			m.panel.format.Precision = filter.PrecisionMillis
		}
		m.formatChanged()
		return m.savePrefs()

	case key.Matches(msg, m.keys.ToggleSeverity):
		m.panel.format.ShowSeverity = !m.panel.format.ShowSeverity
		m.formatChanged()
		return nil

	case key.Matches(msg, m.keys.ToggleCategory):
		m.panel.format.ShowCategory = !m.panel.format.ShowCategory
		m.formatChanged()
		return nil

	case key.Matches(msg, m.keys.Copy):
		return m.copyVisible()

	case key.Matches(msg, m.keys.Clear):
		return m.clearStore()

	case key.Matches(msg, m.keys.ToggleFollow):
		m.panel.follow = !m.panel.follow
		m.updateViewport()
		return nil

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		m.panel.follow = false

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		m.panel.follow = true

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		m.panel.follow = false

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		m.panel.follow = false

	case key.Matches(msg, m.keys.HalfPageDown):
		m.viewport.HalfViewDown()
		m.panel.follow = false

	case key.Matches(msg, m.keys.HalfPageUp):
		m.viewport.HalfViewUp()
		m.panel.follow = false

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		m.panel.follow = false

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		m.panel.follow = false
	}

	return nil
}

// copyVisible exports exactly the rows of the current frame.
func (m *Model) copyVisible() tea.Cmd {
	records := m.panel.visible
	if len(records) == 0 {
		return m.setStatus("Nothing to copy", false)
	}
	text := filter.Export(records, m.panel.format)
	if err := m.clipboard.WriteAll(text); err != nil {
		return m.reportError(fmt.Errorf("copy to clipboard: %w", err))
	}
	return m.setStatus(fmt.Sprintf("Copied %s %s", humanize.Comma(int64(len(records))), plural(len(records), "record")), false)
}

// clearStore drops every buffered record.
func (m *Model) clearStore() tea.Cmd {
	if m.store == nil {
		return nil
	}
	n := m.store.Len()
	m.store.Clear()
	m.refresh()
	m.updateViewport()
	return m.setStatus(fmt.Sprintf("Cleared %s %s", humanize.Comma(int64(n)), plural(n, "record")), false)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
