package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the panel.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding
	Confirm    key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding
	ToggleFollow key.Binding

	// Filtering
	Search        key.Binding
	ToggleRegex   key.Binding
	ToggleCase    key.Binding
	CycleSeverity key.Binding
	Categories    key.Binding
	ResetFilters  key.Binding

	// Display
	CycleTime       key.Binding
	TogglePrecision key.Binding
	ToggleSeverity  key.Binding
	ToggleCategory  key.Binding

	// Actions
	Copy  key.Binding
	Clear key.Binding
	Input key.Binding

	// Category list
	ToggleHidden key.Binding
	ShowAll      key.Binding
	HideAll      key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search / close"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search messages"),
		),
		ToggleRegex: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Toggle regex search"),
		),
		ToggleCase: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Toggle case sensitivity"),
		),
		CycleSeverity: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle minimum severity"),
		),
		Categories: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Category filter"),
		),
		ResetFilters: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Reset filters"),
		),

		CycleTime: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Cycle time format"),
		),
		TogglePrecision: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Toggle milliseconds"),
		),
		ToggleSeverity: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Toggle severity column"),
		),
		ToggleCategory: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Toggle category column"),
		),

		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "Copy visible records"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Clear all records"),
		),
		Input: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "Write a log line"),
		),

		ToggleHidden: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Show/hide category"),
		),
		ShowAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Show all categories"),
		),
		HideAll: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Hide all categories"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.HalfPageDown, k.HalfPageUp, k.ToggleFollow},
		{k.Search, k.ToggleRegex, k.ToggleCase, k.CycleSeverity, k.Categories, k.ResetFilters},
		{k.CycleTime, k.TogglePrecision, k.ToggleSeverity, k.ToggleCategory},
		{k.Copy, k.Clear, k.Input},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
