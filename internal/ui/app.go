package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logpanel/internal/config"
	"github.com/five82/logpanel/internal/filter"
	"github.com/five82/logpanel/internal/logstore"
	"github.com/five82/logpanel/internal/prefs"
	"github.com/five82/logpanel/internal/search"
)

// inputMode is what keystrokes currently drive.
type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeInput
	modeCategories
	modeHelp
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *logstore.Store
	Display   filter.FormatOptions
	Input     config.InputConfig
	Prefs     prefs.Prefs
	PrefsPath string
	Clipboard Clipboard

	// FrameInterval defaults to DefaultFrameInterval.
	FrameInterval time.Duration

	// OnError receives failures the panel can only show briefly, such as a
	// prefs write or clipboard error.
	OnError func(error)
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx           context.Context
	store         *logstore.Store
	compiler      *search.Compiler
	clipboard     Clipboard
	input         config.InputConfig
	prefsPath     string
	frameInterval time.Duration
	onError       func(error)
	keys          keyMap

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool
	mode   inputMode

	// Log panel
	viewport viewport.Model
	panel    panelState

	// Text inputs
	searchInput  textinput.Model
	searchBefore string
	lineInput    textinput.Model

	// Category list
	categories categoryList

	// Transient status line message
	status statusMessage
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	frameInterval := opts.FrameInterval
	if frameInterval <= 0 {
		frameInterval = DefaultFrameInterval
	}

	clip := opts.Clipboard
	if clip == nil {
		clip = SystemClipboard{}
	}

	format := opts.Display
	if opts.Prefs.TimeFormat != "" {
		format.Time = opts.Prefs.TimeFormat
	}
	if opts.Prefs.TimePrecision != "" {
		format.Precision = opts.Prefs.TimePrecision
	}

	m := Model{
		ctx:           ctx,
		store:         opts.Store,
		compiler:      search.NewCompiler(),
		clipboard:     clip,
		input:         opts.Input,
		prefsPath:     opts.PrefsPath,
		frameInterval: frameInterval,
		onError:       opts.OnError,
		keys:          DefaultKeyMap(),
		theme:         GetTheme(opts.Prefs.Theme),
		panel: panelState{
			filter: filter.Config{
				MinSeverity:      opts.Prefs.MinSeverity,
				HiddenCategories: opts.Prefs.HiddenSet(),
				UseRegex:         opts.Prefs.UseRegex,
				CaseSensitive:    opts.Prefs.CaseSensitive,
			},
			format:         format,
			follow:         true,
			contentVersion: 1,
		},
	}
	m.initInputs()
	return m
}

// initInputs creates the search field and the log line field.
func (m *Model) initInputs() {
	si := textinput.New()
	si.Prompt = "/"
	si.Placeholder = "Search messages..."
	si.CharLimit = search.MaxTermLength
	m.searchInput = si

	li := textinput.New()
	li.Prompt = "> "
	li.Placeholder = m.input.Hint
	if m.store != nil {
		li.CharLimit = m.store.Config().MaxMessageLength
	}
	m.lineInput = li
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameCmd(m.frameInterval)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.searchInput.Width = max(m.width-4, 10)
		m.lineInput.Width = max(m.width-4-len(m.input.Prefix), 10)
		m.panel.contentVersion++ // rows are clipped to the width
		m.refresh()
		m.updateViewport()
		return m, nil

	case frameMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		m.refresh()
		m.updateViewport()
		if m.mode == modeCategories {
			m.categories.reload(m.store, m.panel.filter.HiddenCategories)
		}
		return m, frameCmd(m.frameInterval)

	case clearStatusMsg:
		if msg.id == m.status.id {
			m.status.text = ""
			m.status.isError = false
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.mode {
	case modeHelp:
		return m.renderHelp()
	case modeCategories:
		return m.renderCategories()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case modeHelp:
		// Any key closes help
		m.mode = modeNormal
		return nil
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeInput:
		return m.handleInputKey(msg)
	case modeCategories:
		return m.handleCategoriesKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = modeHelp
		return nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.panel.contentVersion++
		m.updateViewport()
		return m.savePrefs()
	}

	return m.handlePanelKey(msg)
}

// savePrefs persists the panel state that survives a restart.
func (m *Model) savePrefs() tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	p := prefs.Prefs{
		Theme:         m.theme.Name,
		MinSeverity:   m.panel.filter.MinSeverity,
		CaseSensitive: m.panel.filter.CaseSensitive,
		UseRegex:      m.panel.filter.UseRegex,
		TimeFormat:    m.panel.format.Time,
		TimePrecision: m.panel.format.Precision,
	}
	p.SetHidden(m.panel.filter.HiddenCategories)
	if err := prefs.Save(m.prefsPath, p); err != nil {
		return m.reportError(fmt.Errorf("save prefs: %w", err))
	}
	return nil
}

// reportError hands err to the error callback; the status line shows it too.
func (m *Model) reportError(err error) tea.Cmd {
	if m.onError != nil {
		m.onError(err)
	}
	return m.setStatus(err.Error(), true)
}

// renderMain renders the full panel.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

// Messages

type frameMsg time.Time

type clearStatusMsg struct{ id int }

type statusMessage struct {
	id      int
	text    string
	isError bool
}

// setStatus shows text on the status line and schedules its removal.
func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.status.id++
	m.status.text = text
	m.status.isError = isError
	id := m.status.id
	return tea.Tick(StatusMessageDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

// Commands

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
