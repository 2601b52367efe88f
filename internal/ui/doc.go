// Package ui provides the terminal log panel.
//
// # Architecture Overview
//
// The panel is a Bubble Tea program. It never receives records directly:
// producers write into a logstore.Store and the model re-reads the store on
// a frame tick.
//
//	frameMsg (every 100ms)
//	      │
//	      ▼
//	store.Version() changed, or filter edited?
//	      │ yes
//	      ▼
//	filter.Query(store, cfg, compiler) ──→ visible rows ──→ viewport
//
// The search.Compiler keeps the last compiled matcher, so an unchanged
// search term is compiled once no matter how many frames render it.
//
// # Package Structure
//
//   - app.go: Model, Options, Update/View and Run
//   - logs.go: the log box, row rendering, status bar and panel keys
//   - search.go: the search field (live filtering, esc restores)
//   - categories.go: the category modal (show/hide, show only, all, none)
//   - input.go: the log line field
//   - header.go: severity counts and the command bar
//   - help.go: the key overlay, built from the key map
//   - clipboard.go: Clipboard and the system implementation
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Copying
//
// Copy exports exactly the rows of the current frame with filter.Export, so
// what lands on the clipboard matches what is on screen.
//
// # Preferences
//
// Theme, minimum severity, search options, hidden categories and the time
// format are saved to the prefs file whenever they change.
package ui
