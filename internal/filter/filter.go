package filter

import (
	"github.com/five82/logpanel/internal/logstore"
	"github.com/five82/logpanel/internal/search"
)

// Config is the panel's current filter state.
type Config struct {
	MinSeverity logstore.Severity
	// Category restricts output to one category. Blank disables it.
	Category         string
	HiddenCategories map[string]bool
	SearchTerm       string
	UseRegex         bool
	CaseSensitive    bool
}

// Accepts reports whether rec passes every filter except the text search.
func (c Config) Accepts(rec logstore.Record) bool {
	if rec.Severity < c.MinSeverity {
		return false
	}
	if c.Category != "" && rec.Category != c.Category {
		return false
	}
	return !c.HiddenCategories[rec.Category]
}

// Active reports whether any filter would drop a record.
func (c Config) Active() bool {
	if c.MinSeverity > logstore.SeverityDebug || c.Category != "" || c.SearchTerm != "" {
		return true
	}
	for _, hidden := range c.HiddenCategories {
		if hidden {
			return true
		}
	}
	return false
}

// Apply returns the records that pass cfg and m, in their original order.
// A nil matcher matches everything.
func Apply(records []logstore.Record, cfg Config, m search.Matcher) []logstore.Record {
	if m == nil {
		m = search.MatchAll
	}
	out := make([]logstore.Record, 0, len(records))
	for _, rec := range records {
		if cfg.Accepts(rec) && m.Match(rec.Message) {
			out = append(out, rec)
		}
	}
	return out
}

// Indices is Apply returning positions into records instead of copies.
func Indices(records []logstore.Record, cfg Config, m search.Matcher) []int {
	if m == nil {
		m = search.MatchAll
	}
	out := make([]int, 0, len(records))
	for i, rec := range records {
		if cfg.Accepts(rec) && m.Match(rec.Message) {
			out = append(out, i)
		}
	}
	return out
}

// Snapshotter is the read side of logstore.Store.
type Snapshotter interface {
	Snapshot() []logstore.Record
}

// Result is one frame's query output.
type Result struct {
	Records []logstore.Record
	// Total is the number of records in the snapshot before filtering.
	Total int
	// Err is the search compile error, if any. Records is empty when set.
	Err error
}

// Query snapshots src and filters it. A search term that fails to compile
// matches nothing and is reported in Result.Err.
func Query(src Snapshotter, cfg Config, compiler *search.Compiler) Result {
	snapshot := src.Snapshot()
	m, err := compiler.Compile(cfg.SearchTerm, cfg.UseRegex, cfg.CaseSensitive)
	if err != nil {
		m = search.MatchNone
	}
	return Result{Records: Apply(snapshot, cfg, m), Total: len(snapshot), Err: err}
}
