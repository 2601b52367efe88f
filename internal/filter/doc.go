// Package filter selects the records the panel shows.
//
// A record passes when all of these hold:
//
//	record.Severity >= cfg.MinSeverity
//	cfg.Category == "" || record.Category == cfg.Category
//	record.Category is not in cfg.HiddenCategories
//	matcher.Match(record.Message)
//
// Category comparison is exact and case-sensitive, unlike the text search.
// Output keeps the store's insertion order.
//
// Apply and Indices are pure: the same records, config and matcher always give
// the same result. Query wraps one frame's work (snapshot, compile, apply) and
// Export renders the same slice the panel shows, so a copy always matches the
// screen.
package filter
