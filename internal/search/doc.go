// Package search turns the panel's search box into a Matcher.
//
// A search is the tuple (term, useRegex, caseSensitive):
//
//   - empty term: MatchAll, whatever the toggles say
//   - literal, case-sensitive: strings.Contains on the raw message
//   - literal, case-insensitive: both sides are Unicode case folded with
//     golang.org/x/text/cases before the substring test
//   - regex: compiled with regexp (RE2 syntax); case-insensitive searches
//     prepend the (?i) flag rather than folding the input
//
// A malformed pattern yields a *CompileError. The caller decides what to show;
// the panel renders zero rows and reports the error in its status bar.
//
// Compiler memoizes the last result keyed by the input tuple so the render
// loop can call it every frame without recompiling. A Compiler belongs to one
// UI session and is not safe for concurrent use. Matchers it returns are.
package search
