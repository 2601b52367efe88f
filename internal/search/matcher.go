package search

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// MaxTermLength caps a sanitized search term, in runes.
const MaxTermLength = 512

// Matcher reports whether a record message passes the text filter.
type Matcher interface {
	Match(message string) bool
}

type matchAll struct{}

func (matchAll) Match(string) bool { return true }

type matchNone struct{}

func (matchNone) Match(string) bool { return false }

var (
	// MatchAll passes every message. An empty term compiles to it.
	MatchAll Matcher = matchAll{}
	// MatchNone rejects every message. Callers use it as the fallback for a
	// term that failed to compile.
	MatchNone Matcher = matchNone{}
)

type literalMatcher struct {
	needle string
	fold   bool
}

func (m literalMatcher) Match(message string) bool {
	if m.fold {
		if isASCII(message) {
			return containsLowerASCII(message, m.needle)
		}
		return strings.Contains(fold(message), m.needle)
	}
	return strings.Contains(message, m.needle)
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Match(message string) bool {
	return m.re.MatchString(message)
}

// Compile builds a Matcher for term. It never panics; a malformed regular
// expression is returned as a *CompileError.
func Compile(term string, useRegex, caseSensitive bool) (Matcher, error) {
	if term == "" {
		return MatchAll, nil
	}
	if !useRegex {
		if caseSensitive {
			return literalMatcher{needle: term}, nil
		}
		return literalMatcher{needle: fold(term), fold: true}, nil
	}

	pattern := term
	if !caseSensitive {
		pattern = "(?i)" + term
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &CompileError{Pattern: term, Err: err}
	}
	return regexMatcher{re: re}, nil
}

// fold applies full Unicode case folding. A Caser carries state, so each call
// gets its own and matchers stay safe to share between goroutines.
func fold(value string) string {
	return cases.Fold().String(value)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// containsLowerASCII reports whether the ASCII string s contains needle,
// lower-casing s on the fly. needle is already folded; folding ASCII text only
// lowers A-Z, so this agrees with strings.Contains(fold(s), needle).
func containsLowerASCII(s, needle string) bool {
	n := len(needle)
	if n == 0 {
		return true
	}
	for i := 0; i+n <= len(s); i++ {
		j := 0
		for j < n && lowerASCII(s[i+j]) == needle[j] {
			j++
		}
		if j == n {
			return true
		}
	}
	return false
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// SanitizeTerm drops control characters from user input and caps it at
// MaxTermLength runes.
func SanitizeTerm(term string) string {
	if !strings.ContainsFunc(term, unicode.IsControl) && utf8.RuneCountInString(term) <= MaxTermLength {
		return term
	}
	var b strings.Builder
	count := 0
	for _, r := range term {
		if unicode.IsControl(r) {
			continue
		}
		if count == MaxTermLength {
			break
		}
		b.WriteRune(r)
		count++
	}
	return b.String()
}
