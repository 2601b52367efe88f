package logtail

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/five82/logpanel/internal/logstore"
)

var (
	timestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?)\s*`)
	levelRe     = regexp.MustCompile(`^(?i)\[?(DEBUG|TRACE|INFO|WARNING|WARN|ERROR|FATAL)\b\]?\s*`)
	componentRe = regexp.MustCompile(`^\[([^\]]+)\]\s*`)
	separatorRe = regexp.MustCompile(`^(?:–|-|:)\s*`)
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// ParseLine turns one log line into a record. Lines in the common
// "2006-01-02 15:04:05 LEVEL [component] – message" shape are split into
// their fields; anything that does not parse becomes an Info record with the
// whole line as its message. Category falls back to the file's base name.
// A zero Timestamp means "now" to the store.
func ParseLine(line, path string) logstore.Record {
	rec := logstore.Record{
		Severity: logstore.SeverityInfo,
		Category: categoryForPath(path),
	}
	rest := line

	if m := timestampRe.FindStringSubmatch(rest); m != nil {
		if ts, ok := parseTimestamp(m[1]); ok {
			rec.Timestamp = ts
			rest = rest[len(m[0]):]
		}
	}
	if m := levelRe.FindStringSubmatch(rest); m != nil {
		rec.Severity = severityFromLevel(m[1])
		rest = rest[len(m[0]):]
	}
	if m := componentRe.FindStringSubmatch(rest); m != nil {
		if component := strings.TrimSpace(m[1]); component != "" {
			rec.Category = component
		}
		rest = rest[len(m[0]):]
	}
	if m := separatorRe.FindString(rest); m != "" {
		rest = rest[len(m):]
	}

	rec.Message = strings.TrimSpace(rest)
	if rec.Message == "" {
		rec.Message = strings.TrimSpace(line)
	}
	return rec
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func severityFromLevel(level string) logstore.Severity {
	switch strings.ToUpper(level) {
	case "DEBUG", "TRACE":
		return logstore.SeverityDebug
	case "WARN", "WARNING":
		return logstore.SeverityWarn
	case "ERROR", "FATAL":
		return logstore.SeverityError
	default:
		return logstore.SeverityInfo
	}
}

func categoryForPath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "file"
	}
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
