package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/logpanel/internal/logstore"
)

// TimeFormat selects how timestamps are rendered.
type TimeFormat string

const (
	TimeLocal TimeFormat = "local"
	TimeUTC   TimeFormat = "utc"
	TimeHide  TimeFormat = "hide"
)

// Next cycles local → utc → hide → local.
func (f TimeFormat) Next() TimeFormat {
	switch f {
	case TimeLocal:
		return TimeUTC
	case TimeUTC:
		return TimeHide
	default:
		return TimeLocal
	}
}

// ParseTimeFormat accepts "local", "utc" or "hide"; blank means local.
func ParseTimeFormat(value string) (TimeFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "local":
		return TimeLocal, nil
	case "utc":
		return TimeUTC, nil
	case "hide", "hidden", "none":
		return TimeHide, nil
	default:
		return TimeLocal, fmt.Errorf("unknown time format %q", value)
	}
}

// Precision selects the timestamp resolution.
type Precision string

const (
	PrecisionSeconds Precision = "seconds"
	PrecisionMillis  Precision = "millis"
)

// ParsePrecision accepts "seconds" or "millis"; blank means seconds.
func ParsePrecision(value string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "seconds", "s":
		return PrecisionSeconds, nil
	case "millis", "milliseconds", "ms":
		return PrecisionMillis, nil
	default:
		return PrecisionSeconds, fmt.Errorf("unknown time precision %q", value)
	}
}

// FormatOptions controls which columns a rendered line carries.
type FormatOptions struct {
	Time         TimeFormat
	Precision    Precision
	ShowSeverity bool
	ShowCategory bool
}

// DefaultFormat shows every column with local second-resolution times.
func DefaultFormat() FormatOptions {
	return FormatOptions{
		Time:         TimeLocal,
		Precision:    PrecisionSeconds,
		ShowSeverity: true,
		ShowCategory: true,
	}
}

// Timestamp renders ts per the options, or "" when times are hidden.
func (o FormatOptions) Timestamp(ts time.Time) string {
	layout := "2006-01-02 15:04:05"
	if o.Precision == PrecisionMillis {
		layout = "2006-01-02 15:04:05.000"
	}
	switch o.Time {
	case TimeHide:
		return ""
	case TimeUTC:
		return ts.UTC().Format(layout)
	default:
		return ts.In(time.Local).Format(layout)
	}
}

// FormatLine renders rec as "[timestamp] [severity] [category] message",
// omitting the columns the options switch off.
func FormatLine(rec logstore.Record, opts FormatOptions) string {
	var b strings.Builder
	if ts := opts.Timestamp(rec.Timestamp); ts != "" {
		b.WriteString("[")
		b.WriteString(ts)
		b.WriteString("] ")
	}
	if opts.ShowSeverity {
		b.WriteString("[")
		b.WriteString(rec.Severity.String())
		b.WriteString("] ")
	}
	if opts.ShowCategory {
		b.WriteString("[")
		b.WriteString(rec.Category)
		b.WriteString("] ")
	}
	b.WriteString(rec.Message)
	return b.String()
}

// Export serializes records one per line in the full four-column format.
// Only the time zone and precision of opts apply; a hidden time column is
// exported in local time so a copied block is always complete.
func Export(records []logstore.Record, opts FormatOptions) string {
	full := FormatOptions{
		Time:         opts.Time,
		Precision:    opts.Precision,
		ShowSeverity: true,
		ShowCategory: true,
	}
	if full.Time == TimeHide {
		full.Time = TimeLocal
	}

	var b strings.Builder
	for _, rec := range records {
		b.WriteString(FormatLine(rec, full))
		b.WriteByte('\n')
	}
	return b.String()
}
