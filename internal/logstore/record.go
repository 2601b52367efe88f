package logstore

import (
	"fmt"
	"strings"
	"time"
)

// Severity ranks a record. Higher values are more severe, so a severity floor
// keeps every record whose Severity is >= the floor.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// Severities lists all severities from least to most severe.
var Severities = []Severity{SeverityDebug, SeverityInfo, SeverityWarn, SeverityError}

// String returns the upper-case label used in rendered rows and exports.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "DEBUG"
	case SeverityInfo:
		return "INFO"
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether s is one of the four defined severities.
func (s Severity) Valid() bool {
	return s >= SeverityDebug && s <= SeverityError
}

// Next returns the next more severe level, wrapping from Error to Debug.
func (s Severity) Next() Severity {
	if s >= SeverityError || s < SeverityDebug {
		return SeverityDebug
	}
	return s + 1
}

// ParseSeverity accepts case-insensitive names such as "info" or "warning".
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return SeverityDebug, nil
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	default:
		return SeverityDebug, fmt.Errorf("unknown severity %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Record is one log entry. Records are values; the store hands out copies.
type Record struct {
	Seq       uint64 // assigned by the store, strictly increasing
	Message   string
	Severity  Severity
	Category  string
	Timestamp time.Time
}
