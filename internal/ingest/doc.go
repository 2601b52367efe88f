// Package ingest adapts the standard Go logging front ends to the panel store.
//
// Hook is a logrus hook and Handler is a log/slog handler. Both map levels to
// the four store severities, take the record category from a "category"
// field when present, and flatten the remaining fields into key=value pairs
// after the message so they stay searchable.
package ingest
