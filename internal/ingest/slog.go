package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/five82/logpanel/internal/logstore"
)

// Handler is a slog.Handler that writes to a Sink.
type Handler struct {
	sink     Sink
	category string
	level    slog.Leveler
	attrs    []field
	group    string
}

// NewHandler returns a handler for records at or above level. A nil level
// means slog.LevelInfo.
func NewHandler(sink Sink, category string, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{sink: sink, category: category, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	category := h.category
	fields := append([]field(nil), h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		fields, category = h.collect(fields, category, h.group, a)
		return true
	})

	h.sink.Append(logstore.Record{
		Message:   withFields(r.Message, fields),
		Severity:  severityFromSlog(r.Level),
		Category:  category,
		Timestamp: r.Time,
	})
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append([]field(nil), h.attrs...)
	for _, a := range attrs {
		h2.attrs, h2.category = h2.collect(h2.attrs, h2.category, h2.group, a)
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.group = joinKey(h.group, name)
	return &h2
}

// collect flattens a into fields. A top-level "category" attribute replaces
// the category instead of becoming a field.
func (h *Handler) collect(fields []field, category, group string, a slog.Attr) ([]field, string) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return fields, category
	}
	if a.Value.Kind() == slog.KindGroup {
		prefix := joinKey(group, a.Key)
		for _, sub := range a.Value.Group() {
			fields, category = h.collect(fields, category, prefix, sub)
		}
		return fields, category
	}
	if group == "" && a.Key == CategoryKey {
		return fields, a.Value.String()
	}
	return append(fields, field{key: joinKey(group, a.Key), value: a.Value.String()}), category
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return strings.Join([]string{prefix, key}, ".")
}

func severityFromSlog(level slog.Level) logstore.Severity {
	switch {
	case level < slog.LevelInfo:
		return logstore.SeverityDebug
	case level < slog.LevelWarn:
		return logstore.SeverityInfo
	case level < slog.LevelError:
		return logstore.SeverityWarn
	default:
		return logstore.SeverityError
	}
}
