package ingest

import (
	"github.com/sirupsen/logrus"

	"github.com/five82/logpanel/internal/logstore"
)

// Hook copies logrus entries into a Sink.
type Hook struct {
	sink     Sink
	category string
	levels   []logrus.Level
}

// NewHook returns a hook for every level at or above minLevel. Entries without
// a "category" field use category.
func NewHook(sink Sink, category string, minLevel logrus.Level) *Hook {
	levels := make([]logrus.Level, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		// logrus orders levels from panic (0) to trace (6)
		if level <= minLevel {
			levels = append(levels, level)
		}
	}
	return &Hook{sink: sink, category: category, levels: levels}
}

// Levels implements logrus.Hook.
func (h *Hook) Levels() []logrus.Level {
	return h.levels
}

// Fire implements logrus.Hook.
func (h *Hook) Fire(entry *logrus.Entry) error {
	category, fields := sortedFields(entry.Data)
	if category == "" {
		category = h.category
	}
	h.sink.Append(logstore.Record{
		Message:   withFields(entry.Message, fields),
		Severity:  severityFromLogrus(entry.Level),
		Category:  category,
		Timestamp: entry.Time,
	})
	return nil
}

func severityFromLogrus(level logrus.Level) logstore.Severity {
	switch level {
	case logrus.TraceLevel, logrus.DebugLevel:
		return logstore.SeverityDebug
	case logrus.InfoLevel:
		return logstore.SeverityInfo
	case logrus.WarnLevel:
		return logstore.SeverityWarn
	default:
		return logstore.SeverityError
	}
}
