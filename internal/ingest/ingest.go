package ingest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/five82/logpanel/internal/logstore"
)

// CategoryKey is the field name that selects the record category.
const CategoryKey = "category"

// Sink receives records. *logstore.Store satisfies it.
type Sink interface {
	Append(rec logstore.Record)
}

type field struct {
	key   string
	value string
}

// withFields appends key=value pairs to message, quoting values that contain
// spaces.
func withFields(message string, fields []field) string {
	if len(fields) == 0 {
		return message
	}
	var b strings.Builder
	b.WriteString(message)
	for _, f := range fields {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		if strings.ContainsAny(f.value, " \t\"") {
			fmt.Fprintf(&b, "%q", f.value)
		} else {
			b.WriteString(f.value)
		}
	}
	return b.String()
}

func sortedFields(data map[string]any) (category string, fields []field) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value := fmt.Sprint(data[k])
		if k == CategoryKey {
			category = value
			continue
		}
		fields = append(fields, field{key: k, value: value})
	}
	return category, fields
}
