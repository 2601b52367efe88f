package logstore

import "fmt"

// ConfigError reports a StoreConfig field that cannot be used.
type ConfigError struct {
	Field string
	Value int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid store config: %s must be >= 1, got %d", e.Field, e.Value)
}
