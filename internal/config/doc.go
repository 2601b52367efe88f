// Package config loads the logpanel TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/logpanel/config.toml
//  3. If the file doesn't exist, use Default()
//  4. Fields that are absent or blank keep their defaults
//
// # TOML Format
//
//	[store]
//	max_records = 2000
//	max_message_length = 2000
//
//	[display]
//	time_format = "local"      # local | utc | hide
//	time_precision = "seconds" # seconds | millis
//	show_severity = true
//	show_category = true
//
//	[input]
//	category = "Input"
//	severity = "info"
//	prefix = ""
//	hint = "Type a message and press Enter..."
//
//	[sources]
//	demo = false
//	demo_interval = "750ms"
//	follow = ["~/.local/share/app/app.log"]
//
//	[metrics]
//	addr = ""                  # e.g. "127.0.0.1:9101"; blank disables
//
//	[log]
//	file = "~/.local/state/logpanel/logpanel.log"
//	level = "info"
//
// # Error Handling
//
// Store limits are the one place a value is never defaulted: an explicit
// max_records or max_message_length below 1 fails Load with an error that
// wraps *logstore.ConfigError. Unknown severities, time formats and durations
// are errors too. A missing file is not.
//
// Tilde expansion applies to the config path, follow paths and the log file.
package config
