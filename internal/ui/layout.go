package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100
)

// Chrome rows around the log box: header, command bar and status line.
const (
	chromeRows = 3
	boxBorders = 2
)

// Timing constants.
const (
	// DefaultFrameInterval is how often the panel re-reads the store.
	DefaultFrameInterval = 100 * time.Millisecond

	// StatusMessageDuration is how long a transient status message stays up.
	StatusMessageDuration = 3 * time.Second
)

// Modal sizes.
const (
	helpModalWidth     = 44
	categoryModalWidth = 50
	categoryModalRows  = 14
)
