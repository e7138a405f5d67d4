package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which the header drops detail.
	LayoutCompactWidth = 100
)

// Timing and size constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// LogTailLines is how many diagnostic log lines the log view keeps.
	LogTailLines = 500

	// ViewFetchTimeout bounds the raw content request behind the pager.
	ViewFetchTimeout = 15 * time.Second
)
