package ui

import "time"

// LayoutCompactWidth is the width below which the header drops detail.
const LayoutCompactWidth = 100

// Vertical chrome around the log viewport: header, command bar and status
// line, plus the two box borders.
const (
	chromeRows = 3
	borderRows = 2
	borderCols = 4 // borders and one column of padding each side
)

// Timing constants.
const (
	// DefaultPollInterval is used when no poll interval is configured.
	DefaultPollInterval = time.Second

	// LogFetchTimeout bounds one /logs-data request.
	LogFetchTimeout = 5 * time.Second

	// CopiedIndicatorDuration is how long "Copied!" stays in the status line.
	CopiedIndicatorDuration = 2 * time.Second
)
