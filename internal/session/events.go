package session

import (
	"github.com/five82/lookout/internal/logsapi"
	"github.com/five82/lookout/internal/logtail"
)

// Event is an input to State.Dispatch.
type Event interface {
	event()
}

// TickElapsed is one beat of the poll timer.
type TickElapsed struct{}

// VisibilityChanged reports that the viewer gained or lost the foreground.
type VisibilityChanged struct {
	Visible bool
}

// FetchCompleted carries the outcome of a FetchRequest back to the session.
type FetchCompleted struct {
	Generation string
	Batch      logsapi.Batch
	Err        error
}

// FilterChanged sets the severity threshold.
type FilterChanged struct {
	Level logtail.Level
}

// SearchTermChanged is interactive input in the search box.
type SearchTermChanged struct {
	Term string
}

// SearchNavigated steps to the next or previous match.
type SearchNavigated struct {
	Direction Direction
}

// MaxLinesChanged sets the buffer cap. Zero means unlimited.
type MaxLinesChanged struct {
	MaxLines int
}

// ScrollMoved reports the view position after any scroll.
type ScrollMoved struct {
	Total  int
	Offset int
	Height int
}

func (TickElapsed) event()       {}
func (VisibilityChanged) event() {}
func (FetchCompleted) event()    {}
func (FilterChanged) event()     {}
func (SearchTermChanged) event() {}
func (SearchNavigated) event()   {}
func (MaxLinesChanged) event()   {}
func (ScrollMoved) event()       {}

// FetchRequest asks the driver to fetch one batch and report the result as
// a FetchCompleted with the same Generation.
type FetchRequest struct {
	Generation string
	Query      logsapi.Query
}

// Effects tells the driver what to do after an event was applied.
type Effects struct {
	// Fetch is non-nil when a request must be issued.
	Fetch *FetchRequest
	// Changed means the rendered projection is stale.
	Changed bool
	// SnapToBottom moves the view to the newest line.
	SnapToBottom bool
	// Reveal centres buffer index RevealIndex in the view.
	Reveal      bool
	RevealIndex int
	// PersistMaxLines means the cap changed and should be saved.
	PersistMaxLines bool
}

func (e *Effects) reveal(index int) {
	if index < 0 {
		return
	}
	e.Reveal = true
	e.RevealIndex = index
}
