package session

import "github.com/five82/lookout/internal/logtail"

// Filter hides records below a severity threshold.
type Filter struct {
	Level logtail.Level
}

// ShouldShow reports whether a record with the given level passes the
// threshold. Untagged records and levels outside the hierarchy always pass.
func (f Filter) ShouldShow(level logtail.Level) bool {
	rank, ok := level.Rank()
	if !ok {
		return true
	}
	threshold, ok := f.Level.Rank()
	if !ok {
		return true
	}
	return rank >= threshold
}

// Apply recomputes visibility for every entry.
func (f Filter) Apply(entries []Entry) {
	for i := range entries {
		entries[i].Visible = f.ShouldShow(entries[i].Level)
	}
}
