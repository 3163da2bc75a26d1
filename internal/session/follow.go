package session

// DefaultFollowThreshold is the distance from the bottom, in lines, that
// still counts as following.
const DefaultFollowThreshold = 2

// AtBottom reports whether a view of height lines starting at offset is
// within threshold lines of the end of total lines.
func AtBottom(total, offset, height, threshold int) bool {
	if threshold < 1 {
		threshold = 1
	}
	return total-offset-height < threshold
}

// Follow holds the auto-follow flag. It mirrors scroll position and is only
// changed through Observe.
type Follow struct {
	threshold int
	enabled   bool
}

// NewFollow returns a controller that starts out following.
func NewFollow(threshold int) Follow {
	if threshold < 1 {
		threshold = DefaultFollowThreshold
	}
	return Follow{threshold: threshold, enabled: true}
}

// Enabled reports whether new content should snap the view to the bottom.
func (f *Follow) Enabled() bool {
	return f.enabled
}

// Observe re-derives the flag from a scroll position and returns it.
func (f *Follow) Observe(total, offset, height int) bool {
	f.enabled = AtBottom(total, offset, height, f.threshold)
	return f.enabled
}
