package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/five82/lookout/internal/logtail"
)

func TestFilter_ShouldShow(t *testing.T) {
	tests := []struct {
		threshold logtail.Level
		level     logtail.Level
		want      bool
	}{
		{logtail.LevelWarn, logtail.LevelDebug, false},
		{logtail.LevelWarn, logtail.LevelWarn, true},
		{logtail.LevelWarn, logtail.LevelError, true},
		{logtail.LevelWarn, logtail.LevelTrace, false},
		{logtail.LevelTrace, logtail.LevelTrace, true},
		{logtail.LevelError, logtail.LevelInfo, false},
		{logtail.LevelError, "", true},
		{logtail.LevelError, "fatal", true},
		{"", logtail.LevelTrace, true},
	}
	for _, tt := range tests {
		got := Filter{Level: tt.threshold}.ShouldShow(tt.level)
		assert.Equal(t, tt.want, got, "threshold=%q level=%q", tt.threshold, tt.level)
	}
}

func TestFilter_Monotonic(t *testing.T) {
	for i, lower := range logtail.Levels {
		for _, higher := range logtail.Levels[i:] {
			for _, level := range append(logtail.Levels, "", "verbose") {
				if !(Filter{Level: lower}).ShouldShow(level) {
					assert.False(t, Filter{Level: higher}.ShouldShow(level),
						"raising %s to %s revealed %q", lower, higher, level)
				}
			}
		}
	}
}

func TestFilter_ApplyWarnScenario(t *testing.T) {
	b := NewBuffer(0)
	b.Append(raw(
		`{"level":"debug","msg":"d"}`,
		`{"level":"warn","msg":"w"}`,
		`{"level":"error","msg":"e"}`,
		`{"level":"trace","msg":"t"}`,
	)...)

	Filter{Level: logtail.LevelWarn}.Apply(b.Entries())

	var visible []logtail.Level
	for _, e := range b.Entries() {
		if e.Visible {
			visible = append(visible, e.Level)
		}
	}
	assert.ElementsMatch(t, []logtail.Level{logtail.LevelWarn, logtail.LevelError}, visible)
}
