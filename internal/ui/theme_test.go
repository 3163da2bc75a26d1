package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/logsapi"
	"github.com/five82/lookout/internal/logtail"
	"github.com/five82/lookout/internal/session"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" || names[1] != "Kanagawa" || names[2] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Nightfox Kanagawa Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Nightfox"); got != "Kanagawa" {
		t.Fatalf("NextTheme(Nightfox) = %q, want Kanagawa", got)
	}
	if got := NextTheme("Slate"); got != "Nightfox" {
		t.Fatalf("NextTheme(Slate) = %q, want Nightfox", got)
	}
	if got := NextTheme("Unknown"); got != "Nightfox" {
		t.Fatalf("NextTheme(Unknown) = %q, want Nightfox", got)
	}
}

func TestGetTheme(t *testing.T) {
	slate := GetTheme("Slate")
	if slate.Name != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", slate.Name)
	}

	unknown := GetTheme("Dracula")
	if unknown.Name != "Nightfox" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Nightfox (fallback)", unknown.Name)
	}
}

func TestLevelStyle(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles()

	tests := []struct {
		level logtail.Level
		want  string
	}{
		{logtail.LevelTrace, th.Faint},
		{logtail.LevelDebug, th.Info},
		{logtail.LevelInfo, th.Success},
		{logtail.LevelWarn, th.Warning},
		{logtail.LevelError, th.Danger},
		{"", th.Text},
		{"fatal", th.Text},
	}
	for _, tt := range tests {
		got := styles.LevelStyle(tt.level).GetForeground()
		if got != lipgloss.Color(tt.want) {
			t.Fatalf("LevelStyle(%q) foreground = %v, want %s", tt.level, got, tt.want)
		}
	}
}

func TestWithBackgroundKeepsCurrentMatchHighlight(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles().WithBackground(th.Surface)

	if got := styles.Text.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("Text background = %v, want %s", got, th.Surface)
	}
	if got := styles.CurrentMatch.GetBackground(); got != lipgloss.Color(th.Warning) {
		t.Fatalf("CurrentMatch background = %v, want %s", got, th.Warning)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"a longer line", 8, "a lon..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	got := truncateMiddle("http://logs.example.internal:8087", 20)
	if len(got) != 20 {
		t.Fatalf("len(truncateMiddle) = %d, want 20 (%q)", len(got), got)
	}
	if got[:6] != "http:/" || got[len(got)-4:] != "8087" {
		t.Fatalf("truncateMiddle = %q, want start and end preserved", got)
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("%w: /logs-data returned 502", logsapi.ErrStatus), "HTTP"},
		{fmt.Errorf("%w: invalid character", logsapi.ErrDecode), "BAD RESPONSE"},
		{errors.New("dial tcp 127.0.0.1:8087: connect: connection refused"), "OFFLINE"},
		{errors.New("dial tcp: lookup nowhere: no such host"), "HOST NOT FOUND"},
		{errors.New("context deadline exceeded"), "TIMEOUT"},
		{errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestColorizeEntry(t *testing.T) {
	th := GetTheme("Nightfox")
	styles := th.Styles().WithBackground(th.FocusBg)
	bg := NewBgStyle(th.FocusBg)

	tests := []struct {
		line string
		want string
	}{
		{"plain text", "plain text"},
		{`{"time":"t","level":0,"msg":"x"}`, "[t] : x"},
		{`{"time":"t","level":"warn","msg":"careful"}`, "careful"},
	}
	for _, tt := range tests {
		e := session.Entry{Record: logtail.Parse(tt.line), Visible: true}
		got := colorizeEntry(e, styles, bg)
		if !strings.Contains(got, tt.want) {
			t.Fatalf("colorizeEntry(%q) = %q, want it to contain %q", tt.line, got, tt.want)
		}
	}
}
