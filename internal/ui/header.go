package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/lookout/internal/logsapi"
)

const fetchingMarker = "↻"

// renderHeader renders the connection status bar.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth
	health := m.session.Health()

	parts := []string{bg.Render("lookout", styles.Logo)}

	switch {
	case !m.session.Visible():
		parts = append(parts, bg.Render("● PAUSED", styles.MutedText))
	case health.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case health.LastError != nil:
		parts = append(parts, bg.Render("● RETRYING", styles.WarningText.Bold(true)))
	case health.LastUpdated.IsZero():
		parts = append(parts, bg.Render("● CONNECTING", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render("Character:", styles.MutedText)+bg.Space()+
			bg.Render(m.session.Character(), styles.Text))

	if !compact && m.endpoint != "" {
		parts = append(parts,
			bg.Render("Endpoint:", styles.MutedText)+bg.Space()+
				bg.Render(truncateMiddle(m.endpoint, 40), styles.AccentText))
	}

	if ts := formatTimestamp(health.LastUpdated); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}
	if m.session.InFlight() {
		parts = append(parts, bg.Render(fetchingMarker, styles.FaintText))
	}

	if health.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		parts = append(parts,
			bg.Render(classifyConnectionError(health.LastError), styles.DangerText.Bold(true))+bg.Space()+
				bg.Render(truncate(health.LastError.Error(), maxErr), styles.DangerText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	commands := []cmd{
		{"/", "Search"},
		{"n/N", "Next/Prev"},
		{"f/F", "Level " + string(m.session.Level())},
		{"m", "Lines " + maxLinesLabel(m.session.MaxLines())},
		{"y", "Copy"},
		{"G", "Follow"},
		{"?", "More"},
	}

	colon := bg.Render(":", styles.FaintText)
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if term := m.session.Search().Term(); term != "" {
		segments = append(segments, bg.Render("/"+truncate(term, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(strings.Join(segments, sep))
}

// formatTimestamp formats the last update time with a relative indicator.
func formatTimestamp(last time.Time) string {
	if last.IsZero() {
		return ""
	}

	since := time.Since(last)
	ts := last.Format("15:04:05")

	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}

// classifyConnectionError returns a short description of the fetch error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case errors.Is(err, logsapi.ErrStatus):
		return "HTTP"
	case errors.Is(err, logsapi.ErrDecode):
		return "BAD RESPONSE"
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	if max <= 5 {
		return s[:max]
	}
	endLen := (max - 3) * 2 / 3
	startLen := max - 3 - endLen
	return s[:startLen] + "..." + s[len(s)-endLen:]
}
