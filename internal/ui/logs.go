package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lookout/internal/session"
)

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(m.width-borderCols, m.height-chromeRows-borderRows)
	m.logViewport.Style = lipgloss.NewStyle()
}

// resizeLogViewport fits the viewport inside the log box.
func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-borderCols, 0)
	m.logViewport.Height = max(m.height-chromeRows-borderRows, 1)
}

// refreshLogViewport re-renders the session projection into the viewport.
func (m *Model) refreshLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
}

// observeScroll reports the viewport position so the session can re-derive
// auto-follow.
func (m *Model) observeScroll() {
	m.session.Dispatch(session.ScrollMoved{
		Total:  m.logViewport.TotalLineCount(),
		Offset: m.logViewport.YOffset,
		Height: m.logViewport.Height,
	})
}

// reveal centres the entry at buffer index in the viewport.
func (m *Model) reveal(index int) {
	row := m.session.DisplayLine(index)
	if row < 0 {
		return
	}
	m.logViewport.SetYOffset(max(row-m.logViewport.Height/2, 0))
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.session.Search().Term())
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		return m, m.dispatch(session.SearchNavigated{Direction: session.Next})

	case key.Matches(msg, m.keys.PrevMatch):
		return m, m.dispatch(session.SearchNavigated{Direction: session.Prev})

	case key.Matches(msg, m.keys.Escape):
		if m.session.Search().Active() {
			m.searchInput.SetValue("")
			return m, m.dispatch(session.SearchTermChanged{Term: ""})
		}
		return m, nil

	case key.Matches(msg, m.keys.RaiseLevel):
		return m, m.dispatch(session.FilterChanged{Level: m.session.Level().Next()})

	case key.Matches(msg, m.keys.LowerLevel):
		return m, m.dispatch(session.FilterChanged{Level: m.session.Level().Prev()})
	}

	if m.ready && m.scroll(msg) {
		m.observeScroll()
	}
	return m, nil
}

// scroll moves the viewport for navigation keys and reports whether msg was one.
func (m *Model) scroll(msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	default:
		return false
	}
	return true
}

// handleSearchInput handles keyboard input while the search box has focus.
// Every edit re-runs the search; Enter steps to the next match.
func (m Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		return m, m.dispatch(session.SearchNavigated{Direction: session.Next})

	case key.Matches(msg, m.keys.Escape):
		// Leave the box; the term and its matches stay for n/N.
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if term := m.searchInput.Value(); term != before {
		return m, tea.Batch(cmd, m.dispatch(session.SearchTermChanged{Term: term}))
	}
	return m, cmd
}

// resetSearchInput empties the search box after the session dropped its term.
func (m *Model) resetSearchInput() {
	m.searching = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
}

// renderLogs renders the log box and the status line below it.
func (m Model) renderLogs() string {
	title := m.session.Character() + " log"
	box := m.renderBox(title, m.logViewport.View(), m.width, m.height-chromeRows)
	return box + "\n" + m.renderLogStatus()
}

// renderBox draws a rounded border with the title set into the top edge.
func (m Model) renderBox(title, content string, width, height int) string {
	styles := m.theme.Styles()
	border := lipgloss.RoundedBorder()

	color := m.theme.Border
	if m.session.Following() {
		color = m.theme.BorderFocus
	}
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(color))

	label := " " + truncate(title, max(width-6, 0)) + " "
	fill := max(width-3-lipgloss.Width(label), 0)
	top := borderStyle.Render(border.TopLeft+border.Top) +
		styles.AccentText.Bold(true).Render(label) +
		borderStyle.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	body := lipgloss.NewStyle().
		Border(border, false, true, true, true).
		BorderForeground(lipgloss.Color(color)).
		Background(lipgloss.Color(m.theme.FocusBg)).
		Padding(0, 1).
		Width(max(width-2, 0)).
		Height(max(height-borderRows, 0)).
		Render(content)

	return top + "\n" + body
}

// renderLogStatus renders the status line under the log box.
func (m Model) renderLogStatus() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles()
	search := m.session.Search()

	var parts []string

	switch {
	case m.searching:
		parts = append(parts, m.searchInput.View()+bg.Space()+bg.Render(search.Indicator(), styles.WarningText))
	case search.Active() && search.Count() > 0:
		parts = append(parts,
			bg.Render("/"+truncate(search.Term(), 30), styles.AccentText)+bg.Space()+
				bg.Render(search.Indicator(), styles.WarningText))
	case search.Active():
		parts = append(parts, bg.Render("Pattern not found: "+truncate(search.Term(), 30), styles.DangerText))
	}

	entries := m.session.Entries()
	shown := 0
	for _, e := range entries {
		if e.Visible {
			shown++
		}
	}
	parts = append(parts, bg.Render(fmt.Sprintf("%d lines, %d shown", len(entries), shown), styles.FaintText))

	follow := "off"
	if m.session.Following() {
		follow = "on"
	}
	parts = append(parts, bg.Render("auto-tail "+follow, styles.FaintText))
	parts = append(parts, bg.Render("level "+string(m.session.Level())+"+", styles.MutedText))
	parts = append(parts, bg.Render("max "+maxLinesLabel(m.session.MaxLines()), styles.MutedText))

	if m.copied {
		parts = append(parts, bg.Render("Copied!", styles.SuccessText))
	}

	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return bg.FillLine(strings.Join(parts, sep), m.width)
}

// renderLogContent renders the visible entries, one viewport row each.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if text := m.session.Placeholder(); text != "" {
		style := styles.MutedText
		if text == session.ErrorPlaceholder {
			style = styles.DangerText
		}
		return bg.FillLine(bg.Render(text, style), width)
	}

	entries := m.session.Entries()
	lines := make([]string, 0, len(entries))
	row := 0
	for _, e := range entries {
		if !e.Visible {
			continue
		}
		row++
		lines = append(lines, bg.FillLine(m.renderEntry(row, e, styles, bg), width))
	}

	if len(lines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}
	return strings.Join(lines, "\n")
}

// renderEntry renders one row: the current match is highlighted, other
// matches use the accent colour, everything else is colourised by level.
func (m *Model) renderEntry(row int, e session.Entry, styles Styles, bg BgStyle) string {
	gutter := fmt.Sprintf("%4d │ ", row)
	switch {
	case e.Current:
		return styles.CurrentMatch.Render(gutter + e.Text)
	case e.Match:
		return bg.Render(gutter, styles.AccentText) + bg.Render(e.Text, styles.Match)
	default:
		return bg.Render(gutter, styles.FaintText) + colorizeEntry(e, styles, bg)
	}
}

// colorizeEntry splits a structured display line into its timestamp, level
// and message. Lines without a level are rendered as plain text.
func colorizeEntry(e session.Entry, styles Styles, bg BgStyle) string {
	if !e.Tagged() {
		return bg.Render(e.Text, styles.Text)
	}
	stamp := "[" + e.Time + "]"
	rest, ok := strings.CutPrefix(e.Text, stamp+" ")
	if !ok {
		return bg.Render(e.Text, styles.Text)
	}
	label, message, _ := strings.Cut(rest, ": ")

	var b strings.Builder
	b.WriteString(bg.Render(stamp, styles.FaintText))
	b.WriteString(bg.Space())
	if label != "" {
		b.WriteString(bg.Render(label, styles.LevelStyle(e.Level).Bold(true)))
	}
	b.WriteString(bg.Render(":", styles.FaintText))
	if message != "" {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render(message, styles.Text))
	}
	return b.String()
}

func maxLinesLabel(n int) string {
	if n <= 0 {
		return "∞"
	}
	return fmt.Sprintf("%d", n)
}
