package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

var errInvalidMaxLines = errors.New("enter a whole number, 0 for unlimited")

// maxLinesSubmittedMsg carries a confirmed buffer cap.
type maxLinesSubmittedMsg struct {
	maxLines int
}

// maxLinesModal prompts for the buffer cap. Zero means unlimited.
type maxLinesModal struct {
	input textinput.Model
	err   string
}

func newMaxLinesModal(current int) *maxLinesModal {
	ti := textinput.New()
	ti.Placeholder = "0 keeps every line"
	ti.CharLimit = 9
	ti.Width = 20
	ti.SetValue(strconv.Itoa(current))
	ti.CursorEnd()
	ti.Focus()
	return &maxLinesModal{input: ti}
}

func (d *maxLinesModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Escape):
			return d, nil, true

		case key.Matches(msg, keys.Confirm):
			n, err := parseMaxLines(d.input.Value())
			if err != nil {
				d.err = err.Error()
				return d, nil, false
			}
			return d, func() tea.Msg { return maxLinesSubmittedMsg{maxLines: n} }, true
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	d.err = ""
	return d, cmd, false
}

func (d *maxLinesModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Max Lines"))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 30)))
	b.WriteString("\n\n")
	b.WriteString(styles.MutedText.Render("Changing the cap reloads the log."))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("Lines: "))
	b.WriteString(d.input.View())
	b.WriteString("\n\n")
	if d.err != "" {
		b.WriteString(styles.DangerText.Render(d.err))
		b.WriteString("\n\n")
	}
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(44)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func parseMaxLines(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, errInvalidMaxLines
	}
	return n, nil
}
