// Package ui provides the terminal log viewer for lookout.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model owns a session.State and is its only
// driver: every input becomes a session event, and the returned
// session.Effects decide what the model does next (re-render, snap to the
// bottom, centre a match, start a fetch, save preferences).
//
// # Package Structure
//
//   - app.go: Model, Update loop, messages and commands, Run
//   - logs.go: log viewport, search box, entry rendering
//   - header.go: status bar and command bar
//   - help.go: keyboard shortcut overlay
//   - modal.go: Modal interface and the max-lines prompt
//   - keys.go: key bindings
//   - theme.go, style_helpers.go: colour themes and background-safe rendering
//
// # Event Flow
//
//  1. Init issues the first fetch and starts the poll tick
//  2. tickMsg dispatches TickElapsed; the session skips it while hidden or
//     while a fetch is in flight
//  3. Fetches run as commands with a per-request timeout and come back as
//     fetchResultMsg tagged with their session generation
//  4. tea.FocusMsg and tea.BlurMsg map to VisibilityChanged, so a window that
//     loses focus stops polling and fetches at once when it regains it
//  5. Every scroll, keyboard or mouse, reports ScrollMoved so auto-follow is
//     re-derived from the viewport position
//  6. Clipboard writes run as commands; copyResultMsg turns on the "Copied!"
//     indicator or logs the failure
//
// Each visible entry is exactly one viewport row, which keeps the mapping
// from buffer index to row (session.State.DisplayLine) valid for centring
// search matches.
//
// # Key Bindings
//
//   - /: Search (typing re-runs the search, Enter steps to the next match,
//     Esc leaves the box)
//   - n/N: Next/previous match; Esc clears the search
//   - f/F: Raise/lower the severity threshold
//   - m: Set max lines (0 = unlimited); reloads the log
//   - y: Copy visible lines to the clipboard
//   - g/G: Top/bottom; reaching the bottom resumes auto-follow
//   - j/k, ctrl+d/u, pgup/pgdown: Scroll
//   - T: Cycle theme
//   - h/?: Help
//   - q or Ctrl+C: Quit
package ui
