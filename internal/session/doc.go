// Package session implements the incremental log session controller.
//
// # Overview
//
// A State owns everything the viewer knows about one character's log: the
// stream cursor, the bounded buffer of parsed records, the severity filter,
// the search, the auto-follow flag and fetch health. All mutation goes
// through Dispatch, which applies one Event and returns Effects describing
// what the driver must do next (issue a fetch, re-render, scroll).
//
//	 driver (bubbletea loop or plain poller)
//	┌──────────────────────────────────────┐
//	│ tick / focus / key / fetch result    │
//	│             ↓                        │
//	│ effects := state.Dispatch(event)     │
//	│             ↓                        │
//	│ run effects.Fetch in background  ────┼──→ logsapi.Fetcher
//	│ render, snap, reveal                 │         │
//	│             ↑                        │         │
//	│ state.Dispatch(FetchCompleted{...}) ←┼─────────┘
//	└──────────────────────────────────────┘
//
// State performs no I/O and holds no locks. Drivers call it from a single
// goroutine.
//
// # Polling
//
//   - TickElapsed fetches only while the viewer is visible and no fetch of
//     the current generation is pending. Overlapping ticks are skipped.
//   - VisibilityChanged{Visible: true} after a hidden period fetches at once.
//   - MaxLinesChanged resets the session: new generation, empty cursor and
//     buffer, cleared search, "Reloading logs..." notice, immediate fetch.
//   - FetchCompleted with an older generation is dropped unapplied.
//
// A failed fetch empties the buffer, shows ErrorPlaceholder and leaves the
// cursor alone. The next tick retries at the same interval.
//
// # Buffer and Views
//
// Entries are kept oldest first with FIFO eviction once MaxLines is
// exceeded. Visible, Match and Current are stored on each Entry so
// rendering is a pure projection of the State:
//
//	Visible  filter threshold (untagged or unknown levels always pass)
//	Match    case-insensitive substring hit on a visible entry
//	Current  the selected hit, shown as "i/N"
//
// Background refreshes re-run an active search without asking the view to
// move. Typing a term and navigating both return Effects.Reveal.
//
// # Follow
//
// Following is re-derived from every ScrollMoved. While following, new
// content and filter changes return Effects.SnapToBottom.
package session
