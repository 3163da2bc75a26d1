// Package app provides the orchestration layer for lookout.
//
// # Overview
//
// This package wires together configuration, preferences, logging, the log
// client and the session controller. It is the composition root behind every
// command in cmd/lookout.
//
// # Entry Points
//
//   - Run: the interactive viewer. The Bubble Tea model drives the session.
//   - Tail: plain streaming to a writer. StartPoller drives the session.
//   - Serve: the companion HTTP endpoint that exposes a log directory as
//     /logs-data.
//
// # Configuration Precedence
//
// loadConfig resolves settings in this order, later sources winning:
//
//  1. Built-in defaults
//  2. ~/.config/lookout/config.toml (or --config)
//  3. .env file and LOOKOUT_* process environment
//  4. Non-zero Options fields (command-line flags)
//
// The character name from the environment only fills a name the config file
// left empty. A session with no character at all follows "unknown".
//
// # Data Flow
//
//	┌──────────────┐
//	│   Tail()     │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> loadConfig()        Defaults, file, env, flags
//	       ├─────> prefs.Load()        Max lines
//	       ├─────> logsapi.NewClient() HTTP client for /logs-data
//	       ├─────> session.New()       Session controller
//	       └─────> StartPoller()       Blocks until ctx is cancelled
//
//	Poller Loop:
//	┌─────────────────────────────────────────┐
//	│ StartPoller() goroutine                 │
//	│  ├─> st.Dispatch(TickElapsed)           │
//	│  ├─> fetcher.FetchLogs()  (inline)      │
//	│  ├─> st.Dispatch(FetchCompleted)        │
//	│  └─> onUpdate(st, effects)              │
//	└─────────────────────────────────────────┘
//
// # Polling Behavior
//
// The poller owns the session for its whole life, so no locking is needed.
// Fetches run inline on the poller goroutine, which means a tick can never
// overlap an outstanding request. A failed fetch is reported to the session,
// which swaps the buffer for a placeholder, and polling carries on at the
// same cadence.
//
// # Error Handling
//
// Fatal errors (returned to the caller):
//   - Invalid config file, .env file or --level value
//   - Endpoint that cannot be parsed
//   - Log file that cannot be opened
//   - Listener failure in Serve
//
// Recoverable errors (logged, polling continues):
//   - Network failures, bad status codes and undecodable responses
package app
