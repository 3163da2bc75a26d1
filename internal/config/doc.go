// Package config loads lookout's settings.
//
// # Resolution Order
//
//  1. Built-in defaults (Default)
//  2. The TOML file, ~/.config/lookout/config.toml unless a path is given
//  3. LOOKOUT_* variables from a .env file and the process environment
//  4. Command-line flags, applied by the caller
//
// A missing config file is not an error. Empty or non-positive values in the
// file keep their defaults.
//
// # TOML Format
//
//	endpoint = "127.0.0.1:8087"      # host:port or URL of the /logs-data server
//	character = "Sorc"               # whose log to follow
//	poll_interval_ms = 1000
//	follow_threshold = 2             # lines from the bottom that still follow
//	default_level = "debug"          # trace, debug, info, warn, error
//	log_file = "~/.local/state/lookout/lookout.log"
//	serve_dir = "~/.local/share/lookout/logs"
//	serve_addr = "127.0.0.1:8087"
//	initial_lines = 1000             # snapshot size served to new clients
//
// # Environment
//
// LOOKOUT_ENDPOINT and LOOKOUT_LOG_FILE replace their file values.
// LOOKOUT_CHARACTER only applies when the file names no character. Values in
// the process environment win over the .env file.
//
// Paths accept "~" and are made absolute.
package config
