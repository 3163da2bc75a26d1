// Package logtail reads log files and turns raw log lines into records.
//
// # Reading
//
// Tail returns the last N complete lines of a file using a ring buffer sized
// to N, so memory stays O(N) no matter how large the file grows. Since reads
// forward from a byte offset and returns only complete lines; a trailing
// partial line is left in place until its newline arrives. Both report the
// byte offset just past the last line returned, which the companion server
// hands to clients as their cursor.
//
// # Parsing
//
// Parse accepts one line. JSON objects become structured records:
//
//	{"time":"10:00:01","level":"WARN","msg":"slow tick"}
//	→ Record{Time: "10:00:01", Level: "warn", Text: "[10:00:01] WARN: slow tick"}
//
// The stored Level is trimmed and lower-cased; the display text keeps the
// level as written. Any other input, including JSON that is not an object or
// an object whose level is not a string, becomes an untagged record whose
// Text is the raw line. Parse never returns an error.
//
// # Levels
//
// The severity hierarchy is trace < debug < info < warn < error. Level.Rank
// reports ok=false for untagged records and unknown names so callers can
// treat them as always visible.
package logtail
