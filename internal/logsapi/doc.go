// Package logsapi provides an HTTP client for a log data endpoint.
//
// # Overview
//
// The endpoint serves one entity's log stream in increments. Each request
// carries the entity name and the cursor from the previous response:
//
//	GET /logs-data?characterName=<name>&offset=<cursor>
//
// and the response is a JSON batch:
//
//	{"offset": 20480, "content": "line\nline\n", "isInitial": false}
//
// Every field is optional. isInitial marks a snapshot that replaces whatever
// the client was showing; it is what the server returns to a client with no
// cursor or with a cursor it no longer recognises.
//
// # Cursors
//
// Cursor is opaque. It decodes from a JSON number or string and is echoed
// back verbatim. Integer cursors can be ordered with Before, which the
// session uses to notice a server log that was rotated or truncated.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and User-Agent: lookout/0.1
//   - Have a 5-second client timeout
//
// # Error Handling
//
// Failures are wrapped with context. Non-2xx responses wrap ErrStatus and
// undecodable bodies wrap ErrDecode, so callers can classify them with
// errors.Is:
//
//	"execute request: dial tcp 127.0.0.1:8087: connect: connection refused"
//	"unexpected status: logs-data returned 502"
//	"decode response: invalid character '<' looking for beginning of value"
//
// The client never retries; the session's poll loop decides when to try again.
//
// # URL Construction
//
// The endpoint may be host:port or a full URL. A path prefix is preserved:
//
//   - "127.0.0.1:8087"            → http://127.0.0.1:8087/logs-data
//   - "https://bot.lan/koolo"     → https://bot.lan/koolo/logs-data
package logsapi
