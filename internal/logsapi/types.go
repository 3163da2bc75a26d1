package logsapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Cursor is the server's opaque position in a log stream.
// The zero value means "no cursor yet"; the server answers it with an
// initial snapshot.
type Cursor string

// IsZero reports whether no cursor has been assigned.
func (c Cursor) IsZero() bool {
	return c == ""
}

// String implements fmt.Stringer.
func (c Cursor) String() string {
	return string(c)
}

// Before reports whether c is strictly behind other. comparable is false
// unless both cursors are integers, since other cursor forms are opaque.
func (c Cursor) Before(other Cursor) (before, comparable bool) {
	a, errA := strconv.ParseInt(string(c), 10, 64)
	b, errB := strconv.ParseInt(string(other), 10, 64)
	if errA != nil || errB != nil {
		return false, false
	}
	return a < b, true
}

// UnmarshalJSON accepts a JSON number or string. null leaves the cursor unset.
func (c *Cursor) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, string(trimmed) == "null":
		*c = ""
		return nil
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("decode cursor: %w", err)
		}
		*c = Cursor(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("decode cursor: %w", err)
		}
		*c = Cursor(n.String())
		return nil
	}
}

// MarshalJSON writes integer cursors as JSON numbers and anything else as a string.
func (c Cursor) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(c), 10, 64); err == nil {
		return []byte(c), nil
	}
	return json.Marshal(string(c))
}

// Batch mirrors the payload returned by /logs-data.
type Batch struct {
	// Offset is the cursor to send on the next request. Zero when the
	// server did not include one.
	Offset Cursor `json:"offset,omitempty"`
	// Content holds newline-delimited raw log lines.
	Content string `json:"content,omitempty"`
	// IsInitial marks a full snapshot that replaces the current view.
	IsInitial bool `json:"isInitial,omitempty"`
}

// HasOffset reports whether the server returned a cursor.
func (b Batch) HasOffset() bool {
	return !b.Offset.IsZero()
}
