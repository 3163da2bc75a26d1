package logtail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Level is a normalized (trimmed, lower-cased) severity name. The empty
// Level marks a record that carries no severity tag.
type Level string

const (
	LevelTrace Level = "trace"
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Levels lists the severity hierarchy from least to most severe.
var Levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// Rank returns the position of l in the severity hierarchy. ok is false for
// untagged records and for level names outside the hierarchy.
func (l Level) Rank() (rank int, ok bool) {
	for i, known := range Levels {
		if l == known {
			return i, true
		}
	}
	return -1, false
}

// ParseLevel validates a user supplied level name.
func ParseLevel(value string) (Level, error) {
	level := normalizeLevel(value)
	if _, ok := level.Rank(); !ok {
		return "", fmt.Errorf("unknown level %q (want one of trace, debug, info, warn, error)", value)
	}
	return level, nil
}

// Next returns the next more severe level, stopping at error.
func (l Level) Next() Level {
	rank, ok := l.Rank()
	if !ok || rank == len(Levels)-1 {
		return l
	}
	return Levels[rank+1]
}

// Prev returns the next less severe level, stopping at trace.
func (l Level) Prev() Level {
	rank, ok := l.Rank()
	if !ok || rank == 0 {
		return l
	}
	return Levels[rank-1]
}

// Record is one parsed log line. Records are immutable once parsed.
type Record struct {
	Time    string
	Level   Level
	Message string
	// Raw is the line exactly as received.
	Raw string
	// Text is the rendered display line.
	Text string
}

// Tagged reports whether the record carries a severity level.
func (r Record) Tagged() bool {
	return r.Level != ""
}

// Parse interprets line as a JSON object with optional time, level and msg
// fields. Anything else yields an untagged record whose Text is the raw line.
// Parse never fails.
func Parse(line string) Record {
	fallback := Record{Raw: line, Text: line}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil || fields == nil {
		return fallback
	}

	levelText := ""
	if raw, ok := fields["level"]; ok && !isNull(raw) && !isFalsy(raw) {
		if err := json.Unmarshal(raw, &levelText); err != nil {
			// non-string level
			return fallback
		}
	}

	rec := Record{
		Time:    fieldText(fields["time"]),
		Level:   normalizeLevel(levelText),
		Message: fieldText(fields["msg"]),
		Raw:     line,
	}
	rec.Text = fmt.Sprintf("[%s] %s: %s", rec.Time, levelText, rec.Message)
	return rec
}

// ParseChunk splits a newline-delimited chunk and parses every non-blank line.
func ParseChunk(content string) []Record {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		records = append(records, Parse(line))
	}
	return records
}

func normalizeLevel(value string) Level {
	return Level(strings.ToLower(strings.TrimSpace(value)))
}

func fieldText(raw json.RawMessage) string {
	if len(raw) == 0 || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// isFalsy reports whether raw is false or a numeric zero. Such a level counts
// as absent rather than malformed.
func isFalsy(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if string(trimmed) == "false" {
		return true
	}
	var n float64
	return json.Unmarshal(trimmed, &n) == nil && n == 0
}
