package logtail

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path
}

func TestTail(t *testing.T) {
	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	logPath := writeLog(t, content.String())
	size := int64(content.Len())

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tail(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Tail() error = %v", err)
			}
			if !reflect.DeepEqual(got.Lines, tt.expected) {
				t.Errorf("Tail() = %v, want %v", got.Lines, tt.expected)
			}
			if got.Offset != size {
				t.Errorf("Tail() offset = %d, want %d", got.Offset, size)
			}
		})
	}
}

func TestTail_LeavesPartialLine(t *testing.T) {
	logPath := writeLog(t, "a\r\nb\npart")

	got, err := Tail(logPath, 10)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if !reflect.DeepEqual(got.Lines, []string{"a", "b"}) {
		t.Fatalf("Tail() = %q, want [a b]", got.Lines)
	}
	if got.Offset != int64(len("a\r\nb\n")) {
		t.Fatalf("Tail() offset = %d, want %d", got.Offset, len("a\r\nb\n"))
	}
}

func TestTail_MissingFile(t *testing.T) {
	_, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 5)
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Tail() error = %v, want fs.ErrNotExist", err)
	}
}

func TestSince(t *testing.T) {
	logPath := writeLog(t, "one\ntwo\nthree\npart")

	got, err := Since(logPath, 4, 0)
	if err != nil {
		t.Fatalf("Since() error = %v", err)
	}
	if !reflect.DeepEqual(got.Lines, []string{"two", "three"}) {
		t.Fatalf("Since() = %q, want [two three]", got.Lines)
	}
	if got.Offset != int64(len("one\ntwo\nthree\n")) {
		t.Fatalf("Since() offset = %d", got.Offset)
	}

	again, err := Since(logPath, got.Offset, 0)
	if err != nil {
		t.Fatalf("Since() error = %v", err)
	}
	if len(again.Lines) != 0 || again.Offset != got.Offset {
		t.Fatalf("Since() at partial line = %#v, want no lines and same offset", again)
	}
}

func TestSince_RespectsMaxBytes(t *testing.T) {
	logPath := writeLog(t, "aaaa\nbbbb\ncccc\n")

	got, err := Since(logPath, 0, 7)
	if err != nil {
		t.Fatalf("Since() error = %v", err)
	}
	if !reflect.DeepEqual(got.Lines, []string{"aaaa"}) || got.Offset != 5 {
		t.Fatalf("Since() = %#v, want [aaaa] offset 5", got)
	}

	long := writeLog(t, "0123456789\n")
	got, err = Since(long, 0, 4)
	if err != nil {
		t.Fatalf("Since() error = %v", err)
	}
	if !reflect.DeepEqual(got.Lines, []string{"0123"}) || got.Offset != 4 {
		t.Fatalf("Since() long line = %#v, want [0123] offset 4", got)
	}
}

func TestSince_AtAndBeyondEOF(t *testing.T) {
	logPath := writeLog(t, "x\n")

	got, err := Since(logPath, 2, 0)
	if err != nil || len(got.Lines) != 0 || got.Offset != 2 {
		t.Fatalf("Since() at EOF = %#v, %v; want empty chunk at 2", got, err)
	}
	if _, err := Since(logPath, 3, 0); !errors.Is(err, ErrOffsetBeyondEOF) {
		t.Fatalf("Since() beyond EOF error = %v, want ErrOffsetBeyondEOF", err)
	}
	if _, err := Since(logPath, -1, 0); err == nil {
		t.Fatalf("Since() negative offset returned nil error")
	}
}
