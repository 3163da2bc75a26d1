package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrOffsetBeyondEOF reports a read offset past the end of the file, which
// happens after truncation or rotation.
var ErrOffsetBeyondEOF = errors.New("offset beyond end of file")

// Chunk is a run of complete lines read from a log file together with the
// byte offset just past the last line returned.
type Chunk struct {
	Lines  []string
	Offset int64
}

// Tail returns at most maxLines complete lines from the end of the file at
// path. A maxLines of zero or less returns every line. A trailing line
// without a newline is still being written and is left for the next read.
func Tail(path string, maxLines int) (Chunk, error) {
	file, err := os.Open(path)
	if err != nil {
		return Chunk{}, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var ring []string
	if maxLines > 0 {
		ring = make([]string, maxLines)
	}
	reader := bufio.NewReaderSize(file, 64*1024)
	var all []string
	var offset int64
	count, idx := 0, 0
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return Chunk{}, fmt.Errorf("read log: %w", err)
		}
		offset += int64(len(line))
		text := trimEOL(line)
		if maxLines <= 0 {
			all = append(all, text)
			continue
		}
		ring[idx] = text
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}

	if maxLines <= 0 {
		return Chunk{Lines: all, Offset: offset}, nil
	}
	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return Chunk{Lines: lines, Offset: offset}, nil
}

// Since reads complete lines starting at byte offset, consuming at most
// maxBytes. A single line longer than maxBytes is returned in pieces so the
// offset always advances when data is available.
func Since(path string, offset, maxBytes int64) (Chunk, error) {
	if offset < 0 {
		return Chunk{}, fmt.Errorf("negative offset %d", offset)
	}
	file, err := os.Open(path)
	if err != nil {
		return Chunk{}, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Chunk{}, fmt.Errorf("stat log: %w", err)
	}
	if offset > info.Size() {
		return Chunk{}, ErrOffsetBeyondEOF
	}
	if offset == info.Size() {
		return Chunk{Offset: offset}, nil
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return Chunk{}, fmt.Errorf("seek log: %w", err)
	}

	limit := info.Size() - offset
	if maxBytes > 0 && limit > maxBytes {
		limit = maxBytes
	}
	buf := make([]byte, limit)
	n, err := io.ReadFull(file, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Chunk{}, fmt.Errorf("read log: %w", err)
	}
	buf = buf[:n]

	end := strings.LastIndexByte(string(buf), '\n')
	if end < 0 {
		if maxBytes > 0 && int64(n) == maxBytes {
			return Chunk{Lines: []string{string(buf)}, Offset: offset + int64(n)}, nil
		}
		return Chunk{Offset: offset}, nil
	}
	lines := strings.Split(string(buf[:end]), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return Chunk{Lines: lines, Offset: offset + int64(end) + 1}, nil
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
