package session

import "github.com/five82/lookout/internal/logtail"

// Entry is one buffered record plus its derived view flags.
type Entry struct {
	logtail.Record

	// Visible is false when the severity filter hides the record.
	Visible bool
	// Match marks a search hit; Current marks the selected hit.
	Match   bool
	Current bool
}

// Buffer is an ordered, bounded sequence of entries. When the capacity is
// positive the oldest entries are evicted first.
type Buffer struct {
	entries  []Entry
	capacity int
}

// NewBuffer returns an empty buffer. A capacity of zero or less means unbounded.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{capacity: capacity}
}

// Capacity returns the eviction cap; zero means unbounded.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// SetCapacity changes the cap and empties the buffer. Re-capping in place is
// never done because the server has already moved past the dropped lines.
func (b *Buffer) SetCapacity(capacity int) {
	if capacity < 0 {
		capacity = 0
	}
	b.capacity = capacity
	b.Reset()
}

// Len returns the number of buffered entries.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Entries returns the buffered entries oldest first. The slice is owned by
// the buffer and is only valid until the next Append or Reset.
func (b *Buffer) Entries() []Entry {
	return b.entries
}

// Append adds records at the tail, then evicts from the head in a single
// batch until the cap holds. It returns the index of the first appended
// entry that survived eviction, which equals Len() when none did.
func (b *Buffer) Append(records ...logtail.Record) (first int) {
	for _, rec := range records {
		b.entries = append(b.entries, Entry{Record: rec, Visible: true})
	}
	first = len(b.entries) - len(records)

	if b.capacity > 0 && len(b.entries) > b.capacity {
		drop := len(b.entries) - b.capacity
		n := copy(b.entries, b.entries[drop:])
		clear(b.entries[n:])
		b.entries = b.entries[:n]
		first -= drop
		if first < 0 {
			first = 0
		}
	}
	return first
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	clear(b.entries)
	b.entries = b.entries[:0]
}
