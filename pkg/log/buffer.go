package log

import (
	"fmt"
	"io"
	"sync"
)

// DefaultBufferCapacity is used by [NewCircularBuffer] for non-positive
// capacities.
const DefaultBufferCapacity = 100

// CircularBuffer is an [io.Writer] that keeps the most recent log entries
// in memory. It is used while the terminal is owned by a redrawing view
// (such as `run --watch`) and flushed once the view exits.
//
// Each call to Write is one entry. When the buffer is full, the oldest entry
// is dropped.
type CircularBuffer struct {
	entries [][]byte
	next    int
	count   int
	dropped int
	mu      sync.Mutex
}

// NewCircularBuffer creates a buffer holding at most capacity entries.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}

	return &CircularBuffer{entries: make([][]byte, capacity)}
}

// Write stores a copy of p as one entry.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.count == len(cb.entries) {
		cb.dropped++
	} else {
		cb.count++
	}

	cb.entries[cb.next] = append([]byte(nil), p...)
	cb.next = (cb.next + 1) % len(cb.entries)

	return len(p), nil
}

// Entries returns copies of the stored entries, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.count == 0 {
		return nil
	}

	out := make([][]byte, 0, cb.count)
	start := (cb.next - cb.count + len(cb.entries)) % len(cb.entries)

	for i := range cb.count {
		entry := cb.entries[(start+i)%len(cb.entries)]
		out = append(out, append([]byte(nil), entry...))
	}

	return out
}

// Len returns the number of stored entries.
func (cb *CircularBuffer) Len() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.count
}

// Capacity returns the maximum number of entries.
func (cb *CircularBuffer) Capacity() int {
	return len(cb.entries)
}

// Dropped returns the number of entries that were overwritten.
func (cb *CircularBuffer) Dropped() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.dropped
}

// Reset removes all entries.
func (cb *CircularBuffer) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	clear(cb.entries)
	cb.next = 0
	cb.count = 0
	cb.dropped = 0
}

// WriteTo writes the stored entries to w, oldest first.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, entry := range cb.Entries() {
		n, err := w.Write(entry)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write log entry: %w", err)
		}
	}

	return total, nil
}
