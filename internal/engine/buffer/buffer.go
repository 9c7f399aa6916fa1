package buffer

import (
	"errors"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer is a thread-safe mutable text store.
// Reads go through Snapshot, which returns an immutable Text.
type Buffer struct {
	mu       sync.RWMutex
	snap     Text
	revision uint64
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{snap: NewText("")}
}

// NewBufferFromString creates a buffer holding s.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{snap: NewText(s)}
}

// Snapshot returns the current contents.
func (b *Buffer) Snapshot() Text {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snap
}

// Text returns the current contents as a string.
func (b *Buffer) Text() string {
	return b.Snapshot().String()
}

// Len returns the length of the buffer in bytes.
func (b *Buffer) Len() ByteOffset {
	return b.Snapshot().Len()
}

// Revision returns a counter incremented on every modification.
func (b *Buffer) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Insert inserts text at offset and returns the offset just past it.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.snap.String()
	if offset < 0 || offset > len(s) {
		return 0, ErrOffsetOutOfRange
	}

	b.snap = NewText(s[:offset] + text + s[offset:])
	b.revision++

	return offset + len(text), nil
}

// Replace replaces [start, end) with text and returns the offset just past
// the new text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.snap.String()
	if start < 0 || start > end || end > len(s) {
		return 0, ErrRangeInvalid
	}

	b.snap = NewText(s[:start] + text + s[end:])
	b.revision++

	return start + len(text), nil
}

// Delete removes [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}
