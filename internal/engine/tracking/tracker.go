package tracking

import (
	"sync"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
)

// Tracker holds named region sets and transforms them across edits.
// All operations are thread-safe.
type Tracker struct {
	mu   sync.RWMutex
	sets map[string][]buffer.Range
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{sets: make(map[string][]buffer.Range)}
}

// Set replaces the regions stored under key.
func (t *Tracker) Set(key string, ranges []buffer.Range) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stored := make([]buffer.Range, len(ranges))
	copy(stored, ranges)
	t.sets[key] = stored
}

// Get returns a snapshot of the regions stored under key.
func (t *Tracker) Get(key string) []buffer.Range {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ranges := t.sets[key]
	if len(ranges) == 0 {
		return nil
	}
	out := make([]buffer.Range, len(ranges))
	copy(out, ranges)
	return out
}

// Has reports whether key holds at least one region.
func (t *Tracker) Has(key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sets[key]) > 0
}

// Erase removes key. Erasing a missing key is a no-op.
func (t *Tracker) Erase(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.sets[key]
	delete(t.sets, key)
	return ok
}

// Keys returns the keys currently holding regions.
func (t *Tracker) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.sets))
	for k := range t.sets {
		keys = append(keys, k)
	}
	return keys
}

// Apply transforms every tracked region by an edit that was just applied
// to the buffer.
func (t *Tracker) Apply(edit buffer.Edit) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for key, ranges := range t.sets {
		t.sets[key] = cursor.TransformRanges(ranges, edit)
	}
}
