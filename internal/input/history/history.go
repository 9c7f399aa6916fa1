// Package history provides the recall ring for prompt answers.
package history

import "sync"

// DefaultCapacity is the ring size, counting the empty sentinel entry.
const DefaultCapacity = 21

// Direction selects the navigation step.
type Direction int

const (
	// Older steps toward less recent entries.
	Older Direction = 1
	// Newer steps toward more recent entries.
	Newer Direction = -1
)

// Ring tracks previously accepted answers in most-recently-used order.
// The last slot always holds an empty sentinel that navigation never
// lands on.
type Ring struct {
	mu       sync.Mutex
	items    []string
	capacity int
	cursor   int
}

// NewRing creates a ring with the given capacity (sentinel included).
func NewRing(capacity int) *Ring {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &Ring{
		items:    []string{""},
		capacity: capacity,
		cursor:   -1,
	}
}

// Record adds an answer to the front of the ring.
// Empty answers are ignored; an existing equal entry is moved to the front.
func (r *Ring) Record(text string) {
	if text == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.items[:len(r.items)-1]
	for i, item := range entries {
		if item == text {
			entries = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}

	next := make([]string, 0, len(entries)+2)
	next = append(next, text)
	next = append(next, entries...)
	if len(next) > r.capacity-1 {
		next = next[:r.capacity-1]
	}
	r.items = append(next, "")
}

// Navigate moves the cursor one step in dir and returns the entry there.
// The step wraps modulo the number of real entries, so the sentinel is
// never returned unless the ring is empty.
func (r *Ring) Navigate(dir Direction) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.items) - 1
	if n == 0 {
		r.cursor = -1
		return ""
	}

	step := 1
	if dir < 0 {
		step = -1
	}
	if r.cursor < 0 {
		if step > 0 {
			r.cursor = 0
		} else {
			r.cursor = n - 1
		}
	} else {
		r.cursor = ((r.cursor+step)%n + n) % n
	}
	return r.items[r.cursor]
}

// Reset moves the cursor before the first entry.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cursor = -1
}

// Cursor returns the navigation index, or -1 before the first step.
func (r *Ring) Cursor() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cursor
}

// Entries returns the ring contents, sentinel included.
func (r *Ring) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of recorded answers, sentinel excluded.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items) - 1
}

// Capacity returns the ring size, sentinel included.
func (r *Ring) Capacity() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.capacity
}

// SetCapacity resizes the ring, dropping the oldest answers if needed.
func (r *Ring) SetCapacity(capacity int) {
	if capacity < 2 {
		capacity = DefaultCapacity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.capacity = capacity
	if len(r.items) > capacity {
		r.items = append(r.items[:capacity-1:capacity-1], "")
	}
	if r.cursor >= len(r.items)-1 {
		r.cursor = -1
	}
}

// Clear removes all answers.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = []string{""}
	r.cursor = -1
}
