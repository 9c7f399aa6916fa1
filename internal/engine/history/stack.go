package history

import (
	"errors"
	"sync"
	"time"
)

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxEntries bounds the undo stack when no limit is given.
const DefaultMaxEntries = 1000

// History manages the undo and redo stacks of one view.
type History struct {
	mu sync.Mutex

	undoStack []Entry
	redoStack []Entry

	maxEntries int
}

// NewHistory creates a history keeping at most maxEntries undo units.
func NewHistory(maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{maxEntries: maxEntries}
}

// Push records a completed transaction and clears the redo stack. Entries
// that change nothing are dropped.
func (h *History) Push(e Entry) {
	if e.IsEmpty() {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	h.trimLocked()
}

func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxEntries; excess > 0 {
		h.undoStack = append([]Entry(nil), h.undoStack[excess:]...)
	}
}

// Undo pops the latest entry and passes it to revert. On success the entry
// moves to the redo stack; on failure it stays where it was. The lock is
// not held while revert runs.
func (h *History) Undo(revert func(Entry) error) (Entry, error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return Entry{}, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	if err := revert(e); err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, e)
		h.mu.Unlock()
		return e, err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, e)
	h.mu.Unlock()
	return e, nil
}

// Redo pops the latest undone entry and passes it to apply. On success the
// entry moves back to the undo stack.
func (h *History) Redo(apply func(Entry) error) (Entry, error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return Entry{}, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	if err := apply(e); err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, e)
		h.mu.Unlock()
		return e, err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, e)
	h.trimLocked()
	h.mu.Unlock()
	return e, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undo units available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redo units available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns the name of the next undo unit.
func (h *History) PeekUndo() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return "", false
	}
	return h.undoStack[len(h.undoStack)-1].Name, true
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}

// SetMaxEntries changes the undo limit, dropping the oldest entries.
func (h *History) SetMaxEntries(max int) {
	if max <= 0 {
		max = DefaultMaxEntries
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxEntries = max
	h.trimLocked()
}

// MaxEntries returns the undo limit.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
