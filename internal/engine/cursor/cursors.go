package cursor

// CursorSet manages multiple cursors/selections.
// Selections keep the order they were added in; the first one is the
// primary selection. A set always holds at least one selection.
type CursorSet struct {
	selections []Selection
}

// NewCursorSetAt creates a cursor set with a single cursor at the given offset.
func NewCursorSetAt(offset ByteOffset) *CursorSet {
	return &CursorSet{
		selections: []Selection{NewCursorSelection(offset)},
	}
}

// Primary returns the primary (first) selection.
func (cs *CursorSet) Primary() Selection {
	if len(cs.selections) == 0 {
		return Selection{}
	}
	return cs.selections[0]
}

// All returns a copy of all selections.
// The returned slice is safe to modify without affecting the CursorSet.
func (cs *CursorSet) All() []Selection {
	result := make([]Selection, len(cs.selections))
	copy(result, cs.selections)
	return result
}

// Count returns the number of cursors/selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// Add appends a selection.
func (cs *CursorSet) Add(sel Selection) {
	cs.selections = append(cs.selections, sel)
}

// SetAll replaces all selections.
// An empty slice leaves a single cursor at offset 0.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.selections = []Selection{NewCursorSelection(0)}
		return
	}
	cs.selections = make([]Selection, len(sels))
	copy(cs.selections, sels)
}

// Clamp clamps all selections to the valid range [0, maxOffset].
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	for i, sel := range cs.selections {
		cs.selections[i] = sel.Clamp(maxOffset)
	}
}

// Transform updates every selection after an edit.
func (cs *CursorSet) Transform(edit Edit) {
	for i, sel := range cs.selections {
		cs.selections[i] = TransformSelection(sel, edit)
	}
}

// HasSelection returns true if any selection is non-empty (has extent).
func (cs *CursorSet) HasSelection() bool {
	for _, sel := range cs.selections {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}
