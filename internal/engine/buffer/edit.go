package buffer

import "fmt"

// Edit represents a single text replacement.
// An insert has an empty Range; a delete has empty NewText.
type Edit struct {
	Range   Range  // Range being replaced
	NewText string // Replacement text
}

// NewEdit creates an edit replacing r with newText.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an edit inserting text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: PointRange(offset), NewText: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	return fmt.Sprintf("Edit%s->%q", e.Range, e.NewText)
}

// Delta returns the change in document length caused by the edit.
func (e Edit) Delta() ByteOffset {
	return len(e.NewText) - e.Range.Len()
}
