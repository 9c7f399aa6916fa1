package history

import (
	"time"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
)

// Operation is one recorded edit: Range held OldText and now holds NewText.
// Range is in the coordinates of the text just before the edit.
type Operation struct {
	Range   buffer.Range
	OldText string
	NewText string
}

// NewOperation creates an operation.
func NewOperation(r buffer.Range, oldText, newText string) Operation {
	return Operation{Range: r, OldText: oldText, NewText: newText}
}

// IsNoop reports whether the operation changes nothing.
func (op Operation) IsNoop() bool {
	return op.OldText == op.NewText
}

// Invert returns the operation that reverts op.
func (op Operation) Invert() Operation {
	return Operation{
		Range:   buffer.Range{Start: op.Range.Start, End: op.Range.Start + len(op.NewText)},
		OldText: op.NewText,
		NewText: op.OldText,
	}
}

// Edit returns op as a buffer edit.
func (op Operation) Edit() buffer.Edit {
	return buffer.NewEdit(op.Range, op.NewText)
}

// Entry is one undo unit.
type Entry struct {
	// Name is the transaction name, e.g. "editor.insert".
	Name string

	// Ops are the operations in the order they were applied.
	Ops []Operation

	// Before and After are the selections around the transaction.
	Before []cursor.Selection
	After  []cursor.Selection

	Timestamp time.Time
}

// Inverse returns the operations that revert the entry, in the order they
// must be applied.
func (e Entry) Inverse() []Operation {
	out := make([]Operation, len(e.Ops))
	for i, op := range e.Ops {
		out[len(e.Ops)-1-i] = op.Invert()
	}
	return out
}

// IsEmpty reports whether the entry changes nothing.
func (e Entry) IsEmpty() bool {
	for _, op := range e.Ops {
		if !op.IsNoop() {
			return false
		}
	}
	return true
}
