package cursor

import "github.com/dshills/copyline/internal/engine/buffer"

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
// Returns the new offset position.
//
// Transformation rules:
//   - If edit is entirely before offset: adjust offset by the edit's delta
//   - If edit starts at or after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	return TransformOffsetSticky(offset, edit, false)
}

// TransformOffsetSticky is like TransformOffset but with a "sticky" behavior
// that determines how the offset behaves when an insertion lands exactly on it.
// If sticky is true, the offset stays at the start of the insert.
// If sticky is false, the offset moves to the end of the insert.
func TransformOffsetSticky(offset ByteOffset, edit Edit, sticky bool) ByteOffset {
	// For insertions at exactly the offset position
	if edit.Range.IsEmpty() && edit.Range.Start == offset {
		if sticky {
			return offset
		}
		return offset + ByteOffset(len(edit.NewText))
	}

	// Edit is entirely before offset: adjust by delta
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}

	// Edit starts at or after offset: no change needed
	if edit.Range.Start >= offset {
		return offset
	}

	// Edit spans offset: move to end of new text
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformSelection updates a selection after an edit.
// Both anchor and head are transformed independently.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}

// TransformRange updates a tracked range after an edit.
// Insertions at the start push the range right; insertions at the end do
// not grow it. An empty range moves as a single offset.
func TransformRange(r Range, edit Edit) Range {
	if r.IsEmpty() {
		return buffer.PointRange(TransformOffset(r.Start, edit))
	}
	start := TransformOffset(r.Start, edit)
	end := TransformOffsetSticky(r.End, edit, true)
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// TransformRanges updates a slice of ranges after an edit.
func TransformRanges(ranges []Range, edit Edit) []Range {
	result := make([]Range, len(ranges))
	for i, r := range ranges {
		result[i] = TransformRange(r, edit)
	}
	return result
}
