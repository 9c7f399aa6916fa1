package cursor

import (
	"testing"

	"github.com/dshills/copyline/internal/engine/buffer"
)

func TestSelectionRange(t *testing.T) {
	tests := []struct {
		sel  Selection
		want Range
	}{
		{NewSelection(2, 7), buffer.NewRange(2, 7)},
		{NewSelection(7, 2), buffer.NewRange(2, 7)},
		{NewCursorSelection(4), buffer.NewRange(4, 4)},
	}

	for _, tt := range tests {
		if got := tt.sel.Range(); got != tt.want {
			t.Errorf("%v.Range() = %v, want %v", tt.sel, got, tt.want)
		}
	}

	if !NewCursorSelection(3).IsEmpty() {
		t.Error("cursor selection should be empty")
	}
	if got := NewSelection(7, 2).Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestTransformOffset(t *testing.T) {
	tests := []struct {
		name   string
		offset ByteOffset
		edit   Edit
		sticky bool
		want   ByteOffset
	}{
		{"insert before", 10, buffer.NewInsert(2, "abc"), false, 13},
		{"insert after", 10, buffer.NewInsert(12, "abc"), false, 10},
		{"insert at offset", 10, buffer.NewInsert(10, "abc"), false, 13},
		{"insert at offset sticky", 10, buffer.NewInsert(10, "abc"), true, 10},
		{"delete before", 10, buffer.NewEdit(buffer.NewRange(2, 5), ""), false, 7},
		{"replace spanning", 10, buffer.NewEdit(buffer.NewRange(8, 12), "x"), false, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformOffsetSticky(tt.offset, tt.edit, tt.sticky); got != tt.want {
				t.Errorf("TransformOffsetSticky() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTransformRange(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		edit Edit
		want Range
	}{
		{"insert at start pushes", buffer.NewRange(4, 7), buffer.NewInsert(4, "xx"), buffer.NewRange(6, 9)},
		{"insert at end does not grow", buffer.NewRange(4, 7), buffer.NewInsert(7, "xx"), buffer.NewRange(4, 7)},
		{"replace whole range", buffer.NewRange(4, 7), buffer.NewEdit(buffer.NewRange(4, 7), "X"), buffer.NewRange(4, 5)},
		{"empty range moves", buffer.NewRange(4, 4), buffer.NewInsert(4, "ab"), buffer.NewRange(6, 6)},
		{"delete swallowing range", buffer.NewRange(4, 7), buffer.NewEdit(buffer.NewRange(2, 9), ""), buffer.NewRange(2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransformRange(tt.r, tt.edit); got != tt.want {
				t.Errorf("TransformRange(%v, %v) = %v, want %v", tt.r, tt.edit, got, tt.want)
			}
		})
	}
}

func TestCursorSetKeepsOrder(t *testing.T) {
	cs := NewCursorSetAt(9)
	cs.Add(NewCursorSelection(2))
	cs.Add(NewSelection(5, 6))

	all := cs.All()
	if len(all) != 3 || all[0].Head != 9 || all[1].Head != 2 || all[2].Head != 6 {
		t.Errorf("All() = %v, want insertion order", all)
	}
	if !cs.HasSelection() {
		t.Error("HasSelection() = false, want true")
	}

	cs.Transform(buffer.NewInsert(0, "ab"))
	if got := cs.Primary().Head; got != 11 {
		t.Errorf("Primary().Head after transform = %d, want 11", got)
	}

	cs.SetAll(nil)
	if cs.Count() != 1 || cs.Primary().Head != 0 {
		t.Errorf("SetAll(nil) should leave a cursor at 0, got %v", cs.All())
	}
}
