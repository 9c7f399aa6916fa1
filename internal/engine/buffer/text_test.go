package buffer

import "testing"

func TestTextRowCol(t *testing.T) {
	txt := NewText("aa\nbb\ncc\n")

	tests := []struct {
		offset ByteOffset
		want   Point
	}{
		{0, Point{0, 0}},
		{2, Point{0, 2}},
		{3, Point{1, 0}},
		{5, Point{1, 2}},
		{8, Point{2, 2}},
		{9, Point{3, 0}},
		{42, Point{3, 0}},
		{-1, Point{0, 0}},
	}

	for _, tt := range tests {
		if got := txt.RowCol(tt.offset); got != tt.want {
			t.Errorf("RowCol(%d) = %v, want %v", tt.offset, got, tt.want)
		}
	}
}

func TestTextPointToOffset(t *testing.T) {
	txt := NewText("aa\nbbbb\nc")

	tests := []struct {
		point Point
		want  ByteOffset
	}{
		{Point{0, 0}, 0},
		{Point{1, 2}, 5},
		{Point{1, 99}, 7},
		{Point{2, 0}, 8},
		{Point{5, 0}, 9},
	}

	for _, tt := range tests {
		if got := txt.PointToOffset(tt.point); got != tt.want {
			t.Errorf("PointToOffset(%v) = %d, want %d", tt.point, got, tt.want)
		}
	}
}

func TestTextLineGeometry(t *testing.T) {
	txt := NewText("aa\nbb\ncc")

	tests := []struct {
		name     string
		r        Range
		line     Range
		fullLine Range
	}{
		{"cursor first line", NewRange(1, 1), NewRange(0, 2), NewRange(0, 3)},
		{"cursor last line", NewRange(7, 7), NewRange(6, 8), NewRange(6, 8)},
		{"span two lines", NewRange(1, 4), NewRange(0, 5), NewRange(0, 6)},
		{"ends at column zero", NewRange(0, 3), NewRange(0, 5), NewRange(0, 6)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := txt.Line(tt.r); got != tt.line {
				t.Errorf("Line(%v) = %v, want %v", tt.r, got, tt.line)
			}
			if got := txt.FullLine(tt.r); got != tt.fullLine {
				t.Errorf("FullLine(%v) = %v, want %v", tt.r, got, tt.fullLine)
			}
		})
	}
}

func TestTextPrevFullLine(t *testing.T) {
	txt := NewText("aa\nbb\ncc\n")

	tests := []struct {
		name string
		r    Range
		want Range
	}{
		{"cursor", NewRange(4, 4), NewRange(4, 5)},
		{"selection ending at line boundary", NewRange(0, 6), NewRange(0, 5)},
		{"selection ending mid line", NewRange(0, 7), NewRange(0, 8)},
		{"single byte keeps probe", NewRange(2, 3), NewRange(2, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := txt.PrevFullLine(tt.r); got != tt.want {
				t.Errorf("PrevFullLine(%v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}

	src := txt.FullLine(txt.PrevFullLine(NewRange(0, 6)))
	if got := txt.Substr(src); got != "aa\nbb\n" {
		t.Errorf("FullLine(PrevFullLine) text = %q, want %q", got, "aa\nbb\n")
	}
}

func TestTextEmpty(t *testing.T) {
	var zero Text
	for _, txt := range []Text{zero, NewText("")} {
		if txt.LineCount() != 1 {
			t.Errorf("LineCount() = %d, want 1", txt.LineCount())
		}
		if got := txt.FullLine(NewRange(0, 0)); !got.IsEmpty() {
			t.Errorf("FullLine on empty text = %v, want empty", got)
		}
		if got := txt.Substr(NewRange(0, 10)); got != "" {
			t.Errorf("Substr on empty text = %q", got)
		}
	}
}

func TestRangeCover(t *testing.T) {
	got, ok := CoverAll([]Range{NewRange(4, 7), NewRange(12, 15), NewRange(0, 1)})
	if !ok {
		t.Fatal("CoverAll() returned false")
	}
	if want := NewRange(0, 15); got != want {
		t.Errorf("CoverAll() = %v, want %v", got, want)
	}
	if _, ok := CoverAll(nil); ok {
		t.Error("CoverAll(nil) should return false")
	}
	if !got.ContainsRange(NewRange(4, 7)) {
		t.Error("cover should contain its members")
	}
}

func TestNewRangeOrdersOffsets(t *testing.T) {
	r := NewRange(9, 3)
	if r.Start != 3 || r.End != 9 {
		t.Errorf("NewRange(9, 3) = %v, want [3:9)", r)
	}
}
