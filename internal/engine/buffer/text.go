package buffer

import (
	"sort"
	"strings"
)

// Text is an immutable snapshot of buffer contents with a line index.
// The zero value is an empty text with a single empty line.
type Text struct {
	s          string
	lineStarts []ByteOffset
}

// NewText creates a snapshot of s.
func NewText(s string) Text {
	starts := make([]ByteOffset, 1, strings.Count(s, "\n")+1)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return Text{s: s, lineStarts: starts}
}

// String returns the full text.
func (t Text) String() string {
	return t.s
}

// Len returns the length of the text in bytes.
func (t Text) Len() ByteOffset {
	return len(t.s)
}

// LineCount returns the number of lines. An empty text has one line.
func (t Text) LineCount() int {
	if len(t.lineStarts) == 0 {
		return 1
	}
	return len(t.lineStarts)
}

// Clamp limits offset to [0, Len()].
func (t Text) Clamp(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > len(t.s) {
		return len(t.s)
	}
	return offset
}

// ClampRange clamps both ends of r to the text.
func (t Text) ClampRange(r Range) Range {
	return NewRange(t.Clamp(r.Start), t.Clamp(r.End))
}

// Substr returns the text covered by r, clamped to the snapshot.
func (t Text) Substr(r Range) string {
	r = t.ClampRange(r)
	return t.s[r.Start:r.End]
}

// RowCol converts an offset to a line/column point.
func (t Text) RowCol(offset ByteOffset) Point {
	offset = t.Clamp(offset)
	if len(t.lineStarts) == 0 {
		return Point{Column: offset}
	}
	row := sort.Search(len(t.lineStarts), func(i int) bool {
		return t.lineStarts[i] > offset
	}) - 1
	return Point{Line: row, Column: offset - t.lineStarts[row]}
}

// PointToOffset converts a line/column point to an offset.
// Columns past the end of the line are clamped to the line end.
func (t Text) PointToOffset(p Point) ByteOffset {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= t.LineCount() {
		return len(t.s)
	}
	start := t.LineStart(p.Line)
	end := t.LineEnd(p.Line)
	if p.Column < 0 {
		return start
	}
	if start+p.Column > end {
		return end
	}
	return start + p.Column
}

// LineStart returns the offset of the first byte of line row.
func (t Text) LineStart(row int) ByteOffset {
	if row <= 0 || len(t.lineStarts) == 0 {
		return 0
	}
	if row >= len(t.lineStarts) {
		return len(t.s)
	}
	return t.lineStarts[row]
}

// LineEnd returns the offset of the terminator of line row, or Len() for
// the last line.
func (t Text) LineEnd(row int) ByteOffset {
	if row+1 < len(t.lineStarts) && row >= 0 {
		return t.lineStarts[row+1] - 1
	}
	return len(t.s)
}

// LineSpan returns line row without its terminator.
func (t Text) LineSpan(row int) Range {
	return Range{Start: t.LineStart(row), End: t.LineEnd(row)}
}

// LineText returns the text of line row without its terminator.
func (t Text) LineText(row int) string {
	return t.Substr(t.LineSpan(row))
}

// HasTerminator reports whether line row ends with '\n'.
func (t Text) HasTerminator(row int) bool {
	return row >= 0 && row+1 < len(t.lineStarts)
}

// Line expands r to the lines containing its start and end, without the
// final terminator.
func (t Text) Line(r Range) Range {
	r = t.ClampRange(r)
	first := t.RowCol(r.Start).Line
	last := t.RowCol(r.End).Line
	return Range{Start: t.LineStart(first), End: t.LineEnd(last)}
}

// FullLine expands r to the lines containing its start and end, including
// the terminator of the last line when it has one.
func (t Text) FullLine(r Range) Range {
	line := t.Line(r)
	if t.HasTerminator(t.RowCol(line.End).Line) {
		line.End++
	}
	return line
}

// PrevFullLine returns the line span a copy takes its source from.
// For a range longer than one byte the end probe is pulled back by one, so a
// selection that stops at column 0 does not include the line it stops on.
// The result runs from the range start (or the line end, if earlier) to the
// end of the last included line, without its terminator.
func (t Text) PrevFullLine(r Range) Range {
	r = t.ClampRange(r)
	p := r.End
	if r.Len() > 1 {
		p--
	}
	e := t.LineEnd(t.RowCol(p).Line)
	b := r.Start
	if e < b {
		b = e
	}
	return Range{Start: b, End: e}
}
