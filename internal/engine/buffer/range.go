package buffer

import "fmt"

// Range represents a byte range in the buffer.
// Start is inclusive, End is exclusive: [Start, End).
type Range struct {
	Start ByteOffset // Inclusive start position
	End   ByteOffset // Exclusive end position
}

// NewRange creates a new Range from start and end offsets.
// The offsets are ordered so that Start <= End.
func NewRange(start, end ByteOffset) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// PointRange returns an empty range at offset.
func PointRange(offset ByteOffset) Range {
	return Range{Start: offset, End: offset}
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty returns true if the range has zero length.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid returns true if the range is valid (Start <= End).
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Contains returns true if the given offset is within the range.
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// ContainsRange returns true if the given range is entirely within this range.
func (r Range) ContainsRange(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Overlaps returns true if this range overlaps with another range.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}

// Cover returns the smallest range that contains both ranges.
func (r Range) Cover(other Range) Range {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	return Range{Start: start, End: end}
}

// Shift returns a new range shifted by the given delta.
func (r Range) Shift(delta ByteOffset) Range {
	return Range{
		Start: r.Start + delta,
		End:   r.End + delta,
	}
}

// CoverAll folds Cover over ranges. It returns false for an empty slice.
func CoverAll(ranges []Range) (Range, bool) {
	if len(ranges) == 0 {
		return Range{}, false
	}
	out := ranges[0]
	for _, r := range ranges[1:] {
		out = out.Cover(r)
	}
	return out, true
}
