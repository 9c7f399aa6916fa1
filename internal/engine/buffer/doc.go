// Package buffer provides the region model shared by the copy and collate
// commands: byte ranges, line/column points and immutable text snapshots
// with line geometry.
//
// The package provides:
//
//   - Range: a half-open byte range [Start, End)
//   - Point: a 0-indexed line and byte column
//   - Text: an immutable snapshot with a line index, used to expand ranges
//     to whole lines
//   - Buffer: a small thread-safe mutable text store that produces Text
//     snapshots
//
// Basic usage:
//
//	txt := buffer.NewText("foo\nbar\n")
//	line := txt.FullLine(buffer.NewRange(5, 5)) // [4:8) "bar\n"
//
// Line Geometry:
//
// Lines are terminated by '\n'. Line returns the span of the containing
// line(s) without the terminator, FullLine includes it when present.
// PrevFullLine is used when a copy source is derived from a selection: a
// selection longer than one byte that ends at column 0 does not pull in the
// line the cursor sits on.
//
// All Text methods are pure functions of the snapshot; a Range read from a
// Text is stale once the buffer changes and must be recomputed.
package buffer
