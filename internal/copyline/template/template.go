// Package template turns a source line and its copy marks into a snippet
// template whose placeholders hold the marked text.
package template

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/snippet"
)

// Relative converts absolute mark ranges to ranges relative to origin,
// sorted by position.
func Relative(marks []buffer.Range, origin buffer.ByteOffset) []buffer.Range {
	rel := make([]buffer.Range, len(marks))
	for i, m := range marks {
		rel[i] = m.Shift(-origin)
	}
	sortFields(rel)
	return rel
}

// Build returns the template for line. fields are relative to the start of
// line; they are sorted here, so callers may pass them in mark order.
//
// The template starts with a line break and numbers the placeholders from
// 0 in text order. In shared mode every placeholder after the first is a
// bare $0 mirror, so one answer fills them all.
//
// Fields are clamped to the line. A field overlapping its predecessor is
// cut to start where the predecessor ends.
func Build(line string, fields []buffer.Range, shared bool) string {
	sorted := make([]buffer.Range, len(fields))
	copy(sorted, fields)
	sortFields(sorted)

	var b strings.Builder
	b.Grow(len(line) + 1 + len(sorted)*6)
	b.WriteByte('\n')

	pos := 0
	for i, f := range sorted {
		start := clamp(f.Start, pos, len(line))
		end := clamp(f.End, start, len(line))

		b.WriteString(snippet.Escape(line[pos:start]))
		if shared && i > 0 {
			b.WriteString("$0")
		} else {
			b.WriteString("${")
			b.WriteString(strconv.Itoa(i))
			b.WriteByte(':')
			b.WriteString(snippet.Escape(line[start:end]))
			b.WriteByte('}')
		}
		pos = end
	}
	b.WriteString(snippet.Escape(line[pos:]))

	return b.String()
}

func sortFields(fields []buffer.Range) {
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].Start < fields[j].Start
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
