package snippet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/copyline/internal/engine/buffer"
)

// SegmentKind identifies a parsed template segment.
type SegmentKind uint8

const (
	// SegmentText is literal text.
	SegmentText SegmentKind = iota
	// SegmentStop is a ${N:default} or ${N} placeholder.
	SegmentStop
	// SegmentMirror is a $N reference.
	SegmentMirror
)

// Segment is one parsed piece of a template.
type Segment struct {
	Kind  SegmentKind
	Index int    // Stop index for SegmentStop and SegmentMirror
	Text  string // Literal text or the stop's default
}

// Stop is a rendered placeholder.
type Stop struct {
	Index  int
	Range  buffer.Range // Relative to the start of the rendered text
	Mirror bool
}

// Expansion is a rendered template.
type Expansion struct {
	Text  string
	Stops []Stop
}

// StopsFor returns the stops with the given index, in text order.
func (e Expansion) StopsFor(index int) []Stop {
	var out []Stop
	for _, s := range e.Stops {
		if s.Index == index {
			out = append(out, s)
		}
	}
	return out
}

// Parse splits a template into segments.
func Parse(tpl string) ([]Segment, error) {
	var (
		segs []Segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, Segment{Kind: SegmentText, Text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(tpl); i++ {
		c := tpl[i]
		switch {
		case c == '\\' && i+1 < len(tpl) && isEscapable(tpl[i+1]):
			lit.WriteByte(tpl[i+1])
			i++
		case c == '$' && i+1 < len(tpl) && isDigit(tpl[i+1]):
			j := i + 1
			for j < len(tpl) && isDigit(tpl[j]) {
				j++
			}
			idx, err := strconv.Atoi(tpl[i+1 : j])
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrBadIndex, tpl[i+1:j])
			}
			flush()
			segs = append(segs, Segment{Kind: SegmentMirror, Index: idx})
			i = j - 1
		case c == '$' && i+1 < len(tpl) && tpl[i+1] == '{':
			seg, next, err := parsePlaceholder(tpl, i+2)
			if err != nil {
				return nil, err
			}
			flush()
			segs = append(segs, seg)
			i = next - 1
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return segs, nil
}

// parsePlaceholder parses the body of ${...} starting after the brace and
// returns the offset just past the closing brace.
func parsePlaceholder(tpl string, pos int) (Segment, int, error) {
	j := pos
	for j < len(tpl) && isDigit(tpl[j]) {
		j++
	}
	if j == pos {
		return Segment{}, 0, fmt.Errorf("%w at offset %d", ErrBadIndex, pos)
	}
	idx, err := strconv.Atoi(tpl[pos:j])
	if err != nil {
		return Segment{}, 0, fmt.Errorf("%w: %q", ErrBadIndex, tpl[pos:j])
	}
	if j >= len(tpl) {
		return Segment{}, 0, ErrUnterminated
	}

	switch tpl[j] {
	case '}':
		return Segment{Kind: SegmentStop, Index: idx}, j + 1, nil
	case ':':
	default:
		return Segment{}, 0, fmt.Errorf("%w at offset %d", ErrBadIndex, j)
	}

	var def strings.Builder
	for k := j + 1; k < len(tpl); k++ {
		c := tpl[k]
		if c == '\\' && k+1 < len(tpl) && isEscapable(tpl[k+1]) {
			def.WriteByte(tpl[k+1])
			k++
			continue
		}
		if c == '}' {
			return Segment{Kind: SegmentStop, Index: idx, Text: def.String()}, k + 1, nil
		}
		def.WriteByte(c)
	}
	return Segment{}, 0, ErrUnterminated
}

// Expand renders a template. Mirrors show the default of the first stop
// with the same index, or nothing when no such stop exists.
func Expand(tpl string) (Expansion, error) {
	segs, err := Parse(tpl)
	if err != nil {
		return Expansion{}, err
	}

	defaults := make(map[int]string)
	for _, s := range segs {
		if s.Kind != SegmentStop {
			continue
		}
		if _, seen := defaults[s.Index]; !seen {
			defaults[s.Index] = s.Text
		}
	}

	var (
		out   strings.Builder
		stops []Stop
	)
	for _, s := range segs {
		switch s.Kind {
		case SegmentText:
			out.WriteString(s.Text)
		case SegmentStop, SegmentMirror:
			text := s.Text
			if s.Kind == SegmentMirror {
				text = defaults[s.Index]
			}
			start := out.Len()
			out.WriteString(text)
			stops = append(stops, Stop{
				Index:  s.Index,
				Range:  buffer.NewRange(start, out.Len()),
				Mirror: s.Kind == SegmentMirror,
			})
		}
	}
	return Expansion{Text: out.String(), Stops: stops}, nil
}

// Escape quotes the characters Parse treats specially.
func Escape(s string) string {
	if !strings.ContainsAny(s, `\$}`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if isEscapable(s[i]) {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isEscapable(c byte) bool {
	return c == '\\' || c == '$' || c == '}'
}
