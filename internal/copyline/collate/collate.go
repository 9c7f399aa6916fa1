// Package collate gathers marked lines and inserts them at every selection.
package collate

import (
	"fmt"
	"sort"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host"
)

// Result summarises a collation.
type Result struct {
	Chunks   int // Text chunks gathered
	Points   int // Insertion points written to
	Inserted int // Bytes inserted in total
}

// Chunks returns the text collated for marks. The marks are used most
// recent first; with no marks each current selection's full line is used
// in selection order.
func Chunks(view host.View, marks []buffer.Range) []string {
	text := view.Text()

	var ranges []buffer.Range
	if len(marks) > 0 {
		ranges = make([]buffer.Range, len(marks))
		for i, m := range marks {
			ranges[len(marks)-1-i] = m
		}
	} else {
		for _, sel := range view.Selections() {
			ranges = append(ranges, text.FullLine(sel.Range()))
		}
	}

	chunks := make([]string, 0, len(ranges))
	for _, r := range ranges {
		chunks = append(chunks, text.Substr(text.ClampRange(r)))
	}
	return chunks
}

// Points returns the insertion point of each selection: its start, or the
// start of its line when it is empty.
func Points(text buffer.Text, sels []cursor.Selection) []buffer.ByteOffset {
	points := make([]buffer.ByteOffset, 0, len(sels))
	for _, sel := range sels {
		p := sel.Start()
		if sel.IsEmpty() {
			p = text.LineStart(text.RowCol(p).Line)
		}
		points = append(points, p)
	}
	return points
}

// Collate inserts the collated chunks back to back at every selection's
// insertion point as one edit. Points are written from the end of the
// buffer backwards so earlier points stay valid. Selections are left to
// the host, which carries them across the inserts.
//
// marks is a snapshot in insertion order; it is not modified.
func Collate(view host.View, marks []buffer.Range) (Result, error) {
	var res Result

	chunks := Chunks(view, marks)
	res.Chunks = len(chunks)

	size := 0
	for _, c := range chunks {
		size += len(c)
	}
	if size == 0 {
		return res, nil
	}

	sels := view.Selections()
	points := Points(view.Text(), sels)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i] > points[j]
	})

	err := view.Edit("collate", func(e host.Editor) error {
		for _, p := range points {
			at := p
			for _, c := range chunks {
				if c == "" {
					continue
				}
				if err := e.Insert(at, c); err != nil {
					return err
				}
				at += len(c)
			}
			res.Points++
			res.Inserted += size
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("collate: %w", err)
	}
	return res, nil
}
