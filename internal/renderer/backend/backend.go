// Package backend abstracts the terminal the renderer draws on.
package backend

import (
	"github.com/dshills/copyline/internal/input/key"
	"github.com/dshills/copyline/internal/renderer/core"
)

// Backend is a cell-addressed output surface with an input event source.
type Backend interface {
	// Init prepares the backend for drawing.
	Init() error

	// Shutdown restores the terminal.
	Shutdown()

	// Size returns the width and height in cells.
	Size() (width, height int)

	// SetCell draws one cell. Out-of-range coordinates are ignored.
	SetCell(x, y int, cell core.Cell)

	// Clear blanks the whole surface.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	// ShowCursor places the terminal cursor.
	ShowCursor(x, y int)

	// HideCursor hides the terminal cursor.
	HideCursor()

	// PollEvent blocks until the next event. After Shutdown it returns an
	// event of type EventClosed.
	PollEvent() Event

	// PostEvent queues an event for PollEvent.
	PostEvent(ev Event) error
}

// EventType distinguishes backend events.
type EventType uint8

// Event types.
const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventInterrupt
	EventClosed
)

// Event is an input or lifecycle event.
type Event struct {
	Type EventType

	// Key is set for EventKey.
	Key key.Event

	// Width and Height are set for EventResize.
	Width, Height int

	// Data is carried by EventInterrupt.
	Data any
}

// DrawString draws s from (x, y) clipped to maxWidth cells and returns the
// number of cells used.
func DrawString(b Backend, x, y, maxWidth int, s string, style core.Style) int {
	used := 0
	for _, cl := range Clusters(s) {
		w := core.StringWidth(cl)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		b.SetCell(x+used, y, core.Cell{Content: cl, Width: w, Style: style})
		for i := 1; i < w; i++ {
			b.SetCell(x+used+i, y, core.Cell{Style: style})
		}
		used += w
	}
	return used
}

// Fill sets every cell in r to cell.
func Fill(b Backend, r core.Rect, cell core.Cell) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			b.SetCell(x, y, cell)
		}
	}
}
