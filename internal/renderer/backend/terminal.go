package backend

import (
	"errors"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/copyline/internal/input/key"
	"github.com/dshills/copyline/internal/renderer/core"
)

// ErrNotInitialized is returned by PostEvent before Init.
var ErrNotInitialized = errors.New("backend: not initialized")

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
	ready  bool
}

// NewTerminal creates a terminal backend on the controlling terminal.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

// NewTerminalWithScreen wraps an existing tcell screen, such as a
// simulation screen in tests.
func NewTerminalWithScreen(screen tcell.Screen) *Terminal {
	return &Terminal{screen: screen}
}

// Init implements Backend.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	t.screen.SetStyle(tcell.StyleDefault)
	t.screen.Clear()
	t.ready = true
	return nil
}

// Shutdown implements Backend.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	t.ready = false
	t.screen.Fini()
}

// Size implements Backend.
func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.screen.Size()
}

// SetCell implements Backend.
func (t *Terminal) SetCell(x, y int, cell core.Cell) {
	if cell.IsContinuation() {
		return
	}
	runes := []rune(cell.Content)
	if len(runes) == 0 {
		runes = []rune{' '}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.SetContent(x, y, runes[0], runes[1:], convertStyle(cell.Style))
}

// Clear implements Backend.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Clear()
}

// Show implements Backend.
func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.Show()
}

// ShowCursor implements Backend.
func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.ShowCursor(x, y)
}

// HideCursor implements Backend.
func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.screen.HideCursor()
}

// PollEvent implements Backend. Events other than keys, resizes and
// interrupts are skipped.
func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventClosed}
		}
		if out := convertEvent(ev); out.Type != EventNone {
			return out
		}
	}
}

// PostEvent implements Backend.
func (t *Terminal) PostEvent(ev Event) error {
	t.mu.Lock()
	ready := t.ready
	t.mu.Unlock()
	if !ready {
		return ErrNotInitialized
	}

	switch ev.Type {
	case EventKey:
		return t.screen.PostEvent(tcell.NewEventKey(ev.Key.Key, ev.Key.Rune, ev.Key.Mod))
	default:
		return t.screen.PostEvent(tcell.NewEventInterrupt(ev))
	}
}

// Screen returns the wrapped tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

func convertEvent(ev tcell.Event) Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return Event{Type: EventKey, Key: key.FromTcell(e)}
	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}
	case *tcell.EventInterrupt:
		if inner, ok := e.Data().(Event); ok {
			return inner
		}
		return Event{Type: EventInterrupt, Data: e.Data()}
	default:
		return Event{Type: EventNone}
	}
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s core.Style) tcell.Style {
	style := tcell.StyleDefault
	if !s.Foreground.IsDefault() {
		style = style.Foreground(tcell.NewRGBColor(int32(s.Foreground.R), int32(s.Foreground.G), int32(s.Foreground.B)))
	}
	if !s.Background.IsDefault() {
		style = style.Background(tcell.NewRGBColor(int32(s.Background.R), int32(s.Background.G), int32(s.Background.B)))
	}
	a := s.Attributes
	return style.
		Bold(a.Has(core.AttrBold)).
		Dim(a.Has(core.AttrDim)).
		Italic(a.Has(core.AttrItalic)).
		Underline(a.Has(core.AttrUnderline)).
		Reverse(a.Has(core.AttrReverse))
}
