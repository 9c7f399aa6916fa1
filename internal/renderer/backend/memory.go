package backend

import (
	"strings"
	"sync"

	"github.com/dshills/copyline/internal/renderer/core"
)

// Memory is an in-memory Backend. Show copies the back buffer to the front
// buffer so tests can inspect exactly what was last presented.
type Memory struct {
	mu            sync.Mutex
	width, height int
	back, front   []core.Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	shows         int
	events        chan Event
	closed        bool
}

// NewMemory creates a memory backend of the given size.
func NewMemory(width, height int) *Memory {
	m := &Memory{events: make(chan Event, 64)}
	m.Resize(width, height)
	return m
}

// Resize changes the size, blanks both buffers and queues a resize event.
func (m *Memory) Resize(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.width, m.height = width, height
	m.back = blank(width * height)
	m.front = blank(width * height)
	if m.events != nil && !m.closed {
		select {
		case m.events <- Event{Type: EventResize, Width: width, Height: height}:
		default:
		}
	}
}

func blank(n int) []core.Cell {
	cells := make([]core.Cell, n)
	for i := range cells {
		cells[i] = core.EmptyCell()
	}
	return cells
}

// Init implements Backend.
func (m *Memory) Init() error {
	return nil
}

// Shutdown implements Backend. It unblocks PollEvent.
func (m *Memory) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.events)
	}
}

// Size implements Backend.
func (m *Memory) Size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.width, m.height
}

// SetCell implements Backend.
func (m *Memory) SetCell(x, y int, cell core.Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.back[y*m.width+x] = cell
}

// Clear implements Backend.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.back = blank(m.width * m.height)
}

// Show implements Backend.
func (m *Memory) Show() {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.front, m.back)
	m.shows++
}

// ShowCursor implements Backend.
func (m *Memory) ShowCursor(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorX, m.cursorY, m.cursorVisible = x, y, true
}

// HideCursor implements Backend.
func (m *Memory) HideCursor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursorVisible = false
}

// PollEvent implements Backend.
func (m *Memory) PollEvent() Event {
	ev, ok := <-m.events
	if !ok {
		return Event{Type: EventClosed}
	}
	return ev
}

// PostEvent implements Backend.
func (m *Memory) PostEvent(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrNotInitialized
	}
	m.events <- ev
	return nil
}

// Cell returns the presented cell at (x, y).
func (m *Memory) Cell(x, y int) core.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return core.Cell{}
	}
	return m.front[y*m.width+x]
}

// Line returns the presented text of row y with trailing blanks trimmed.
func (m *Memory) Line(y int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if y < 0 || y >= m.height {
		return ""
	}
	var b strings.Builder
	for _, c := range m.front[y*m.width : (y+1)*m.width] {
		if c.IsContinuation() {
			continue
		}
		b.WriteString(c.Content)
	}
	return strings.TrimRight(b.String(), " ")
}

// Cursor returns the cursor position and whether it is visible.
func (m *Memory) Cursor() (x, y int, visible bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cursorX, m.cursorY, m.cursorVisible
}

// Shows returns how many times Show was called.
func (m *Memory) Shows() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shows
}
