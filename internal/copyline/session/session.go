// Package session implements the prompt-driven field editor that fills in
// the placeholders of a copied line one answer at a time.
//
// Field positions are kept relative to an anchor at the start of the copied
// line. The anchor is a host-tracked region, so edits elsewhere in the view
// while a prompt is open do not invalidate the fields.
package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input/history"
	"github.com/dshills/copyline/internal/logging"
)

// State is the lifecycle state of a Session.
type State uint8

const (
	StateIdle State = iota
	StateAwaitingInput
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Field is one placeholder of the copied line.
type Field struct {
	Rel  buffer.Range // Relative to the anchor
	Text string       // Text the prompt is seeded with
}

// Options configures a Session.
type Options struct {
	// Label is shown in front of the prompt.
	Label string

	// Shared writes the first answer into every field and ends the session.
	Shared bool

	// History records accepted answers and feeds Navigate. A private ring
	// is used when nil.
	History *history.Ring

	Logger *logging.Logger
}

// Session edits the fields of one copied line.
type Session struct {
	id      string
	view    host.View
	anchor  host.LiveRegions
	fields  []Field
	total   int
	shared  bool
	label   string
	state   State
	prompt  host.Prompt
	history *history.Ring
	logger  *logging.Logger
	onDone  func(*Session)
}

// New creates an idle session. anchor is the absolute offset the field
// ranges are relative to.
func New(view host.View, anchor buffer.ByteOffset, fields []Field, opts Options) *Session {
	id := uuid.NewString()
	ring := opts.History
	if ring == nil {
		ring = history.NewRing(history.DefaultCapacity)
	}

	s := &Session{
		id:      id,
		view:    view,
		anchor:  host.NewLiveRegions(view, "copyline.anchor."+id, host.Style{}),
		fields:  append([]Field(nil), fields...),
		total:   len(fields),
		shared:  opts.Shared,
		label:   opts.Label,
		history: ring,
		logger:  logging.OrNull(opts.Logger).WithComponent("session").WithField("id", id),
	}
	view.AddRegions(s.anchor.Key(), []buffer.Range{buffer.PointRange(anchor)}, host.Style{})
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// View returns the view being edited.
func (s *Session) View() host.View {
	return s.view
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Remaining returns the fields not yet answered, in processing order.
func (s *Session) Remaining() []Field {
	return append([]Field(nil), s.fields...)
}

// Anchor returns the current offset of the anchor.
func (s *Session) Anchor() (buffer.ByteOffset, bool) {
	regions := s.anchor.Snapshot()
	if len(regions) == 0 {
		return 0, false
	}
	return regions[0].Start, true
}

// Start orders the fields from the end of the buffer backwards and opens
// the first prompt. With no fields the session ends immediately.
func (s *Session) Start() error {
	if s.state != StateIdle {
		return ErrNotIdle
	}

	sort.SliceStable(s.fields, func(i, j int) bool {
		return s.fields[i].Rel.Start > s.fields[j].Rel.Start
	})

	s.logger.Debug("start with %d field(s), shared=%v", len(s.fields), s.shared)
	if len(s.fields) == 0 {
		s.finish("no fields")
		return nil
	}
	s.state = StateAwaitingInput
	return s.openPrompt()
}

func (s *Session) openPrompt() error {
	s.history.Reset()

	label := s.label
	if !s.shared && s.total > 1 {
		label = fmt.Sprintf("%s (%d/%d)", s.label, s.total-len(s.fields)+1, s.total)
	}

	p, err := s.view.OpenPrompt(host.PromptOptions{
		Label:     label,
		Initial:   s.fields[0].Text,
		SelectAll: true,
		OnAccept:  s.onAccept,
		OnCancel:  s.onCancel,
	})
	if err != nil {
		s.finish("prompt failed")
		return fmt.Errorf("open prompt: %w", err)
	}
	s.prompt = p
	return nil
}

func (s *Session) onAccept(text string) {
	if err := s.Accept(text); err != nil {
		s.logger.Warn("accept: %v", err)
		s.view.Notify("copyline: " + err.Error())
	}
}

func (s *Session) onCancel() {
	s.Cancel()
}

// Accept writes text into the current field, or into every remaining field
// in shared mode, and moves on to the next prompt.
func (s *Session) Accept(text string) error {
	if s.state != StateAwaitingInput {
		return ErrNotAwaiting
	}
	if s.prompt != nil {
		s.prompt.Close()
		s.prompt = nil
	}

	targets := s.fields[:1]
	if s.shared {
		targets = s.fields
	}

	err := s.write(targets, text)
	s.history.Record(text)
	if err != nil {
		s.finish("write failed")
		return err
	}

	s.fields = s.fields[len(targets):]
	s.logger.Debug("accepted %q, %d field(s) left", text, len(s.fields))
	if len(s.fields) == 0 {
		s.finish("complete")
		return nil
	}
	return s.openPrompt()
}

// write replaces targets, which are in descending position, in one edit.
func (s *Session) write(targets []Field, text string) error {
	anchor, ok := s.Anchor()
	if !ok {
		return ErrFieldLost
	}
	size := s.view.Size()

	return s.view.Edit("copyline.field", func(e host.Editor) error {
		for _, f := range targets {
			r := f.Rel.Shift(anchor)
			if r.Start < 0 || r.End > size {
				return fmt.Errorf("%w: %v", ErrFieldLost, r)
			}
			if err := e.Replace(r, text); err != nil {
				return err
			}
		}
		return nil
	})
}

// Cancel ends the session. Answers already written stay in the buffer.
func (s *Session) Cancel() {
	if s.state == StateDone {
		return
	}
	if s.prompt != nil {
		s.prompt.Close()
		s.prompt = nil
	}
	s.finish("cancelled")
}

// Navigate replaces the prompt contents with the history entry in dir.
// It reports false when no prompt is open.
func (s *Session) Navigate(dir history.Direction) bool {
	if s.state != StateAwaitingInput || s.prompt == nil {
		return false
	}
	s.prompt.SetText(s.history.Navigate(dir), true)
	return true
}

func (s *Session) finish(reason string) {
	if s.state == StateDone {
		return
	}
	s.state = StateDone
	s.fields = nil
	s.anchor.Erase()
	s.logger.Debug("done: %s", reason)
	if s.onDone != nil {
		s.onDone(s)
	}
}

// Registry tracks the active session of each view. At most one session is
// active in the whole process; beginning a new one cancels the old.
type Registry struct {
	mu     sync.Mutex
	active map[host.ViewID]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{active: make(map[host.ViewID]*Session)}
}

// Begin cancels any active session, then creates and starts a new one.
// The returned session may already be done when it has no fields.
func (r *Registry) Begin(view host.View, anchor buffer.ByteOffset, fields []Field, opts Options) (*Session, error) {
	r.mu.Lock()
	prior := make([]*Session, 0, len(r.active))
	for _, s := range r.active {
		prior = append(prior, s)
	}
	r.mu.Unlock()

	for _, s := range prior {
		s.logger.Debug("superseded")
		s.Cancel()
	}

	s := New(view, anchor, fields, opts)
	s.onDone = r.release

	r.mu.Lock()
	r.active[view.ID()] = s
	r.mu.Unlock()

	if err := s.Start(); err != nil {
		return s, err
	}
	return s, nil
}

// Active returns the active session of a view, or nil.
func (r *Registry) Active(id host.ViewID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[id]
}

// Cancel cancels the active session of a view. It reports whether one
// existed.
func (r *Registry) Cancel(id host.ViewID) bool {
	s := r.Active(id)
	if s == nil {
		return false
	}
	s.Cancel()
	return true
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}

func (r *Registry) release(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active[s.view.ID()] == s {
		delete(r.active, s.view.ID())
	}
}
