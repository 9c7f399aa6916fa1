package memhost

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rivo/uniseg"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/engine/history"
	"github.com/dshills/copyline/internal/engine/snippet"
	"github.com/dshills/copyline/internal/engine/tracking"
	"github.com/dshills/copyline/internal/host"
)

// Transaction records the edits applied by one View.Edit call.
type Transaction struct {
	Name  string
	Edits []buffer.Edit
}

// View is an in-memory editor view.
type View struct {
	id      host.ViewID
	buf     *buffer.Buffer
	cursors *cursor.CursorSet
	regions *tracking.Tracker
	styles  map[string]host.Style

	prompt  *Prompt
	notices []string

	depth        int
	current      *Transaction
	transactions []Transaction

	// undo units of the open transaction; replaying is set while undo or
	// redo applies one, so it is not recorded again.
	history   *history.History
	ops       []history.Operation
	before    []cursor.Selection
	replaying bool
}

// Option configures a View.
type Option func(*View)

// WithID sets the view id instead of a generated one.
func WithID(id host.ViewID) Option {
	return func(v *View) {
		v.id = id
	}
}

// New creates a view holding text with a cursor at offset 0.
func New(text string, opts ...Option) *View {
	v := &View{
		id:      host.ViewID(uuid.NewString()),
		buf:     buffer.NewBufferFromString(text),
		cursors: cursor.NewCursorSetAt(0),
		regions: tracking.NewTracker(),
		styles:  make(map[string]host.Style),
		history: history.NewHistory(history.DefaultMaxEntries),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ID implements host.View.
func (v *View) ID() host.ViewID {
	return v.id
}

// Text implements host.View.
func (v *View) Text() buffer.Text {
	return v.buf.Snapshot()
}

// String returns the buffer contents.
func (v *View) String() string {
	return v.buf.Text()
}

// Substr implements host.View.
func (v *View) Substr(r buffer.Range) string {
	return v.buf.Snapshot().Substr(r)
}

// Size implements host.View.
func (v *View) Size() buffer.ByteOffset {
	return v.buf.Len()
}

// Edit implements host.View. Nested calls join the outermost transaction.
func (v *View) Edit(name string, fn func(e host.Editor) error) error {
	if v.depth == 0 {
		v.current = &Transaction{Name: name}
		v.ops = nil
		v.before = v.cursors.All()
	}
	v.depth++
	err := fn(editor{v: v})
	v.depth--

	if v.depth == 0 {
		if len(v.current.Edits) > 0 {
			v.transactions = append(v.transactions, *v.current)
			if !v.replaying {
				v.history.Push(history.Entry{Name: name, Ops: v.ops, Before: v.before, After: v.cursors.All()})
			}
		}
		v.current = nil
		v.ops, v.before = nil, nil
	}
	if err != nil {
		return fmt.Errorf("edit %s: %w", name, err)
	}
	return nil
}

// Transactions returns the completed edit transactions, oldest first.
func (v *View) Transactions() []Transaction {
	out := make([]Transaction, len(v.transactions))
	copy(out, v.transactions)
	return out
}

// apply performs one edit and keeps selections and regions aligned.
func (v *View) apply(edit buffer.Edit) error {
	old := v.buf.Snapshot().Substr(edit.Range)
	var err error
	if edit.Range.IsEmpty() {
		_, err = v.buf.Insert(edit.Range.Start, edit.NewText)
	} else {
		_, err = v.buf.Replace(edit.Range.Start, edit.Range.End, edit.NewText)
	}
	if err != nil {
		return err
	}
	v.cursors.Transform(edit)
	v.regions.Apply(edit)
	if v.current != nil {
		v.current.Edits = append(v.current.Edits, edit)
		v.ops = append(v.ops, history.NewOperation(edit.Range, old, edit.NewText))
	}
	return nil
}

// History returns the view's undo history.
func (v *View) History() *history.History {
	return v.history
}

// Undo reverts the latest transaction and restores the selections it
// started with. It returns the transaction name.
func (v *View) Undo() (string, error) {
	e, err := v.history.Undo(func(e history.Entry) error {
		return v.replay("undo", e.Inverse(), e.Before)
	})
	return e.Name, err
}

// Redo re-applies the latest undone transaction.
func (v *View) Redo() (string, error) {
	e, err := v.history.Redo(func(e history.Entry) error {
		return v.replay("redo", e.Ops, e.After)
	})
	return e.Name, err
}

func (v *View) replay(name string, ops []history.Operation, sels []cursor.Selection) error {
	if v.depth > 0 {
		return fmt.Errorf("%s: inside an edit", name)
	}
	v.replaying = true
	defer func() { v.replaying = false }()

	err := v.Edit(name, func(e host.Editor) error {
		for _, op := range ops {
			if err := e.Replace(op.Range, op.NewText); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	v.SetSelections(sels)
	return nil
}

// Selections implements host.View.
func (v *View) Selections() []cursor.Selection {
	return v.cursors.All()
}

// SetSelections implements host.View.
func (v *View) SetSelections(sels []cursor.Selection) {
	v.cursors.SetAll(sels)
	v.cursors.Clamp(v.buf.Len())
}

// WordAt implements host.View using Unicode word boundaries. A cursor just
// past a word selects that word.
func (v *View) WordAt(offset buffer.ByteOffset) buffer.Range {
	txt := v.buf.Snapshot()
	offset = txt.Clamp(offset)
	line := txt.LineSpan(txt.RowCol(offset).Line)
	rest := txt.Substr(line)

	var (
		before = buffer.PointRange(offset)
		pos    = line.Start
		state  = -1
		word   string
	)
	for len(rest) > 0 {
		word, rest, state = uniseg.FirstWordInString(rest, state)
		seg := buffer.NewRange(pos, pos+len(word))
		pos = seg.End
		if !isWord(word) {
			continue
		}
		if seg.Contains(offset) {
			return seg
		}
		if seg.End == offset {
			before = seg
		}
	}
	return before
}

func isWord(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// AddRegions implements host.View.
func (v *View) AddRegions(key string, ranges []buffer.Range, style host.Style) {
	v.regions.Set(key, ranges)
	v.styles[key] = style
}

// Regions implements host.View.
func (v *View) Regions(key string) []buffer.Range {
	return v.regions.Get(key)
}

// EraseRegions implements host.View.
func (v *View) EraseRegions(key string) {
	v.regions.Erase(key)
	delete(v.styles, key)
}

// RegionStyle returns the style a region set was added with.
func (v *View) RegionStyle(key string) (host.Style, bool) {
	s, ok := v.styles[key]
	return s, ok
}

// RegionKeys returns the keys of all highlighted region sets.
func (v *View) RegionKeys() []string {
	return v.regions.Keys()
}

// Notify implements host.View.
func (v *View) Notify(message string) {
	v.notices = append(v.notices, message)
}

// Notices returns every status message, oldest first.
func (v *View) Notices() []string {
	out := make([]string, len(v.notices))
	copy(out, v.notices)
	return out
}

// LastNotice returns the most recent status message.
func (v *View) LastNotice() string {
	if len(v.notices) == 0 {
		return ""
	}
	return v.notices[len(v.notices)-1]
}

// ExpandTemplate implements host.View. The inserted text becomes one
// transaction; the lowest-numbered stop is selected afterwards.
func (v *View) ExpandTemplate(at buffer.ByteOffset, template string) (host.Expansion, error) {
	exp, err := snippet.Expand(template)
	if err != nil {
		return host.Expansion{}, err
	}

	err = v.Edit("snippet", func(e host.Editor) error {
		return e.Insert(at, exp.Text)
	})
	if err != nil {
		return host.Expansion{}, err
	}

	out := host.Expansion{
		Range: buffer.NewRange(at, at+len(exp.Text)),
		Stops: make([]host.Stop, len(exp.Stops)),
	}
	first := -1
	for i, s := range exp.Stops {
		out.Stops[i] = host.Stop{Index: s.Index, Range: s.Range.Shift(at), Mirror: s.Mirror}
		if !s.Mirror && (first < 0 || s.Index < out.Stops[first].Index) {
			first = i
		}
	}
	if first >= 0 {
		v.SetSelections([]cursor.Selection{cursor.NewRangeSelection(out.Stops[first].Range)})
	}
	return out, nil
}

type editor struct {
	v *View
}

func (e editor) Insert(at buffer.ByteOffset, text string) error {
	return e.v.apply(buffer.NewInsert(at, text))
}

func (e editor) Replace(r buffer.Range, text string) error {
	return e.v.apply(buffer.NewEdit(r, text))
}

var _ host.View = (*View)(nil)
