package marks

import (
	"sync"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host"
)

// Styles holds the highlight style of each set.
type Styles struct {
	Collate host.Style
	Copy    host.Style
}

// DefaultStyles returns the stock highlight styles.
func DefaultStyles() Styles {
	return Styles{
		Collate: host.Style{Scope: "selection", Icon: "bookmark"},
		Copy:    host.Style{Scope: "selection", Icon: "dot"},
	}
}

// AddResult reports the outcome of AddCopy.
type AddResult struct {
	Added    int
	Rejected int

	// Line is the zero-based row every copy mark must lie on.
	// It is -1 when no candidate was considered.
	Line int
}

// Tracker owns the mark sets of one view. Sets are created on first add.
type Tracker struct {
	view    host.View
	styles  Styles
	collate *Set
	copy    *Set
}

// NewTracker creates a tracker for view.
func NewTracker(view host.View, styles Styles) *Tracker {
	return &Tracker{view: view, styles: styles}
}

// View returns the tracked view.
func (t *Tracker) View() host.View {
	return t.view
}

// AddCollate marks each selection for collation. An empty selection marks
// its whole line including the terminator. It returns the number of marks
// added.
func (t *Tracker) AddCollate(sels []cursor.Selection) int {
	if len(sels) == 0 {
		return 0
	}

	text := t.view.Text()
	ranges := make([]buffer.Range, 0, len(sels))
	for _, sel := range sels {
		r := sel.Range()
		if r.IsEmpty() {
			r = text.FullLine(r)
		}
		ranges = append(ranges, r)
	}

	if t.collate == nil {
		t.collate = newSet(t.view, KeyCollate, t.styles.Collate)
	}
	t.collate.Add(ranges)
	return len(ranges)
}

// ClearCollate removes all collate marks. It reports whether any existed.
func (t *Tracker) ClearCollate() bool {
	if t.collate == nil {
		return false
	}
	return t.collate.Clear()
}

// AddCopy marks the non-empty selections as copy fields. When every
// selection is empty, the word under the primary cursor is marked instead.
//
// Copy marks must all lie on one line: the line of the first existing
// mark, or of the first candidate when the set is empty. Candidates that
// start or end on another line are rejected.
func (t *Tracker) AddCopy(sels []cursor.Selection) AddResult {
	res := AddResult{Line: -1}
	if len(sels) == 0 {
		return res
	}

	var candidates []buffer.Range
	for _, sel := range sels {
		if !sel.IsEmpty() {
			candidates = append(candidates, sel.Range())
		}
	}
	if len(candidates) == 0 {
		word := t.view.WordAt(sels[0].Start())
		if word.IsEmpty() {
			return res
		}
		candidates = append(candidates, word)
	}

	text := t.view.Text()
	ref := candidates[0]
	if t.copy != nil {
		if existing := t.copy.Regions(); len(existing) > 0 {
			ref = existing[0]
		}
	}
	res.Line = text.RowCol(ref.Start).Line

	accepted := make([]buffer.Range, 0, len(candidates))
	for _, c := range candidates {
		if text.RowCol(c.Start).Line != res.Line || text.RowCol(c.End).Line != res.Line {
			res.Rejected++
			continue
		}
		accepted = append(accepted, c)
	}
	if len(accepted) == 0 {
		return res
	}

	if t.copy == nil {
		t.copy = newSet(t.view, KeyCopy, t.styles.Copy)
	}
	t.copy.Add(accepted)
	res.Added = len(accepted)
	return res
}

// ClearCopy removes all copy marks. It reports whether any existed.
func (t *Tracker) ClearCopy() bool {
	if t.copy == nil {
		return false
	}
	return t.copy.Clear()
}

// Collate returns a snapshot of the collate marks in insertion order.
func (t *Tracker) Collate() []buffer.Range {
	if t.collate == nil {
		return nil
	}
	return t.collate.Regions()
}

// CollateSet returns the collate set, or nil before the first add.
func (t *Tracker) CollateSet() *Set {
	return t.collate
}

// Copy returns a snapshot of the copy marks in insertion order.
func (t *Tracker) Copy() []buffer.Range {
	if t.copy == nil {
		return nil
	}
	return t.copy.Regions()
}

// SetStyles changes the highlight styles and redraws existing marks.
func (t *Tracker) SetStyles(styles Styles) {
	t.styles = styles
	if t.collate != nil {
		t.collate.restyle(styles.Collate)
	}
	if t.copy != nil {
		t.copy.restyle(styles.Copy)
	}
}

// Registry hands out one Tracker per view.
type Registry struct {
	mu       sync.Mutex
	styles   Styles
	trackers map[host.ViewID]*Tracker
}

// NewRegistry creates an empty registry.
func NewRegistry(styles Styles) *Registry {
	return &Registry{
		styles:   styles,
		trackers: make(map[host.ViewID]*Tracker),
	}
}

// For returns the tracker of view, creating it on first use.
func (r *Registry) For(view host.View) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[view.ID()]
	if !ok || t.view != view {
		t = NewTracker(view, r.styles)
		r.trackers[view.ID()] = t
	}
	return t
}

// Forget drops the tracker of a closed view.
func (r *Registry) Forget(id host.ViewID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.trackers, id)
}

// Len returns the number of tracked views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trackers)
}

// SetStyles applies styles to every tracker and to trackers created later.
func (r *Registry) SetStyles(styles Styles) {
	r.mu.Lock()
	r.styles = styles
	trackers := make([]*Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		trackers = append(trackers, t)
	}
	r.mu.Unlock()

	for _, t := range trackers {
		t.SetStyles(styles)
	}
}
