package editor

import (
	"errors"
	"sort"

	"github.com/rivo/uniseg"

	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/engine/history"
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input"
)

// Namespace is the action namespace of this handler.
const Namespace = "editor"

// Action names.
const (
	ActionInsert    = "editor.insert"
	ActionNewline   = "editor.newline"
	ActionBackspace = "editor.backspace"
	ActionDelete    = "editor.delete"
	ActionUndo      = "editor.undo"
	ActionRedo      = "editor.redo"
)

// ErrNoUndo is returned by undo and redo on a view without history.
var ErrNoUndo = errors.New("view has no undo history")

// Undoer is implemented by views that keep undo history.
type Undoer interface {
	Undo() (string, error)
	Redo() (string, error)
}

// ArgText carries the inserted text when Args.Text is empty.
const ArgText = "text"

// DataEdits is the result key holding the number of ranges changed.
const DataEdits = "edits"

// Handler handles text editing actions.
type Handler struct{}

// NewHandler creates a new editor handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the editor namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionInsert, ActionNewline, ActionBackspace, ActionDelete, ActionUndo, ActionRedo:
		return true
	}
	return false
}

// HandleAction processes an editing action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.RequireView(); err != nil {
		return handler.Error(err)
	}

	switch action.Name {
	case ActionInsert:
		text := action.Args.Text
		if text == "" {
			text = action.Args.GetString(ArgText)
		}
		if text == "" {
			return handler.NoOp()
		}
		return h.replace(ctx.View, action.Name, text, selectionRange)
	case ActionNewline:
		return h.replace(ctx.View, action.Name, "\n", selectionRange)
	case ActionBackspace:
		return h.replace(ctx.View, action.Name, "", backwardRange)
	case ActionDelete:
		return h.replace(ctx.View, action.Name, "", forwardRange)
	case ActionUndo, ActionRedo:
		return h.undo(ctx, action.Name == ActionRedo)
	default:
		return handler.Errorf("unknown editor action: %s", action.Name)
	}
}

func (h *Handler) undo(ctx *execctx.ExecutionContext, redo bool) handler.Result {
	u, ok := ctx.View.(Undoer)
	if !ok {
		return handler.Error(ErrNoUndo)
	}
	op, step := "undo", u.Undo
	if redo {
		op, step = "redo", u.Redo
	}
	name, err := step()
	switch {
	case errors.Is(err, history.ErrNothingToUndo), errors.Is(err, history.ErrNothingToRedo):
		return handler.NoOpWithMessage(err.Error())
	case err != nil:
		return handler.Error(err)
	}
	return handler.Success().WithMessage(op + " " + name)
}

// rangeFunc picks the range an edit replaces for one selection.
type rangeFunc func(t buffer.Text, sel cursor.Selection) buffer.Range

func selectionRange(_ buffer.Text, sel cursor.Selection) buffer.Range {
	return sel.Range()
}

// backwardRange is the selection, or the grapheme cluster before the cursor.
func backwardRange(t buffer.Text, sel cursor.Selection) buffer.Range {
	if !sel.IsEmpty() {
		return sel.Range()
	}
	if sel.Head == 0 {
		return buffer.PointRange(0)
	}
	// Clusters never span lines except "\r\n", so scanning the line is enough.
	start := t.LineStart(t.RowCol(sel.Head).Line)
	if start == sel.Head {
		start = t.LineStart(t.RowCol(sel.Head - 1).Line)
	}
	prev := start
	gr := uniseg.NewGraphemes(t.Substr(buffer.Range{Start: start, End: sel.Head}))
	for gr.Next() {
		from, _ := gr.Positions()
		prev = start + from
	}
	return buffer.Range{Start: prev, End: sel.Head}
}

// forwardRange is the selection, or the grapheme cluster after the cursor.
func forwardRange(t buffer.Text, sel cursor.Selection) buffer.Range {
	if !sel.IsEmpty() {
		return sel.Range()
	}
	if sel.Head >= t.Len() {
		return buffer.PointRange(sel.Head)
	}
	rest := t.Substr(buffer.Range{Start: sel.Head, End: t.Len()})
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
	return buffer.Range{Start: sel.Head, End: sel.Head + len(cluster)}
}

// replace swaps the range chosen by pick for text at every selection.
// Overlapping ranges are merged into the earlier one.
func (h *Handler) replace(view host.View, name, text string, pick rangeFunc) handler.Result {
	t := view.Text()
	sels := view.Selections()

	ranges := make([]buffer.Range, 0, len(sels))
	for _, sel := range sels {
		r := pick(t, sel)
		if r.IsEmpty() && text == "" {
			continue
		}
		ranges = append(ranges, r)
	}
	if len(ranges) == 0 {
		return handler.NoOp()
	}
	ranges = mergeRanges(ranges)

	err := view.Edit(name, func(e host.Editor) error {
		for i := len(ranges) - 1; i >= 0; i-- {
			if err := e.Replace(ranges[i], text); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return handler.Error(err)
	}

	// Cursor i lands after its own text, shifted by the edits before it.
	out := make([]cursor.Selection, len(ranges))
	shift := 0
	for i, r := range ranges {
		at := r.Start + shift + len(text)
		out[i] = cursor.NewCursorSelection(at)
		shift += len(text) - r.Len()
	}
	view.SetSelections(out)

	return handler.Success().WithData(DataEdits, len(ranges))
}

func mergeRanges(ranges []buffer.Range) []buffer.Range {
	sort.Slice(ranges, func(i, j int) bool {
		return ranges[i].Start < ranges[j].Start
	})
	out := ranges[:1]
	for _, r := range ranges[1:] {
		last := &out[len(out)-1]
		if r.Start < last.End || (r.Start == last.End && r.IsEmpty() && last.IsEmpty()) {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
