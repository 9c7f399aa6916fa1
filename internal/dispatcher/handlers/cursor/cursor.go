package cursor

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/input"
)

// Namespace is the action namespace of this handler.
const Namespace = "cursor"

// Action names.
const (
	ActionLeft      = "cursor.left"
	ActionRight     = "cursor.right"
	ActionUp        = "cursor.up"
	ActionDown      = "cursor.down"
	ActionLineStart = "cursor.lineStart"
	ActionLineEnd   = "cursor.lineEnd"
	ActionAddAbove  = "cursor.addAbove"
	ActionAddBelow  = "cursor.addBelow"
	ActionSingle    = "cursor.single"
)

// ArgExtend makes a movement extend the selection.
const ArgExtend = "extend"

// DataCursors is the result key holding the cursor count after the action.
const DataCursors = "cursors"

// Handler handles cursor actions.
type Handler struct{}

// NewHandler creates a new cursor handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Namespace returns the cursor namespace.
func (h *Handler) Namespace() string {
	return Namespace
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	switch actionName {
	case ActionLeft, ActionRight, ActionUp, ActionDown,
		ActionLineStart, ActionLineEnd,
		ActionAddAbove, ActionAddBelow, ActionSingle:
		return true
	}
	return false
}

// HandleAction processes a cursor action.
func (h *Handler) HandleAction(action input.Action, ctx *execctx.ExecutionContext) handler.Result {
	if err := ctx.RequireView(); err != nil {
		return handler.Error(err)
	}

	t := ctx.View.Text()
	sels := ctx.View.Selections()
	extend := action.Args.GetBool(ArgExtend)

	var out []cursor.Selection
	switch action.Name {
	case ActionLeft:
		out = mapSelections(sels, func(sel cursor.Selection) cursor.Selection {
			if !extend && !sel.IsEmpty() {
				return sel.MoveTo(sel.Start())
			}
			return move(sel, prevGrapheme(t, sel.Head), extend)
		})
	case ActionRight:
		out = mapSelections(sels, func(sel cursor.Selection) cursor.Selection {
			if !extend && !sel.IsEmpty() {
				return sel.MoveTo(sel.End())
			}
			return move(sel, nextGrapheme(t, sel.Head), extend)
		})
	case ActionUp:
		out = mapSelections(sels, func(sel cursor.Selection) cursor.Selection {
			return move(sel, vertical(t, sel.Head, -1), extend)
		})
	case ActionDown:
		out = mapSelections(sels, func(sel cursor.Selection) cursor.Selection {
			return move(sel, vertical(t, sel.Head, 1), extend)
		})
	case ActionLineStart:
		out = mapSelections(sels, func(sel cursor.Selection) cursor.Selection {
			return move(sel, t.LineStart(t.RowCol(sel.Head).Line), extend)
		})
	case ActionLineEnd:
		out = mapSelections(sels, func(sel cursor.Selection) cursor.Selection {
			return move(sel, t.LineEnd(t.RowCol(sel.Head).Line), extend)
		})
	case ActionAddAbove:
		out = addCursor(t, sels, -1)
	case ActionAddBelow:
		out = addCursor(t, sels, 1)
	case ActionSingle:
		out = single(sels)
	default:
		return handler.Errorf("unknown cursor action: %s", action.Name)
	}

	out = dedupe(out)
	if sameSelections(sels, out) {
		return handler.NoOp()
	}
	ctx.View.SetSelections(out)
	return handler.Success().WithData(DataCursors, len(ctx.View.Selections()))
}

func mapSelections(sels []cursor.Selection, fn func(cursor.Selection) cursor.Selection) []cursor.Selection {
	out := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		out[i] = fn(sel)
	}
	return out
}

func move(sel cursor.Selection, to buffer.ByteOffset, extend bool) cursor.Selection {
	if extend {
		return sel.Extend(to)
	}
	return sel.MoveTo(to)
}

// prevGrapheme returns the start of the grapheme cluster before offset.
func prevGrapheme(t buffer.Text, offset buffer.ByteOffset) buffer.ByteOffset {
	if offset <= 0 {
		return 0
	}
	start := t.LineStart(t.RowCol(offset - 1).Line)
	prev := start
	gr := uniseg.NewGraphemes(t.Substr(buffer.Range{Start: start, End: offset}))
	for gr.Next() {
		from, _ := gr.Positions()
		prev = start + from
	}
	return prev
}

// nextGrapheme returns the end of the grapheme cluster at offset.
func nextGrapheme(t buffer.Text, offset buffer.ByteOffset) buffer.ByteOffset {
	if offset >= t.Len() {
		return t.Len()
	}
	rest := t.Substr(buffer.Range{Start: offset, End: t.Len()})
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(rest, -1)
	return offset + len(cluster)
}

// vertical moves offset by delta lines, keeping its grapheme column.
// Moving past the first or last line goes to the buffer edge.
func vertical(t buffer.Text, offset buffer.ByteOffset, delta int) buffer.ByteOffset {
	p := t.RowCol(offset)
	row := p.Line + delta
	if row < 0 {
		return 0
	}
	if row >= t.LineCount() {
		return t.Len()
	}
	col := uniseg.GraphemeClusterCount(t.Substr(buffer.Range{Start: t.LineStart(p.Line), End: offset}))
	return columnOffset(t, row, col)
}

// columnOffset returns the offset of grapheme column col on row, clamped
// to the line end.
func columnOffset(t buffer.Text, row, col int) buffer.ByteOffset {
	span := t.LineSpan(row)
	at := span.Start
	gr := uniseg.NewGraphemes(t.Substr(span))
	for i := 0; i < col && gr.Next(); i++ {
		_, to := gr.Positions()
		at = span.Start + to
	}
	return at
}

// addCursor adds a cursor delta lines from the outermost cursor in that
// direction.
func addCursor(t buffer.Text, sels []cursor.Selection, delta int) []cursor.Selection {
	if len(sels) == 0 {
		return sels
	}
	edge := sels[0]
	for _, sel := range sels[1:] {
		if (delta < 0 && sel.Head < edge.Head) || (delta > 0 && sel.Head > edge.Head) {
			edge = sel
		}
	}
	p := t.RowCol(edge.Head)
	row := p.Line + delta
	if row < 0 || row >= t.LineCount() {
		return sels
	}
	col := uniseg.GraphemeClusterCount(t.Substr(buffer.Range{Start: t.LineStart(p.Line), End: edge.Head}))

	out := make([]cursor.Selection, len(sels), len(sels)+1)
	copy(out, sels)
	return append(out, cursor.NewCursorSelection(columnOffset(t, row, col)))
}

func single(sels []cursor.Selection) []cursor.Selection {
	if len(sels) == 0 {
		return sels
	}
	if len(sels) > 1 {
		return sels[:1]
	}
	return []cursor.Selection{sels[0].MoveTo(sels[0].Head)}
}

// dedupe drops selections identical to an earlier one.
func dedupe(sels []cursor.Selection) []cursor.Selection {
	seen := make(map[cursor.Selection]bool, len(sels))
	out := make([]cursor.Selection, 0, len(sels))
	for _, sel := range sels {
		if seen[sel] {
			continue
		}
		seen[sel] = true
		out = append(out, sel)
	}
	return out
}

func sameSelections(a, b []cursor.Selection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
