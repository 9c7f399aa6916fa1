package editor

import (
	"errors"
	"testing"

	"github.com/dshills/copyline/internal/dispatcher/execctx"
	"github.com/dshills/copyline/internal/dispatcher/handler"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host/memhost"
	"github.com/dshills/copyline/internal/input"
)

func cursors(offsets ...int) []cursor.Selection {
	out := make([]cursor.Selection, len(offsets))
	for i, o := range offsets {
		out[i] = cursor.NewCursorSelection(o)
	}
	return out
}

func TestHandlerEdits(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		sels     []cursor.Selection
		action   input.Action
		want     string
		wantHead []int
		status   handler.ResultStatus
	}{
		{
			name:     "insert at cursor",
			text:     "ac",
			sels:     cursors(1),
			action:   input.Action{Name: ActionInsert, Args: input.ActionArgs{Text: "b"}},
			want:     "abc",
			wantHead: []int{2},
			status:   handler.StatusOK,
		},
		{
			name:     "insert from extra arg",
			text:     "x",
			sels:     cursors(0),
			action:   input.NewAction(ActionInsert, map[string]interface{}{ArgText: "\t"}),
			want:     "\tx",
			wantHead: []int{1},
			status:   handler.StatusOK,
		},
		{
			name:     "insert replaces selection",
			text:     "hello world",
			sels:     []cursor.Selection{cursor.NewSelection(6, 11)},
			action:   input.Action{Name: ActionInsert, Args: input.ActionArgs{Text: "there"}},
			want:     "hello there",
			wantHead: []int{11},
			status:   handler.StatusOK,
		},
		{
			name:     "insert at several cursors",
			text:     "a\nb\nc",
			sels:     cursors(1, 3, 5),
			action:   input.Action{Name: ActionInsert, Args: input.ActionArgs{Text: "!"}},
			want:     "a!\nb!\nc!",
			wantHead: []int{2, 5, 8},
			status:   handler.StatusOK,
		},
		{
			name:   "empty insert",
			text:   "a",
			sels:   cursors(0),
			action: input.Action{Name: ActionInsert},
			want:   "a",
			status: handler.StatusNoOp,
		},
		{
			name:     "newline",
			text:     "ab",
			sels:     cursors(1),
			action:   input.Action{Name: ActionNewline},
			want:     "a\nb",
			wantHead: []int{2},
			status:   handler.StatusOK,
		},
		{
			name:     "backspace",
			text:     "abc",
			sels:     cursors(2),
			action:   input.Action{Name: ActionBackspace},
			want:     "ac",
			wantHead: []int{1},
			status:   handler.StatusOK,
		},
		{
			name:   "backspace at start",
			text:   "abc",
			sels:   cursors(0),
			action: input.Action{Name: ActionBackspace},
			want:   "abc",
			status: handler.StatusNoOp,
		},
		{
			name:     "backspace joins lines",
			text:     "a\nb",
			sels:     cursors(2),
			action:   input.Action{Name: ActionBackspace},
			want:     "ab",
			wantHead: []int{1},
			status:   handler.StatusOK,
		},
		{
			name:     "backspace crlf as one",
			text:     "a\r\nb",
			sels:     cursors(3),
			action:   input.Action{Name: ActionBackspace},
			want:     "ab",
			wantHead: []int{1},
			status:   handler.StatusOK,
		},
		{
			name:     "backspace combining mark",
			text:     "e\u0301x",
			sels:     cursors(3),
			action:   input.Action{Name: ActionBackspace},
			want:     "x",
			wantHead: []int{0},
			status:   handler.StatusOK,
		},
		{
			name:     "backspace deletes selection",
			text:     "abcdef",
			sels:     []cursor.Selection{cursor.NewSelection(4, 1)},
			action:   input.Action{Name: ActionBackspace},
			want:     "aef",
			wantHead: []int{1},
			status:   handler.StatusOK,
		},
		{
			name:     "delete forward",
			text:     "abc",
			sels:     cursors(0),
			action:   input.Action{Name: ActionDelete},
			want:     "bc",
			wantHead: []int{0},
			status:   handler.StatusOK,
		},
		{
			name:     "delete multibyte rune",
			text:     "ü!",
			sels:     cursors(0),
			action:   input.Action{Name: ActionDelete},
			want:     "!",
			wantHead: []int{0},
			status:   handler.StatusOK,
		},
		{
			name:   "delete at end",
			text:   "abc",
			sels:   cursors(3),
			action: input.Action{Name: ActionDelete},
			want:   "abc",
			status: handler.StatusNoOp,
		},
		{
			name:     "adjacent backspaces",
			text:     "abcd",
			sels:     cursors(2, 3),
			action:   input.Action{Name: ActionBackspace},
			want:     "ad",
			wantHead: []int{1, 1},
			status:   handler.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := memhost.New(tt.text)
			v.SetSelections(tt.sels)

			r := NewHandler().HandleAction(tt.action, execctx.New(v))
			if r.Status != tt.status {
				t.Fatalf("status = %v, want %v (err %v)", r.Status, tt.status, r.Error)
			}
			if v.String() != tt.want {
				t.Errorf("buffer = %q, want %q", v.String(), tt.want)
			}
			if tt.wantHead == nil {
				return
			}
			got := v.Selections()
			heads := make(map[int]bool)
			for _, h := range tt.wantHead {
				heads[h] = true
			}
			for _, s := range got {
				if !s.IsEmpty() || !heads[s.Head] {
					t.Errorf("selections = %v, want cursors at %v", got, tt.wantHead)
					break
				}
			}
		})
	}
}

func TestMultiCursorEditIsOneTransaction(t *testing.T) {
	v := memhost.New("a\nb")
	v.SetSelections(cursors(1, 3))

	NewHandler().HandleAction(input.Action{Name: ActionInsert, Args: input.ActionArgs{Text: ";"}}, execctx.New(v))

	txs := v.Transactions()
	if len(txs) != 1 || txs[0].Name != ActionInsert || len(txs[0].Edits) != 2 {
		t.Errorf("transactions = %+v", txs)
	}
}

func TestUndoRedo(t *testing.T) {
	v := memhost.New("a\nb")
	v.SetSelections(cursors(1, 3))
	h := NewHandler()
	ctx := execctx.New(v)

	h.HandleAction(input.Action{Name: ActionInsert, Args: input.ActionArgs{Text: ";"}}, ctx)
	r := h.HandleAction(input.Action{Name: ActionUndo}, ctx)
	if r.Status != handler.StatusOK || r.Message != "undo "+ActionInsert {
		t.Fatalf("undo = %+v", r)
	}
	if got := v.String(); got != "a\nb" {
		t.Errorf("after undo = %q", got)
	}

	r = h.HandleAction(input.Action{Name: ActionUndo}, ctx)
	if r.Status != handler.StatusNoOp {
		t.Errorf("undo on empty history = %+v", r)
	}

	h.HandleAction(input.Action{Name: ActionRedo}, ctx)
	if got := v.String(); got != "a;\nb;" {
		t.Errorf("after redo = %q", got)
	}
}

func TestRequiresView(t *testing.T) {
	r := NewHandler().HandleAction(input.Action{Name: ActionNewline}, execctx.New(nil))
	if !errors.Is(r.Error, execctx.ErrMissingView) {
		t.Errorf("error = %v", r.Error)
	}
}

func TestCanHandle(t *testing.T) {
	h := NewHandler()
	for _, name := range []string{ActionInsert, ActionNewline, ActionBackspace, ActionDelete, ActionUndo, ActionRedo} {
		if !h.CanHandle(name) {
			t.Errorf("CanHandle(%q) = false", name)
		}
	}
	if h.CanHandle("editor.yank") {
		t.Error("CanHandle(editor.yank) = true")
	}
}
