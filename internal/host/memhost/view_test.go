package memhost

import (
	"errors"
	"testing"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/engine/history"
	"github.com/dshills/copyline/internal/host"
)

func TestEditTracksSelectionsAndRegions(t *testing.T) {
	v := New("foo bar\nbaz\n")
	v.SetSelections([]cursor.Selection{cursor.NewCursorSelection(8)})
	v.AddRegions("marks", []buffer.Range{buffer.NewRange(4, 7)}, host.Style{Scope: "selection"})

	err := v.Edit("test", func(e host.Editor) error {
		return e.Insert(0, "> ")
	})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	if got := v.String(); got != "> foo bar\nbaz\n" {
		t.Errorf("text = %q", got)
	}
	if got := v.Selections()[0].Head; got != 10 {
		t.Errorf("cursor = %d, want 10", got)
	}
	if got := v.Regions("marks")[0]; got != buffer.NewRange(6, 9) {
		t.Errorf("region = %v, want [6:9)", got)
	}
	if got := v.Substr(v.Regions("marks")[0]); got != "bar" {
		t.Errorf("region text = %q, want bar", got)
	}
}

func TestEditGroupsNestedCalls(t *testing.T) {
	v := New("abc")

	err := v.Edit("outer", func(e host.Editor) error {
		if err := e.Insert(3, "d"); err != nil {
			return err
		}
		return v.Edit("inner", func(e host.Editor) error {
			return e.Insert(0, "_")
		})
	})
	if err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	txs := v.Transactions()
	if len(txs) != 1 {
		t.Fatalf("Transactions() = %d, want 1", len(txs))
	}
	if txs[0].Name != "outer" || len(txs[0].Edits) != 2 {
		t.Errorf("transaction = %+v", txs[0])
	}
}

func TestEditReportsBufferErrors(t *testing.T) {
	v := New("abc")
	err := v.Edit("bad", func(e host.Editor) error {
		return e.Insert(10, "x")
	})
	if !errors.Is(err, buffer.ErrOffsetOutOfRange) {
		t.Errorf("Edit() error = %v, want ErrOffsetOutOfRange", err)
	}
	if len(v.Transactions()) != 0 {
		t.Error("failed edit should not record a transaction")
	}
}

func TestWordAt(t *testing.T) {
	v := New("foo BAR_1 baz\n  \nqux")

	tests := []struct {
		offset int
		want   string
	}{
		{0, "foo"},
		{5, "BAR_1"},
		{9, "BAR_1"},
		{3, "foo"},
		{15, ""},
		{17, "qux"},
	}

	for _, tt := range tests {
		if got := v.Substr(v.WordAt(tt.offset)); got != tt.want {
			t.Errorf("WordAt(%d) = %q, want %q", tt.offset, got, tt.want)
		}
	}
}

func TestExpandTemplate(t *testing.T) {
	v := New("head\n")

	exp, err := v.ExpandTemplate(4, "\nfoo ${0:BAR} $0")
	if err != nil {
		t.Fatalf("ExpandTemplate() error = %v", err)
	}
	if got := v.String(); got != "head\nfoo BAR BAR\n" {
		t.Errorf("text = %q", got)
	}
	if len(exp.Stops) != 2 {
		t.Fatalf("stops = %v", exp.Stops)
	}
	if got := v.Substr(exp.Stops[1].Range); got != "BAR" || !exp.Stops[1].Mirror {
		t.Errorf("mirror stop = %+v (%q)", exp.Stops[1], got)
	}
	if sel := v.Selections()[0].Range(); sel != exp.Stops[0].Range {
		t.Errorf("selection = %v, want first stop %v", sel, exp.Stops[0].Range)
	}
}

func TestPromptLifecycle(t *testing.T) {
	v := New("")
	var accepted string
	cancelled := false

	p, err := v.OpenPrompt(host.PromptOptions{
		Label:     "Value:",
		Initial:   "old",
		SelectAll: true,
		OnAccept:  func(s string) { accepted = s },
		OnCancel:  func() { cancelled = true },
	})
	if err != nil {
		t.Fatal(err)
	}

	mp := v.ActivePrompt()
	if mp != p {
		t.Fatal("ActivePrompt() should return the opened prompt")
	}
	mp.Type("n")
	mp.Type("ew")
	if mp.Text() != "new" {
		t.Errorf("Text() = %q, want new", mp.Text())
	}
	if err := mp.Accept(); err != nil {
		t.Fatal(err)
	}
	if accepted != "new" || cancelled {
		t.Errorf("accepted = %q, cancelled = %v", accepted, cancelled)
	}
	if v.ActivePrompt() != nil {
		t.Error("prompt should be closed after accept")
	}
	if err := mp.Cancel(); !errors.Is(err, ErrPromptClosed) {
		t.Errorf("Cancel() on closed prompt = %v", err)
	}
}

func TestOpenPromptReplacesOpenPrompt(t *testing.T) {
	v := New("")
	cancelled := false

	first, _ := v.OpenPrompt(host.PromptOptions{OnCancel: func() { cancelled = true }})
	_, _ = v.OpenPrompt(host.PromptOptions{})

	if first.(*Prompt).IsOpen() {
		t.Error("first prompt should be closed")
	}
	if cancelled {
		t.Error("replacing a prompt must not run its cancel callback")
	}
}

func TestUndoRedoTransaction(t *testing.T) {
	v := New("one\ntwo\n")
	v.SetSelections([]cursor.Selection{cursor.NewCursorSelection(0), cursor.NewCursorSelection(4)})

	err := v.Edit("prefix", func(e host.Editor) error {
		if err := e.Insert(4, "- "); err != nil {
			return err
		}
		return e.Replace(buffer.NewRange(0, 3), "ONE")
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "ONE\n- two\n" {
		t.Fatalf("text = %q", got)
	}

	name, err := v.Undo()
	if err != nil || name != "prefix" {
		t.Fatalf("Undo() = %q, %v", name, err)
	}
	if got := v.String(); got != "one\ntwo\n" {
		t.Errorf("after undo = %q", got)
	}
	if sels := v.Selections(); len(sels) != 2 || sels[0].Head != 0 || sels[1].Head != 4 {
		t.Errorf("selections after undo = %v", sels)
	}

	if _, err := v.Redo(); err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "ONE\n- two\n" {
		t.Errorf("after redo = %q", got)
	}
	if _, err := v.Redo(); !errors.Is(err, history.ErrNothingToRedo) {
		t.Errorf("second Redo() = %v", err)
	}

	// Replays are transactions of their own but not undo units.
	if n := len(v.Transactions()); n != 3 {
		t.Errorf("transactions = %d, want 3", n)
	}
	if n := v.History().UndoCount(); n != 1 {
		t.Errorf("undo units = %d, want 1", n)
	}
}
