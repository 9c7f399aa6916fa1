package copyline

import (
	"strings"
	"testing"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host/memhost"
	"github.com/dshills/copyline/internal/input"
)

func selections(ranges ...[2]int) []cursor.Selection {
	out := make([]cursor.Selection, len(ranges))
	for i, r := range ranges {
		out[i] = cursor.NewSelection(r[0], r[1])
	}
	return out
}

func markCopy(t *testing.T, s *Service, v *memhost.View, ranges ...[2]int) {
	t.Helper()
	v.SetSelections(selections(ranges...))
	if res := s.MarkCopy(v, true); res.Added != len(ranges) {
		t.Fatalf("MarkCopy() = %+v, want %d added", res, len(ranges))
	}
}

func TestCopyLineDuplicatesWithoutMarks(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("hello")

	out, err := s.CopyLine(v, CopyRequest{Prompt: true})
	if err != nil {
		t.Fatalf("CopyLine() error = %v", err)
	}
	if out != OutcomeDuplicated {
		t.Errorf("CopyLine() = %v, want duplicated", out)
	}
	if got := v.String(); got != "hello\nhello" {
		t.Errorf("buffer = %q", got)
	}
	if sel := v.Selections(); len(sel) != 1 || sel[0].Head != 6 || !sel[0].IsEmpty() {
		t.Errorf("selections = %v, want cursor at 6", sel)
	}
	if v.ActivePrompt() != nil {
		t.Error("duplicate opened a prompt")
	}
}

func TestDuplicateEveryCursor(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("a\nb\n")
	v.SetSelections(selections([2]int{0, 0}, [2]int{2, 2}, [2]int{3, 3}))

	n, err := s.Duplicate(v)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Duplicate() = %d, want 2", n)
	}
	if got := v.String(); got != "a\na\nb\nb\n" {
		t.Errorf("buffer = %q", got)
	}
	sels := v.Selections()
	if len(sels) != 2 || sels[0].Head != 2 || sels[1].Head != 6 {
		t.Errorf("selections = %v, want cursors at 2 and 6", sels)
	}
	if n := len(v.Transactions()); n != 1 {
		t.Errorf("transactions = %d, want 1", n)
	}
}

func TestDuplicateSelectionEndingAtLineStart(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("one\ntwo\n")
	v.SetSelections(selections([2]int{0, 4}))

	if _, err := s.Duplicate(v); err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "one\none\ntwo\n" {
		t.Errorf("buffer = %q, want only the first line copied", got)
	}
}

func TestCopyLinePromptsForEachMark(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("foo BAR baz QUX end\nnext\n")
	markCopy(t, s, v, [2]int{4, 7}, [2]int{12, 15})
	v.SetSelections(selections([2]int{0, 0}))

	out, err := s.CopyLine(v, CopyRequest{Prompt: true})
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomePrompting {
		t.Fatalf("CopyLine() = %v, want prompting", out)
	}
	if got := v.String(); got != "foo BAR baz QUX end\nfoo BAR baz QUX end\nnext\n" {
		t.Errorf("copied buffer = %q", got)
	}

	for _, step := range []struct{ seed, answer string }{{"QUX", "Q2"}, {"BAR", "B2"}} {
		p := v.ActivePrompt()
		if p == nil || p.Text() != step.seed {
			t.Fatalf("prompt = %v, want seed %q", p, step.seed)
		}
		if err := p.AcceptText(step.answer); err != nil {
			t.Fatal(err)
		}
	}

	if got := v.String(); got != "foo BAR baz QUX end\nfoo B2 baz Q2 end\nnext\n" {
		t.Errorf("buffer = %q", got)
	}
	if s.Sessions().Len() != 0 {
		t.Error("session still active")
	}
	if got := s.History().Entries(); len(got) != 3 || got[0] != "B2" {
		t.Errorf("history = %v", got)
	}
	if got := len(s.Marks().For(v).Copy()); got != 2 {
		t.Errorf("copy marks after copy = %d, want 2", got)
	}
}

func TestCopyLineSharedMode(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("a1 b1 c1\n")
	markCopy(t, s, v, [2]int{0, 2}, [2]int{3, 5}, [2]int{6, 8})
	v.SetSelections(selections([2]int{0, 0}))

	if _, err := s.CopyLine(v, CopyRequest{Shared: true, Prompt: true}); err != nil {
		t.Fatal(err)
	}
	p := v.ActivePrompt()
	if p == nil || p.Label() != DefaultOptions().SharedPromptLabel {
		t.Fatalf("shared prompt = %v", p)
	}
	if err := p.AcceptText("X"); err != nil {
		t.Fatal(err)
	}

	if got := v.String(); got != "a1 b1 c1\nX X X\n" {
		t.Errorf("buffer = %q", got)
	}
	if v.ActivePrompt() != nil || s.Sessions().Len() != 0 {
		t.Error("shared session did not end after one answer")
	}
}

func TestCopyLineSourceFromSelection(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("a X b\nrest\n")
	markCopy(t, s, v, [2]int{2, 3})
	v.SetSelections(selections([2]int{0, 6}))

	if _, err := s.CopyLine(v, CopyRequest{Prompt: true}); err != nil {
		t.Fatal(err)
	}
	if got := v.String(); got != "a X b\na X b\nrest\n" {
		t.Errorf("buffer = %q", got)
	}
	p := v.ActivePrompt()
	if p == nil || p.Text() != "X" {
		t.Fatalf("prompt = %v, want seed X", p)
	}
	p.AcceptText("Y")
	if got := v.String(); got != "a X b\na Y b\nrest\n" {
		t.Errorf("buffer = %q", got)
	}
}

func TestCopyLineSnippetOnly(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("x = 1\n")
	markCopy(t, s, v, [2]int{4, 5})
	v.SetSelections(selections([2]int{0, 0}))

	out, err := s.CopyLine(v, CopyRequest{Prompt: false})
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeExpanded {
		t.Errorf("CopyLine() = %v, want expanded", out)
	}
	if v.ActivePrompt() != nil {
		t.Error("snippet mode opened a prompt")
	}
	sel := v.Selections()[0]
	if got := v.Substr(sel.Range()); got != "1" || sel.Start() != 10 {
		t.Errorf("selected %q at %d, want the copied placeholder", got, sel.Start())
	}
}

func TestCopyLineHistoryNavigation(t *testing.T) {
	s := NewService(DefaultOptions())
	s.History().Record("older")
	s.History().Record("newer")
	v := memhost.New("k = v\n")

	if out, _ := s.CopyLine(v, CopyRequest{Command: input.CopyHistoryUp}); out != OutcomeNone {
		t.Errorf("history without session = %v, want none", out)
	}

	markCopy(t, s, v, [2]int{4, 5})
	v.SetSelections(selections([2]int{0, 0}))
	if _, err := s.CopyLine(v, CopyRequest{Prompt: true}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		cmd  input.CopyCommand
		want string
	}{
		{input.CopyHistoryUp, "newer"},
		{input.CopyHistoryUp, "older"},
		{input.CopyHistoryDown, "newer"},
	}
	for _, tt := range tests {
		out, err := s.CopyLine(v, CopyRequest{Command: tt.cmd})
		if err != nil || out != OutcomeNavigated {
			t.Fatalf("CopyLine(%v) = %v, %v", tt.cmd, out, err)
		}
		if got := v.ActivePrompt().Text(); got != tt.want {
			t.Errorf("after %v prompt = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}

func TestCopyLineCollatesWithCollateMarks(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("1\n2\n3\n\n")
	for _, at := range []int{0, 2, 4} {
		v.SetSelections(selections([2]int{at, at}))
		s.MarkCollate(v, true)
	}
	v.SetSelections(selections([2]int{6, 6}))

	out, err := s.CopyLine(v, CopyRequest{Prompt: true})
	if err != nil {
		t.Fatal(err)
	}
	if out != OutcomeCollated {
		t.Errorf("CopyLine() = %v, want collated", out)
	}
	if got := v.String(); got != "1\n2\n3\n3\n2\n1\n\n" {
		t.Errorf("buffer = %q", got)
	}
	if got := len(s.Marks().For(v).Collate()); got != 3 {
		t.Errorf("collate marks after collate = %d, want 3", got)
	}

	s.MarkCollate(v, false)
	if got := s.Marks().For(v).Collate(); len(got) != 0 {
		t.Errorf("collate marks after clear = %v", got)
	}
}

func TestMarkCopyNotifiesRejection(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("foo bar\nbaz\n")
	markCopy(t, s, v, [2]int{0, 3})

	v.SetSelections(selections([2]int{8, 11}))
	res := s.MarkCopy(v, true)
	if res.Rejected != 1 {
		t.Errorf("MarkCopy() = %+v, want 1 rejected", res)
	}
	if got := v.LastNotice(); !strings.Contains(got, "not on line 1") {
		t.Errorf("notice = %q", got)
	}
	want := []buffer.Range{{Start: 0, End: 3}}
	if got := s.Marks().For(v).Copy(); len(got) != 1 || got[0] != want[0] {
		t.Errorf("copy marks = %v, want %v", got, want)
	}

	s.MarkCopy(v, false)
	s.MarkCopy(v, false)
	if got := len(v.Notices()); got != 1 {
		t.Errorf("clearing produced notices: %v", v.Notices())
	}
}

func TestNewCopySupersedesPrompt(t *testing.T) {
	s := NewService(DefaultOptions())
	v := memhost.New("a b\n")
	markCopy(t, s, v, [2]int{0, 1}, [2]int{2, 3})
	v.SetSelections(selections([2]int{0, 0}))

	s.CopyLine(v, CopyRequest{Prompt: true})
	first := s.Sessions().Active(v.ID())
	s.CopyLine(v, CopyRequest{Prompt: true})
	second := s.Sessions().Active(v.ID())

	if first == nil || second == nil || first == second {
		t.Fatal("second copy did not start a new session")
	}
	if first.State().String() != "done" {
		t.Errorf("first session state = %v", first.State())
	}
	if s.Sessions().Len() != 1 {
		t.Errorf("active sessions = %d", s.Sessions().Len())
	}
}

func TestSource(t *testing.T) {
	text := buffer.NewText("one two\nthree\nfour\n")
	marks := []buffer.Range{{Start: 8, End: 13}}

	tests := []struct {
		name    string
		primary cursor.Selection
		src     buffer.Range
		dest    int
	}{
		{"cursor elsewhere", cursor.NewCursorSelection(1), buffer.Range{Start: 8, End: 13}, 7},
		{"selection holds marks", cursor.NewSelection(0, 14), buffer.Range{Start: 0, End: 13}, 13},
		{"selection misses marks", cursor.NewSelection(14, 16), buffer.Range{Start: 8, End: 13}, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dest := Source(text, marks, tt.primary)
			if src != tt.src || dest != tt.dest {
				t.Errorf("Source() = %v, %d, want %v, %d", src, dest, tt.src, tt.dest)
			}
		})
	}
}

func TestConfigureKeepsState(t *testing.T) {
	s := NewService(DefaultOptions())
	s.History().Record("keep")

	opts := DefaultOptions()
	opts.PromptLabel = "Value"
	opts.HistoryCapacity = 5
	s.Configure(opts)

	if s.Options().PromptLabel != "Value" || s.History().Capacity() != 5 {
		t.Errorf("Configure() not applied: %+v", s.Options())
	}
	if s.History().Entries()[0] != "keep" {
		t.Error("Configure() dropped history")
	}
}
