package copyline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/copyline/internal/copyline/collate"
	"github.com/dshills/copyline/internal/copyline/marks"
	"github.com/dshills/copyline/internal/copyline/session"
	"github.com/dshills/copyline/internal/copyline/template"
	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/input/history"
	"github.com/dshills/copyline/internal/logging"
)

// Options configures a Service.
type Options struct {
	// PromptLabel labels the per-field prompt.
	PromptLabel string

	// SharedPromptLabel labels the single prompt of shared mode.
	SharedPromptLabel string

	// HistoryCapacity bounds the answer history, sentinel included.
	HistoryCapacity int

	// Styles are the mark highlight styles.
	Styles marks.Styles

	Logger *logging.Logger
}

// DefaultOptions returns the stock options.
func DefaultOptions() Options {
	return Options{
		PromptLabel:       "Field",
		SharedPromptLabel: "All fields",
		HistoryCapacity:   history.DefaultCapacity,
		Styles:            marks.DefaultStyles(),
	}
}

// Outcome tells which path a copy command took.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeDuplicated
	OutcomeCollated
	OutcomeExpanded
	OutcomePrompting
	OutcomeNavigated
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeDuplicated:
		return "duplicated"
	case OutcomeCollated:
		return "collated"
	case OutcomeExpanded:
		return "expanded"
	case OutcomePrompting:
		return "prompting"
	case OutcomeNavigated:
		return "navigated"
	default:
		return "unknown"
	}
}

// CopyRequest holds the arguments of the copy command.
type CopyRequest struct {
	Command input.CopyCommand

	// Shared fills every placeholder with one answer.
	Shared bool

	// Prompt edits placeholders through prompts. When false the template
	// is left to the host's tab stops.
	Prompt bool
}

// Service runs the copy-line commands.
type Service struct {
	mu   sync.Mutex
	opts Options

	marks    *marks.Registry
	sessions *session.Registry
	history  *history.Ring
	logger   *logging.Logger
}

// NewService creates a Service.
func NewService(opts Options) *Service {
	if opts.HistoryCapacity <= 1 {
		opts.HistoryCapacity = history.DefaultCapacity
	}
	return &Service{
		opts:     opts,
		marks:    marks.NewRegistry(opts.Styles),
		sessions: session.NewRegistry(),
		history:  history.NewRing(opts.HistoryCapacity),
		logger:   logging.OrNull(opts.Logger).WithComponent("copyline"),
	}
}

// Marks returns the mark registry.
func (s *Service) Marks() *marks.Registry {
	return s.marks
}

// Sessions returns the session registry.
func (s *Service) Sessions() *session.Registry {
	return s.sessions
}

// History returns the answer history.
func (s *Service) History() *history.Ring {
	return s.history
}

// Options returns the current options.
func (s *Service) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Configure replaces the labels, styles and history capacity. Marks and
// history entries are kept.
func (s *Service) Configure(opts Options) {
	s.mu.Lock()
	opts.Logger = s.opts.Logger
	if opts.HistoryCapacity <= 1 {
		opts.HistoryCapacity = history.DefaultCapacity
	}
	s.opts = opts
	s.mu.Unlock()

	s.marks.SetStyles(opts.Styles)
	s.history.SetCapacity(opts.HistoryCapacity)
}

// CloseView drops the state kept for a view.
func (s *Service) CloseView(id host.ViewID) {
	s.sessions.Cancel(id)
	s.marks.Forget(id)
}

// MarkCollate adds the selections to the collate marks, or clears them
// when add is false. It returns the number of marks added.
func (s *Service) MarkCollate(view host.View, add bool) int {
	tr := s.marks.For(view)
	if !add {
		if tr.ClearCollate() {
			s.logger.Debug("collate marks cleared")
		}
		return 0
	}
	n := tr.AddCollate(view.Selections())
	s.logger.Debug("%d collate mark(s) added", n)
	return n
}

// Collate inserts the collate marks, most recent first, at every selection.
func (s *Service) Collate(view host.View) (collate.Result, error) {
	res, err := collate.Collate(view, s.marks.For(view).Collate())
	if err != nil {
		s.logger.Error("collate: %v", err)
		return res, err
	}
	s.logger.Debug("collated %d chunk(s) at %d point(s)", res.Chunks, res.Points)
	return res, nil
}

// MarkCopy adds copy marks from the selections, or clears them when add is
// false. Marks off the line of the first mark are rejected with a notice.
func (s *Service) MarkCopy(view host.View, add bool) marks.AddResult {
	tr := s.marks.For(view)
	if !add {
		if tr.ClearCopy() {
			s.logger.Debug("copy marks cleared")
		}
		return marks.AddResult{Line: -1}
	}

	res := tr.AddCopy(view.Selections())
	if res.Rejected > 0 {
		view.Notify(fmt.Sprintf("copyline: %d mark(s) not on line %d ignored", res.Rejected, res.Line+1))
		s.logger.Info("rejected %d copy mark(s) off line %d", res.Rejected, res.Line+1)
	}
	return res
}

// CopyLine runs the copy command.
func (s *Service) CopyLine(view host.View, req CopyRequest) (Outcome, error) {
	switch req.Command {
	case input.CopyHistoryUp:
		return s.navigate(view, history.Older), nil
	case input.CopyHistoryDown:
		return s.navigate(view, history.Newer), nil
	}

	tr := s.marks.For(view)
	if copyMarks := tr.Copy(); len(copyMarks) > 0 {
		return s.copyMarked(view, copyMarks, req)
	}

	if len(tr.Collate()) > 0 || hasSelection(view.Selections()) {
		if _, err := s.Collate(view); err != nil {
			return OutcomeNone, err
		}
		return OutcomeCollated, nil
	}

	if _, err := s.Duplicate(view); err != nil {
		return OutcomeNone, err
	}
	return OutcomeDuplicated, nil
}

func (s *Service) navigate(view host.View, dir history.Direction) Outcome {
	sess := s.sessions.Active(view.ID())
	if sess == nil || !sess.Navigate(dir) {
		return OutcomeNone
	}
	return OutcomeNavigated
}

// Source returns the line copied for marks and the offset the copy is
// inserted at. When the primary selection holds every mark, its line
// block is copied below itself; otherwise the marks' line is copied below
// the primary cursor's line. The source excludes the final terminator.
func Source(text buffer.Text, copyMarks []buffer.Range, primary cursor.Selection) (src buffer.Range, dest buffer.ByteOffset) {
	cover, ok := buffer.CoverAll(copyMarks)
	if !ok {
		cover = primary.Range()
	}

	if !primary.IsEmpty() && primary.Range().ContainsRange(cover) {
		src = text.Line(text.PrevFullLine(primary.Range()))
		return src, src.End
	}

	src = text.Line(cover)
	return src, text.LineEnd(text.RowCol(primary.Head).Line)
}

func (s *Service) copyMarked(view host.View, copyMarks []buffer.Range, req CopyRequest) (Outcome, error) {
	sels := view.Selections()
	if len(sels) == 0 {
		return OutcomeNone, ErrNoSelection
	}

	text := view.Text()
	src, dest := Source(text, copyMarks, sels[0])
	tpl := template.Build(text.Substr(src), template.Relative(copyMarks, src.Start), req.Shared)

	exp, err := view.ExpandTemplate(dest, tpl)
	if err != nil {
		s.logger.Error("expand template: %v", err)
		return OutcomeNone, fmt.Errorf("copy line: %w", err)
	}
	if exp.Range.IsEmpty() {
		return OutcomeNone, ErrNoAnchor
	}
	s.logger.Debug("copied %v to %d with %d stop(s)", src, dest, len(exp.Stops))

	if !req.Prompt {
		return OutcomeExpanded, nil
	}

	// The template starts with a line break; the copied line follows it.
	anchor := exp.Range.Start + 1
	fields := make([]session.Field, 0, len(exp.Stops))
	for _, stop := range exp.Stops {
		fields = append(fields, session.Field{
			Rel:  stop.Range.Shift(-anchor),
			Text: view.Substr(stop.Range),
		})
	}

	opts := s.Options()
	label := opts.PromptLabel
	if req.Shared {
		label = opts.SharedPromptLabel
	}

	sess, err := s.sessions.Begin(view, anchor, fields, session.Options{
		Label:   label,
		Shared:  req.Shared,
		History: s.history,
		Logger:  opts.Logger,
	})
	if err != nil {
		return OutcomeNone, fmt.Errorf("copy line: %w", err)
	}
	if sess.State() == session.StateDone {
		return OutcomeExpanded, nil
	}
	return OutcomePrompting, nil
}

type duplicate struct {
	at     buffer.ByteOffset
	text   string
	cursor buffer.ByteOffset
	order  int
}

// Duplicate copies the line block of every selection below itself and
// puts a cursor at the start of each copy. Selections sharing a last line
// produce one copy. It returns the number of copies made.
func (s *Service) Duplicate(view host.View) (int, error) {
	text := view.Text()
	sels := view.Selections()

	seen := make(map[buffer.ByteOffset]bool, len(sels))
	dups := make([]duplicate, 0, len(sels))
	for i, sel := range sels {
		grab := text.PrevFullLine(sel.Range())
		line := text.Substr(text.FullLine(grab))
		d := duplicate{at: grab.End + 1, text: line, cursor: grab.End + 1, order: i}
		if !text.HasTerminator(text.RowCol(grab.End).Line) {
			d.at = grab.End
			d.text = "\n" + line
		}
		if seen[d.at] {
			continue
		}
		seen[d.at] = true
		dups = append(dups, d)
	}

	sort.Slice(dups, func(i, j int) bool {
		return dups[i].at > dups[j].at
	})

	err := view.Edit("copyline.duplicate", func(e host.Editor) error {
		for _, d := range dups {
			if err := e.Insert(d.at, d.text); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("duplicate: %v", err)
		return 0, fmt.Errorf("duplicate line: %w", err)
	}

	// Each copy is pushed right by the copies inserted ahead of it.
	cursors := make([]cursor.Selection, 0, len(dups))
	byOrder := make([]duplicate, len(dups))
	copy(byOrder, dups)
	sort.Slice(byOrder, func(i, j int) bool {
		return byOrder[i].order < byOrder[j].order
	})
	for _, d := range byOrder {
		shift := 0
		for _, other := range dups {
			if other.at < d.at {
				shift += len(other.text)
			}
		}
		cursors = append(cursors, cursor.NewCursorSelection(d.cursor+shift))
	}
	view.SetSelections(cursors)

	s.logger.Debug("duplicated %d line(s)", len(dups))
	return len(dups), nil
}

func hasSelection(sels []cursor.Selection) bool {
	for _, sel := range sels {
		if !sel.IsEmpty() {
			return true
		}
	}
	return false
}
