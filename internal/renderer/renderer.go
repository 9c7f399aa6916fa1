package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/logging"
	"github.com/dshills/copyline/internal/renderer/backend"
	"github.com/dshills/copyline/internal/renderer/core"
)

// Options configures the renderer.
type Options struct {
	ShowLineNumbers bool // Show line numbers in gutter
	TabWidth        int  // Cells per tab stop
	ScrollMargin    int  // Lines to keep above and below the cursor
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers: true,
		TabWidth:        4,
		ScrollMargin:    2,
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the theme.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// WithOptions sets the display options.
func WithOptions(o Options) Option {
	return func(r *Renderer) {
		if o.TabWidth < 1 {
			o.TabWidth = 1
		}
		if o.ScrollMargin < 0 {
			o.ScrollMargin = 0
		}
		r.opts = o
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Renderer) {
		r.logger = logging.OrNull(l).WithComponent("renderer")
	}
}

// Renderer draws frames and keeps the scroll position between them.
type Renderer struct {
	b      backend.Backend
	theme  Theme
	opts   Options
	logger *logging.Logger

	top  int // first visible line
	left int // first visible cell column
}

// New creates a renderer drawing on b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{
		b:      b,
		theme:  DefaultTheme(),
		opts:   DefaultOptions(),
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scroll returns the first visible line and cell column.
func (r *Renderer) Scroll() (top, left int) {
	return r.top, r.left
}

// layout is the screen split computed for one frame.
type layout struct {
	width, height int
	gutter        int
	textW, textH  int
	promptY       int
	statusY       int
}

func (r *Renderer) layout(f Frame) layout {
	w, h := r.b.Size()
	l := layout{width: w, height: h, promptY: -1, statusY: h - 1}
	l.textH = h - 1
	if f.Prompt != nil {
		l.promptY = h - 2
		l.textH = h - 2
	}
	if l.textH < 0 {
		l.textH = 0
	}

	// Icon column plus a separating space.
	l.gutter = 2
	if r.opts.ShowLineNumbers {
		l.gutter += len(strconv.Itoa(f.Text.LineCount())) + 1
	}
	if l.gutter > w {
		l.gutter = w
	}
	l.textW = w - l.gutter
	return l
}

// Render draws f and presents it.
func (r *Renderer) Render(f Frame) {
	l := r.layout(f)
	if l.width <= 0 || l.height <= 0 {
		return
	}
	r.b.Clear()

	var primary cursor.Selection
	if len(f.Selections) > 0 {
		primary = f.Selections[0]
	}
	head := f.Text.RowCol(primary.Head)
	headCol := r.visualColumn(f.Text, head)
	r.scrollTo(head.Line, headCol, l)

	icons := r.gutterIcons(f)
	for y := 0; y < l.textH; y++ {
		row := r.top + y
		if row >= f.Text.LineCount() {
			break
		}
		r.drawGutter(row, y, l, icons)
		r.drawLine(f, row, y, l)
	}

	if f.Prompt != nil && l.promptY >= 0 {
		x := r.drawPrompt(f.Prompt, l)
		r.b.ShowCursor(x, l.promptY)
	} else if row := head.Line - r.top; len(f.Selections) > 0 && row >= 0 && row < l.textH && headCol-r.left < l.textW {
		r.b.ShowCursor(l.gutter+headCol-r.left, row)
	} else {
		r.b.HideCursor()
	}

	r.drawStatus(f, head, l)
	r.b.Show()
}

// scrollTo adjusts top and left so (line, col) is visible.
func (r *Renderer) scrollTo(line, col int, l layout) {
	margin := r.opts.ScrollMargin
	if 2*margin >= l.textH {
		margin = (l.textH - 1) / 2
	}
	if margin < 0 {
		margin = 0
	}
	if line-margin < r.top {
		r.top = line - margin
	}
	if line+margin >= r.top+l.textH {
		r.top = line + margin - l.textH + 1
	}
	if r.top < 0 {
		r.top = 0
	}

	if col < r.left {
		r.left = col
	}
	if l.textW > 0 && col >= r.left+l.textW {
		r.left = col - l.textW + 1
	}
}

// visualColumn returns the cell column of p with tabs expanded.
func (r *Renderer) visualColumn(t buffer.Text, p buffer.Point) int {
	line := t.LineText(p.Line)
	if p.Column < len(line) {
		line = line[:p.Column]
	}
	col := 0
	for _, cl := range backend.Clusters(line) {
		col += r.clusterWidth(cl, col)
	}
	return col
}

func (r *Renderer) clusterWidth(cl string, col int) int {
	switch cl {
	case "\t":
		return r.opts.TabWidth - col%r.opts.TabWidth
	case "\r":
		return 0
	}
	if w := core.StringWidth(cl); w > 0 {
		return w
	}
	// Other control characters are shown as a replacement glyph.
	return 1
}

type gutterIcon struct {
	glyph string
	style core.Style
}

// gutterIcons maps a line to the icon of the last region starting on it.
func (r *Renderer) gutterIcons(f Frame) map[int]gutterIcon {
	icons := make(map[int]gutterIcon)
	for _, reg := range f.Regions {
		glyph := r.theme.Icon(reg.Style.Icon)
		if glyph == "" {
			continue
		}
		style := r.theme.Gutter
		if reg.Style.Color != "" {
			if c, err := core.ColorFromHex(reg.Style.Color); err == nil {
				style = style.WithForeground(c)
			}
		}
		for _, rg := range reg.Ranges {
			icons[f.Text.RowCol(rg.Start).Line] = gutterIcon{glyph: glyph, style: style}
		}
	}
	return icons
}

func (r *Renderer) drawGutter(row, y int, l layout, icons map[int]gutterIcon) {
	if l.gutter == 0 {
		return
	}
	if ic, ok := icons[row]; ok {
		backend.DrawString(r.b, 0, y, 1, ic.glyph, ic.style)
	}
	if r.opts.ShowLineNumbers && l.gutter > 2 {
		num := strconv.Itoa(row + 1)
		width := l.gutter - 2
		pad := width - len(num)
		if pad < 0 {
			pad = 0
		}
		backend.DrawString(r.b, 1+pad, y, width-pad, num, r.theme.LineNumber)
	}
}

// drawLine draws one buffer line with region and selection styling.
func (r *Renderer) drawLine(f Frame, row, y int, l layout) {
	span := f.Text.LineSpan(row)
	line := f.Text.Substr(span)

	offset := span.Start
	col := 0
	for _, cl := range backend.Clusters(line) {
		w := r.clusterWidth(cl, col)
		style := r.styleAt(f, offset)

		glyph := cl
		if cl != "\t" && core.StringWidth(cl) == 0 {
			glyph = "\uFFFD"
		}

		// Clusters clipped by either edge are drawn as blanks.
		fits := col-r.left >= 0 && col-r.left+w <= l.textW
		for i := 0; i < w; i++ {
			x := col + i - r.left
			if x < 0 || x >= l.textW {
				continue
			}
			cell := core.Cell{Content: " ", Width: 1, Style: style}
			if cl != "\t" && fits {
				if i == 0 {
					cell = core.Cell{Content: glyph, Width: w, Style: style}
				} else {
					cell = core.Cell{Style: style}
				}
			}
			r.b.SetCell(l.gutter+x, y, cell)
		}

		offset += len(cl)
		col += w
	}

	// A selection running through the line break shows one extra cell.
	if f.Text.HasTerminator(row) {
		if style, ok := r.selectionAt(f, span.End); ok {
			if x := col - r.left; x >= 0 && x < l.textW {
				r.b.SetCell(l.gutter+x, y, core.Cell{Content: " ", Width: 1, Style: style})
			}
		}
	}

	r.drawSecondaryCursors(f, row, y, l)
}

// styleAt layers regions then selections over the text style.
func (r *Renderer) styleAt(f Frame, offset buffer.ByteOffset) core.Style {
	style := r.theme.Text
	for _, reg := range f.Regions {
		for _, rg := range reg.Ranges {
			if !rg.IsEmpty() && rg.Contains(offset) {
				style = style.Merge(r.theme.RegionStyle(reg.Style))
				break
			}
		}
	}
	if sel, ok := r.selectionAt(f, offset); ok {
		style = style.Merge(sel)
	}
	return style
}

func (r *Renderer) selectionAt(f Frame, offset buffer.ByteOffset) (core.Style, bool) {
	for _, sel := range f.Selections {
		if !sel.IsEmpty() && sel.Range().Contains(offset) {
			return r.theme.Text.Merge(r.theme.Selection), true
		}
	}
	return core.Style{}, false
}

// drawSecondaryCursors marks every cursor but the primary, which is the
// terminal cursor.
func (r *Renderer) drawSecondaryCursors(f Frame, row, y int, l layout) {
	for i, sel := range f.Selections {
		if i == 0 {
			continue
		}
		p := f.Text.RowCol(sel.Head)
		if p.Line != row {
			continue
		}
		x := r.visualColumn(f.Text, p) - r.left
		if x < 0 || x >= l.textW {
			continue
		}
		content := " "
		if sel.Head < f.Text.LineEnd(row) {
			clusters := backend.Clusters(f.Text.Substr(buffer.Range{Start: sel.Head, End: f.Text.LineEnd(row)}))
			if c := clusters[0]; core.StringWidth(c) == 1 {
				content = c
			}
		}
		r.b.SetCell(l.gutter+x, y, core.Cell{Content: content, Width: 1, Style: r.styleAt(f, sel.Head).Merge(r.theme.Cursor)})
	}
}

// drawPrompt draws the prompt line and returns the cursor column.
func (r *Renderer) drawPrompt(p *PromptLine, l layout) int {
	backend.Fill(r.b, core.Rect{Y: l.promptY, Width: l.width, Height: 1}, core.Cell{Content: " ", Width: 1, Style: r.theme.Prompt})

	label := p.Label + ": "
	x := backend.DrawString(r.b, 0, l.promptY, l.width, label, r.theme.Prompt.With(core.AttrBold))
	style := r.theme.Prompt
	if p.Selected {
		style = style.Merge(r.theme.Selection)
	}

	// Show the tail of long input so the cursor stays on screen.
	text := p.Text
	for core.StringWidth(text) >= l.width-x && text != "" {
		_, size := firstCluster(text)
		text = text[size:]
	}
	x += backend.DrawString(r.b, x, l.promptY, l.width-x, text, style)
	if x >= l.width {
		x = l.width - 1
	}
	return x
}

func firstCluster(s string) (string, int) {
	cl := backend.Clusters(s)
	if len(cl) == 0 {
		return "", 0
	}
	return cl[0], len(cl[0])
}

func (r *Renderer) drawStatus(f Frame, head buffer.Point, l layout) {
	backend.Fill(r.b, core.Rect{Y: l.statusY, Width: l.width, Height: 1}, core.Cell{Content: " ", Width: 1, Style: r.theme.Status})

	right := fmt.Sprintf("Ln %d, Col %d", head.Line+1, head.Column+1)
	if n := len(f.Selections); n > 1 {
		right = fmt.Sprintf("%d cursors  %s", n, right)
	}
	rightW := core.StringWidth(right)

	var left strings.Builder
	left.WriteString(" ")
	if f.Title != "" {
		left.WriteString(f.Title)
		if f.Status != "" {
			left.WriteString("  ")
		}
	}
	left.WriteString(f.Status)

	avail := l.width - rightW - 1
	if avail < 0 {
		avail = 0
	}
	backend.DrawString(r.b, 0, l.statusY, avail, left.String(), r.theme.Status)
	if rightW+1 <= l.width {
		backend.DrawString(r.b, l.width-rightW-1, l.statusY, rightW, right, r.theme.Status)
	}
}
