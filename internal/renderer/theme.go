package renderer

import (
	"strings"

	"github.com/dshills/copyline/internal/host"
	"github.com/dshills/copyline/internal/renderer/core"
)

// Theme maps region scopes and gutter icons to what gets drawn.
type Theme struct {
	Text       core.Style
	Gutter     core.Style
	LineNumber core.Style
	Selection  core.Style
	Cursor     core.Style
	Status     core.Style
	Prompt     core.Style

	// Scopes maps a scope name, or a dotted prefix of one, to a style.
	Scopes map[string]core.Style

	// Icons maps an icon name to the glyph drawn in the gutter.
	Icons map[string]string
}

func mustHex(hex string) core.Color {
	c, err := core.ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultTheme returns a dark theme.
func DefaultTheme() Theme {
	bg := mustHex("#1e1e1e")
	fg := mustHex("#d4d4d4")
	sel := mustHex("#264f78")

	return Theme{
		Text:       core.DefaultStyle(),
		Gutter:     core.DefaultStyle().WithForeground(mustHex("#c586c0")),
		LineNumber: core.DefaultStyle().WithForeground(mustHex("#858585")),
		Selection:  core.DefaultStyle().WithBackground(sel),
		Cursor:     core.DefaultStyle().With(core.AttrReverse),
		Status:     core.DefaultStyle().WithForeground(fg).WithBackground(mustHex("#007acc")),
		Prompt:     core.DefaultStyle().WithForeground(fg).WithBackground(bg.Blend(sel, 0.5)),
		Scopes: map[string]core.Style{
			"selection":        core.DefaultStyle().WithBackground(sel.Blend(bg, 0.3)),
			"comment":          core.DefaultStyle().WithForeground(mustHex("#6a9955")),
			"string":           core.DefaultStyle().WithForeground(mustHex("#ce9178")),
			"keyword":          core.DefaultStyle().WithForeground(mustHex("#569cd6")),
			"invalid":          core.DefaultStyle().WithForeground(mustHex("#f44747")).With(core.AttrUnderline),
			"region.redish":    core.DefaultStyle().WithBackground(mustHex("#5a1d1d")),
			"region.yellowish": core.DefaultStyle().WithBackground(mustHex("#4d4419")),
			"region.greenish":  core.DefaultStyle().WithBackground(mustHex("#1d4d2a")),
			"region.bluish":    core.DefaultStyle().WithBackground(mustHex("#1d3a5a")),
		},
		Icons: map[string]string{
			"bookmark": "▶",
			"dot":      "•",
			"circle":   "○",
			"cross":    "✕",
		},
	}
}

// RegionStyle resolves a host style. An explicit colour wins over the
// scope; an unknown scope falls back to an underline so the region stays
// visible.
func (t Theme) RegionStyle(s host.Style) core.Style {
	if s.Color != "" {
		if c, err := core.ColorFromHex(s.Color); err == nil {
			return core.DefaultStyle().WithBackground(c).WithForeground(c.Contrast())
		}
	}
	if st, ok := t.scope(s.Scope); ok {
		return st
	}
	return core.DefaultStyle().With(core.AttrUnderline)
}

// scope finds the longest dotted prefix of name present in Scopes.
func (t Theme) scope(name string) (core.Style, bool) {
	for name != "" {
		if st, ok := t.Scopes[name]; ok {
			return st, true
		}
		i := strings.LastIndexByte(name, '.')
		if i < 0 {
			break
		}
		name = name[:i]
	}
	return core.Style{}, false
}

// Icon returns the gutter glyph for an icon name, or "".
func (t Theme) Icon(name string) string {
	if name == "" {
		return ""
	}
	if g, ok := t.Icons[name]; ok {
		return g
	}
	return "?"
}
