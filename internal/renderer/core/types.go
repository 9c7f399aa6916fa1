// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between renderer and backend.
package core

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// Attribute represents text attributes (bold, italic, etc.).
type Attribute uint16

// Text attribute flags.
const (
	AttrNone      Attribute = 0
	AttrBold      Attribute = 1 << iota
	AttrDim                 // Faint/dim text
	AttrItalic              // Italic text
	AttrUnderline           // Underlined text
	AttrReverse             // Reverse video (swap fg/bg)
)

// Has returns true if the attribute set contains the given attribute.
func (a Attribute) Has(attr Attribute) bool {
	return a&attr != 0
}

// Color is a true colour or the terminal default.
type Color struct {
	R, G, B uint8
	// Default indicates this is the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromHex parses "#rrggbb" or "#rgb".
func ColorFromHex(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

func fromColorful(c colorful.Color) Color {
	r, g, b := c.Clamped().RGB255()
	return Color{R: r, G: g, B: b}
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// IsDefault returns true if this is the default/transparent color.
func (c Color) IsDefault() bool {
	return c.Default
}

// String returns "default" or the hex form.
func (c Color) String() string {
	if c.Default {
		return "default"
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Blend mixes c toward other in Lab space. The default colour does not
// blend.
func (c Color) Blend(other Color, amount float64) Color {
	if c.Default || other.Default {
		if amount < 0.5 {
			return c
		}
		return other
	}
	return fromColorful(c.colorful().BlendLab(other.colorful(), amount))
}

// Contrast returns black or white, whichever reads better on c.
func (c Color) Contrast() Color {
	if c.Default {
		return ColorDefault
	}
	_, _, l := c.colorful().Hsl()
	if l > 0.55 {
		return ColorFromRGB(0, 0, 0)
	}
	return ColorFromRGB(255, 255, 255)
}

// Style represents the visual style of text.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attribute
}

// DefaultStyle returns the default terminal style.
func DefaultStyle() Style {
	return Style{Foreground: ColorDefault, Background: ColorDefault}
}

// WithForeground returns a new style with the given foreground color.
func (s Style) WithForeground(fg Color) Style {
	s.Foreground = fg
	return s
}

// WithBackground returns a new style with the given background color.
func (s Style) WithBackground(bg Color) Style {
	s.Background = bg
	return s
}

// With returns a new style with attrs added.
func (s Style) With(attrs Attribute) Style {
	s.Attributes |= attrs
	return s
}

// Merge layers other over s. Default colours in other leave s unchanged.
func (s Style) Merge(other Style) Style {
	if !other.Foreground.IsDefault() {
		s.Foreground = other.Foreground
	}
	if !other.Background.IsDefault() {
		s.Background = other.Background
	}
	s.Attributes |= other.Attributes
	return s
}

// Cell is a single terminal cell holding one grapheme cluster.
type Cell struct {
	// Content is the grapheme cluster drawn in the cell.
	Content string

	// Width is the display width; 0 marks the trailing half of a wide cell.
	Width int

	Style Style
}

// EmptyCell returns a blank cell with default style.
func EmptyCell() Cell {
	return Cell{Content: " ", Width: 1, Style: DefaultStyle()}
}

// NewCell creates a cell for a grapheme cluster.
func NewCell(cluster string, style Style) Cell {
	return Cell{Content: cluster, Width: StringWidth(cluster), Style: style}
}

// IsContinuation returns true for the trailing half of a wide cell.
func (c Cell) IsContinuation() bool {
	return c.Width == 0 && c.Content == ""
}

// StringWidth returns the display width of s in monospace cells.
func StringWidth(s string) int {
	return uniseg.StringWidth(s)
}

// Rect is a screen rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}
