package renderer

import (
	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
	"github.com/dshills/copyline/internal/host"
)

// Region is one highlighted region set.
type Region struct {
	Key    string
	Ranges []buffer.Range
	Style  host.Style
}

// PromptLine is the open input prompt.
type PromptLine struct {
	Label    string
	Text     string
	Selected bool
}

// Frame is everything drawn in one pass. Selections[0] is the primary
// selection.
type Frame struct {
	Text       buffer.Text
	Selections []cursor.Selection
	Regions    []Region

	// Title is shown at the left of the status line, e.g. the file name.
	Title string

	// Status is the latest notice.
	Status string

	// Prompt is nil while no prompt is open.
	Prompt *PromptLine
}
