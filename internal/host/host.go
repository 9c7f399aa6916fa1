package host

import (
	"github.com/dshills/copyline/internal/engine/buffer"
	"github.com/dshills/copyline/internal/engine/cursor"
)

// ViewID identifies a view. Sessions and marks are keyed by it.
type ViewID string

// Style describes how a highlighted region set is drawn.
type Style struct {
	Scope string // Colour scope, e.g. "selection"
	Icon  string // Gutter icon, e.g. "bookmark" or "dot"
	Color string // Optional explicit colour (#rrggbb)
}

// Editor applies changes inside a View.Edit transaction.
type Editor interface {
	Insert(at buffer.ByteOffset, text string) error
	Replace(r buffer.Range, text string) error
}

// Expansion describes a template inserted by ExpandTemplate.
// All offsets are absolute buffer offsets valid right after the call.
type Expansion struct {
	Range buffer.Range // Inserted text
	Stops []Stop       // Tab stops and mirrors, in text order
}

// Stop is an expanded placeholder.
type Stop struct {
	Index  int
	Range  buffer.Range
	Mirror bool
}

// PromptOptions configures a modal input prompt.
type PromptOptions struct {
	Label     string
	Initial   string
	SelectAll bool

	// OnAccept is called with the prompt contents when the user confirms.
	// The host closes the prompt before calling it.
	OnAccept func(text string)

	// OnCancel is called when the user dismisses the prompt.
	OnCancel func()
}

// Prompt is an open input prompt.
type Prompt interface {
	// SetText replaces the full contents of the prompt.
	SetText(text string, selectAll bool)

	// Text returns the current contents.
	Text() string

	// Close dismisses the prompt without invoking its callbacks.
	Close()
}

// View is the editor surface the commands operate on.
type View interface {
	ID() ViewID

	// Text reading.
	Text() buffer.Text
	Substr(r buffer.Range) string
	Size() buffer.ByteOffset

	// Edit runs fn as one undoable transaction.
	Edit(name string, fn func(e Editor) error) error

	// Selections.
	Selections() []cursor.Selection
	SetSelections(sels []cursor.Selection)
	WordAt(offset buffer.ByteOffset) buffer.Range

	// Tracked, highlighted region sets.
	AddRegions(key string, ranges []buffer.Range, style Style)
	Regions(key string) []buffer.Range
	EraseRegions(key string)

	// User interaction.
	OpenPrompt(opts PromptOptions) (Prompt, error)
	Notify(message string)

	// ExpandTemplate inserts a snippet template at offset.
	ExpandTemplate(at buffer.ByteOffset, template string) (Expansion, error)
}
