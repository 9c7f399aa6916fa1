package memhost

import (
	"errors"
	"unicode/utf8"

	"github.com/dshills/copyline/internal/host"
)

// ErrPromptClosed is returned when driving a prompt that is no longer open.
var ErrPromptClosed = errors.New("memhost: prompt closed")

// Prompt is an in-memory input prompt. Front ends and tests drive it with
// Type, Backspace, Accept and Cancel.
type Prompt struct {
	view     *View
	label    string
	text     string
	selected bool
	closed   bool
	onAccept func(string)
	onCancel func()
}

// OpenPrompt implements host.View. Opening a prompt closes any prompt that
// is already open without running its callbacks.
func (v *View) OpenPrompt(opts host.PromptOptions) (host.Prompt, error) {
	if v.prompt != nil {
		v.prompt.Close()
	}
	p := &Prompt{
		view:     v,
		label:    opts.Label,
		text:     opts.Initial,
		selected: opts.SelectAll,
		onAccept: opts.OnAccept,
		onCancel: opts.OnCancel,
	}
	v.prompt = p
	return p, nil
}

// ActivePrompt returns the open prompt, or nil.
func (v *View) ActivePrompt() *Prompt {
	return v.prompt
}

// Label returns the prompt label.
func (p *Prompt) Label() string {
	return p.label
}

// Text implements host.Prompt.
func (p *Prompt) Text() string {
	return p.text
}

// Selected reports whether the whole text is selected, so typing replaces it.
func (p *Prompt) Selected() bool {
	return p.selected
}

// IsOpen reports whether the prompt is still open.
func (p *Prompt) IsOpen() bool {
	return !p.closed
}

// SetText implements host.Prompt.
func (p *Prompt) SetText(text string, selectAll bool) {
	p.text = text
	p.selected = selectAll
}

// Close implements host.Prompt.
func (p *Prompt) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.view.prompt == p {
		p.view.prompt = nil
	}
}

// Type inserts s at the end of the prompt, replacing a full selection.
func (p *Prompt) Type(s string) {
	if p.selected {
		p.text = ""
		p.selected = false
	}
	p.text += s
}

// Backspace deletes the last rune, or the whole text when selected.
func (p *Prompt) Backspace() {
	if p.selected {
		p.text = ""
		p.selected = false
		return
	}
	if p.text == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(p.text)
	p.text = p.text[:len(p.text)-size]
}

// Accept closes the prompt and runs OnAccept with its text.
func (p *Prompt) Accept() error {
	return p.AcceptText(p.text)
}

// AcceptText closes the prompt and runs OnAccept with text.
func (p *Prompt) AcceptText(text string) error {
	if p.closed {
		return ErrPromptClosed
	}
	p.text = text
	p.Close()
	if p.onAccept != nil {
		p.onAccept(text)
	}
	return nil
}

// Cancel closes the prompt and runs OnCancel.
func (p *Prompt) Cancel() error {
	if p.closed {
		return ErrPromptClosed
	}
	p.Close()
	if p.onCancel != nil {
		p.onCancel()
	}
	return nil
}

var _ host.Prompt = (*Prompt)(nil)
