package keymap

import (
	"github.com/dshills/copyline/internal/input"
	"github.com/dshills/copyline/internal/input/key"
)

// Context selects where a binding is active.
type Context string

const (
	// ContextEditor bindings apply while editing text.
	ContextEditor Context = ""
	// ContextPrompt bindings apply while a field prompt is open.
	ContextPrompt Context = "prompt"
)

// Binding represents a single key-to-action mapping.
type Binding struct {
	// Keys is the key sequence, e.g. "ctrl+alt+c" or "ctrl+k ctrl+c".
	Keys string

	// Action is the dispatcher action name, e.g. "copyline.copyLine".
	Action string

	// Args are fixed arguments for the action.
	Args map[string]any

	// Context is where the binding is active.
	Context Context

	// Description provides documentation for the binding.
	Description string
}

// NewBinding creates a new binding with the given keys and action.
func NewBinding(keys, action string) Binding {
	return Binding{Keys: keys, Action: action}
}

// WithArgs sets arguments for this binding.
func (b Binding) WithArgs(args map[string]any) Binding {
	b.Args = args
	return b
}

// InPrompt makes the binding active only while a prompt is open.
func (b Binding) InPrompt() Binding {
	b.Context = ContextPrompt
	return b
}

// WithDescription sets the description for this binding.
func (b Binding) WithDescription(desc string) Binding {
	b.Description = desc
	return b
}

// ToAction builds the action the binding fires.
func (b Binding) ToAction() input.Action {
	var extra map[string]any
	if len(b.Args) > 0 {
		extra = make(map[string]any, len(b.Args))
		for k, v := range b.Args {
			extra[k] = v
		}
	}
	return input.NewAction(b.Action, extra).WithSource(input.SourceKeyboard)
}

// parsedBinding is a binding with its key sequence parsed.
type parsedBinding struct {
	Binding
	seq key.Sequence
}
