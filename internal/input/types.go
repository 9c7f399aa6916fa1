package input

import "fmt"

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action originated from keyboard input.
	SourceKeyboard ActionSource = iota
	// SourcePrompt indicates the action originated while a prompt was open.
	SourcePrompt
	// SourcePlugin indicates the action originated from a plugin.
	SourcePlugin
	// SourceAPI indicates the action originated from an API call.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourcePrompt:
		return "prompt"
	case SourcePlugin:
		return "plugin"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// CopyCommand selects what a copyLine action does.
type CopyCommand uint8

const (
	// CopyNone starts a copy.
	CopyNone CopyCommand = iota
	// CopyHistoryUp recalls an older answer into the open prompt.
	CopyHistoryUp
	// CopyHistoryDown recalls a newer answer into the open prompt.
	CopyHistoryDown
)

// String returns the argument spelling of the command.
func (c CopyCommand) String() string {
	switch c {
	case CopyHistoryUp:
		return "up"
	case CopyHistoryDown:
		return "down"
	default:
		return ""
	}
}

// ParseCopyCommand parses the command argument of a copyLine action.
// The empty string and "none" select CopyNone.
func ParseCopyCommand(s string) (CopyCommand, error) {
	switch s {
	case "", "none":
		return CopyNone, nil
	case "up", "historyUp":
		return CopyHistoryUp, nil
	case "down", "historyDown":
		return CopyHistoryDown, nil
	default:
		return CopyNone, fmt.Errorf("unknown copy command %q", s)
	}
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Text for text-carrying actions.
	Text string

	// Extra holds additional key-value pairs for extensibility.
	Extra map[string]interface{}
}

// Get retrieves a value from Extra with type assertion.
func (a ActionArgs) Get(key string) (interface{}, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetBool retrieves a bool value from Extra.
func (a ActionArgs) GetBool(key string) bool {
	if v, ok := a.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetBoolDefault retrieves a bool value from Extra, or def when absent.
func (a ActionArgs) GetBoolDefault(key string, def bool) bool {
	if v, ok := a.Get(key); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "copyline.copyLine").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource
}

// NewAction creates an action with the given name and extra arguments.
func NewAction(name string, extra map[string]interface{}) Action {
	return Action{Name: name, Args: ActionArgs{Extra: extra}}
}

// WithSource returns a copy of the action with the specified source.
func (a Action) WithSource(src ActionSource) Action {
	a.Source = src
	return a
}

// WithArg returns a copy of the action with an extra argument set.
func (a Action) WithArg(key string, value interface{}) Action {
	extra := make(map[string]interface{}, len(a.Args.Extra)+1)
	for k, v := range a.Args.Extra {
		extra[k] = v
	}
	extra[key] = value
	a.Args.Extra = extra
	return a
}

// Namespace returns the part of the name before the first dot.
func (a Action) Namespace() string {
	for i := 0; i < len(a.Name); i++ {
		if a.Name[i] == '.' {
			return a.Name[:i]
		}
	}
	return ""
}
