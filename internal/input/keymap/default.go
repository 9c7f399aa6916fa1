package keymap

// Action names bound by Default outside the copyline namespace.
const (
	ActionInsert        = "editor.insert"
	ActionNewline       = "editor.newline"
	ActionBackspace     = "editor.backspace"
	ActionDelete        = "editor.delete"
	ActionUndo          = "editor.undo"
	ActionRedo          = "editor.redo"
	ActionCursorLeft    = "cursor.left"
	ActionCursorRight   = "cursor.right"
	ActionCursorUp      = "cursor.up"
	ActionCursorDown    = "cursor.down"
	ActionLineStart     = "cursor.lineStart"
	ActionLineEnd       = "cursor.lineEnd"
	ActionAddCursorUp   = "cursor.addAbove"
	ActionAddCursorDown = "cursor.addBelow"
	ActionSingleCursor  = "cursor.single"
	ActionSave          = "file.save"
	ActionQuit          = "app.quit"
)

const (
	copyLine    = "copyline.copyLine"
	markCopy    = "copyline.markCopy"
	markCollate = "copyline.markCollate"
	collate     = "copyline.collate"
)

// DefaultBindings returns the stock bindings.
func DefaultBindings() []Binding {
	bs := []Binding{
		NewBinding("ctrl+alt+c", copyLine).WithDescription("Copy line with marked fields"),
		NewBinding("ctrl+alt+shift+c", copyLine).WithArgs(map[string]any{"shared": true}).WithDescription("Copy line, one answer for all fields"),
		NewBinding("ctrl+alt+x", copyLine).WithArgs(map[string]any{"prompt": false}).WithDescription("Copy line as snippet"),
		NewBinding("ctrl+alt+m", markCopy).WithDescription("Mark copy field"),
		NewBinding("ctrl+alt+shift+m", markCopy).WithArgs(map[string]any{"add": false}).WithDescription("Clear copy fields"),
		NewBinding("ctrl+alt+k", markCollate).WithDescription("Mark collate text"),
		NewBinding("ctrl+alt+shift+k", markCollate).WithArgs(map[string]any{"add": false}).WithDescription("Clear collate marks"),
		NewBinding("ctrl+alt+v", collate).WithDescription("Collate marked text"),

		NewBinding("up", copyLine).WithArgs(map[string]any{"command": "up"}).InPrompt().WithDescription("Older answer"),
		NewBinding("down", copyLine).WithArgs(map[string]any{"command": "down"}).InPrompt().WithDescription("Newer answer"),

		NewBinding("enter", ActionNewline),
		NewBinding("backspace", ActionBackspace),
		NewBinding("delete", ActionDelete),
		NewBinding("tab", ActionInsert).WithArgs(map[string]any{"text": "\t"}),
		NewBinding("home", ActionLineStart),
		NewBinding("end", ActionLineEnd),
		NewBinding("shift+home", ActionLineStart).WithArgs(map[string]any{"extend": true}),
		NewBinding("shift+end", ActionLineEnd).WithArgs(map[string]any{"extend": true}),
		NewBinding("alt+up", ActionAddCursorUp),
		NewBinding("alt+down", ActionAddCursorDown),
		NewBinding("escape", ActionSingleCursor),
		NewBinding("ctrl+z", ActionUndo),
		NewBinding("ctrl+y", ActionRedo),
		NewBinding("ctrl+s", ActionSave),
		NewBinding("ctrl+q", ActionQuit),
	}
	for _, dir := range []struct{ key, action string }{
		{"left", ActionCursorLeft},
		{"right", ActionCursorRight},
		{"up", ActionCursorUp},
		{"down", ActionCursorDown},
	} {
		bs = append(bs,
			NewBinding(dir.key, dir.action),
			NewBinding("shift+"+dir.key, dir.action).WithArgs(map[string]any{"extend": true}),
		)
	}
	return bs
}

// Default returns a keymap holding DefaultBindings.
func Default() *Keymap {
	km := New()
	if err := km.AddAll(DefaultBindings()); err != nil {
		panic("keymap: invalid default binding: " + err.Error())
	}
	return km
}
