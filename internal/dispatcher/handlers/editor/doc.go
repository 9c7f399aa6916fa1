// Package editor provides handlers for plain text editing.
//
// The Handler type covers the editing keys of the terminal front end:
//   - editor.insert: Insert text at every cursor, replacing selections
//   - editor.newline: Insert a line break
//   - editor.backspace: Delete the grapheme before each cursor
//   - editor.delete: Delete the grapheme after each cursor
//
// Every action runs as one host.View.Edit transaction, so a multi-cursor
// edit undoes in one step. Selections are processed from the end of the
// buffer backwards so earlier offsets stay valid, and each cursor lands
// collapsed after its own edit.
//
// Register the handler with the dispatcher:
//
//	d.RegisterNamespace(editor.NewHandler())
package editor
