// Package keymap maps key sequences to dispatcher actions.
//
// Bindings live in one of two contexts: the editor, and the field prompt
// opened by copyline.copyLine. A Resolver feeds key events through a
// Keymap, buffering multi-chord sequences such as "ctrl+k ctrl+c".
//
// Keymaps load from and save to the Sublime Text .sublime-keymap JSON
// format:
//
//	[
//	  { "keys": ["ctrl+alt+c"], "command": "copy_line" },
//	  { "keys": ["up"], "command": "copy_line", "args": { "command": "up" },
//	    "context": [{ "key": "copyline_prompt" }] }
//	]
package keymap
