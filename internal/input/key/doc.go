// Package key parses and formats key chords.
//
// Chords use the Sublime Text spelling: modifiers joined to a key name
// with '+', lower case, e.g. "ctrl+alt+c", "shift+up", "f5". Sequences are
// chords separated by spaces: "ctrl+k ctrl+c".
//
// Events are built on tcell's key and modifier types so terminal input can
// be matched without translation tables.
package key
