// Package memhost is an in-memory implementation of host.View.
//
// It keeps the text in a buffer.Buffer, selections in a cursor.CursorSet
// and highlighted regions in a tracking.Tracker, transforming selections
// and regions on every edit the way a real editor does. Prompts are plain
// values that a front end (or a test) drives with Type, Accept and Cancel.
//
// A View is not safe for concurrent use; the terminal front end drives it
// from its event loop goroutine.
package memhost
