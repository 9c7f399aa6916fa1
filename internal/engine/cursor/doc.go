// Package cursor provides selections and their transformation across edits.
//
// The cursor package handles:
//
//   - Text selections with anchor/head model via Selection type
//   - Multi-cursor support with CursorSet
//   - Offset, selection and range transformation after buffer edits
//
// Selection Model:
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position (where typing would occur)
//
// When Anchor == Head, the selection represents just a cursor with no
// selected text.
//
// Unlike a fully normalized editor cursor set, CursorSet keeps selections in
// the order they were given. Collation inserts at "each current selection in
// natural order", so reordering is left to callers that need it.
//
// Transformation:
//
// Hosts that track regions across edits (selections, highlighted marks,
// anchors) feed every applied buffer.Edit through TransformSelection or
// TransformRange. Edits before an offset shift it; edits that swallow an
// offset move it to the end of the new text.
package cursor
