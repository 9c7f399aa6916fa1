// Package cursor provides handlers for cursor movement and multi-cursor
// management.
//
// Movements apply to every selection at once:
//   - cursor.left / cursor.right: One grapheme cluster
//   - cursor.up / cursor.down: One line, keeping the grapheme column
//   - cursor.lineStart / cursor.lineEnd: Start or end of the line
//
// With the "extend" argument a movement moves only the head and keeps the
// anchor, growing the selection. Without it, left and right first collapse
// a non-empty selection to its near edge.
//
// Cursor management:
//   - cursor.addAbove / cursor.addBelow: Add a cursor on the adjacent line
//   - cursor.single: Drop all but the first cursor, or collapse it
package cursor
