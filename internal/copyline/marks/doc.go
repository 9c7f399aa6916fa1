// Package marks tracks the two named mark sets used by the copy-line
// commands: "collate" marks, whose lines are gathered by the collator, and
// "copyline" marks, which become the placeholders of a copied line.
//
// Mark positions live in the host as highlighted region sets, so they
// follow edits made anywhere in the view. The tracker only reads them as
// snapshots when a command consumes them.
package marks
