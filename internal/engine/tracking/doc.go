// Package tracking keeps named sets of regions aligned with buffer edits.
//
// A Tracker is the live side of the region model: callers register ranges
// under a key, report every applied edit, and read back positions that
// reflect all edits since registration. Reading a set returns plain
// buffer.Range snapshots, which go stale on the next edit.
//
// Sets preserve insertion order and allow duplicates and overlaps.
package tracking
