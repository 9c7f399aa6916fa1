// Package copyline implements the line copy and collate commands.
//
// A Service owns the per-view mark trackers, the active prompt session and
// the answer history. Commands take the view they act on, so one Service
// serves every open view.
//
// The copy command picks one of three paths:
//
//   - with copy marks, the marked line is copied below and each mark becomes
//     a placeholder edited through prompts (or through the host's snippet
//     tab stops when prompting is off)
//   - with collate marks or a non-empty selection, the collator runs
//   - otherwise the line under each cursor is duplicated below itself
package copyline
