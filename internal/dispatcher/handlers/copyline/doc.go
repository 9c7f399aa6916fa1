// Package copyline provides the dispatcher handler for the copy-line
// commands.
//
// Actions:
//
//	copyline.markCollate  {add: bool = true}
//	copyline.collate
//	copyline.markCopy     {add: bool = true}
//	copyline.copyLine     {command: "" | "historyUp" | "historyDown",
//	                       shared: bool = false, prompt: bool = true}
//
// The handler keeps no state of its own; marks, sessions and history live
// in the copyline.Service it wraps.
package copyline
