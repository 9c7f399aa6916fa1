// Package history keeps the undo and redo stacks of a view.
//
// Each Entry is one undo unit: the operations a single edit transaction
// applied, in order, plus the selections before and after it. History only
// stores entries; the owner of the text applies them:
//
//	h := history.NewHistory(500)
//	h.Push(entry)
//
//	// Undo hands back the entry to revert. Apply its inverse and restore
//	// the old selections; returning an error keeps it on the undo stack.
//	h.Undo(func(e history.Entry) error {
//		return apply(e.Inverse(), e.Before)
//	})
package history
