// Package history provides undo/redo functionality for the editor engine.
//
// History keeps whole-buffer snapshots. Before every edit the engine pushes
// the current text; undo hands back the most recent snapshot and remembers
// the text it replaces so the step can be redone:
//
//	h := NewHistory(100) // Max 100 undo entries
//
//	h.Push("Insert", buf.Text())
//	// ... mutate the buffer ...
//
//	snap, err := h.Undo(buf.Text())
//	if err == nil {
//		buf.SetText(snap.Text)
//	}
//
// Any new push clears the redo stack; history never branches. When the undo
// stack exceeds its bound the oldest snapshot is dropped.
package history
