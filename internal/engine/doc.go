// Package engine provides the core of the slate text editor.
//
// An Editor owns one text buffer and keeps three representations of it
// consistent under every mutation: the raw text, the selection expressed as
// byte offsets into that text, and the soft-wrapped visual lines used to
// translate offsets into rows and columns.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - buffer: the text, line-ending normalization and grapheme boundaries
//   - cursor: the anchor/active selection and its transformation by edits
//   - history: bounded undo/redo stacks of whole-buffer snapshots
//
// and consumes two renderer packages as caches:
//
//   - layout: wrapping and offset/row mapping
//   - highlight: the token overlay consumed when drawing
//
// # Offsets
//
// Offsets are byte offsets. Every operation that moves or deletes by a
// "character" moves by a whole grapheme cluster, so the offsets the engine
// produces are always cluster boundaries. Out-of-range offsets passed in by
// callers are clamped, never reported.
//
// # Mutations
//
// Each mutating method pushes the text it is about to change onto the
// undo stack, applies its edits, maps the selection through them and marks
// the wrap layout and token overlay dirty. Navigation never touches the
// history.
//
//	e := engine.New(engine.WithContent("x\ny\nz"))
//	e.SelectAll()
//	e.Indent()     // "  x\n  y\n  z"
//	_ = e.Undo()   // "x\ny\nz"
//
// # Thread Safety
//
// An Editor is not safe for concurrent use. The application drives it from
// a single event loop goroutine.
package engine
