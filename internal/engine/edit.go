package engine

import (
	"github.com/dshills/slate/internal/engine/buffer"
	"github.com/dshills/slate/internal/engine/cursor"
)

// InsertText replaces the selection with s, or inserts s at the cursor when
// the selection is empty. The cursor ends up just past the inserted text.
// The whole operation is one undo step.
func (e *Editor) InsertText(s string) {
	s = buffer.NormalizeLineEndings(s)
	start := e.sel.Start()
	if !e.change("Insert", Edit{Range: e.sel.Range(), NewText: s}) {
		return
	}
	e.sel = cursor.NewCursorSelection(start + ByteOffset(len(s)))
}

// NewLine inserts a line break at the cursor.
func (e *Editor) NewLine() {
	e.InsertText("\n")
}

// Paste inserts s as if it were typed.
func (e *Editor) Paste(s string) {
	e.InsertText(s)
}

// Replace replaces [start, end) with s as one undo step. The selection
// keeps tracking the same text.
func (e *Editor) Replace(start, end ByteOffset, s string) {
	e.change("Replace", Edit{Range: buffer.NewRange(start, end), NewText: s})
}

// DeleteBackward deletes the selection, or the grapheme cluster before the
// cursor when the selection is empty.
func (e *Editor) DeleteBackward() {
	if e.HasSelection() {
		e.DeleteSelection()
		return
	}
	c := e.sel.Active
	if c == 0 {
		return
	}
	e.change("Delete", buffer.NewDelete(e.buf.PrevBoundary(c), c))
}

// DeleteForward deletes the selection, or the grapheme cluster at the
// cursor when the selection is empty.
func (e *Editor) DeleteForward() {
	if e.HasSelection() {
		e.DeleteSelection()
		return
	}
	c := e.sel.Active
	if c >= e.buf.Len() {
		return
	}
	e.change("Delete", buffer.NewDelete(c, e.buf.NextBoundary(c)))
}

// DeleteSelection removes the selected text and collapses the selection at
// its start.
func (e *Editor) DeleteSelection() {
	if !e.HasSelection() {
		return
	}
	start := e.sel.Start()
	e.change("Delete", buffer.NewDelete(start, e.sel.End()))
	e.sel = cursor.NewCursorSelection(start)
}

// Cut removes the selected text as one undo step and returns it.
func (e *Editor) Cut() string {
	if !e.HasSelection() {
		return ""
	}
	text := e.SelectedText()
	start := e.sel.Start()
	e.change("Cut", buffer.NewDelete(start, e.sel.End()))
	e.sel = cursor.NewCursorSelection(start)
	return text
}
