package engine

import (
	"github.com/dshills/slate/internal/engine/cursor"
	"github.com/dshills/slate/internal/renderer/layout"
)

// moveTo moves the active end of the selection to offset. When extend is
// false the selection collapses there; otherwise the anchor stays put.
func (e *Editor) moveTo(offset ByteOffset, extend bool) {
	offset = e.buf.Boundary(offset)
	if extend {
		e.sel = e.sel.Extend(offset)
		return
	}
	e.sel = cursor.NewCursorSelection(offset)
}

// SetCursor collapses the selection at offset, clamped and snapped to a
// grapheme cluster boundary.
func (e *Editor) SetCursor(offset ByteOffset) {
	e.moveTo(offset, false)
}

// SetSelection sets the anchor and active ends of the selection.
func (e *Editor) SetSelection(anchor, active ByteOffset) {
	e.sel = cursor.NewSelection(e.buf.Boundary(anchor), e.buf.Boundary(active))
}

// SelectAll selects the whole buffer.
func (e *Editor) SelectAll() {
	e.sel = cursor.NewSelection(0, e.buf.Len())
}

// ClearSelection collapses the selection at the cursor.
func (e *Editor) ClearSelection() {
	e.sel = e.sel.Collapse()
}

// MoveLeft moves the cursor one grapheme cluster to the left.
func (e *Editor) MoveLeft(extend bool) {
	e.moveTo(e.buf.PrevBoundary(e.sel.Active), extend)
}

// MoveRight moves the cursor one grapheme cluster to the right.
func (e *Editor) MoveRight(extend bool) {
	e.moveTo(e.buf.NextBoundary(e.sel.Active), extend)
}

// MoveUp moves the cursor to the previous visual line, keeping its
// column. On the first line nothing changes.
func (e *Editor) MoveUp(extend bool) {
	e.moveVertical(-1, extend)
}

// MoveDown moves the cursor to the next visual line, keeping its column.
// On the last line nothing changes.
func (e *Editor) MoveDown(extend bool) {
	e.moveVertical(1, extend)
}

func (e *Editor) moveVertical(delta int, extend bool) {
	offset, ok := layout.Vertical(e.Lines(), e.sel.Active, delta)
	if !ok {
		return
	}
	e.moveTo(offset, extend)
}

// Home moves the cursor to the start of its visual line.
func (e *Editor) Home(extend bool) {
	lines := e.Lines()
	e.moveTo(layout.LineStart(lines, layout.LineIndexAt(lines, e.sel.Active)), extend)
}

// End moves the cursor to the end of its visual line.
func (e *Editor) End(extend bool) {
	lines := e.Lines()
	e.moveTo(layout.LineEnd(lines, layout.LineIndexAt(lines, e.sel.Active)), extend)
}

// HardLineStart moves the cursor to the start of its hard line.
func (e *Editor) HardLineStart(extend bool) {
	e.moveTo(e.buf.LineStart(e.sel.Active), extend)
}

// HardLineEnd moves the cursor to the end of its hard line.
func (e *Editor) HardLineEnd(extend bool) {
	e.moveTo(e.buf.LineEnd(e.sel.Active), extend)
}

// MidLine moves the cursor halfway through its visual line and collapses
// the selection.
func (e *Editor) MidLine() {
	lines := e.Lines()
	e.moveTo(layout.MidLine(lines[layout.LineIndexAt(lines, e.sel.Active)]), false)
}

// JumpToTop moves the cursor to the start of the buffer.
func (e *Editor) JumpToTop() {
	e.moveTo(0, false)
}

// JumpToBottom moves the cursor to the end of the buffer.
func (e *Editor) JumpToBottom() {
	e.moveTo(e.buf.Len(), false)
}

// JumpTo moves the cursor to offset, collapses the selection and scrolls
// so the cursor's line is at the top of the viewport when possible.
func (e *Editor) JumpTo(offset ByteOffset) {
	e.moveTo(offset, false)
	lines := e.Lines()
	row := layout.LineIndexAt(lines, e.sel.Active)
	e.setScroll(float64(row) * e.lineHeight())
}
