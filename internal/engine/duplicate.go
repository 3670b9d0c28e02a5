package engine

import (
	"github.com/dshills/slate/internal/engine/buffer"
	"github.com/dshills/slate/internal/engine/cursor"
)

// Duplicate copies the hard lines touched by the selection, or the
// cursor's hard line, directly below themselves. The cursor or selection
// moves onto the copy at the same relative position. On the last line,
// which has no trailing newline, the copy is inserted as "\n" + line.
func (e *Editor) Duplicate() {
	if e.buf.IsEmpty() {
		return
	}

	lines := e.selectedLines()
	spanStart := lines[0]
	lastEnd := e.buf.LineEnd(lines[len(lines)-1])

	var (
		at    ByteOffset
		text  string
		shift ByteOffset
	)
	if lastEnd < e.buf.Len() {
		// The span ends with a newline: insert the copy after it.
		at = lastEnd + 1
		text = e.buf.TextRange(spanStart, at)
		shift = at - spanStart
	} else {
		at = lastEnd
		text = "\n" + e.buf.TextRange(spanStart, lastEnd)
		shift = ByteOffset(len(text))
	}

	before := e.sel
	if !e.change("Duplicate", buffer.NewInsert(at, text)) {
		return
	}
	e.sel = cursor.NewSelection(before.Anchor+shift, before.Active+shift)
}
