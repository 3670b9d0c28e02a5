package engine

import (
	"strings"

	"github.com/dshills/slate/internal/engine/buffer"
)

// selectedLines returns the starts of the hard lines touched by the
// selection, in ascending order. A non-empty selection that ends exactly at
// the start of a line does not touch that line.
func (e *Editor) selectedLines() []ByteOffset {
	start, end := e.sel.Start(), e.sel.End()
	if end > start && end == e.buf.LineStart(end) {
		end--
	}

	var starts []ByteOffset
	ls := e.buf.LineStart(start)
	for {
		starts = append(starts, ls)
		le := e.buf.LineEnd(ls)
		if le >= end || le >= e.buf.Len() {
			break
		}
		ls = le + 1
	}
	return starts
}

// leadingSpaces returns the number of spaces, at most limit, at the start
// of the hard line beginning at ls.
func (e *Editor) leadingSpaces(ls ByteOffset, limit int) int {
	line := e.buf.TextRange(ls, e.buf.LineEnd(ls))
	n := 0
	for n < limit && n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// IndentUnit returns the text inserted by one level of indentation.
func (e *Editor) IndentUnit() string {
	return strings.Repeat(" ", e.indentWidth)
}

// Indent inserts one indent unit at the cursor, or at the start of every
// hard line touched by a non-empty selection. The selection keeps covering
// the same text.
func (e *Editor) Indent() {
	unit := e.IndentUnit()
	if !e.HasSelection() {
		e.change("Indent", buffer.NewInsert(e.sel.Active, unit))
		return
	}

	lines := e.selectedLines()
	edits := make([]Edit, 0, len(lines))
	// Back to front so every offset is still valid when its edit applies.
	for i := len(lines) - 1; i >= 0; i-- {
		edits = append(edits, buffer.NewInsert(lines[i], unit))
	}
	e.change("Indent", edits...)
}

// Outdent removes up to one indent width of leading spaces from the
// cursor's hard line, or from every hard line touched by a non-empty
// selection. Lines with fewer leading spaces lose only those.
func (e *Editor) Outdent() {
	lines := []ByteOffset{e.buf.LineStart(e.sel.Active)}
	if e.HasSelection() {
		lines = e.selectedLines()
	}

	var edits []Edit
	for i := len(lines) - 1; i >= 0; i-- {
		if n := e.leadingSpaces(lines[i], e.indentWidth); n > 0 {
			edits = append(edits, buffer.NewDelete(lines[i], lines[i]+ByteOffset(n)))
		}
	}
	e.change("Outdent", edits...)
}
