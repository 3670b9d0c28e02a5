package engine

import (
	"strings"

	"github.com/dshills/slate/internal/engine/buffer"
)

// CommentStyle is the comment syntax used by ToggleComment.
type CommentStyle struct {
	Line       string // line comment prefix, e.g. "//"
	BlockStart string // block comment opener, e.g. "/*"
	BlockEnd   string // block comment closer, e.g. "*/"
}

// DefaultCommentStyle is the C family comment syntax.
var DefaultCommentStyle = CommentStyle{Line: "//", BlockStart: "/*", BlockEnd: "*/"}

// HasBlock reports whether both block delimiters are set.
func (c CommentStyle) HasBlock() bool {
	return c.BlockStart != "" && c.BlockEnd != ""
}

// CommentStyle returns the comment syntax in use.
func (e *Editor) CommentStyle() CommentStyle {
	return e.comment
}

// SetCommentStyle changes the comment syntax, e.g. after the language of
// the buffer changed.
func (e *Editor) SetCommentStyle(c CommentStyle) {
	e.comment = c
}

// ToggleComment toggles the line comment prefix on the cursor's hard line
// when the selection is empty. With a selection it wraps the selected text
// in block comment delimiters, or unwraps it when the text both starts and
// ends with them. Languages without block comments toggle the line prefix
// on every selected line instead. An empty buffer is left alone.
func (e *Editor) ToggleComment() {
	if e.buf.IsEmpty() {
		return
	}
	switch {
	case !e.HasSelection():
		e.toggleLineComments([]ByteOffset{e.buf.LineStart(e.sel.Active)})
	case e.comment.HasBlock():
		e.toggleBlockComment()
	default:
		e.toggleLineComments(e.selectedLines())
	}
}

// toggleLineComments removes the prefix from every line when all of them
// start with it and adds it to every line otherwise.
func (e *Editor) toggleLineComments(lines []ByteOffset) {
	prefix := e.comment.Line
	if prefix == "" || len(lines) == 0 {
		return
	}

	commented := true
	for _, ls := range lines {
		if !strings.HasPrefix(e.buf.TextRange(ls, e.buf.LineEnd(ls)), prefix) {
			commented = false
			break
		}
	}

	n := ByteOffset(len(prefix))
	edits := make([]Edit, 0, len(lines))
	for i := len(lines) - 1; i >= 0; i-- {
		if commented {
			edits = append(edits, buffer.NewDelete(lines[i], lines[i]+n))
		} else {
			edits = append(edits, buffer.NewInsert(lines[i], prefix))
		}
	}
	e.change("Toggle Comment", edits...)
}

func (e *Editor) toggleBlockComment() {
	start, end := e.sel.Start(), e.sel.End()
	text := e.buf.TextRange(start, end)
	open, closing := e.comment.BlockStart, e.comment.BlockEnd

	if len(text) >= len(open)+len(closing) &&
		strings.HasPrefix(text, open) && strings.HasSuffix(text, closing) {
		e.change("Toggle Comment",
			buffer.NewDelete(end-ByteOffset(len(closing)), end),
			buffer.NewDelete(start, start+ByteOffset(len(open))),
		)
		return
	}
	e.change("Toggle Comment",
		buffer.NewInsert(end, closing),
		buffer.NewInsert(start, open),
	)
}
