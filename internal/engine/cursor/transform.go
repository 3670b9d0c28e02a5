package cursor

import (
	"github.com/dshills/slate/internal/engine/buffer"
)

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
// Returns the new offset position.
//
// Transformation rules:
//   - If edit ends at or before offset: adjust offset by the edit's delta
//   - If edit starts after offset: offset unchanged
//   - If edit spans offset: move offset to end of new text
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	return TransformOffsetSticky(offset, edit, false)
}

// TransformOffsetSticky is like TransformOffset but with a "sticky" behavior
// that determines how the offset behaves when an insertion lands exactly on it.
// If sticky is true, the offset stays before the inserted text.
// If sticky is false, the offset moves to the end of the inserted text.
func TransformOffsetSticky(offset ByteOffset, edit Edit, sticky bool) ByteOffset {
	if sticky && edit.Range.IsEmpty() && edit.Range.Start == offset {
		return offset
	}

	// Edit is entirely before offset: adjust by delta
	if edit.Range.End <= offset {
		return offset + edit.Delta()
	}

	// Edit starts after offset: no change needed
	if edit.Range.Start >= offset {
		return offset
	}

	// Edit spans offset: move to end of new text
	return edit.Range.Start + ByteOffset(len(edit.NewText))
}

// TransformSelection updates a selection after an edit.
// The lower bound sticks in place for insertions at its position while the
// upper bound moves past them, so a selection keeps covering text inserted at
// either edge of it. Direction is preserved. An empty selection is treated as
// a cursor and moves past insertions at its position.
func TransformSelection(sel Selection, edit Edit) Selection {
	if sel.IsEmpty() {
		return sel.MoveTo(TransformOffset(sel.Active, edit))
	}
	start := TransformOffsetSticky(sel.Start(), edit, true)
	end := TransformOffsetSticky(sel.End(), edit, false)
	if end < start {
		end = start
	}
	return sel.WithBounds(start, end)
}
