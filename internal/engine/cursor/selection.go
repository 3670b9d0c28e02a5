package cursor

import (
	"fmt"

	"github.com/dshills/slate/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Anchor is the fixed end; Active is the moving end and doubles as the cursor.
// When Anchor == Active, this represents a cursor with no selection.
// Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset // Where selection started
	Active ByteOffset // Cursor position (where typing occurs)
}

// NewSelection creates a selection from anchor to active.
func NewSelection(anchor, active ByteOffset) Selection {
	return Selection{Anchor: anchor, Active: active}
}

// NewCursorSelection creates a selection representing just a cursor (no extent).
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Active: offset}
}

// IsEmpty returns true if the selection has no extent (just a cursor).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Active
}

// Len returns the length of the selection in bytes.
func (s Selection) Len() ByteOffset {
	return s.End() - s.Start()
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	return min(s.Anchor, s.Active)
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	return max(s.Anchor, s.Active)
}

// Cursor returns the active position.
func (s Selection) Cursor() ByteOffset {
	return s.Active
}

// IsBackward returns true if the active end precedes the anchor.
func (s Selection) IsBackward() bool {
	return s.Active < s.Anchor
}

// Extend returns a new selection with the active end moved to offset.
// The anchor remains fixed.
func (s Selection) Extend(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Active: offset}
}

// MoveTo returns a new collapsed selection (cursor) at the given offset.
func (s Selection) MoveTo(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Active: offset}
}

// Collapse collapses the selection to a cursor at the active end.
func (s Selection) Collapse() Selection {
	return Selection{Anchor: s.Active, Active: s.Active}
}

// WithBounds returns a selection covering [start, end] that keeps the
// direction of s.
func (s Selection) WithBounds(start, end ByteOffset) Selection {
	if s.IsBackward() {
		return Selection{Anchor: end, Active: start}
	}
	return Selection{Anchor: start, Active: end}
}

// Contains returns true if the given offset is within the selection.
// For empty selections (cursors), this always returns false.
func (s Selection) Contains(offset ByteOffset) bool {
	return offset >= s.Start() && offset < s.End()
}

// Clamp returns a selection clamped to the valid range [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	return Selection{
		Anchor: clampOffset(s.Anchor, maxOffset),
		Active: clampOffset(s.Active, maxOffset),
	}
}

func clampOffset(offset, maxOffset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > maxOffset {
		return maxOffset
	}
	return offset
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Active)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Active)
}
