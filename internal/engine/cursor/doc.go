// Package cursor provides the selection model used by the editor engine.
//
// Selections use an anchor/active model where:
//   - Anchor: the fixed end, set where the selection started
//   - Active: the moving end, which is also the cursor position
//
// When Anchor == Active, the selection represents just a cursor with no
// selected text. Start and End always report the lower and upper bound, so
// editing code never needs to care about direction. Direction only matters
// when a selection is extended by shift-navigation.
//
// Basic usage:
//
//	sel := cursor.NewCursorSelection(10) // Cursor at offset 10
//	sel = sel.Extend(20)                 // Select from 10 to 20
//
//	// Keep tracking the same text after an insertion at offset 0
//	edit := buffer.NewInsert(0, "  ")
//	sel = cursor.TransformSelection(sel, edit) // 12 to 22
//
// Selection is an immutable value type and safe for concurrent use.
package cursor
