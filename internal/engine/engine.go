package engine

import (
	"github.com/dshills/slate/internal/engine/buffer"
	"github.com/dshills/slate/internal/engine/cursor"
	"github.com/dshills/slate/internal/engine/history"
	"github.com/dshills/slate/internal/renderer/highlight"
	"github.com/dshills/slate/internal/renderer/layout"
)

// Re-export commonly used types for convenience.
type (
	// ByteOffset is a byte position in the buffer.
	ByteOffset = buffer.ByteOffset

	// Range represents a byte range in the buffer.
	Range = buffer.Range

	// Edit represents an edit operation.
	Edit = buffer.Edit

	// Selection represents the cursor and selection.
	Selection = cursor.Selection

	// Snapshot is a history entry.
	Snapshot = history.Snapshot
)

// Editor owns a single text buffer together with its selection, undo
// history, wrap layout and highlight overlay.
//
// Every mutating method updates the text, the selection and the derived
// caches together. An Editor is not safe for concurrent use; callers
// serialize access through one goroutine.
type Editor struct {
	// Core components
	buf     *buffer.Buffer
	sel     Selection
	history *history.History

	// Derived caches
	layout  *layout.Cache
	overlay *highlight.Overlay

	// Configuration
	indentWidth  int
	comment      CommentStyle
	scrollMargin int

	// Viewport
	viewHeight float64
	scroll     float64

	// Initialization
	initContent    string
	maxUndoEntries int
	metrics        layout.Metrics
	wrapWidth      float64
	tokenizer      highlight.Tokenizer
}

// New creates a new Editor with the given options.
func New(opts ...Option) *Editor {
	e := &Editor{
		indentWidth:    DefaultIndentWidth,
		comment:        DefaultCommentStyle,
		scrollMargin:   DefaultScrollMargin,
		maxUndoEntries: history.DefaultMaxEntries,
		wrapWidth:      DefaultWrapWidth,
	}

	// Apply options to get configuration
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = layout.NewCellMetrics(layout.DefaultTabWidth)
	}

	e.buf = buffer.NewBufferFromString(e.initContent)
	e.history = history.NewHistory(e.maxUndoEntries)
	e.layout = layout.NewCache(e.metrics, e.wrapWidth)
	e.overlay = highlight.NewOverlay(e.tokenizer)
	e.initContent = ""
	return e
}

// ============================================================================
// Read Operations
// ============================================================================

// Text returns the full buffer content.
func (e *Editor) Text() string {
	return e.buf.Text()
}

// TextRange returns text in the given byte range.
func (e *Editor) TextRange(start, end ByteOffset) string {
	return e.buf.TextRange(start, end)
}

// Len returns the total byte length of the buffer.
func (e *Editor) Len() ByteOffset {
	return e.buf.Len()
}

// IsEmpty returns true if the buffer is empty.
func (e *Editor) IsEmpty() bool {
	return e.buf.IsEmpty()
}

// LineOffset returns the start of the zero-based hard line n, clamped to
// the existing lines.
func (e *Editor) LineOffset(n int) ByteOffset {
	return e.buf.LineOffset(n)
}

// LineCount returns the number of hard lines.
func (e *Editor) LineCount() int {
	return e.buf.LineCount()
}

// Revision returns a counter that changes whenever the text changes.
func (e *Editor) Revision() uint64 {
	return e.buf.Revision()
}

// Cursor returns the cursor offset, the active end of the selection.
func (e *Editor) Cursor() ByteOffset {
	return e.sel.Active
}

// Selection returns the current selection.
func (e *Editor) Selection() Selection {
	return e.sel
}

// HasSelection reports whether the selection is non-empty.
func (e *Editor) HasSelection() bool {
	return !e.sel.IsEmpty()
}

// SelectedText returns the selected text, or "" when the selection is empty.
func (e *Editor) SelectedText() string {
	return e.buf.TextRange(e.sel.Start(), e.sel.End())
}

// ============================================================================
// Content Replacement
// ============================================================================

// Load replaces the buffer with text and resets the selection, the history
// and the scroll position.
func (e *Editor) Load(text string) {
	e.buf.SetText(text)
	e.sel = cursor.NewCursorSelection(0)
	e.history.Clear()
	e.scroll = 0
	e.markDirty()
}

// ============================================================================
// History
// ============================================================================

// Undo restores the text before the most recent change. The cursor is
// clamped to the restored text and the selection collapses.
func (e *Editor) Undo() error {
	snap, err := e.history.Undo(e.buf.Text())
	if err != nil {
		return err
	}
	e.restore(snap)
	return nil
}

// Redo reapplies the most recently undone change.
func (e *Editor) Redo() error {
	snap, err := e.history.Redo(e.buf.Text())
	if err != nil {
		return err
	}
	e.restore(snap)
	return nil
}

func (e *Editor) restore(snap Snapshot) {
	e.buf.SetText(snap.Text)
	e.sel = cursor.NewCursorSelection(e.buf.Boundary(e.sel.Active))
	e.markDirty()
}

// CanUndo returns true if undo is available.
func (e *Editor) CanUndo() bool {
	return e.history.CanUndo()
}

// CanRedo returns true if redo is available.
func (e *Editor) CanRedo() bool {
	return e.history.CanRedo()
}

// UndoCount returns the number of undo entries.
func (e *Editor) UndoCount() int {
	return e.history.UndoCount()
}

// RedoCount returns the number of redo entries.
func (e *Editor) RedoCount() int {
	return e.history.RedoCount()
}

// PeekUndo returns the snapshot the next Undo would restore.
func (e *Editor) PeekUndo() (Snapshot, bool) {
	return e.history.PeekUndo()
}

// ============================================================================
// Mutation
// ============================================================================

// change applies edits as a single undo step labelled label. Each edit's
// offsets refer to the text produced by the edits before it. The selection
// is mapped through every edit. It reports whether the text changed.
func (e *Editor) change(label string, edits ...Edit) bool {
	pushed := false
	for _, ed := range edits {
		start := e.buf.Clamp(ed.Range.Start)
		end := e.buf.Clamp(ed.Range.End)
		if end < start {
			start, end = end, start
		}
		ed = Edit{Range: buffer.NewRange(start, end), NewText: buffer.NormalizeLineEndings(ed.NewText)}
		if ed.IsNoOp() {
			continue
		}
		if !pushed {
			e.history.Push(label, e.buf.Text())
			pushed = true
		}
		if _, err := e.buf.Apply(ed); err != nil {
			continue
		}
		e.sel = cursor.TransformSelection(e.sel, ed)
	}
	if !pushed {
		return false
	}
	e.sel = e.sel.Clamp(e.buf.Len())
	e.markDirty()
	return true
}

// markDirty invalidates every cache derived from the text.
func (e *Editor) markDirty() {
	e.layout.Invalidate()
	e.overlay.Invalidate()
}
