package engine

import (
	"github.com/dshills/slate/internal/renderer/highlight"
	"github.com/dshills/slate/internal/renderer/layout"
)

// Default configuration values.
const (
	DefaultIndentWidth  = 2
	DefaultScrollMargin = 1
	DefaultWrapWidth    = 80
)

// Option configures an Editor during creation.
type Option func(*Editor)

// WithContent sets the initial content of the editor.
func WithContent(content string) Option {
	return func(e *Editor) {
		e.initContent = content
	}
}

// WithIndentWidth sets the number of spaces inserted by Indent.
func WithIndentWidth(width int) Option {
	return func(e *Editor) {
		if width > 0 {
			e.indentWidth = width
		}
	}
}

// WithMaxUndoEntries sets the maximum number of undo history entries.
func WithMaxUndoEntries(max int) Option {
	return func(e *Editor) {
		if max > 0 {
			e.maxUndoEntries = max
		}
	}
}

// WithMetrics sets the width measurement used for wrapping.
func WithMetrics(m layout.Metrics) Option {
	return func(e *Editor) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithWrapWidth sets the initial wrap width in metric units.
func WithWrapWidth(width float64) Option {
	return func(e *Editor) {
		e.wrapWidth = width
	}
}

// WithTokenizer sets the tokenizer behind the highlight overlay.
func WithTokenizer(t highlight.Tokenizer) Option {
	return func(e *Editor) {
		e.tokenizer = t
	}
}

// WithCommentStyle sets the comment syntax used by ToggleComment.
func WithCommentStyle(c CommentStyle) Option {
	return func(e *Editor) {
		e.comment = c
	}
}

// WithScrollMargin sets how many lines EnsureCursorVisible keeps between
// the cursor and the viewport edge.
func WithScrollMargin(lines int) Option {
	return func(e *Editor) {
		if lines >= 0 {
			e.scrollMargin = lines
		}
	}
}

// Configure applies opts to a live editor, rewrapping and retokenizing.
// Content and wrap width options are ignored; use Load and SetViewport for
// those.
func (e *Editor) Configure(opts ...Option) {
	for _, opt := range opts {
		opt(e)
	}
	e.initContent = ""
	e.history.SetMaxEntries(e.maxUndoEntries)
	e.SetMetrics(e.metrics)
	e.SetTokenizer(e.tokenizer)
}
