package renderer

import (
	"sync"

	"github.com/dshills/slate/internal/engine"
	"github.com/dshills/slate/internal/renderer/backend"
	"github.com/dshills/slate/internal/renderer/highlight"
	"github.com/dshills/slate/internal/renderer/layout"
)

// Source provides read access to an editor for rendering. *engine.Editor
// implements it.
type Source interface {
	// Lines returns the wrapped visual lines.
	Lines() []layout.Line

	// LineSpans returns the styled spans of every visual line.
	LineSpans() [][]highlight.Span

	// SelectionSpans returns the selected part of each touched visual line.
	SelectionSpans() []engine.SelectionSpan

	// Cursor returns the cursor offset.
	Cursor() engine.ByteOffset

	// CursorTarget returns the visual position of the cursor.
	CursorTarget() engine.Point

	// VisibleLines returns the visual lines intersecting the viewport.
	VisibleLines() (first, last int)

	// LineCount returns the number of hard lines.
	LineCount() int

	// Metrics returns the width measurement used for wrapping.
	Metrics() layout.Metrics

	// SetViewport sets the size of the text area in metric units.
	SetViewport(width, height float64)
}

var _ Source = (*engine.Editor)(nil)

// Options configures the renderer.
type Options struct {
	ShowLineNumbers     bool // Show line numbers in gutter
	ShowStatusLine      bool // Reserve the last row for a status line
	HighlightCursorLine bool // Tint the visual line holding the cursor
	TabWidth            int  // Cells per tab
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		ShowLineNumbers:     true,
		ShowStatusLine:      true,
		HighlightCursorLine: true,
		TabWidth:            layout.DefaultTabWidth,
	}
}

// Renderer is the main rendering facade. It sizes a View to the backend
// and flushes each frame.
type Renderer struct {
	mu      sync.Mutex
	backend backend.Backend
	view    *View
	status  Status
}

// New creates a new renderer with the given backend and options.
func New(b backend.Backend, theme *highlight.Theme, opts Options) *Renderer {
	w, h := b.Size()
	return &Renderer{
		backend: b,
		view:    NewView(0, 0, w, h, theme, opts),
	}
}

// View returns the editor view.
func (r *Renderer) View() *View {
	return r.view
}

// SetTheme replaces the color theme.
func (r *Renderer) SetTheme(theme *highlight.Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.SetTheme(theme)
}

// SetStatus replaces the status line contents.
func (r *Renderer) SetStatus(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = s
}

// Resize handles terminal resize events.
func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.SetBounds(0, 0, width, height)
}

// Layout sizes the editor viewport to the view's text area. It must run
// before the editor's scroll state is consulted for a frame.
func (r *Renderer) Layout(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.Layout(src)
}

// Render draws src and flushes the frame.
func (r *Renderer) Render(src Source) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.view.Layout(src)
	r.view.Render(r.backend, src)
	if r.view.opts.ShowStatusLine {
		r.view.RenderStatus(r.backend, r.status)
	}
	r.backend.Show()
}
