package engine

import (
	"math"

	"github.com/dshills/slate/internal/engine/buffer"
	"github.com/dshills/slate/internal/renderer/highlight"
	"github.com/dshills/slate/internal/renderer/layout"
)

// Point is a position in the text area, in metric units.
type Point struct {
	X, Y float64
	Row  int // Visual line index
}

// SelectionSpan is the selected part of one visual line.
type SelectionSpan struct {
	Line       int        // Visual line index
	Start, End ByteOffset // Selected bytes within the line
	Newline    bool       // The newline after the line is selected too
}

// ============================================================================
// Layout
// ============================================================================

// Lines returns the wrapped visual lines of the buffer. The returned slice
// is shared with the layout cache and must not be modified.
func (e *Editor) Lines() []layout.Line {
	return e.layout.Lines(e.buf.Text())
}

// Metrics returns the width measurement used for wrapping.
func (e *Editor) Metrics() layout.Metrics {
	return e.layout.Metrics()
}

// SetMetrics replaces the width measurement and rewraps.
func (e *Editor) SetMetrics(m layout.Metrics) {
	if m == nil {
		return
	}
	e.metrics = m
	e.layout.SetMetrics(m)
	e.clampScroll()
}

// LayoutStats returns statistics of the layout cache.
func (e *Editor) LayoutStats() layout.CacheStats {
	return e.layout.Stats()
}

func (e *Editor) lineHeight() float64 {
	return e.layout.Metrics().LineHeight()
}

// ContentHeight returns the height of all visual lines.
func (e *Editor) ContentHeight() float64 {
	return layout.ContentHeight(e.Lines(), e.lineHeight())
}

// ============================================================================
// Viewport
// ============================================================================

// SetViewport sets the size of the text area. The width is the wrap
// budget.
func (e *Editor) SetViewport(width, height float64) {
	e.layout.SetWidth(width)
	e.viewHeight = height
	e.clampScroll()
}

// Viewport returns the size of the text area.
func (e *Editor) Viewport() (width, height float64) {
	return e.layout.Width(), e.viewHeight
}

// ScrollOffset returns the vertical scroll position. Edits that shorten the
// content pull it back to MaxScroll.
func (e *Editor) ScrollOffset() float64 {
	e.clampScroll()
	return e.scroll
}

// MaxScroll returns the largest scroll offset, max(0, contentHeight -
// viewport height).
func (e *Editor) MaxScroll() float64 {
	return math.Max(0, e.ContentHeight()-e.viewHeight)
}

// ScrollBy scrolls by the given number of lines. Negative values scroll up.
func (e *Editor) ScrollBy(lines int) {
	e.setScroll(e.ScrollOffset() + float64(lines)*e.lineHeight())
}

func (e *Editor) setScroll(y float64) {
	e.scroll = y
	e.clampScroll()
}

func (e *Editor) clampScroll() {
	e.scroll = math.Max(0, math.Min(e.scroll, e.MaxScroll()))
}

// EnsureCursorVisible scrolls just enough to keep the cursor line inside
// the viewport with the configured margin.
func (e *Editor) EnsureCursorVisible() {
	lh := e.lineHeight()
	margin := float64(e.scrollMargin) * lh
	y := e.CursorTarget().Y
	e.clampScroll()

	switch {
	case y < e.scroll+margin:
		e.scroll = y - margin
	case y+lh > e.scroll+e.viewHeight-margin:
		e.scroll = y + lh - e.viewHeight + margin
	}
	e.clampScroll()
}

// VisibleLines returns the index range [first, last] of the visual lines
// intersecting the viewport. last is below first when nothing is visible.
func (e *Editor) VisibleLines() (first, last int) {
	lines := e.Lines()
	lh := e.lineHeight()
	if lh <= 0 {
		return 0, len(lines) - 1
	}
	scroll := e.ScrollOffset()
	first = int(math.Floor(scroll / lh))
	last = int(math.Ceil((scroll+e.viewHeight)/lh)) - 1
	first = min(first, len(lines)-1)
	last = min(last, len(lines)-1)
	return first, last
}

// ============================================================================
// Render Accessors
// ============================================================================

// CursorTarget returns where the cursor is drawn, relative to the top of
// the content.
func (e *Editor) CursorTarget() Point {
	lines := e.Lines()
	row := layout.LineIndexAt(lines, e.sel.Active)
	return Point{
		X:   layout.XAt(lines[row], e.sel.Active, e.layout.Metrics()),
		Y:   float64(row) * e.lineHeight(),
		Row: row,
	}
}

// SelectionSpans returns the selected part of every visual line the
// selection touches. An empty selection has no spans.
func (e *Editor) SelectionSpans() []SelectionSpan {
	if !e.HasSelection() {
		return nil
	}
	start, end := e.sel.Start(), e.sel.End()
	lines := e.Lines()

	var spans []SelectionSpan
	for i := layout.LineIndexAt(lines, start); i < len(lines); i++ {
		l := lines[i]
		if l.Start >= end {
			break
		}
		s := max(start, l.Start)
		en := min(end, l.End())
		nl := l.Newline && end > l.End() && start <= l.End()
		if en > s || nl {
			spans = append(spans, SelectionSpan{Line: i, Start: s, End: en, Newline: nl})
		}
	}
	return spans
}

// Tokens returns the highlight tokens of the buffer, re-tokenizing if the
// text changed since the last call.
func (e *Editor) Tokens() []highlight.Token {
	return e.overlay.Tokens(e.buf.Text())
}

// TokenizeErr returns the error of the last tokenization, if any.
func (e *Editor) TokenizeErr() error {
	return e.overlay.Err()
}

// SetTokenizer replaces the tokenizer behind the highlight overlay.
func (e *Editor) SetTokenizer(t highlight.Tokenizer) {
	e.tokenizer = t
	e.overlay.SetTokenizer(t)
}

// LineSpans returns the styled spans of every visual line.
func (e *Editor) LineSpans() [][]highlight.Span {
	lines := e.Lines()
	ranges := make([]buffer.Range, len(lines))
	for i, l := range lines {
		ranges[i] = buffer.Range{Start: l.Start, End: l.End()}
	}
	return e.overlay.Spans(e.buf.Text(), ranges)
}
