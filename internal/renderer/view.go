package renderer

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dshills/slate/internal/engine"
	"github.com/dshills/slate/internal/renderer/backend"
	"github.com/dshills/slate/internal/renderer/highlight"
	"github.com/dshills/slate/internal/renderer/layout"
)

// minLineNumberDigits is the narrowest line number column, matching "%3d".
const minLineNumberDigits = 3

// Status is the content of the status line.
type Status struct {
	Left  string // File name, modified marker, messages
	Right string // Cursor position, language
}

// View draws an editor into a rectangle of the terminal: a line number
// gutter, the wrapped text with token colors and selection, and an optional
// status line in the last row.
type View struct {
	x, y          int
	width, height int

	theme *highlight.Theme
	opts  Options
	cells *layout.CellMetrics

	gutterWidth int
}

// NewView creates a view covering the given rectangle.
func NewView(x, y, width, height int, theme *highlight.Theme, opts Options) *View {
	if theme == nil {
		theme = highlight.DefaultTheme()
	}
	return &View{
		x:      x,
		y:      y,
		width:  max(width, 0),
		height: max(height, 0),
		theme:  theme,
		opts:   opts,
		cells:  layout.NewCellMetrics(opts.TabWidth),
	}
}

// Bounds returns the view's position and size.
func (v *View) Bounds() (x, y, width, height int) {
	return v.x, v.y, v.width, v.height
}

// SetBounds moves and resizes the view.
func (v *View) SetBounds(x, y, width, height int) {
	v.x, v.y = x, y
	v.width, v.height = max(width, 0), max(height, 0)
}

// SetTheme replaces the color theme.
func (v *View) SetTheme(theme *highlight.Theme) {
	if theme != nil {
		v.theme = theme
	}
}

// GutterWidth returns the width of the line number gutter computed by the
// last Layout, separator included.
func (v *View) GutterWidth() int {
	return v.gutterWidth
}

// TextRows returns the number of rows available for text.
func (v *View) TextRows() int {
	if v.opts.ShowStatusLine && v.height > 0 {
		return v.height - 1
	}
	return v.height
}

// Layout sizes the gutter for src and passes the remaining text area to
// src as its viewport.
func (v *View) Layout(src Source) {
	v.gutterWidth = v.computeGutterWidth(src.LineCount())

	m := src.Metrics()
	cellWidth := m.Advance(" ")
	if cellWidth <= 0 {
		cellWidth = 1
	}
	cols := max(v.width-v.gutterWidth, 1)
	src.SetViewport(float64(cols)*cellWidth, float64(v.TextRows())*m.LineHeight())
}

func (v *View) computeGutterWidth(lineCount int) int {
	if !v.opts.ShowLineNumbers {
		return 0
	}
	digits := max(len(strconv.Itoa(lineCount)), minLineNumberDigits)
	return digits + 1
}

// measure returns the cell measurement matching src's wrapping.
func (v *View) measure(src Source) *layout.CellMetrics {
	if cm, ok := src.Metrics().(*layout.CellMetrics); ok {
		return cm
	}
	return v.cells
}

// Render draws the visible lines of src and positions the cursor. Every
// cell of the text rows is written, so no clear is needed between frames.
func (v *View) Render(b backend.Backend, src Source) {
	rows := v.TextRows()
	if rows <= 0 || v.width <= 0 {
		return
	}

	lines := src.Lines()
	spans := src.LineSpans()
	first, last := src.VisibleLines()
	target := src.CursorTarget()
	cells := v.measure(src)

	selected := make(map[int]engine.SelectionSpan)
	for _, s := range src.SelectionSpans() {
		selected[s.Line] = s
	}

	base := v.baseStyle()
	for r := 0; r < rows; r++ {
		i := first + r
		y := v.y + r
		if i < 0 || i > last || i >= len(lines) {
			v.drawGutter(b, y, "")
			v.fill(b, v.x+v.gutterWidth, y, base)
			continue
		}

		l := lines[i]
		number := ""
		if l.IsHardLineStart() {
			number = fmt.Sprintf("%*d", v.gutterWidth-1, l.LogicalLine+1)
		}
		v.drawGutter(b, y, number)

		style := base
		if v.opts.HighlightCursorLine && i == target.Row {
			style = style.WithBackground(backend.ColorFromColorful(v.theme.LineHighlight()))
		}
		var lineSpans []highlight.Span
		if i < len(spans) {
			lineSpans = spans[i]
		}
		sel, hasSel := selected[i]
		v.drawLine(b, y, l, lineSpans, sel, hasSel, style, cells)
	}

	v.placeCursor(b, src, lines, first, target.Row, cells)
}

func (v *View) baseStyle() backend.Style {
	return backend.DefaultStyle().
		WithForeground(backend.ColorFromColorful(v.theme.Foreground())).
		WithBackground(backend.ColorFromColorful(v.theme.Background()))
}

func (v *View) drawGutter(b backend.Backend, y int, number string) {
	if v.gutterWidth == 0 {
		return
	}
	style := v.baseStyle().WithForeground(backend.ColorFromColorful(v.theme.Gutter()))
	for x := 0; x < v.gutterWidth; x++ {
		text := " "
		if x < len(number) {
			text = number[x : x+1]
		}
		b.SetCell(v.x+x, y, backend.NewCell(text, style))
	}
}

// drawLine draws one visual line starting after the gutter and fills the
// rest of the row with base.
func (v *View) drawLine(b backend.Backend, y int, l layout.Line, spans []highlight.Span,
	sel engine.SelectionSpan, hasSel bool, base backend.Style, cells *layout.CellMetrics) {
	x := v.x + v.gutterWidth
	right := v.x + v.width
	selBg := backend.ColorFromColorful(v.theme.Selection())

	offset := l.Start
	si := 0
	g := uniseg.NewGraphemes(l.Text)
	for g.Next() && x < right {
		cluster := g.Str()
		start := offset
		offset += engine.ByteOffset(len(cluster))

		for si < len(spans) && spans[si].End <= start {
			si++
		}
		style := base
		if si < len(spans) && spans[si].Start <= start {
			style = v.tokenStyle(base, spans[si].Type)
		}
		if hasSel && start >= sel.Start && start < sel.End {
			style = style.WithBackground(selBg)
		}

		w := cells.Cells(cluster)
		switch {
		case cluster == "\t":
			for k := 0; k < w && x+k < right; k++ {
				b.SetCell(x+k, y, backend.NewCell(" ", style))
			}
		case x+w > right:
			// A wide cluster that does not fit is shown as padding.
			for ; x < right; x++ {
				b.SetCell(x, y, backend.NewCell(" ", style))
			}
		case !drawable(cluster, w):
			b.SetCell(x, y, backend.NewCell("?", style))
			for k := 1; k < w; k++ {
				b.SetCell(x+k, y, backend.NewCell(" ", style))
			}
		default:
			b.SetCell(x, y, backend.NewCell(cluster, style))
			for k := 1; k < w; k++ {
				b.SetCell(x+k, y, backend.Cell{Style: style})
			}
		}
		x += w
	}

	if hasSel && sel.Newline && x < right {
		b.SetCell(x, y, backend.NewCell(" ", base.WithBackground(selBg)))
		x++
	}
	v.fill(b, x, y, base)
}

// drawable reports whether the terminal can draw cluster at its measured
// width. Control characters and zero-width clusters are not.
func drawable(cluster string, width int) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return !unicode.IsControl(r) && runewidth.StringWidth(cluster) == width
}

func (v *View) tokenStyle(base backend.Style, typ highlight.TokenType) backend.Style {
	if typ == highlight.TokenNone {
		return base
	}
	ts := v.theme.StyleFor(typ)
	style := base.WithForeground(backend.ColorFromColorful(ts.Foreground))
	if ts.Bold {
		style = style.WithAttributes(backend.AttrBold)
	}
	if ts.Italic {
		style = style.WithAttributes(backend.AttrItalic)
	}
	if ts.Underline {
		style = style.WithAttributes(backend.AttrUnderline)
	}
	return style
}

func (v *View) fill(b backend.Backend, from, y int, style backend.Style) {
	right := v.x + v.width
	if from >= right {
		return
	}
	b.Fill(backend.ScreenRect{Top: y, Left: from, Bottom: y + 1, Right: right}, backend.NewCell(" ", style))
}

func (v *View) placeCursor(b backend.Backend, src Source, lines []layout.Line, first, row int, cells *layout.CellMetrics) {
	screenRow := row - first
	if row < 0 || row >= len(lines) || screenRow < 0 || screenRow >= v.TextRows() {
		b.HideCursor()
		return
	}
	l := lines[row]
	n := int(src.Cursor() - l.Start)
	n = max(0, min(n, len(l.Text)))

	col := v.gutterWidth + cellWidth(l.Text[:n], cells)
	col = min(col, v.width-1)
	b.ShowCursor(v.x+col, v.y+screenRow)
}

// cellWidth returns the number of cells s occupies.
func cellWidth(s string, cells *layout.CellMetrics) int {
	w := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w += cells.Cells(g.Str())
	}
	return w
}

// OffsetAt maps a screen position inside the text area to the buffer
// offset of the cluster drawn there. Positions right of the line end map
// to the line end. It reports false outside the text rows.
func (v *View) OffsetAt(src Source, x, y int) (engine.ByteOffset, bool) {
	screenRow := y - v.y
	if screenRow < 0 || screenRow >= v.TextRows() || x < v.x || x >= v.x+v.width {
		return 0, false
	}
	lines := src.Lines()
	first, _ := src.VisibleLines()
	row := first + screenRow
	if row < 0 || len(lines) == 0 {
		return 0, false
	}
	if row >= len(lines) {
		return lines[len(lines)-1].End(), true
	}
	l := lines[row]

	target := x - v.x - v.gutterWidth
	cells := v.measure(src)
	col := 0
	offset := l.Start
	g := uniseg.NewGraphemes(l.Text)
	for g.Next() {
		w := cells.Cells(g.Str())
		if target < col+w {
			return offset, true
		}
		col += w
		offset += engine.ByteOffset(len(g.Str()))
	}
	return offset, true
}

// RenderStatus draws s into the last row of the view.
func (v *View) RenderStatus(b backend.Backend, s Status) {
	if v.height <= 0 || v.width <= 0 {
		return
	}
	y := v.y + v.height - 1
	style := backend.DefaultStyle().
		WithForeground(backend.ColorFromColorful(v.theme.Background())).
		WithBackground(backend.ColorFromColorful(v.theme.Gutter()))

	right := runewidth.Truncate(s.Right, v.width, "")
	rightWidth := runewidth.StringWidth(right)
	left := runewidth.Truncate(s.Left, max(v.width-rightWidth-1, 0), "…")
	text := runewidth.FillRight(left, v.width-rightWidth) + right

	x := v.x
	g := uniseg.NewGraphemes(text)
	for g.Next() && x < v.x+v.width {
		w := runewidth.StringWidth(g.Str())
		if w == 0 {
			continue
		}
		b.SetCell(x, y, backend.NewCell(g.Str(), style))
		for k := 1; k < w; k++ {
			b.SetCell(x+k, y, backend.Cell{Style: style})
		}
		x += w
	}
	v.fill(b, x, y, style)
}
