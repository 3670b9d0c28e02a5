package layout

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Metrics measures text for layout.
// Implementations must be pure functions of their configuration.
type Metrics interface {
	// Advance returns the horizontal advance of one grapheme cluster.
	Advance(cluster string) float64

	// LineHeight returns the height of one visual line.
	LineHeight() float64

	// Baseline returns the distance from the top of a line to its baseline.
	Baseline() float64
}

// DefaultTabWidth is the number of cells a tab occupies.
const DefaultTabWidth = 4

// CellMetrics measures text in terminal cells.
// A tab always occupies TabWidth cells; wrapping never depends on the column
// a cluster lands in.
type CellMetrics struct {
	CellWidth  float64 // Width of one cell
	CellHeight float64 // Height of one row
	TabWidth   int     // Cells per tab

	cond *runewidth.Condition
}

// NewCellMetrics creates cell metrics with unit cells.
func NewCellMetrics(tabWidth int) *CellMetrics {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &CellMetrics{
		CellWidth:  1,
		CellHeight: 1,
		TabWidth:   tabWidth,
		cond:       runewidth.NewCondition(),
	}
}

// Cells returns the number of terminal cells cluster occupies.
func (m *CellMetrics) Cells(cluster string) int {
	if cluster == "\t" {
		return m.TabWidth
	}
	cond := m.cond
	if cond == nil {
		cond = runewidth.DefaultCondition
	}
	w := cond.StringWidth(cluster)
	if w == 0 {
		// Zero-width clusters such as control characters still take a cell
		// so the cursor can sit on them.
		w = max(uniseg.StringWidth(cluster), 1)
	}
	return w
}

// Advance implements Metrics.
func (m *CellMetrics) Advance(cluster string) float64 {
	return float64(m.Cells(cluster)) * m.CellWidth
}

// LineHeight implements Metrics.
func (m *CellMetrics) LineHeight() float64 {
	return m.CellHeight
}

// Baseline implements Metrics.
func (m *CellMetrics) Baseline() float64 {
	return m.CellHeight
}

// FaceMetrics measures text with a font face in pixels.
type FaceMetrics struct {
	face     font.Face
	tabWidth int
}

// NewFaceMetrics creates metrics backed by face.
func NewFaceMetrics(face font.Face, tabWidth int) *FaceMetrics {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &FaceMetrics{face: face, tabWidth: tabWidth}
}

// Advance implements Metrics. A cluster's advance is the sum of its runes'
// glyph advances; runes missing from the face use the advance of '?'.
func (m *FaceMetrics) Advance(cluster string) float64 {
	if cluster == "\t" {
		return float64(m.tabWidth) * m.runeAdvance(' ')
	}
	var total float64
	for _, r := range cluster {
		total += m.runeAdvance(r)
	}
	return total
}

func (m *FaceMetrics) runeAdvance(r rune) float64 {
	adv, ok := m.face.GlyphAdvance(r)
	if !ok {
		adv, _ = m.face.GlyphAdvance('?')
	}
	return fixedToFloat(adv)
}

// LineHeight implements Metrics.
func (m *FaceMetrics) LineHeight() float64 {
	return fixedToFloat(m.face.Metrics().Height)
}

// Baseline implements Metrics.
func (m *FaceMetrics) Baseline() float64 {
	return fixedToFloat(m.face.Metrics().Ascent)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
