// Package layout computes the soft-wrapped visual lines of a buffer and maps
// between buffer offsets and visual rows.
package layout

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/slate/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Line is one visual line of wrapped text.
type Line struct {
	Start ByteOffset // Offset of the first byte of Text
	Text  string     // Content, never containing a newline

	LogicalLine  int        // Index of the hard line this segment belongs to
	LogicalStart ByteOffset // Offset where that hard line starts

	Newline bool // A hard newline follows Text
}

// End returns the offset just past the line's text.
func (l Line) End() ByteOffset {
	return l.Start + ByteOffset(len(l.Text))
}

// Next returns the offset where the following line starts.
func (l Line) Next() ByteOffset {
	if l.Newline {
		return l.End() + 1
	}
	return l.End()
}

// IsHardLineStart reports whether the line is the first segment of its hard
// line rather than a wrapped continuation.
func (l Line) IsHardLineStart() bool {
	return l.Start == l.LogicalStart
}

// Wrap splits text into visual lines no wider than width.
//
// Clusters are packed greedily without regard to word boundaries. A cluster
// wider than width is placed alone on its own line, so every line except an
// empty hard line holds at least one cluster. The result is never empty: empty
// text yields one empty line and text ending in a newline yields a trailing
// empty line at len(text).
//
// text is expected to use "\n" line endings.
func Wrap(text string, width float64, m Metrics) []Line {
	lines := make([]Line, 0, strings.Count(text, "\n")+1)

	var (
		logical      int
		logicalStart int
		lineStart    int
		pos          int
		run          float64
	)
	emit := func(newline bool) {
		lines = append(lines, Line{
			Start:        ByteOffset(lineStart),
			Text:         text[lineStart:pos],
			LogicalLine:  logical,
			LogicalStart: ByteOffset(logicalStart),
			Newline:      newline,
		})
	}

	rest := text
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)

		if cluster == "\n" {
			emit(true)
			pos++
			lineStart = pos
			logical++
			logicalStart = pos
			run = 0
			continue
		}

		w := m.Advance(cluster)
		if pos > lineStart && !(run+w <= width) {
			emit(false)
			lineStart = pos
			run = 0
		}
		run += w
		pos += len(cluster)
	}
	emit(false)

	return lines
}

// ContentHeight returns the total height of the wrapped lines.
func ContentHeight(lines []Line, lineHeight float64) float64 {
	return float64(len(lines)) * lineHeight
}

// Width returns the advance of s measured cluster by cluster.
func Width(s string, m Metrics) float64 {
	var total float64
	state := -1
	for len(s) > 0 {
		var cluster string
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		total += m.Advance(cluster)
	}
	return total
}
