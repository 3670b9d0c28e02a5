package layout

import (
	"sort"

	"github.com/dshills/slate/internal/engine/buffer"
)

// LineIndexAt returns the index of the first line whose range
// [Start, End] (inclusive) contains offset. Offsets past every line map to
// the last line and offsets before the first map to 0.
func LineIndexAt(lines []Line, offset ByteOffset) int {
	if len(lines) == 0 {
		return 0
	}
	// Lines are ordered without gaps, so the first line ending at or after
	// offset is the first one containing it.
	i := sort.Search(len(lines), func(i int) bool {
		return lines[i].End() >= offset
	})
	if i == len(lines) {
		return len(lines) - 1
	}
	return i
}

// LineStart returns the start offset of line i, clamping i to the valid range.
func LineStart(lines []Line, i int) ByteOffset {
	if len(lines) == 0 {
		return 0
	}
	return lines[clampIndex(lines, i)].Start
}

// LineEnd returns the end offset of line i, clamping i to the valid range.
func LineEnd(lines []Line, i int) ByteOffset {
	if len(lines) == 0 {
		return 0
	}
	return lines[clampIndex(lines, i)].End()
}

func clampIndex(lines []Line, i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(lines) {
		return len(lines) - 1
	}
	return i
}

// Column returns the number of grapheme clusters between the start of l and
// offset. Offsets outside the line are clamped to it.
func Column(l Line, offset ByteOffset) int {
	n := offset - l.Start
	if n <= 0 {
		return 0
	}
	if n > ByteOffset(len(l.Text)) {
		n = ByteOffset(len(l.Text))
	}
	return buffer.ClusterCount(l.Text[:n])
}

// OffsetAtColumn returns the offset of cluster column col in l, clamped to
// the end of the line.
func OffsetAtColumn(l Line, col int) ByteOffset {
	return l.Start + ByteOffset(buffer.ClusterOffset(l.Text, col))
}

// XAt returns the horizontal position of offset within l.
func XAt(l Line, offset ByteOffset, m Metrics) float64 {
	n := offset - l.Start
	if n <= 0 {
		return 0
	}
	if n > ByteOffset(len(l.Text)) {
		n = ByteOffset(len(l.Text))
	}
	return Width(l.Text[:n], m)
}

// Vertical returns the offset reached by moving delta visual lines from
// offset while keeping the cluster column, clamped to the target line's
// length. ok is false when the move would leave the first or last line, in
// which case offset is returned unchanged.
func Vertical(lines []Line, offset ByteOffset, delta int) (ByteOffset, bool) {
	if len(lines) == 0 || delta == 0 {
		return offset, false
	}
	cur := LineIndexAt(lines, offset)
	target := cur + delta
	if target < 0 || target >= len(lines) {
		return offset, false
	}
	col := Column(lines[cur], offset)
	return OffsetAtColumn(lines[target], col), true
}

// MidLine returns the offset halfway through line l, counted in clusters.
func MidLine(l Line) ByteOffset {
	return OffsetAtColumn(l, buffer.ClusterCount(l.Text)/2)
}
