package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

// unitMetrics gives every cluster an advance of 1 except those listed in wide.
type unitMetrics struct {
	wide map[string]float64
}

func (m unitMetrics) Advance(cluster string) float64 {
	if w, ok := m.wide[cluster]; ok {
		return w
	}
	return 1
}

func (m unitMetrics) LineHeight() float64 { return 10 }
func (m unitMetrics) Baseline() float64   { return 8 }

func TestWrap(t *testing.T) {
	m := unitMetrics{wide: map[string]float64{"W": 5}}

	tests := []struct {
		name  string
		text  string
		width float64
		want  []Line
	}{
		{
			name:  "empty",
			text:  "",
			width: 10,
			want:  []Line{{Start: 0, Text: ""}},
		},
		{
			name:  "trailing newline",
			text:  "abc\n",
			width: 10,
			want: []Line{
				{Start: 0, Text: "abc", Newline: true},
				{Start: 4, Text: "", LogicalLine: 1, LogicalStart: 4},
			},
		},
		{
			name:  "hard lines",
			text:  "ab\ncd",
			width: 10,
			want: []Line{
				{Start: 0, Text: "ab", Newline: true},
				{Start: 3, Text: "cd", LogicalLine: 1, LogicalStart: 3},
			},
		},
		{
			name:  "greedy wrap",
			text:  "abcdef",
			width: 2,
			want: []Line{
				{Start: 0, Text: "ab"},
				{Start: 2, Text: "cd", LogicalStart: 0},
				{Start: 4, Text: "ef", LogicalStart: 0},
			},
		},
		{
			name:  "wrap keeps logical line",
			text:  "x\nabc",
			width: 2,
			want: []Line{
				{Start: 0, Text: "x", Newline: true},
				{Start: 2, Text: "ab", LogicalLine: 1, LogicalStart: 2},
				{Start: 4, Text: "c", LogicalLine: 1, LogicalStart: 2},
			},
		},
		{
			name:  "oversized cluster alone",
			text:  "aWb",
			width: 3,
			want: []Line{
				{Start: 0, Text: "a"},
				{Start: 1, Text: "W"},
				{Start: 2, Text: "b"},
			},
		},
		{
			name:  "zero width",
			text:  "ab",
			width: 0,
			want: []Line{
				{Start: 0, Text: "a"},
				{Start: 1, Text: "b"},
			},
		},
		{
			name:  "blank lines",
			text:  "\n\n",
			width: 10,
			want: []Line{
				{Start: 0, Text: "", Newline: true},
				{Start: 1, Text: "", LogicalLine: 1, LogicalStart: 1, Newline: true},
				{Start: 2, Text: "", LogicalLine: 2, LogicalStart: 2},
			},
		},
		{
			name:  "clusters are not split",
			text:  "e\u0301e\u0301",
			width: 1,
			want: []Line{
				{Start: 0, Text: "e\u0301"},
				{Start: 3, Text: "e\u0301"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.text, tt.width, m)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Wrap(%q, %v) mismatch (-want +got):\n%s", tt.text, tt.width, diff)
			}
		})
	}
}

func TestLineHelpers(t *testing.T) {
	l := Line{Start: 4, Text: "abc", LogicalStart: 4, Newline: true}
	if l.End() != 7 || l.Next() != 8 {
		t.Errorf("End/Next = %d/%d, want 7/8", l.End(), l.Next())
	}
	if !l.IsHardLineStart() {
		t.Error("expected hard line start")
	}
	cont := Line{Start: 6, Text: "x", LogicalStart: 4}
	if cont.IsHardLineStart() || cont.Next() != 7 {
		t.Errorf("continuation line reported wrong: %+v", cont)
	}
}

func TestContentHeight(t *testing.T) {
	lines := Wrap("a\nb\nc", 10, unitMetrics{})
	if got := ContentHeight(lines, 16); got != 48 {
		t.Errorf("ContentHeight = %v, want 48", got)
	}
}

func TestPropertyWrapRoundTrip(t *testing.T) {
	m := NewCellMetrics(4)
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.OneOf(
			rapid.StringMatching(`[ab \t\n]{0,60}`),
			rapid.String(),
		).Draw(t, "text")
		// Wrap expects normalized line endings.
		text = strings.ReplaceAll(text, "\r", "")
		width := float64(rapid.IntRange(1, 12).Draw(t, "width"))

		lines := Wrap(text, width, m)
		if len(lines) == 0 {
			t.Fatal("Wrap returned no lines")
		}

		var sb strings.Builder
		var next ByteOffset
		for i, l := range lines {
			if l.Start != next {
				t.Fatalf("line %d starts at %d, want %d", i, l.Start, next)
			}
			if strings.Contains(l.Text, "\n") {
				t.Fatalf("line %d contains a newline: %q", i, l.Text)
			}
			if !l.Newline && i < len(lines)-1 && l.Text == "" {
				t.Fatalf("line %d is an empty soft-wrapped line", i)
			}
			sb.WriteString(l.Text)
			if l.Newline {
				sb.WriteByte('\n')
			}
			next = l.Next()
		}
		if sb.String() != text {
			t.Fatalf("round trip mismatch:\n got %q\nwant %q", sb.String(), text)
		}
		if last := lines[len(lines)-1]; last.Newline || last.End() != ByteOffset(len(text)) {
			t.Fatalf("last line %+v does not end the text", last)
		}
	})
}
