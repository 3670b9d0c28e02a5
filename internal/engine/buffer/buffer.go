package buffer

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// ByteOffset is a byte position in the buffer.
type ByteOffset = int64

// Buffer is a mutable, line-ending-normalized text buffer.
type Buffer struct {
	text     string
	revision uint64
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{text: NormalizeLineEndings(s)}
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	return b.text
}

// Len returns the byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	return ByteOffset(len(b.text))
}

// IsEmpty reports whether the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// Revision returns a counter that changes on every mutation.
func (b *Buffer) Revision() uint64 {
	return b.revision
}

// TextRange returns the text in [start, end). Bounds are clamped.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	start = b.Clamp(start)
	end = b.Clamp(end)
	if start >= end {
		return ""
	}
	return b.text[start:end]
}

// Clamp returns offset limited to [0, Len()] and moved back onto a rune
// start if it points into the middle of a multi-byte sequence.
func (b *Buffer) Clamp(offset ByteOffset) ByteOffset {
	if offset <= 0 {
		return 0
	}
	if offset >= ByteOffset(len(b.text)) {
		return ByteOffset(len(b.text))
	}
	for offset > 0 && !utf8.RuneStart(b.text[offset]) {
		offset--
	}
	return offset
}

// Insert inserts s at offset and returns the offset just past the inserted
// text. Line endings in s are normalized.
func (b *Buffer) Insert(offset ByteOffset, s string) (ByteOffset, error) {
	return b.Replace(offset, offset, s)
}

// Delete removes the text in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// Replace replaces [start, end) with s and returns the end offset of the
// new text.
func (b *Buffer) Replace(start, end ByteOffset, s string) (ByteOffset, error) {
	if start < 0 || end > ByteOffset(len(b.text)) {
		return start, ErrOffsetOutOfRange
	}
	if start > end {
		return start, ErrRangeInvalid
	}
	s = NormalizeLineEndings(s)
	if start == end && s == "" {
		return start, nil
	}

	var sb strings.Builder
	sb.Grow(len(b.text) - int(end-start) + len(s))
	sb.WriteString(b.text[:start])
	sb.WriteString(s)
	sb.WriteString(b.text[end:])
	b.text = sb.String()
	b.revision++

	return start + ByteOffset(len(s)), nil
}

// Apply applies a single edit.
func (b *Buffer) Apply(e Edit) (ByteOffset, error) {
	return b.Replace(e.Range.Start, e.Range.End, e.NewText)
}

// SetText replaces the whole content.
func (b *Buffer) SetText(s string) {
	b.text = NormalizeLineEndings(s)
	b.revision++
}

// LineStart returns the start of the hard line containing offset.
func (b *Buffer) LineStart(offset ByteOffset) ByteOffset {
	offset = b.Clamp(offset)
	i := strings.LastIndexByte(b.text[:offset], '\n')
	return ByteOffset(i + 1)
}

// LineEnd returns the offset of the newline terminating the hard line that
// contains offset, or Len() for the last line.
func (b *Buffer) LineEnd(offset ByteOffset) ByteOffset {
	offset = b.Clamp(offset)
	i := strings.IndexByte(b.text[offset:], '\n')
	if i < 0 {
		return ByteOffset(len(b.text))
	}
	return offset + ByteOffset(i)
}

// NextLineStart returns the start of the hard line after the one containing
// offset, or Len() when offset is on the last line.
func (b *Buffer) NextLineStart(offset ByteOffset) ByteOffset {
	end := b.LineEnd(offset)
	if end < ByteOffset(len(b.text)) {
		return end + 1
	}
	return end
}

// LineOffset returns the start of the zero-based hard line n. Line numbers
// past the end select the last line and negative ones the first.
func (b *Buffer) LineOffset(n int) ByteOffset {
	var off int
	for ; n > 0; n-- {
		i := strings.IndexByte(b.text[off:], '\n')
		if i < 0 {
			break
		}
		off += i + 1
	}
	return ByteOffset(off)
}

// LineCount returns the number of hard lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	return strings.Count(b.text, "\n") + 1
}
