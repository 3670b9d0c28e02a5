package buffer

import (
	"strings"

	"github.com/rivo/uniseg"
)

// NextBoundary returns the offset of the grapheme cluster boundary following
// offset, or Len() at the end of the buffer.
func (b *Buffer) NextBoundary(offset ByteOffset) ByteOffset {
	offset = b.Clamp(offset)
	if offset >= ByteOffset(len(b.text)) {
		return offset
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(b.text[offset:], -1)
	return offset + ByteOffset(len(cluster))
}

// PrevBoundary returns the offset of the grapheme cluster boundary preceding
// offset, or 0 at the start of the buffer.
func (b *Buffer) PrevBoundary(offset ByteOffset) ByteOffset {
	offset = b.Clamp(offset)
	if offset == 0 {
		return 0
	}
	// A newline always ends a cluster once CRLF is normalized away, so
	// segmenting from the hard line start is enough.
	start := ByteOffset(strings.LastIndexByte(b.text[:offset-1], '\n') + 1)
	prev := start
	rest := b.text[start:offset]
	state := -1
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if len(rest) == 0 {
			break
		}
		prev += ByteOffset(len(cluster))
	}
	return prev
}

// ClusterCount returns the number of grapheme clusters in s.
func ClusterCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// ClusterOffset returns the byte offset of the n-th cluster boundary in s,
// clamped to len(s).
func ClusterOffset(s string, n int) int {
	if n <= 0 {
		return 0
	}
	off := 0
	state := -1
	rest := s
	for i := 0; i < n && len(rest) > 0; i++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		off += len(cluster)
	}
	return off
}

// Boundary returns offset if it is a grapheme cluster boundary, otherwise
// the boundary of the cluster containing it.
func (b *Buffer) Boundary(offset ByteOffset) ByteOffset {
	offset = b.Clamp(offset)
	if offset == 0 || offset == ByteOffset(len(b.text)) {
		return offset
	}
	pos := ByteOffset(strings.LastIndexByte(b.text[:offset], '\n') + 1)
	rest := b.text[pos:]
	state := -1
	for pos < offset {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if pos+ByteOffset(len(cluster)) > offset {
			break
		}
		pos += ByteOffset(len(cluster))
	}
	return pos
}
