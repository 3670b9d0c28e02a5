// Package buffer provides the mutable text store owned by the editor engine.
//
// Text is held as a single UTF-8 string. Positions are byte offsets
// (ByteOffset) in the range [0, Len()]. The user-visible character unit is
// the extended grapheme cluster, so cursor movement and single-character
// deletion step over whole clusters:
//
//	buf := buffer.NewBufferFromString("héllo")
//	next := buf.NextBoundary(1) // 3: "é" is two bytes
//
// Line endings are normalized to "\n" when text enters the buffer. The
// original style can be detected with DetectLineEnding and restored with
// LineEnding.Apply when writing back to disk.
//
// Buffer is not safe for concurrent use. The engine serializes all access.
package buffer
