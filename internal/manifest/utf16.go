package manifest

import "unicode/utf16"

// LineIndex maps byte offsets within a source document to (line, UTF-16
// character) positions. Built once per parse and reused for every record,
// so a document with N dependencies pays for exactly one scan instead of N.
type LineIndex struct {
	// lineStarts[i] is the byte offset at which line i begins.
	lineStarts []int
	source     []byte
}

// NewLineIndex scans source for line boundaries.
func NewLineIndex(source []byte) *LineIndex {
	idx := &LineIndex{lineStarts: []int{0}, source: source}
	for i, b := range source {
		if b == '\n' {
			idx.lineStarts = append(idx.lineStarts, i+1)
		}
	}
	return idx
}

// Position converts a byte offset into a document into a (line, UTF-16
// character) Position.
func (idx *LineIndex) Position(byteOffset int) Position {
	line := idx.lineForOffset(byteOffset)
	lineStart := idx.lineStarts[line]
	if byteOffset < lineStart {
		byteOffset = lineStart
	}
	if byteOffset > len(idx.source) {
		byteOffset = len(idx.source)
	}
	char := utf16Len(idx.source[lineStart:byteOffset])
	return Position{Line: line, Character: char}
}

// Range converts a [startByte, endByte) byte span into a Range.
func (idx *LineIndex) Range(startByte, endByte int) Range {
	return Range{Start: idx.Position(startByte), End: idx.Position(endByte)}
}

func (idx *LineIndex) lineForOffset(byteOffset int) int {
	// Binary search for the last lineStart <= byteOffset.
	lo, hi := 0, len(idx.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.lineStarts[mid] <= byteOffset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// utf16Len returns the number of UTF-16 code units encoding of b.
func utf16Len(b []byte) int {
	return len(utf16.Encode([]rune(string(b))))
}
