package environment

// Span is a half-open byte range in a source file.
type Span struct {
	File  string
	Start uint32
	End   uint32
}

// Position is a 0-based line/character pair, as translated by a LineIndex.
type Position struct {
	Line      uint32
	Character uint32
}

// LineIndex translates byte offsets in a source file to line/character
// positions, the way a text editor would. It is built once per file and
// reused across every span lookup during index export.
type LineIndex struct {
	file         string
	lineStarts   []uint32
	contentBytes uint32
}

// NewLineIndex scans src for newlines and records where each line begins.
func NewLineIndex(file, src string) *LineIndex {
	starts := []uint32{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	return &LineIndex{file: file, lineStarts: starts, contentBytes: uint32(len(src))}
}

// ToPos converts a byte offset into a Position using binary search over the
// recorded line starts. Offsets past the end of the file clamp to the last
// position.
func (li *LineIndex) ToPos(offset uint32) Position {
	if offset > li.contentBytes {
		offset = li.contentBytes
	}
	lo, hi := 0, len(li.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: uint32(lo), Character: offset - li.lineStarts[lo]}
}

// File reports the name this index was built for, so callers can check
// whether a span belongs to the same file before translating it.
func (li *LineIndex) File() string { return li.file }
