package lsp

import (
	"sort"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// lineIndex converts byte offsets in a text to LSP positions, which count
// characters in UTF-16 code units.
type lineIndex struct {
	text   string
	starts []int // byte offset of the first character of each line
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{text: text, starts: starts}
}

// position returns the LSP position of byte offset off
func (idx *lineIndex) position(off int) protocol.Position {
	if off < 0 {
		off = 0
	}
	if off > len(idx.text) {
		off = len(idx.text)
	}
	line := sort.Search(len(idx.starts), func(i int) bool { return idx.starts[i] > off }) - 1
	start := idx.starts[line]
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(utf16Len(idx.text[start:off])),
	}
}

func (idx *lineIndex) rangeOf(start, end int) protocol.Range {
	return protocol.Range{Start: idx.position(start), End: idx.position(end)}
}

// utf16Len counts the UTF-16 code units needed to encode s
func utf16Len(s string) int {
	n := 0
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		if r >= 0x10000 {
			n += 2 // Surrogate pair
		} else {
			n++
		}
	}
	return n
}
