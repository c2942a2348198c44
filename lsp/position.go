package lsp

import (
	"strings"
	"unicode/utf16"
)

// Protocol positions count UTF-16 code units; the engine and parser count bytes.

// byteOffset converts a UTF-16 character offset within line to a byte offset.
// Offsets past the end of the line map to len(line).
func byteOffset(line string, character int) int {
	units := 0
	for i, r := range line {
		if units >= character {
			return i
		}
		units += utf16Len(r)
	}
	return len(line)
}

// utf16Offset converts a byte offset within line to UTF-16 code units.
func utf16Offset(line string, offset int) int {
	offset = min(max(offset, 0), len(line))
	units := 0
	for _, r := range line[:offset] {
		units += utf16Len(r)
	}
	return units
}

func utf16Len(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

// lineOf returns line n (0-based) of src without its line terminator.
func lineOf(src []byte, n int) string {
	text := string(src)
	for ; n > 0; n-- {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			return ""
		}
		text = text[i+1:]
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSuffix(text, "\r")
}
