// Package preprocess implements §4.5's text-rewrite pass: ANSI-aware tab
// expansion and non-printable-character rendering. Its CSI-run scanning is
// grounded on internal/ansi/parser.go's SGR scanner, extended here to treat
// a recognized escape run as zero-width passthrough rather than stripping
// it -- the caller wants the bytes preserved, just not counted against the
// tab-stop cursor.
package preprocess

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/batgo/batgo/internal/ansi"
)

// ExpandTabs walks line, treating CSI escape runs as zero-width
// passthrough, and replacing each '\t' with spaces that advance to the
// next tab stop. cursor is the caller's running printable-column count
// (carried across calls so tab stops line up across wrapped segments);
// it is updated in place. tabWidth of 0 disables expansion entirely and
// the line is returned unchanged (§4.5, §9: "0 disables expansion in the
// main path").
//
// Returns the original line unchanged (same underlying string, no copy)
// when there is nothing to expand.
func ExpandTabs(line string, tabWidth int, cursor *int) string {
	if tabWidth <= 0 || !strings.ContainsRune(line, '\t') {
		advanceCursorPlain(line, cursor)
		return line
	}

	var out strings.Builder
	out.Grow(len(line))

	i := 0
	for i < len(line) {
		if ansi.IsCSIStart(line, i) {
			end := ansi.CSIEnd(line, i)
			out.WriteString(line[i:end])
			i = end
			continue
		}
		if line[i] == '\t' {
			n := tabWidth - (*cursor % tabWidth)
			out.WriteString(strings.Repeat(" ", n))
			*cursor += n
			i++
			continue
		}
		r, size := decodeRune(line[i:])
		out.WriteString(line[i : i+size])
		*cursor += runewidth.RuneWidth(r)
		i += size
	}

	return out.String()
}

// advanceCursorPlain advances cursor by line's printable width without
// performing any tab expansion, skipping CSI runs as zero-width.
func advanceCursorPlain(line string, cursor *int) {
	i := 0
	for i < len(line) {
		if ansi.IsCSIStart(line, i) {
			i = ansi.CSIEnd(line, i)
			continue
		}
		r, size := decodeRune(line[i:])
		*cursor += runewidth.RuneWidth(r)
		i += size
	}
}

func decodeRune(s string) (rune, int) {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 1 {
		return '?', 1
	}
	return r, size
}
