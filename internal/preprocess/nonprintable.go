package preprocess

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/batgo/batgo/internal/ansi"
)

// Notation selects how Render spells out non-printable bytes (§4.5).
type Notation int

const (
	NotationCaret Notation = iota
	NotationUnicode
)

// Render rewrites line for display, substituting visible glyphs for
// non-printable bytes per notation, spaces as "·", tabs as a box-drawn
// rule (caret notation) or "↹" (Unicode notation), and malformed UTF-8
// bytes as "\xHH". CSI escape runs pass through unchanged, mirroring
// ExpandTabs's treatment of them as zero-width.
//
// tabWidth of 0 is remapped to 4 here even though ExpandTabs treats 0 as
// "disable expansion" -- §9's documented split: tab-stop glyph widths for
// non-printable rendering always need a concrete width. cursor is the
// caller's running column count, updated in place.
func Render(line string, notation Notation, tabWidth int, cursor *int) string {
	width := tabWidth
	if width <= 0 {
		width = 4
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

		b := line[i]
		switch {
		case b == '\t':
			out.WriteString(tabGlyph(notation, width, *cursor))
			*cursor += width - (*cursor % width)
			i++
		case b == ' ':
			out.WriteRune('·')
			*cursor++
			i++
		case b == '\n':
			out.WriteString(lineFeedGlyph(notation))
			out.WriteByte('\n')
			*cursor = 0
			i++
		case b == 0x7F:
			out.WriteString(delGlyph(notation))
			*cursor++
			i++
		case b < 0x20:
			out.WriteString(controlGlyph(notation, b))
			*cursor++
			i++
		default:
			r, size := utf8.DecodeRuneInString(line[i:])
			if r == utf8.RuneError && size == 1 {
				fmt.Fprintf(&out, "\\x%02X", b)
				*cursor += 4
				i++
				continue
			}
			out.WriteRune(r)
			*cursor += runewidth.RuneWidth(r)
			i += size
		}
	}

	return out.String()
}

// controlGlyph renders a C0 control byte (excluding tab, LF, DEL, which
// have their own glyphs) per notation.
func controlGlyph(n Notation, b byte) string {
	if n == NotationUnicode {
		return string(rune(0x2400 + int(b)))
	}
	return "^" + string(rune('@'+int(b)))
}

func delGlyph(n Notation) string {
	if n == NotationUnicode {
		return string(rune(0x2421))
	}
	return "^?"
}

func lineFeedGlyph(n Notation) string {
	if n == NotationUnicode {
		return string(rune(0x240A))
	}
	return "^J"
}

// tabGlyph draws the tab placeholder: a box-drawn rule spanning the
// remaining tab-stop width in caret notation, or a single "↹" glyph
// (unexpanded) in Unicode notation.
func tabGlyph(n Notation, width, cursor int) string {
	if n == NotationUnicode {
		return "↹"
	}
	n2 := width - (cursor % width)
	if n2 < 2 {
		return "─"
	}
	return "├" + strings.Repeat("─", n2-2) + "┤"
}
