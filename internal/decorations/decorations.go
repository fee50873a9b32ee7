// Package decorations implements §4.7's panel/header/rule/snip/footer
// layout: the grid characters and gutter column accounting that frame the
// highlighter's output. The column-accounting approach -- compute a fixed
// gutter width up front, then treat body columns as "whatever's left" -- is
// grounded on layout.go and ui/layout.go's AnchorTop/AnchorBottom column
// bookkeeping, generalized from "status line vs match list" to "panel vs
// body".
package decorations

import "fmt"

// PanelWidth returns the left gutter width: 5 columns for line numbers
// ("%4d "), plus 2 more when a grid border is drawn, or 0 if line numbers
// are off and no grid is requested. Per §4.7, if termWidth is narrower than
// panel+5 content columns, the panel is suppressed entirely (0 is
// returned).
func PanelWidth(showLineNumbers, showGrid bool, termWidth int) int {
	if !showLineNumbers && !showGrid {
		return 0
	}
	w := 0
	if showLineNumbers {
		w += 5
	}
	if showGrid {
		w += 2
	}
	if termWidth < w+5 {
		return 0
	}
	return w
}

// Panel formats the left gutter for one body line: line number right-padded
// per "%4d " when showLineNumbers, a grid pipe when showGrid, or spaces of
// width when this is a continuation row of a wrapped line (lineNo < 0).
func Panel(lineNo int, showLineNumbers, showGrid bool, width int) string {
	if width == 0 {
		return ""
	}
	var out string
	if showLineNumbers {
		if lineNo >= 0 {
			out = fmt.Sprintf("%4d ", lineNo)
		} else {
			out = "     "
		}
	}
	if showGrid {
		out += "│ "
	}
	return out
}

// EncodingTag returns the bracketed tag portion of the header line for a
// zero-byte input, overriding the encoding's own Tag() (which has no
// "empty" concept of its own): "<EMPTY>" takes priority over any sniffed
// encoding tag, per §4.7.
func EncodingTag(encodingTag string, empty bool) string {
	if empty {
		return "<EMPTY>"
	}
	return encodingTag
}

// HeaderLine formats the "<Kind>: <name>   [<tag>] [<description>]" header
// text of §4.7 (without the surrounding grid characters).
func HeaderLine(kind, name, tag, binaryDescription string) string {
	line := fmt.Sprintf("%s: %s", kind, name)
	if tag != "" {
		line += "   [" + tag + "]"
	}
	if binaryDescription != "" {
		line += " [" + binaryDescription + "]"
	}
	return line
}

// BodyDisposition tells the caller what to actually draw for one input's
// body, resolving the two slightly different binary-handling rules §4.7
// and the spec's Open Questions call out as a table to preserve exactly
// rather than infer from prose:
//
//   - ordinary (text) input: header, "┼" separator, highlighted body, "┴"
//     footer.
//   - binary input, empty (zero bytes): header (tag "<EMPTY>"), but the
//     separator is "┴" immediately -- there is no body and therefore no
//     later footer close.
//   - binary input, nonprintable rendering enabled: header, "┼" separator,
//     nonprintable-rendered body, "┴" footer -- same shape as ordinary text.
//   - binary input, nonprintable rendering disabled: no header and no grid
//     at all; a one-line warning goes to stdout and the body is suppressed.
type BodyDisposition int

const (
	// DispositionNormal draws header, "┼", body, and a closing "┴" footer.
	DispositionNormal BodyDisposition = iota
	// DispositionEmptyBinary draws header with "<EMPTY>", then "┴"
	// immediately in place of "┼" -- no body, no separate footer.
	DispositionEmptyBinary
	// DispositionSuppressed skips the header and grid and writes a
	// one-line warning to stdout instead; the body is never drawn.
	DispositionSuppressed
)

// Disposition resolves which of the three shapes above applies.
func Disposition(isBinary, nonprintableEnabled, empty bool) BodyDisposition {
	switch {
	case isBinary && empty:
		return DispositionEmptyBinary
	case isBinary && !nonprintableEnabled:
		return DispositionSuppressed
	default:
		return DispositionNormal
	}
}

// HeaderSeparator returns the grid character that closes the header line:
// "┼" when a body follows, "┴" for the empty-binary case where none does.
func (d BodyDisposition) HeaderSeparator() string {
	if d == DispositionEmptyBinary {
		return "┴"
	}
	return "┼"
}

// HasHeader reports whether a header (and therefore the opening "┬" grid
// corner) is drawn at all.
func (d BodyDisposition) HasHeader() bool {
	return d != DispositionSuppressed
}

// HasFooter reports whether a separate closing "┴" footer is drawn after
// the body, per §4.7's "closing ┴ when a grid opened the header and the
// body was emitted" -- false for the empty-binary case (its "┴" already
// closed the header) and for the suppressed case (no grid was opened at
// all).
func (d BodyDisposition) HasFooter() bool {
	return d == DispositionNormal
}

// TopCorner is the grid character that opens the header, when HasHeader is
// true.
const TopCorner = "┬"

// Rule renders a full-width horizontal rule between consecutive inputs
// (§4.7), drawn across termWidth columns of "─".
func Rule(termWidth int) string {
	r := make([]rune, termWidth)
	for i := range r {
		r[i] = '─'
	}
	return string(r)
}

// Snip renders the elision marker shown between non-adjacent visible
// ranges, inside the panel: a centered "8<" flanked by "─ " on each side,
// spanning the available body width.
func Snip(bodyWidth int) string {
	const marker = "8<"
	if bodyWidth <= len(marker) {
		return marker
	}
	side := (bodyWidth - len(marker)) / 2
	left := fill(side, "─ ")
	right := fill(bodyWidth-len(marker)-side, " ─")
	return left + marker + right
}

// fill repeats pattern's runes cyclically to exactly n runes.
func fill(n int, pattern string) string {
	if n <= 0 {
		return ""
	}
	p := []rune(pattern)
	out := make([]rune, n)
	for i := range out {
		out[i] = p[i%len(p)]
	}
	return string(out)
}
