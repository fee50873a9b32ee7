package highlight

import (
	"strconv"
	"strings"

	"github.com/batgo/batgo/internal/ansi"
	"github.com/batgo/batgo/internal/style"
)

// AnsiAccumulator tracks the subset of SGR parameters §4.6 names (bold, dim,
// italic, underline and their resets; the 8/16/256/24-bit foreground and
// background selectors; underline color set/reset) as embedded ANSI escapes
// are scanned out of highlighter input with internal/ansi's
// IsCSIStart/CSIEnd, so they can be re-emitted verbatim alongside the
// highlighter style (§4.6).
//
// Only the fields an escape sequence has actually touched take precedence
// over the highlighter's own style in Overlay; anything never mentioned by
// the input's ANSI stream defers to the highlighter.
type AnsiAccumulator struct {
	style style.Style

	fgSet, bgSet, underlineColorSet bool
	boldSet, dimSet, italicSet, underlineSet bool
}

// ApplySGR updates the accumulator from the parameter string of a CSI ...m
// sequence (the part between "ESC[" and the trailing "m").
func (a *AnsiAccumulator) ApplySGR(params string) {
	if params == "" {
		params = "0"
	}
	parts := strings.Split(params, ";")
	for i := 0; i < len(parts); i++ {
		code, err := strconv.Atoi(parts[i])
		if err != nil {
			continue
		}
		switch {
		case code == 0:
			*a = AnsiAccumulator{}
			a.fgSet, a.bgSet, a.underlineColorSet = true, true, true
			a.boldSet, a.dimSet, a.italicSet, a.underlineSet = true, true, true, true

		case code == 1:
			a.style.Bold = true
			a.boldSet = true
		case code == 2:
			a.style.Dim = true
			a.dimSet = true
		case code == 3:
			a.style.Italic = true
			a.italicSet = true
		case code == 4:
			a.style.Underline = true
			a.underlineSet = true
		case code == 22:
			a.style.Bold, a.style.Dim = false, false
			a.boldSet, a.dimSet = true, true
		case code == 23:
			a.style.Italic = false
			a.italicSet = true
		case code == 24:
			a.style.Underline = false
			a.underlineSet = true

		case code >= 30 && code <= 37:
			a.style.Fg = style.FromNamed(style.Named(code - 30))
			a.fgSet = true
		case code == 39:
			a.style.Fg = style.Default()
			a.fgSet = true
		case code >= 90 && code <= 97:
			a.style.Fg = style.FromNamed(style.Named(code-90) + style.BrightBlack)
			a.fgSet = true

		case code >= 40 && code <= 47:
			a.style.Bg = style.FromNamed(style.Named(code - 40))
			a.bgSet = true
		case code == 49:
			a.style.Bg = style.Default()
			a.bgSet = true
		case code >= 100 && code <= 107:
			a.style.Bg = style.FromNamed(style.Named(code-100) + style.BrightBlack)
			a.bgSet = true

		case code == 38:
			if c, consumed := readExtendedColor(parts, i+1); consumed > 0 {
				a.style.Fg = c
				a.fgSet = true
				i += consumed
			}
		case code == 48:
			if c, consumed := readExtendedColor(parts, i+1); consumed > 0 {
				a.style.Bg = c
				a.bgSet = true
				i += consumed
			}
		case code == 58:
			if c, consumed := readExtendedColor(parts, i+1); consumed > 0 {
				a.style.UnderlineColor = c
				a.underlineColorSet = true
				i += consumed
			}
		case code == 59:
			a.style.UnderlineColor = style.Default()
			a.underlineColorSet = true
		}
	}
}

// readExtendedColor parses a 256-color ("5;N") or 24-bit ("2;R;G;B")
// sub-selector starting at parts[i], returning the decoded color and how
// many extra tokens (beyond the selector code itself) it consumed.
func readExtendedColor(parts []string, i int) (style.Color, int) {
	if i >= len(parts) {
		return style.Color{}, 0
	}
	mode, err := strconv.Atoi(parts[i])
	if err != nil {
		return style.Color{}, 0
	}
	switch mode {
	case 5:
		if i+1 >= len(parts) {
			return style.Color{}, 0
		}
		n, err := strconv.Atoi(parts[i+1])
		if err != nil || n < 0 || n > 255 {
			return style.Color{}, 0
		}
		return style.FromIndex(uint8(n)), 2
	case 2:
		if i+3 >= len(parts) {
			return style.Color{}, 0
		}
		r, err1 := strconv.Atoi(parts[i+1])
		g, err2 := strconv.Atoi(parts[i+2])
		b, err3 := strconv.Atoi(parts[i+3])
		if err1 != nil || err2 != nil || err3 != nil {
			return style.Color{}, 0
		}
		return style.FromRGB(uint8(r), uint8(g), uint8(b)), 4
	}
	return style.Color{}, 0
}

// Overlay combines base (the highlighter's scope style) with whatever this
// accumulator's ANSI stream has explicitly touched, per §4.6: "highlighter
// style overlaid with the accumulated ANSI style."
func (a *AnsiAccumulator) Overlay(base style.Style) style.Style {
	out := base
	if a.fgSet {
		out.Fg = a.style.Fg
	}
	if a.bgSet {
		out.Bg = a.style.Bg
	}
	if a.underlineColorSet {
		out.UnderlineColor = a.style.UnderlineColor
	}
	if a.boldSet {
		out.Bold = a.style.Bold
	}
	if a.dimSet {
		out.Dim = a.style.Dim
	}
	if a.italicSet {
		out.Italic = a.style.Italic
	}
	if a.underlineSet {
		out.Underline = a.style.Underline
	}
	return out
}

// RenderLine writes a Region to a styled string, splitting at embedded ANSI
// CSI sequences (§4.6 "ANSI passthrough"). CSI chunks update acc and are
// copied through verbatim only when colorsEnabled; when colorsEnabled, text
// chunks are wrapped in the prefix/suffix of the combined style (region
// style overlaid by acc, then lineBg if non-nil, then downgraded if
// !trueColor), and otherwise they are written unstyled.
func RenderLine(region Region, acc *AnsiAccumulator, colorsEnabled, trueColor bool, lineBg *style.Color) string {
	var out strings.Builder
	text := region.Text

	i := 0
	lastFlush := 0
	flushText := func(end int) {
		if end <= lastFlush {
			return
		}
		if !colorsEnabled {
			out.WriteString(text[lastFlush:end])
			return
		}
		combined := acc.Overlay(region.Style)
		if lineBg != nil {
			combined.Bg = *lineBg
		}
		if !trueColor {
			combined = combined.Downgrade()
		}
		out.WriteString(combined.Paint(text[lastFlush:end]))
	}

	for i < len(text) {
		if !ansi.IsCSIStart(text, i) {
			i++
			continue
		}
		flushText(i)
		end := ansi.CSIEnd(text, i)
		if end > i && text[end-1] == 'm' {
			acc.ApplySGR(text[i+2 : end-1])
		}
		if colorsEnabled {
			out.WriteString(text[i:end])
		}
		i = end
		lastFlush = i
	}
	flushText(len(text))

	return out.String()
}
