package style

import (
	"strconv"
	"strings"
)

// Style bundles a foreground color, a background color, and the eight
// boolean attributes of §3. Style is immutable; With* methods return
// derived copies, mirroring the builder style of the teacher's config.Style
// (config/style.go) generalized from a bitfield into a struct.
type Style struct {
	Fg            Color
	Bg            Color
	UnderlineColor Color // default means "no explicit underline color" (§6, SGR 58/59)
	Bold          bool
	Dim           bool
	Italic        bool
	Underline     bool
	Blink         bool
	Reverse       bool
	Hidden        bool
	Strikethrough bool
}

// Plain is the zero-value style: default fg/bg, no attributes.
var Plain = Style{Fg: Default(), Bg: Default()}

func (s Style) WithFg(c Color) Style   { s.Fg = c; return s }
func (s Style) WithBg(c Color) Style   { s.Bg = c; return s }
func (s Style) WithBold(b bool) Style  { s.Bold = b; return s }
func (s Style) WithItalic(b bool) Style {
	s.Italic = b
	return s
}

// Downgrade quantizes both colors to the nearest indexed color when
// true-color is disabled (§4.6 "Color downgrade").
func (s Style) Downgrade() Style {
	s.Fg = s.Fg.Downgrade()
	s.Bg = s.Bg.Downgrade()
	s.UnderlineColor = s.UnderlineColor.Downgrade()
	return s
}

// IsPlain reports whether s renders as a no-op (no escape sequence needed).
func (s Style) IsPlain() bool {
	return s.Fg.IsDefault() && s.Bg.IsDefault() && s.UnderlineColor.IsDefault() &&
		!s.Bold && !s.Dim && !s.Italic && !s.Underline && !s.Blink && !s.Reverse &&
		!s.Hidden && !s.Strikethrough
}

// attrCodes is the fixed SGR parameter order for the eight boolean
// attributes, per §6: bold, dim, italic, underline, blink, reverse, hidden,
// strikethrough -> 1,2,3,4,5,7,8,9.
var attrCodes = []struct {
	set  func(Style) bool
	code int
}{
	{func(s Style) bool { return s.Bold }, 1},
	{func(s Style) bool { return s.Dim }, 2},
	{func(s Style) bool { return s.Italic }, 3},
	{func(s Style) bool { return s.Underline }, 4},
	{func(s Style) bool { return s.Blink }, 5},
	{func(s Style) bool { return s.Reverse }, 7},
	{func(s Style) bool { return s.Hidden }, 8},
	{func(s Style) bool { return s.Strikethrough }, 9},
}

// Prefix returns the SGR escape sequence that turns on this style, or "" if
// the style is plain (Invariant 1 of §8). legacy selects the two-digit
// ("01") form of the attribute codes. Every set attribute, Italic included,
// is emitted; suppressing italics is left to the caller (see
// config.Config.UseItalicText).
func (s Style) Prefix(legacy bool) string {
	if s.IsPlain() {
		return ""
	}
	var params []string
	for _, a := range attrCodes {
		if a.set(s) {
			params = append(params, sgrCode(a.code, legacy))
		}
	}
	if bg := bgParams(s.Bg); bg != nil {
		params = append(params, bg...)
	}
	if fg := fgParams(s.Fg); fg != nil {
		params = append(params, fg...)
	}
	if uc := UnderlineColorParams(s.UnderlineColor, false); uc != nil {
		params = append(params, uc...)
	}
	if len(params) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(params, ";") + "m"
}

// Suffix returns the SGR reset sequence for a non-plain style, or "" for a
// plain one.
func (s Style) Suffix() string {
	if s.IsPlain() {
		return ""
	}
	return "\x1b[0m"
}

// Paint wraps text in this style's prefix/suffix (Invariant 1 of §8).
func (s Style) Paint(text string) string {
	p := s.Prefix(false)
	if p == "" {
		return text
	}
	return p + text + s.Suffix()
}

func sgrCode(code int, legacy bool) string {
	if legacy {
		// Two-digit compatibility form kept for GNU-tool compatibility (§6).
		return "0" + strconv.Itoa(code)
	}
	return strconv.Itoa(code)
}

func fgParams(c Color) []string {
	switch c.kind {
	case kindDefault:
		return nil
	case kindNamed:
		return []string{namedFgCode(c.named)}
	case kindIndexed:
		return []string{"38", "5", strconv.Itoa(int(c.index))}
	case kindRGB:
		return []string{"38", "2", strconv.Itoa(int(c.r)), strconv.Itoa(int(c.g)), strconv.Itoa(int(c.b))}
	}
	return nil
}

func bgParams(c Color) []string {
	switch c.kind {
	case kindDefault:
		return nil
	case kindNamed:
		return []string{namedBgCode(c.named)}
	case kindIndexed:
		return []string{"48", "5", strconv.Itoa(int(c.index))}
	case kindRGB:
		return []string{"48", "2", strconv.Itoa(int(c.r)), strconv.Itoa(int(c.g)), strconv.Itoa(int(c.b))}
	}
	return nil
}

func namedFgCode(n Named) string {
	if n < BrightBlack {
		return strconv.Itoa(30 + int(n))
	}
	return strconv.Itoa(90 + int(n-BrightBlack))
}

func namedBgCode(n Named) string {
	if n < BrightBlack {
		return strconv.Itoa(40 + int(n))
	}
	return strconv.Itoa(100 + int(n-BrightBlack))
}

// UnderlineColorParams returns the 58;... parameter tokens for an underline
// color, or "59" to reset it, per §6.
func UnderlineColorParams(c Color, reset bool) []string {
	if reset {
		return []string{"59"}
	}
	switch c.kind {
	case kindIndexed:
		return []string{"58", "5", strconv.Itoa(int(c.index))}
	case kindRGB:
		return []string{"58", "2", strconv.Itoa(int(c.r)), strconv.Itoa(int(c.g)), strconv.Itoa(int(c.b))}
	}
	return nil
}
