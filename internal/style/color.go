// Package style implements the Style/Color data model of §3 and the ANSI SGR
// serialization grammar of §6. It generalizes peco's config.Attribute bitfield
// (config/style.go) from an 8-color terminal palette into the full algebraic
// color variant spec.md requires: named, default, indexed, and 24-bit RGB.
package style

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Named is one of the sixteen standard palette colors.
type Named uint8

const (
	Black Named = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

// colorKind tags which variant of Color is populated.
type colorKind uint8

const (
	kindDefault colorKind = iota
	kindNamed
	kindIndexed
	kindRGB
)

// Color is the algebraic variant over {Default, one of 16 named colors,
// indexed 0-255, 24-bit RGB} described in §3. The zero Color is Default.
type Color struct {
	kind  colorKind
	named Named
	index uint8
	r, g, b uint8
}

// Default constructs the terminal-default color.
func Default() Color { return Color{kind: kindDefault} }

// FromNamed constructs a named palette color.
func FromNamed(n Named) Color { return Color{kind: kindNamed, named: n} }

// FromIndex constructs an indexed (0-255) color.
func FromIndex(i uint8) Color { return Color{kind: kindIndexed, index: i} }

// FromRGB constructs a 24-bit RGB color.
func FromRGB(r, g, b uint8) Color { return Color{kind: kindRGB, r: r, g: g, b: b} }

// IsDefault reports whether c is the terminal-default color.
func (c Color) IsDefault() bool { return c.kind == kindDefault }

// cube6 is the 6-step ramp used by the 6x6x6 color cube (indices 16-231).
var cube6 = [6]uint8{0, 95, 135, 175, 215, 255}

// Downgrade quantizes c to the nearest of indexed colors 16-255 (the
// 6x6x6 cube and the grayscale ramp; the 16 named entries are not
// candidates) when it is
// an RGB color and true-color output is disabled (§4.6 "Color downgrade").
// Named and indexed colors, and Default, pass through unchanged.
func (c Color) Downgrade() Color {
	if c.kind != kindRGB {
		return c
	}
	target, ok := colorful.MakeColor(color.RGBA{R: c.r, G: c.g, B: c.b, A: 255})
	if !ok {
		return FromIndex(nearestCubeIndex(c.r, c.g, c.b))
	}
	best := uint8(16)
	bestDist := -1.0
	for i := 16; i < 256; i++ {
		r, g, b := paletteRGB(uint8(i))
		cand, ok := colorful.MakeColor(color.RGBA{R: r, G: g, B: b, A: 255})
		if !ok {
			continue
		}
		d := target.DistanceCIE94(cand)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = uint8(i)
		}
	}
	return FromIndex(best)
}

// nearestCubeIndex is the fallback quantizer used when go-colorful cannot
// parse the source RGBA (practically never, kept for defensiveness).
func nearestCubeIndex(r, g, b uint8) uint8 {
	idx := func(v uint8) int {
		best, bestDist := 0, 1<<30
		for i, s := range cube6 {
			d := int(s) - int(v)
			if d < 0 {
				d = -d
			}
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		return best
	}
	ri, gi, bi := idx(r), idx(g), idx(b)
	return uint8(16 + 36*ri + 6*gi + bi)
}

// paletteRGB returns the RGB value of 256-palette index i: 0-15 named
// (approximated with the standard xterm values), 16-231 the 6x6x6 cube,
// 232-255 the 24-step grayscale ramp.
func paletteRGB(i uint8) (uint8, uint8, uint8) {
	switch {
	case i < 16:
		return namedRGB[i][0], namedRGB[i][1], namedRGB[i][2]
	case i < 232:
		j := int(i) - 16
		r := cube6[j/36]
		g := cube6[(j/6)%6]
		b := cube6[j%6]
		return r, g, b
	default:
		v := uint8(8 + (int(i)-232)*10)
		return v, v, v
	}
}

// namedRGB mirrors the standard xterm 16-color palette.
var namedRGB = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}
