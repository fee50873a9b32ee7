// Package wrap implements §4.8's wrapping engine: character-mode hard
// wrapping at terminal display width, and no-wrap truncation/padding. Width
// lookups follow layout.go/ui/layout.go's use of go-runewidth; the wrap
// point itself is grapheme-safe (never splits a wide emoji/ZWJ cluster)
// using uax29/v2/graphemes, the same segmenter family internal/guess uses
// for word boundaries.
package wrap

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"

	"github.com/batgo/batgo/internal/ansi"
	"github.com/batgo/batgo/internal/style"
)

// Segment is one printed row produced by wrapping a highlighted line:
// continuation rows (everything after the first) get IsContinuation=true so
// the caller can blank out the line-number column and still draw the grid
// pipe, per §4.7's panel continuation-row rule.
type Segment struct {
	Text          string
	IsContinuation bool
}

// Char wraps text (a whole line, which may already carry the SGR
// prefixes/suffixes of its styled regions) into Segments no wider than
// width display columns. Embedded ANSI CSI sequences are zero-width and
// never trigger a wrap break, matching ExpandTabs's treatment of them in
// internal/preprocess. A segment that breaks while an SGR style is in
// effect is closed with a reset, and the next segment reopens that style.
func Char(text string, width int) []Segment {
	if width <= 0 {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	var cur strings.Builder
	col := 0
	continuation := false
	open := "" // SGR sequences in effect since the last reset

	flush := func() {
		if open != "" {
			cur.WriteString("\x1b[0m")
		}
		segments = append(segments, Segment{Text: cur.String(), IsContinuation: continuation})
		cur.Reset()
		col = 0
		continuation = true
		cur.WriteString(open)
	}

	i := 0
	for i < len(text) {
		if ansi.IsCSIStart(text, i) {
			end := ansi.CSIEnd(text, i)
			seq := text[i:end]
			cur.WriteString(seq)
			switch {
			case seq == "\x1b[0m" || seq == "\x1b[m":
				open = ""
			case strings.HasSuffix(seq, "m"):
				open += seq
			}
			i = end
			continue
		}

		cluster, size := nextGrapheme(text[i:])
		w := clusterWidth(cluster)
		if col > 0 && col+w > width {
			flush()
		}
		cur.WriteString(cluster)
		col += w
		i += size
	}
	segments = append(segments, Segment{Text: cur.String(), IsContinuation: continuation})
	return segments
}

// nextGrapheme returns the first grapheme cluster of s and its byte length,
// using uax29's boundary algorithm so a wide emoji/ZWJ sequence is never
// split mid-cluster by the width loop above.
func nextGrapheme(s string) (string, int) {
	seg := graphemes.FromBytes([]byte(s))
	if !seg.Next() {
		return s, len(s)
	}
	cluster := seg.Value()
	return string(cluster), len(cluster)
}

// clusterWidth sums go-runewidth's per-rune width across a grapheme
// cluster's runes (a cluster is usually one rune; combining marks and the
// zero-width joiner add nothing, while each emoji of a ZWJ sequence adds its
// own width -- runewidth has no native grapheme API, so this mirrors the
// teacher's own per-rune accumulation idiom).
func clusterWidth(cluster string) int {
	w := 0
	for _, r := range cluster {
		w += runewidth.RuneWidth(r)
	}
	return w
}

// NoWrap implements §4.8's no-wrap mode: trailing \r and \n are stripped
// before measurement, the full line is returned untruncated (truncation is
// the terminal's own responsibility in no-wrap mode), and if highlightBg is
// non-nil the line is padded with spaces up to termWidth before the
// stripped terminator is reinstated.
func NoWrap(line string, termWidth int, highlightBg *style.Color, plainWidth int) string {
	trimmed := strings.TrimRight(line, "\r\n")
	suffix := line[len(trimmed):]

	if highlightBg == nil {
		return trimmed + suffix
	}

	pad := termWidth - plainWidth
	if pad <= 0 {
		return trimmed + suffix
	}
	return trimmed + strings.Repeat(" ", pad) + suffix
}
