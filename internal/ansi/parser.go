// Package ansi provides the minimal CSI escape scanner shared by the tab
// expander, non-printable-character renderer, line wrapper and syntax
// highlighter: knowing where a CSI sequence starts and ends lets each of
// them treat it as zero-width passthrough rather than as visible column
// width or printable text.
package ansi

// IsCSIStart reports whether input[i:] begins a CSI escape sequence
// (ESC '['). Exported so every package that needs to treat escape runs as
// zero-width passthrough (tab expansion, non-printable rendering, line
// wrapping, the syntax highlighter's ANSI overlay) can share this scanner
// instead of re-deriving it.
func IsCSIStart(input string, i int) bool {
	return input[i] == '\x1b' && i+1 < len(input) && input[i+1] == '['
}

// CSIEnd returns the index just past the CSI sequence starting at i (which
// must satisfy IsCSIStart): its parameter bytes (0x20-0x3F) followed by a
// terminator byte.
func CSIEnd(input string, i int) int {
	j := i + 2
	for j < len(input) && input[j] >= 0x20 && input[j] <= 0x3F {
		j++
	}
	if j >= len(input) {
		return j
	}
	return j + 1
}
