package ansi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsCSIStart_True(t *testing.T) {
	require.True(t, IsCSIStart("\x1b[31mRed", 0))
}

func TestIsCSIStart_PlainText(t *testing.T) {
	require.False(t, IsCSIStart("Red", 0))
}

func TestIsCSIStart_LoneEscape(t *testing.T) {
	// ESC not followed by '[' (or followed by nothing) is not a CSI start.
	require.False(t, IsCSIStart("\x1b", 0))
	require.False(t, IsCSIStart("\x1bX", 0))
}

func TestCSIEnd_SGR(t *testing.T) {
	input := "\x1b[1;31mBold Red"
	end := CSIEnd(input, 0)
	require.Equal(t, "m", string(input[end-1]))
	require.Equal(t, "Bold Red", input[end:])
}

func TestCSIEnd_NonSGRTerminator(t *testing.T) {
	// ESC[2J is "clear screen", a valid CSI sequence with a non-SGR terminator.
	input := "\x1b[2JHello"
	end := CSIEnd(input, 0)
	require.Equal(t, "Hello", input[end:])
}

func TestCSIEnd_IncompleteAtEndOfString(t *testing.T) {
	input := "Hello\x1b["
	end := CSIEnd(input, 5)
	require.Equal(t, len(input), end)
}
