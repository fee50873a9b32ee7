package preprocess

import "testing"

func TestRenderCaretControlBytes(t *testing.T) {
	cursor := 0
	got := Render("\x01\x1f", NotationCaret, 4, &cursor)
	want := "^A^_"
	if got != want {
		t.Errorf("Render caret controls = %q, want %q", got, want)
	}
}

func TestRenderUnicodeControlBytes(t *testing.T) {
	cursor := 0
	got := Render("\x01", NotationUnicode, 4, &cursor)
	want := string(rune(0x2401))
	if got != want {
		t.Errorf("Render unicode control = %q, want %q", got, want)
	}
}

func TestRenderDEL(t *testing.T) {
	cursor := 0
	if got := Render("\x7f", NotationCaret, 4, &cursor); got != "^?" {
		t.Errorf("Render caret DEL = %q, want ^?", got)
	}
	cursor = 0
	if got := Render("\x7f", NotationUnicode, 4, &cursor); got != string(rune(0x2421)) {
		t.Errorf("Render unicode DEL = %q", got)
	}
}

func TestRenderSpaceAsMiddleDot(t *testing.T) {
	cursor := 0
	got := Render("a b", NotationCaret, 4, &cursor)
	want := "a·b"
	if got != want {
		t.Errorf("Render space = %q, want %q", got, want)
	}
}

func TestRenderInvalidUTF8(t *testing.T) {
	cursor := 0
	got := Render(string([]byte{0xFF}), NotationCaret, 4, &cursor)
	want := `\xFF`
	if got != want {
		t.Errorf("Render invalid byte = %q, want %q", got, want)
	}
}

func TestRenderLineFeedEmitsGlyphThenNewline(t *testing.T) {
	cursor := 5
	got := Render("\n", NotationCaret, 4, &cursor)
	want := "^J\n"
	if got != want {
		t.Errorf("Render LF = %q, want %q", got, want)
	}
	if cursor != 0 {
		t.Errorf("cursor after LF = %d, want 0", cursor)
	}
}

func TestRenderTabWidthZeroRemappedToFour(t *testing.T) {
	cursor := 0
	got := Render("\t", NotationCaret, 0, &cursor)
	want := "├──┤"
	if got != want {
		t.Errorf("Render tab width=0 = %q, want %q", got, want)
	}
}
