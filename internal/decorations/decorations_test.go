package decorations

import "testing"

func TestPanelWidthVariants(t *testing.T) {
	if w := PanelWidth(false, false, 80); w != 0 {
		t.Errorf("no panel requested should be 0, got %d", w)
	}
	if w := PanelWidth(true, false, 80); w != 5 {
		t.Errorf("line numbers only should be 5, got %d", w)
	}
	if w := PanelWidth(true, true, 80); w != 7 {
		t.Errorf("line numbers + grid should be 7, got %d", w)
	}
}

func TestPanelWidthSuppressedWhenTerminalTooNarrow(t *testing.T) {
	if w := PanelWidth(true, true, 10); w != 0 {
		t.Errorf("narrow terminal should suppress panel, got %d", w)
	}
}

func TestPanelContinuationRowIsBlank(t *testing.T) {
	p := Panel(-1, true, false, 5)
	if p != "     " {
		t.Errorf("continuation row must be blank spaces, got %q", p)
	}
}

func TestEncodingTagEmptyOverridesSniffedTag(t *testing.T) {
	if got := EncodingTag("<UTF-16LE>", true); got != "<EMPTY>" {
		t.Errorf("empty must override sniffed tag, got %q", got)
	}
	if got := EncodingTag("<UTF-16LE>", false); got != "<UTF-16LE>" {
		t.Errorf("non-empty should keep sniffed tag, got %q", got)
	}
}

func TestDispositionTable(t *testing.T) {
	cases := []struct {
		name                               string
		isBinary, nonprintable, empty      bool
		want                               BodyDisposition
	}{
		{"text", false, false, false, DispositionNormal},
		{"binary empty", true, true, true, DispositionEmptyBinary},
		{"binary empty nonprintable off", true, false, true, DispositionEmptyBinary},
		{"binary nonprintable on", true, true, false, DispositionNormal},
		{"binary nonprintable off", true, false, false, DispositionSuppressed},
	}
	for _, c := range cases {
		got := Disposition(c.isBinary, c.nonprintable, c.empty)
		if got != c.want {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestDispositionSeparatorsAndFooter(t *testing.T) {
	if DispositionNormal.HeaderSeparator() != "┼" {
		t.Error("normal disposition should separate with ┼")
	}
	if DispositionEmptyBinary.HeaderSeparator() != "┴" {
		t.Error("empty binary disposition should separate with ┴")
	}
	if !DispositionNormal.HasFooter() {
		t.Error("normal disposition should draw a footer")
	}
	if DispositionEmptyBinary.HasFooter() {
		t.Error("empty binary disposition already closed with its header separator")
	}
	if DispositionSuppressed.HasFooter() || DispositionSuppressed.HasHeader() {
		t.Error("suppressed disposition draws no grid at all")
	}
}

func TestRuleWidth(t *testing.T) {
	r := Rule(10)
	if len([]rune(r)) != 10 {
		t.Errorf("expected 10 rule columns, got %d", len([]rune(r)))
	}
}

func TestSnipCentered(t *testing.T) {
	s := Snip(20)
	if len([]rune(s)) != 20 {
		t.Errorf("expected snip to span full body width, got %d runes: %q", len([]rune(s)), s)
	}
}
