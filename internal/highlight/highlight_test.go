package highlight

import (
	"regexp"
	"strings"
	"testing"

	"github.com/batgo/batgo/internal/style"
	"github.com/batgo/batgo/internal/syntax"
	"github.com/batgo/batgo/internal/theme"
)

func testDefinition() *syntax.Definition {
	return &syntax.Definition{
		Name: "Test",
		Contexts: map[string]*syntax.Context{
			"main": {
				Name: "main",
				Rules: []syntax.Rule{
					{Scope: "comment", Match: regexp.MustCompile(`#.*`)},
					{Scope: "keyword", Match: regexp.MustCompile(`\bfn\b`)},
				},
			},
		},
		MainContext: "main",
	}
}

func testTheme() *theme.Theme {
	// theme.Theme has no public constructor outside theme.compile; build one
	// via DecodeYAML so scope styles round-trip through the real loader.
	data := []byte(`
test:
  appearance: dark
  default_fg: {named: white}
  default_bg: {default: true}
  line_highlight:
    bg: {indexed: 236}
  scopes:
    comment:
      fg: {named: green}
    keyword:
      fg: {named: blue}
      bold: true
`)
	set, err := theme.DecodeYAML(data)
	if err != nil {
		panic(err)
	}
	th, ok := set.Get("test")
	if !ok {
		panic("test theme missing")
	}
	return th
}

func TestHighlightLineBasic(t *testing.T) {
	h := New(testDefinition(), testTheme())
	regions := h.HighlightLine("fn main() # hi")
	if len(regions) == 0 {
		t.Fatal("expected regions")
	}
	var joined strings.Builder
	for _, r := range regions {
		joined.WriteString(r.Text)
	}
	if joined.String() != "fn main() # hi" {
		t.Fatalf("regions did not reconstruct line: %q", joined.String())
	}

	foundKeyword, foundComment := false, false
	for _, r := range regions {
		if r.Text == "fn" {
			foundKeyword = true
			if r.Style.Bold != true {
				t.Errorf("keyword region not bold: %+v", r.Style)
			}
		}
		if r.Text == "# hi" {
			foundComment = true
		}
	}
	if !foundKeyword || !foundComment {
		t.Errorf("missing expected regions: keyword=%v comment=%v", foundKeyword, foundComment)
	}
}

func TestHighlightLineOverLongLineIsSingleRegion(t *testing.T) {
	h := New(testDefinition(), testTheme())
	long := strings.Repeat("x", maxTokenizeLen+10)
	regions := h.HighlightLine(long)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region for over-long line, got %d", len(regions))
	}
	if regions[0].Text != long {
		t.Error("over-long region must contain the entire line")
	}
}

func TestHighlightLineStateCarriesAcrossLines(t *testing.T) {
	def := &syntax.Definition{
		Name: "Block",
		Contexts: map[string]*syntax.Context{
			"main": {
				Name: "main",
				Rules: []syntax.Rule{
					{Scope: "comment.begin", Match: regexp.MustCompile(`/\*`), Push: "comment"},
				},
			},
			"comment": {
				Name: "comment",
				Rules: []syntax.Rule{
					{Scope: "comment.end", Match: regexp.MustCompile(`\*/`), Pop: true},
				},
			},
		},
		MainContext: "main",
	}
	h := New(def, testTheme())

	regions1 := h.HighlightLine("/* start")
	if len(regions1) == 0 || regions1[0].Text != "/*" {
		t.Fatalf("expected comment.begin region first, got %+v", regions1)
	}

	// Second line has no "/*" and no "*/": it should be tokenized entirely
	// under the still-pushed "comment" context rather than "main".
	regions2 := h.HighlightLine("still inside")
	if len(regions2) != 1 {
		t.Fatalf("expected single untouched region, got %+v", regions2)
	}
}

func TestAnsiAccumulatorOverlayUntouchedFallsBackToBase(t *testing.T) {
	var acc AnsiAccumulator
	base := style.Style{Fg: style.FromNamed(style.Green), Bold: true}
	got := acc.Overlay(base)
	if got.Fg != base.Fg || got.Bold != base.Bold {
		t.Errorf("untouched accumulator must defer entirely to base: got %+v", got)
	}
}

func TestAnsiAccumulatorOverlayTouchedOverridesBase(t *testing.T) {
	var acc AnsiAccumulator
	acc.ApplySGR("31") // red fg
	base := style.Style{Fg: style.FromNamed(style.Green)}
	got := acc.Overlay(base)
	if got.Fg != style.FromNamed(style.Red) {
		t.Errorf("touched fg must override base, got %+v", got.Fg)
	}
}

func TestAnsiAccumulator256Color(t *testing.T) {
	var acc AnsiAccumulator
	acc.ApplySGR("38;5;202")
	if acc.style.Fg != style.FromIndex(202) {
		t.Errorf("expected indexed fg 202, got %+v", acc.style.Fg)
	}
}

func TestAnsiAccumulatorTrueColorBackground(t *testing.T) {
	var acc AnsiAccumulator
	acc.ApplySGR("48;2;10;20;30")
	if acc.style.Bg != style.FromRGB(10, 20, 30) {
		t.Errorf("expected RGB bg, got %+v", acc.style.Bg)
	}
}

func TestAnsiAccumulatorUnderlineColorSetAndReset(t *testing.T) {
	var acc AnsiAccumulator
	acc.ApplySGR("58;5;5")
	if !acc.underlineColorSet || acc.style.UnderlineColor != style.FromIndex(5) {
		t.Fatalf("underline color not set: %+v", acc)
	}
	acc.ApplySGR("59")
	if acc.style.UnderlineColor != style.Default() {
		t.Errorf("expected underline color reset to default, got %+v", acc.style.UnderlineColor)
	}
}

func TestAnsiAccumulatorFullResetTouchesEverything(t *testing.T) {
	var acc AnsiAccumulator
	acc.ApplySGR("1;31;44")
	acc.ApplySGR("0")
	base := style.Style{Fg: style.FromNamed(style.Green), Bold: true}
	got := acc.Overlay(base)
	if got.Fg != style.Default() || got.Bold {
		t.Errorf("full reset must override base with defaults, got %+v", got)
	}
}

func TestRenderLinePassesCSIThroughWhenColorsEnabled(t *testing.T) {
	var acc AnsiAccumulator
	region := Region{Style: style.Plain, Text: "\x1b[31mred\x1b[0m plain"}
	out := RenderLine(region, &acc, true, true, nil)
	if !strings.Contains(out, "\x1b[31m") {
		t.Errorf("expected CSI passthrough, got %q", out)
	}
}

func TestRenderLineStripsCSIWhenColorsDisabled(t *testing.T) {
	var acc AnsiAccumulator
	region := Region{Style: style.Plain, Text: "\x1b[31mred\x1b[0m plain"}
	out := RenderLine(region, &acc, false, true, nil)
	if strings.Contains(out, "\x1b[") {
		t.Errorf("CSI bytes must not appear when colors disabled, got %q", out)
	}
	if !strings.Contains(out, "red") || !strings.Contains(out, "plain") {
		t.Errorf("text content must survive, got %q", out)
	}
}

func TestRenderLineLineBackgroundOverride(t *testing.T) {
	var acc AnsiAccumulator
	bg := style.FromNamed(style.Yellow)
	region := Region{Style: style.Plain, Text: "x"}
	out := RenderLine(region, &acc, true, true, &bg)
	if !strings.Contains(out, "43") { // 40+Yellow(3) background SGR code
		t.Errorf("expected yellow background SGR code in output, got %q", out)
	}
}
