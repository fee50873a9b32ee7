package config

import "testing"

func TestConsolidatePrecedenceCLIBeatsEnvBeatsFile(t *testing.T) {
	fileTheme := "from-file"
	cliTheme := "from-cli"
	file := &File{Theme: &fileTheme}
	cli := &File{Theme: &cliTheme}
	env := Env{Theme: "from-env"}

	cfg, err := Consolidate(file, cli, env, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "from-cli" {
		t.Errorf("CLI must win, got %q", cfg.Theme)
	}

	cfg, err = Consolidate(file, nil, env, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "from-env" {
		t.Errorf("env must beat file when CLI is absent, got %q", cfg.Theme)
	}

	cfg, err = Consolidate(file, nil, Env{}, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != "from-file" {
		t.Errorf("file must apply when CLI and env are absent, got %q", cfg.Theme)
	}
}

func TestConsolidateDefaults(t *testing.T) {
	cfg, err := Consolidate(nil, nil, Env{}, true, 100)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TabWidth != 8 {
		t.Errorf("expected default tab width 8, got %d", cfg.TabWidth)
	}
	if cfg.WrappingMode != WrapCharacter {
		t.Errorf("expected default wrap mode character, got %v", cfg.WrappingMode)
	}
	if !cfg.ColoredOutput {
		t.Error("expected colored output on by default")
	}
	if !cfg.StyleComponents.Has(Grid) {
		t.Error("default style should be auto, which expands to include Grid when interactive")
	}
}

func TestConsolidateNoColorEnvDisablesColor(t *testing.T) {
	cfg, err := Consolidate(nil, nil, Env{NoColor: "1"}, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ColoredOutput {
		t.Error("NO_COLOR must disable colored output")
	}
}

func TestConsolidateColortermEnablesTrueColor(t *testing.T) {
	cfg, err := Consolidate(nil, nil, Env{ColorTerm: "truecolor"}, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.TrueColor {
		t.Error("COLORTERM=truecolor must enable true color")
	}
}

func TestConsolidatePagerFallsBackFromBatPagerToPager(t *testing.T) {
	cfg, err := Consolidate(nil, nil, Env{PagerFallback: "more"}, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pager != "more" {
		t.Errorf("expected PAGER fallback, got %q", cfg.Pager)
	}

	cfg, err = Consolidate(nil, nil, Env{Pager: "moar", PagerFallback: "more"}, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pager != "moar" {
		t.Errorf("expected BAT_PAGER to win over PAGER, got %q", cfg.Pager)
	}
}

func TestConsolidateBadStyleTokenPropagatesError(t *testing.T) {
	badStyle := "not-a-real-style"
	_, err := Consolidate(&File{Style: &badStyle}, nil, Env{}, true, 80)
	if err == nil {
		t.Error("expected style parse error to propagate")
	}
}

func TestConsolidateExplicitPagerExcludesEnvLayer(t *testing.T) {
	cfg, err := Consolidate(nil, nil, Env{PagerFallback: "more"}, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Pager != "more" {
		t.Errorf("expected Pager to pick up the PAGER fallback, got %q", cfg.Pager)
	}
	if cfg.ExplicitPager != "" {
		t.Errorf("ExplicitPager must not see the env layer, got %q", cfg.ExplicitPager)
	}

	cliPager := "moar"
	cfg, err = Consolidate(nil, &File{Pager: &cliPager}, Env{PagerFallback: "more"}, true, 80)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ExplicitPager != "moar" {
		t.Errorf("expected CLI pager to populate ExplicitPager, got %q", cfg.ExplicitPager)
	}
}

func TestConsolidateLoopThroughWhenNothingNeedsRendering(t *testing.T) {
	never := Never
	cfg, err := Consolidate(nil, &File{Color: &never, Decorations: &never, Wrap: wrapModePtr(WrapNever), Style: strPtr("plain")}, Env{NoColor: "1"}, false, 80)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.LoopThrough {
		t.Error("expected loop-through when color, decorations, and wrap are all off")
	}
}

func wrapModePtr(w WrappingMode) *WrappingMode { return &w }
func strPtr(s string) *string                  { return &s }
