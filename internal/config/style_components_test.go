package config

import "testing"

func TestGridAndRuleAreMutuallyExclusive(t *testing.T) {
	sc := NewStyleComponents(Grid)
	sc.Add(Rule)
	if sc.Has(Grid) {
		t.Error("adding Rule must evict Grid")
	}
	sc.Add(Grid)
	if sc.Has(Rule) {
		t.Error("adding Grid must evict Rule")
	}
}

func TestParseStyleComponentsFull(t *testing.T) {
	sc, err := ParseStyleComponents("full", true)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range []Component{Grid, HeaderFilename, LineNumbers, Snip} {
		if !sc.Has(c) {
			t.Errorf("full must include %v", c)
		}
	}
	if sc.Has(Rule) {
		t.Error("full must not include Rule (mutually exclusive with Grid)")
	}
}

func TestParseStyleComponentsAutoRespectsInteractivity(t *testing.T) {
	interactive, err := ParseStyleComponents("auto", true)
	if err != nil {
		t.Fatal(err)
	}
	if !interactive.Has(Grid) {
		t.Error("auto when interactive should expand to the full interactive set")
	}

	nonInteractive, err := ParseStyleComponents("auto", false)
	if err != nil {
		t.Fatal(err)
	}
	if nonInteractive.Has(Grid) || nonInteractive.Has(LineNumbers) {
		t.Error("auto when non-interactive should expand to the empty set")
	}
}

func TestParseStyleComponentsPlainIsEmpty(t *testing.T) {
	sc, err := ParseStyleComponents("plain", true)
	if err != nil {
		t.Fatal(err)
	}
	if sc.String() != "" {
		t.Errorf("plain should contribute nothing, got %q", sc.String())
	}
}

func TestParseStyleComponentsHeaderSynonyms(t *testing.T) {
	a, err := ParseStyleComponents("header", true)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseStyleComponents("header-filename", true)
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Errorf("header and header-filename should be synonyms, got %q vs %q", a, b)
	}
}

func TestParseStyleComponentsUnknownToken(t *testing.T) {
	if _, err := ParseStyleComponents("bogus", true); err == nil {
		t.Error("expected an error for an unknown style token")
	}
}

func TestParseStyleComponentsCommaList(t *testing.T) {
	sc, err := ParseStyleComponents("grid,numbers,snip", true)
	if err != nil {
		t.Fatal(err)
	}
	if !sc.Has(Grid) || !sc.Has(LineNumbers) || !sc.Has(Snip) {
		t.Errorf("expected all three listed components, got %q", sc.String())
	}
}
