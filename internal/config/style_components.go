package config

import (
	"fmt"
	"strings"
)

// Component is one bit of the StyleComponents set of §3.
type Component int

const (
	Grid Component = iota
	Rule
	HeaderFilename
	LineNumbers
	Snip
)

var componentNames = map[Component]string{
	Grid:           "grid",
	Rule:           "rule",
	HeaderFilename: "header-filename",
	LineNumbers:    "numbers",
	Snip:           "snip",
}

// StyleComponents is a set over {Grid, Rule, HeaderFilename, LineNumbers,
// Snip} (§3). Grid and Rule are mutually exclusive by construction: Add
// always removes the other one.
type StyleComponents struct {
	set map[Component]struct{}
}

// NewStyleComponents builds a StyleComponents containing the given
// components, applying the Grid/Rule exclusion as each is added.
func NewStyleComponents(components ...Component) StyleComponents {
	sc := StyleComponents{set: map[Component]struct{}{}}
	for _, c := range components {
		sc.Add(c)
	}
	return sc
}

// Add enables c, evicting its mutually-exclusive counterpart if present.
func (sc *StyleComponents) Add(c Component) {
	if sc.set == nil {
		sc.set = map[Component]struct{}{}
	}
	switch c {
	case Grid:
		delete(sc.set, Rule)
	case Rule:
		delete(sc.set, Grid)
	}
	sc.set[c] = struct{}{}
}

// Has reports whether c is in the set.
func (sc StyleComponents) Has(c Component) bool {
	_, ok := sc.set[c]
	return ok
}

// full is every component except one of the mutually exclusive pair: §3
// resolves "full" to the grid-bordered rendering, so Rule is left out.
func full() StyleComponents {
	return NewStyleComponents(Grid, HeaderFilename, LineNumbers, Snip)
}

// auto resolves §3's "Auto expands to {Grid, HeaderFilename, LineNumbers,
// Snip} when interactive, to {} otherwise."
func auto(interactive bool) StyleComponents {
	if !interactive {
		return NewStyleComponents()
	}
	return NewStyleComponents(Grid, HeaderFilename, LineNumbers, Snip)
}

// ParseStyleComponents parses the --style comma-list token set of §6:
// {auto,full,plain,grid,rule,header,header-filename,numbers,snip}. "header"
// and "header-filename" both enable HeaderFilename -- the set's own
// vocabulary (§3) has no separate bare "Header" component, so the CLI's
// "header" token is treated as a synonym for "header-filename" (recorded
// as an Open Question resolution in DESIGN.md).
func ParseStyleComponents(csv string, interactive bool) (StyleComponents, error) {
	sc := NewStyleComponents()
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		switch tok {
		case "auto":
			sc = merge(sc, auto(interactive))
		case "full":
			sc = merge(sc, full())
		case "plain":
			// no-op: plain contributes nothing to the set.
		case "grid":
			sc.Add(Grid)
		case "rule":
			sc.Add(Rule)
		case "header", "header-filename":
			sc.Add(HeaderFilename)
		case "numbers":
			sc.Add(LineNumbers)
		case "snip":
			sc.Add(Snip)
		default:
			return StyleComponents{}, fmt.Errorf("config: unknown style component %q", tok)
		}
	}
	return sc, nil
}

func merge(a, b StyleComponents) StyleComponents {
	for c := range b.set {
		a.Add(c)
	}
	return a
}

// String renders the set back as a comma list in fixed component order, for diagnostics and
// config round-tripping.
func (sc StyleComponents) String() string {
	order := []Component{Grid, Rule, HeaderFilename, LineNumbers, Snip}
	var names []string
	for _, c := range order {
		if sc.Has(c) {
			names = append(names, componentNames[c])
		}
	}
	return strings.Join(names, ",")
}
