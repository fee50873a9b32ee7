// Package theme implements §3's Theme type ("a mapping from scopes to
// (foreground, background, font style)") and §4.1's lazy theme
// deserialization: the archive is deserialized once into a map of
// {name -> raw bytes}, and each Theme is only fully materialized on first
// Get, then cached -- a direct generalization of the teacher's StyleSet
// (config/style.go), which held one eagerly-parsed style set per UI element,
// into many lazily-parsed style sets keyed by theme name.
package theme

import (
	"fmt"
	"sync"

	"github.com/goccy/go-yaml"

	"github.com/batgo/batgo/internal/style"
)

// Theme maps highlighter scopes to Style, plus the line-highlight background
// and the syntax's default foreground/background (§4.6 "produces
// (foreground, background, font_style) for each highlighter token").
type Theme struct {
	Name          string
	Appearance    string // "dark" or "light"
	LineHighlight style.Color
	DefaultFg     style.Color
	DefaultBg     style.Color
	scopes        map[string]style.Style
}

// StyleFor returns the Style registered for scope, or the theme's default
// style if no scope-specific entry exists.
func (t *Theme) StyleFor(scope string) style.Style {
	if s, ok := t.scopes[scope]; ok {
		return s
	}
	return style.Style{Fg: t.DefaultFg, Bg: t.DefaultBg}
}

// rawColor mirrors the embedded themes.yaml color variant: exactly one of
// Named/Indexed/RGB/Default is set.
type rawColor struct {
	Named   *string `yaml:"named"`
	Indexed *int    `yaml:"indexed"`
	RGB     *string `yaml:"rgb"`
	Default *bool   `yaml:"default"`
}

func (c rawColor) resolve() style.Color {
	switch {
	case c.Named != nil:
		if n, ok := namedByString[*c.Named]; ok {
			return style.FromNamed(n)
		}
	case c.Indexed != nil:
		return style.FromIndex(uint8(*c.Indexed))
	case c.RGB != nil:
		var r, g, b int
		fmt.Sscanf(*c.RGB, "%d,%d,%d", &r, &g, &b)
		return style.FromRGB(uint8(r), uint8(g), uint8(b))
	}
	return style.Default()
}

var namedByString = map[string]style.Named{
	"black": style.Black, "red": style.Red, "green": style.Green,
	"yellow": style.Yellow, "blue": style.Blue, "magenta": style.Magenta,
	"cyan": style.Cyan, "white": style.White,
	"bright_black": style.BrightBlack, "bright_red": style.BrightRed,
	"bright_green": style.BrightGreen, "bright_yellow": style.BrightYellow,
	"bright_blue": style.BrightBlue, "bright_magenta": style.BrightMagenta,
	"bright_cyan": style.BrightCyan, "bright_white": style.BrightWhite,
}

type rawScopeStyle struct {
	Fg            rawColor `yaml:"fg"`
	Bg            *rawColor `yaml:"bg"`
	Bold          bool     `yaml:"bold"`
	Italic        bool     `yaml:"italic"`
	Underline     bool     `yaml:"underline"`
}

type rawTheme struct {
	Appearance    string                   `yaml:"appearance"`
	Author        string                   `yaml:"author"`
	LineHighlight struct {
		Bg rawColor `yaml:"bg"`
	} `yaml:"line_highlight"`
	DefaultFg rawColor                 `yaml:"default_fg"`
	DefaultBg rawColor                 `yaml:"default_bg"`
	Scopes    map[string]rawScopeStyle `yaml:"scopes"`
}

func compile(name string, rd rawTheme) *Theme {
	t := &Theme{
		Name:          name,
		Appearance:    rd.Appearance,
		LineHighlight: rd.LineHighlight.Bg.resolve(),
		DefaultFg:     rd.DefaultFg.resolve(),
		DefaultBg:     rd.DefaultBg.resolve(),
		scopes:        map[string]style.Style{},
	}
	for scope, rs := range rd.Scopes {
		bg := t.DefaultBg
		if rs.Bg != nil {
			bg = rs.Bg.resolve()
		}
		t.scopes[scope] = style.Style{
			Fg:        rs.Fg.resolve(),
			Bg:        bg,
			Bold:      rs.Bold,
			Italic:    rs.Italic,
			Underline: rs.Underline,
		}
	}
	return t
}

// Set is a lazily-materialized collection of themes, keyed by name (§4.1).
type Set struct {
	mu     sync.Mutex
	raw    map[string]rawTheme
	cached map[string]*Theme
}

// DecodeYAML parses the embedded themes bundle's top-level map without
// materializing any individual theme yet.
func DecodeYAML(data []byte) (*Set, error) {
	var raw map[string]rawTheme
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode themes: %w", err)
	}
	return &Set{raw: raw, cached: map[string]*Theme{}}, nil
}

// Get materializes (or returns the cached materialization of) the named
// theme. Returns ok=false for an unknown theme (the caller raises
// UnknownTheme, §7).
func (s *Set) Get(name string) (*Theme, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.cached[name]; ok {
		return t, true
	}
	rd, ok := s.raw[name]
	if !ok {
		return nil, false
	}
	t := compile(name, rd)
	s.cached[name] = t
	return t, true
}

// Names lists all theme names without materializing them (§4.1 "iterate
// theme names").
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.raw))
	for name := range s.raw {
		out = append(out, name)
	}
	return out
}
