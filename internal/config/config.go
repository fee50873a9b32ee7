// Package config implements §3's consolidated Config record and §6's
// environment-variable/config-file overrides. The YAML config file
// mechanism (per-extension decode, XDG-path locator chain) is grounded on
// the teacher's own config/config.go one-for-one: same Locator/LocatorFunc
// indirection, same $XDG_CONFIG_HOME -> $XDG_CONFIG_DIRS -> ~/.<name>
// search order, generalized from peco's single rcfile name to this
// program's own config directory name.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// TriState is the three-way auto/always/never switch shared by
// --color/--decorations/--paging (§6).
type TriState string

const (
	Auto   TriState = "auto"
	Always TriState = "always"
	Never  TriState = "never"
)

// UnmarshalText implements encoding.TextUnmarshaler for YAML/JSON decoding,
// matching the teacher's OnCancelBehavior/ColorMode idiom (config/config.go).
func (t *TriState) UnmarshalText(b []byte) error {
	switch s := TriState(b); s {
	case "", Auto, Always, Never:
		if s == "" {
			s = Auto
		}
		*t = s
	default:
		return fmt.Errorf("config: invalid value %q: must be auto, always, or never", s)
	}
	return nil
}

// WrappingMode selects §4.8's wrap behavior.
type WrappingMode string

const (
	WrapCharacter WrappingMode = "character"
	WrapNever     WrappingMode = "never"
)

// File is the on-disk/YAML-decoded shape of a config file and of the
// environment-derived overlay, before merge into the final consolidated
// Config (§3). Every field is a pointer (or nil map/slice) so "not set"
// is distinguishable from "set to the zero value" during merge.
type File struct {
	Language             *string           `yaml:"language"`
	NonprintableNotation  *string           `yaml:"nonprintable-notation"`
	TabWidth              *int              `yaml:"tabs"`
	Color                 *TriState         `yaml:"color"`
	Decorations           *TriState         `yaml:"decorations"`
	Paging                *TriState         `yaml:"paging"`
	Style                 *string           `yaml:"style"`
	Wrap                  *WrappingMode     `yaml:"wrap"`
	Theme                 *string           `yaml:"theme"`
	Pager                 *string           `yaml:"pager"`
	ItalicText             *TriState         `yaml:"italic-text"`
	MapSyntax              []string          `yaml:"map-syntax"`
	IgnoredSuffixes        []string          `yaml:"ignored-suffix"`
}

// ReadFilename loads a File from filename, dispatching on its extension
// exactly like the teacher's Config.ReadFilename (YAML for .yaml/.yml,
// otherwise treated as a parse error since this program has no JSON config
// format, unlike the teacher's JSON/YAML dual format).
func ReadFilename(filename string) (*File, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", filename, err)
	}
	defer f.Close()

	var cf File
	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		if err := yaml.NewDecoder(f).Decode(&cf); err != nil {
			return nil, fmt.Errorf("config: decode YAML %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported config file extension %q", ext)
	}
	return &cf, nil
}

// Locator locates a config file in a given directory, matching the
// teacher's config.Locator/LocatorFunc indirection.
type Locator interface {
	Locate(dir string) (string, error)
}

type LocatorFunc func(string) (string, error)

func (f LocatorFunc) Locate(dir string) (string, error) { return f(dir) }

// DefaultLocator looks for "config.yaml" then "config.yml" in dir, mirroring
// the teacher's DefaultConfigLocator but over this program's narrower
// YAML-only format.
var DefaultLocator = LocatorFunc(func(dir string) (string, error) {
	for _, name := range []string{"config.yaml", "config.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: no config file in %s", dir)
})

// LocateConfigFile resolves this program's config file per §6: explicit
// --config-dir/--config-file take priority over the caller (handled
// outside this function); absent those, it walks the same
// $XDG_CONFIG_HOME -> $XDG_CONFIG_DIRS -> ~/.<appDirName> chain the teacher's
// LocateRcfile walks (config/config.go), generalized from the hard-coded
// "peco" subdirectory to an appDirName parameter.
func LocateConfigFile(appDirName string, locator Locator, homedir func() (string, error)) (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locator.Locate(filepath.Join(dir, appDirName)); err == nil {
			return file, nil
		}
	} else if home, err := homedir(); err == nil {
		if file, err := locator.Locate(filepath.Join(home, ".config", appDirName)); err == nil {
			return file, nil
		}
	}

	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for _, dir := range strings.Split(dirs, string(filepath.ListSeparator)) {
			if file, err := locator.Locate(filepath.Join(dir, appDirName)); err == nil {
				return file, nil
			}
		}
	}

	if home, err := homedir(); err == nil {
		if file, err := locator.Locate(filepath.Join(home, "."+appDirName)); err == nil {
			return file, nil
		}
	}

	return "", fmt.Errorf("config: no config file found for %s", appDirName)
}

// Env is the subset of §6's environment variables this program reads,
// captured as plain strings so overlay construction has no direct
// os.Getenv calls scattered through the merge logic.
type Env struct {
	ConfigPath, ConfigDir, CachePath string
	Opts                             string
	Pager                            string
	Paging                           string
	Style                            string
	Tabs                             string
	Theme                            string
	PagerFallback                    string // bare PAGER, lowest priority
	LessOpen, LessClose              string
	NoColor                          string
	ColorTerm                        string
	XDGConfigHome, XDGCacheHome      string
}

// ReadEnv captures the §6 environment variables this program consults.
func ReadEnv() Env {
	return Env{
		ConfigPath:     os.Getenv("BAT_CONFIG_PATH"),
		ConfigDir:      os.Getenv("BAT_CONFIG_DIR"),
		CachePath:      os.Getenv("BAT_CACHE_PATH"),
		Opts:           os.Getenv("BAT_OPTS"),
		Pager:          os.Getenv("BAT_PAGER"),
		Paging:         os.Getenv("BAT_PAGING"),
		Style:          os.Getenv("BAT_STYLE"),
		Tabs:           os.Getenv("BAT_TABS"),
		Theme:          os.Getenv("BAT_THEME"),
		PagerFallback:  os.Getenv("PAGER"),
		LessOpen:       os.Getenv("LESSOPEN"),
		LessClose:      os.Getenv("LESSCLOSE"),
		NoColor:        os.Getenv("NO_COLOR"),
		ColorTerm:      os.Getenv("COLORTERM"),
		XDGConfigHome:  os.Getenv("XDG_CONFIG_HOME"),
		XDGCacheHome:   os.Getenv("XDG_CACHE_HOME"),
	}
}

// TrueColorEnabled reports §6's COLORTERM-based true-color detection:
// "truecolor" or "24bit" enables RGB output.
func (e Env) TrueColorEnabled() bool {
	return e.ColorTerm == "truecolor" || e.ColorTerm == "24bit"
}

// ColoredOutputDisabled reports whether NO_COLOR forces colors off,
// honoring the https://no-color.org/ convention: any non-empty value
// disables color.
func (e Env) ColoredOutputDisabled() bool {
	return e.NoColor != ""
}

// Config is §3's post-merge consolidated snapshot: every option resolved
// to a non-optional value. Building one is the job of Consolidate, never a
// field-by-field struct literal scattered across the CLI layer.
type Config struct {
	Language             string
	NonprintableNotation  string
	TermWidth             int
	TabWidth              int
	ColoredOutput         bool
	TrueColor             bool
	StyleComponents       StyleComponents
	WrappingMode          WrappingMode
	PagingMode            TriState
	VisibleLines          []string // raw --line-range tokens, parsed by internal/ranges at the call site
	HighlightedLines      []string
	Theme                 string
	SyntaxMapping         []string // raw --map-syntax tokens
	IgnoredSuffixes       []string
	Pager                 string
	// ExplicitPager is Pager's value considering only the config-file and
	// CLI layers, with the environment layer excluded. §4.9's pager
	// resolution order treats "explicit (--pager/config pager)" as one
	// single tier above BAT_PAGER/PAGER, so the sink needs this value kept
	// separate from the env-derived fallback that also flows into Pager.
	ExplicitPager         string
	UseItalicText          bool
	AlwaysShowDecorations bool
	SuppressLessopen       bool
	// LoopThrough is true when nothing about this run needs the
	// highlighter or chrome at all (no color, no decorations, hard-wrap
	// disabled): the controller may stream bytes straight through.
	LoopThrough bool
}

// Consolidate merges a config File (nil if absent), the captured Env, and
// CLI overrides (represented here as another File, since go-flags binds
// directly into the same shape) into one non-optional Config, applying
// the §6 precedence: CLI flags beat environment variables beat the config
// file beat built-in defaults.
func Consolidate(file, cli *File, env Env, interactive bool, termWidth int) (Config, error) {
	cfg := Config{
		TermWidth:     termWidth,
		WrappingMode:  WrapCharacter,
		PagingMode:    Auto,
		TabWidth:      8,
		ColoredOutput: !env.ColoredOutputDisabled(),
		TrueColor:     env.TrueColorEnabled(),
	}

	layers := []*File{file, envAsFile(env), cli}
	for _, l := range layers {
		if l == nil {
			continue
		}
		applyLayer(&cfg, l, env, interactive)
	}

	var decorationsOverride *bool
	for _, l := range []*File{file, cli} {
		if l == nil {
			continue
		}
		if l.Pager != nil {
			cfg.ExplicitPager = *l.Pager
		}
		if l.Decorations != nil {
			switch *l.Decorations {
			case Always:
				v := true
				decorationsOverride = &v
			case Never:
				v := false
				decorationsOverride = &v
			}
		}
	}

	sc, err := resolveStyleComponents(file, cli, env, interactive)
	if err != nil {
		return Config{}, err
	}
	cfg.StyleComponents = sc
	styleWantsDecorations := sc.Has(HeaderFilename) || sc.Has(LineNumbers) || sc.Has(Grid) || sc.Has(Rule) || sc.Has(Snip)
	if decorationsOverride != nil {
		cfg.AlwaysShowDecorations = *decorationsOverride
	} else {
		cfg.AlwaysShowDecorations = styleWantsDecorations
	}
	cfg.SuppressLessopen = env.LessOpen == "" && env.LessClose == ""
	cfg.LoopThrough = !cfg.ColoredOutput && !cfg.AlwaysShowDecorations && cfg.WrappingMode == WrapNever

	return cfg, nil
}

func applyLayer(cfg *Config, l *File, env Env, interactive bool) {
	if l.Color != nil {
		switch *l.Color {
		case Always:
			cfg.ColoredOutput = true
		case Never:
			cfg.ColoredOutput = false
		case Auto:
			cfg.ColoredOutput = interactive && !env.ColoredOutputDisabled()
		}
	}
	if l.Language != nil {
		cfg.Language = *l.Language
	}
	if l.NonprintableNotation != nil {
		cfg.NonprintableNotation = *l.NonprintableNotation
	}
	if l.TabWidth != nil {
		cfg.TabWidth = *l.TabWidth
	}
	if l.Paging != nil {
		cfg.PagingMode = *l.Paging
	}
	if l.Wrap != nil {
		cfg.WrappingMode = *l.Wrap
	}
	if l.Theme != nil {
		cfg.Theme = *l.Theme
	}
	if l.Pager != nil {
		cfg.Pager = *l.Pager
	}
	if l.ItalicText != nil {
		cfg.UseItalicText = *l.ItalicText == Always
	}
	if len(l.MapSyntax) > 0 {
		cfg.SyntaxMapping = append(cfg.SyntaxMapping, l.MapSyntax...)
	}
	if len(l.IgnoredSuffixes) > 0 {
		cfg.IgnoredSuffixes = append(cfg.IgnoredSuffixes, l.IgnoredSuffixes...)
	}
}

// envAsFile lifts the handful of BAT_* environment variables that have a
// direct File-field equivalent into a File, so Consolidate's merge loop
// doesn't need a separate code path for the environment layer.
func envAsFile(env Env) *File {
	f := &File{}
	if env.Theme != "" {
		f.Theme = &env.Theme
	}
	if env.Pager != "" {
		f.Pager = &env.Pager
	} else if env.PagerFallback != "" {
		f.Pager = &env.PagerFallback
	}
	if env.Style != "" {
		f.Style = &env.Style
	}
	if env.Paging != "" {
		t := TriState(env.Paging)
		f.Paging = &t
	}
	if env.Tabs != "" {
		if n, err := strconv.Atoi(env.Tabs); err == nil {
			f.TabWidth = &n
		}
	}
	return f
}

func resolveStyleComponents(file, cli *File, env Env, interactive bool) (StyleComponents, error) {
	spec := ""
	if file != nil && file.Style != nil {
		spec = *file.Style
	}
	if env.Style != "" {
		spec = env.Style
	}
	if cli != nil && cli.Style != nil {
		spec = *cli.Style
	}
	if spec == "" {
		spec = "auto"
	}
	return ParseStyleComponents(spec, interactive)
}
