// Command batgo is the CLI entrypoint: it parses flags with go-flags,
// consolidates them with the environment and config file per §6, builds the
// asset store, syntax mapping, and language guesser, and hands everything to
// internal/controller. Its flag-parsing and deferred-exit shape are grounded
// on the teacher's cmd/peco/peco.go (var st int; defer os.Exit(st)) and
// options.go (CLIOptions struct tags, reflection-based help text).
package main

import (
	"fmt"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"golang.org/x/term"

	"github.com/batgo/batgo/internal/assets"
	"github.com/batgo/batgo/internal/config"
	"github.com/batgo/batgo/internal/controller"
	"github.com/batgo/batgo/internal/guess"
	"github.com/batgo/batgo/internal/input"
	"github.com/batgo/batgo/internal/ranges"
	"github.com/batgo/batgo/internal/syntaxmapping"
)

// version is set by an external tool at link time, e.g.
// go build -ldflags "-X main.version=vX.Y.Z".
var version = "dev"

// CLIOptions holds the command-line flags parsed by go-flags, one field per
// §6 flag.
type CLIOptions struct {
	OptHelp    bool `short:"h" long:"help" description:"show this help message and exit"`
	OptVersion bool `long:"version" description:"print the version and exit"`

	OptLanguage string   `short:"l" long:"language" description:"set the language for syntax highlighting"`
	OptTheme    string   `long:"theme" description:"set the color theme"`
	OptStyle    string   `long:"style" description:"comma-separated style components:\nauto, full, plain, grid, rule, header,\nheader-filename, numbers, snip"`
	OptPlain    []bool   `short:"p" long:"plain" description:"show plain style (repeat: -pp also disables paging)"`
	OptNumber   bool     `short:"n" long:"number" description:"show line numbers"`
	OptColor    string   `long:"color" description:"always, never, or auto" default:"auto"`
	OptDecorations string `long:"decorations" description:"always, never, or auto" default:"auto"`
	OptPaging   string   `long:"paging" description:"always, never, or auto" default:"auto"`
	OptPager    string   `long:"pager" description:"pager command to use"`

	OptWrap          string `long:"wrap" description:"character or never" default:"character"`
	OptChopLongLines bool   `long:"chop-long-lines" description:"alias for --wrap=never"`
	OptTerminalWidth string `long:"terminal-width" description:"explicit terminal width: N, +N, or -N"`
	OptTabs          int    `long:"tabs" description:"tab width"`

	OptLineRange     []string `long:"line-range" description:"only show the given line range (repeatable)"`
	OptHighlightLine []string `long:"highlight-line" description:"highlight the given line range (repeatable)"`
	OptItalicText    string   `long:"italic-text" description:"always or never" default:"never"`

	OptMapSyntax     []string `long:"map-syntax" description:"<glob>:<syntax> mapping rule (repeatable)"`
	OptIgnoredSuffix []string `long:"ignored-suffix" description:"suffix to ignore when detecting syntax (repeatable)"`

	OptShowAll              bool   `short:"A" long:"show-all" description:"show non-printable characters"`
	OptNonprintableNotation string `long:"nonprintable-notation" description:"caret or unicode" default:"caret"`
	OptForceColorization    bool   `short:"f" long:"force-colorization" description:"force colorized output even when not a terminal"`

	OptNoConfig           bool   `long:"no-config" description:"do not read a configuration file"`
	OptConfigFile         string `long:"config-file" description:"path to the configuration file"`
	OptConfigDir          string `long:"config-dir" description:"path to the configuration directory"`
	OptCacheDir           string `long:"cache-dir" description:"path to the asset decompression cache directory"`
	OptGenerateConfigFile bool   `long:"generate-config-file" description:"write a default configuration file and exit"`

	OptListLanguages    bool `short:"L" long:"list-languages" description:"list available syntaxes and exit"`
	OptListThemes       bool `long:"list-themes" description:"list available themes and exit"`
	OptAcknowledgements bool `long:"acknowledgements" description:"show third-party acknowledgements and exit"`
}

var triStateValues = map[string]bool{"": true, "always": true, "never": true, "auto": true}

// Validate checks the parsed CLI options for internally-inconsistent values,
// the way the teacher's CLIOptions.Validate checks --layout.
func (o CLIOptions) Validate() error {
	for name, v := range map[string]string{
		"--color":       o.OptColor,
		"--decorations": o.OptDecorations,
		"--paging":      o.OptPaging,
	} {
		if !triStateValues[v] {
			return fmt.Errorf("invalid value %q for %s: must be always, never, or auto", v, name)
		}
	}
	if o.OptWrap != "" && o.OptWrap != "character" && o.OptWrap != "never" {
		return fmt.Errorf("invalid value %q for --wrap: must be character or never", o.OptWrap)
	}
	if o.OptItalicText != "" && o.OptItalicText != "always" && o.OptItalicText != "never" {
		return fmt.Errorf("invalid value %q for --italic-text: must be always or never", o.OptItalicText)
	}
	if n := o.OptNonprintableNotation; n != "" && n != "caret" && n != "unicode" {
		return fmt.Errorf("invalid value %q for --nonprintable-notation: must be caret or unicode", n)
	}
	return nil
}

// help generates formatted help text from struct field tags, the same
// reflection walk as the teacher's CLIOptions.help.
func (opts CLIOptions) help() []byte {
	var buf strings.Builder
	fmt.Fprint(&buf, "\nUsage: batgo [OPTIONS] [FILE...]\n\nOptions:\n")

	t := reflect.TypeFor[CLIOptions]()
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag

		var flag string
		if s := tag.Get("short"); s != "" {
			flag = fmt.Sprintf("-%s, --%s", s, tag.Get("long"))
		} else {
			flag = fmt.Sprintf("--%s", tag.Get("long"))
		}

		desc := tag.Get("description")
		if idx := strings.Index(desc, "\n"); idx >= 0 {
			var d strings.Builder
			const indent = "                        "
			d.WriteString(desc[:idx+1])
			desc = desc[idx+1:]
			for {
				if idx = strings.Index(desc, "\n"); idx >= 0 {
					d.WriteString(indent)
					d.WriteString(desc[:idx+1])
					desc = desc[idx+1:]
					continue
				}
				break
			}
			if len(desc) > 0 {
				d.WriteString(indent)
				d.WriteString(desc)
			}
			desc = d.String()
		}

		fmt.Fprintf(&buf, "  %-28s %s\n", flag, desc)
	}
	return []byte(buf.String())
}

// plainCount reports how many times -p/--plain was given, for the "-pp also
// disables paging" rule of §6.
func (o CLIOptions) plainCount() int { return len(o.OptPlain) }

func main() {
	var st int
	defer func() { os.Exit(st) }()

	opts := &CLIOptions{}
	parser := flags.NewParser(opts, flags.PrintErrors)
	parser.Name = "batgo"
	args, err := parser.ParseArgs(os.Args[1:])
	if err != nil {
		os.Stderr.Write(opts.help())
		st = 2
		return
	}

	if opts.OptHelp {
		os.Stdout.Write(opts.help())
		return
	}
	if opts.OptVersion {
		fmt.Fprintf(os.Stdout, "batgo %s\n", version)
		return
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "batgo:", err)
		st = 2
		return
	}

	env := config.ReadEnv()

	if opts.OptGenerateConfigFile {
		if err := writeDefaultConfigFile(opts, env); err != nil {
			fmt.Fprintln(os.Stderr, "batgo:", err)
			st = 2
			return
		}
		return
	}

	cacheDir := opts.OptCacheDir
	if cacheDir == "" {
		cacheDir = env.CachePath
	}

	store, err := assets.Open(cacheDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "batgo:", err)
		st = 2
		return
	}

	switch {
	case opts.OptListLanguages:
		names := store.Syntaxes().Names()
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintln(os.Stdout, n)
		}
		return
	case opts.OptListThemes:
		names := store.Themes().Names()
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintln(os.Stdout, n)
		}
		return
	case opts.OptAcknowledgements:
		fmt.Fprint(os.Stdout, store.Acknowledgements())
		return
	}

	var file *config.File
	if !opts.OptNoConfig {
		file, err = loadConfigFile(opts, env)
		if err != nil {
			fmt.Fprintln(os.Stderr, "batgo:", err)
			st = 2
			return
		}
	}

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	if opts.OptForceColorization {
		interactive = true
	}
	termWidth := resolveTermWidth(opts.OptTerminalWidth)

	cli := opts.toFile(parser)

	cfg, err := config.Consolidate(file, cli, env, interactive, termWidth)
	if err != nil {
		fmt.Fprintln(os.Stderr, "batgo:", err)
		st = 2
		return
	}
	if resolved, ok := controller.DeprecatedThemeAlias(cfg.Theme); ok {
		fmt.Fprintf(os.Stderr, "batgo: theme %q is deprecated, using %q\n", cfg.Theme, resolved)
	}
	if opts.OptForceColorization {
		cfg.ColoredOutput = true
	}
	cfg.VisibleLines = opts.OptLineRange
	cfg.HighlightedLines = opts.OptHighlightLine

	mapping := syntaxmapping.New()
	for _, tok := range cfg.SyntaxMapping {
		glob, target, perr := parseSyntaxMappingRule(tok)
		if perr != nil {
			fmt.Fprintln(os.Stderr, "batgo:", perr)
			st = 2
			return
		}
		if aerr := mapping.AddUserRule(glob, target); aerr != nil {
			fmt.Fprintln(os.Stderr, "batgo:", aerr)
			st = 2
			return
		}
	}
	for _, s := range cfg.IgnoredSuffixes {
		mapping.AddIgnorableSuffix(s)
	}

	visible, err := parseLineRanges(cfg.VisibleLines)
	if err != nil {
		fmt.Fprintln(os.Stderr, "batgo:", err)
		st = 2
		return
	}
	highlighted, err := parseLineRanges(cfg.HighlightedLines)
	if err != nil {
		fmt.Fprintln(os.Stderr, "batgo:", err)
		st = 2
		return
	}

	guesser := guess.New(store.Fingerprints(), guess.DefaultThreshold)

	ctrl, err := controller.New(controller.Options{
		Store:       store,
		Mapping:     mapping,
		Guesser:     guesser,
		Config:      cfg,
		Env:         env,
		Visible:     visible,
		Highlighted: highlighted,
		Interactive: interactive,
		ProgramName: "batgo",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "batgo:", err)
		st = 2
		return
	}

	inputs := resolveInputs(args)
	st, err = ctrl.Run(inputs, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "batgo:", err)
	}
}

// resolveInputs turns the positional FILE arguments into Inputs per §6:
// "-" and no arguments at all both mean stdin.
func resolveInputs(args []string) []*input.Input {
	if len(args) == 0 {
		return []*input.Input{input.NewStdin()}
	}
	inputs := make([]*input.Input, 0, len(args))
	for _, a := range args {
		if a == "-" {
			inputs = append(inputs, input.NewStdin())
			continue
		}
		inputs = append(inputs, input.NewFile(a))
	}
	return inputs
}

// resolveTermWidth implements --terminal-width's N/+N/-N grammar against the
// terminal's own reported width (falling back to 80 when not a terminal).
func resolveTermWidth(spec string) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	if spec == "" {
		return width
	}
	switch {
	case strings.HasPrefix(spec, "+"):
		if n, err := strconv.Atoi(spec[1:]); err == nil {
			return width + n
		}
	case strings.HasPrefix(spec, "-"):
		if n, err := strconv.Atoi(spec[1:]); err == nil {
			return width - n
		}
	default:
		if n, err := strconv.Atoi(spec); err == nil {
			return n
		}
	}
	return width
}

// toFile translates the parsed CLI flags into a config.File overlay,
// consulting parser.FindOptionByLongName(...).IsSet() wherever a flag's zero
// value is indistinguishable from "not given" (e.g. --tabs=0 is a real,
// if unusual, choice; an unset --tabs must leave TabWidth nil so the config
// file and environment layers are still free to set it).
func (o CLIOptions) toFile(parser *flags.Parser) *config.File {
	f := &config.File{}
	isSet := func(name string) bool {
		if opt := parser.FindOptionByLongName(name); opt != nil {
			return opt.IsSet()
		}
		return false
	}

	if o.OptLanguage != "" {
		f.Language = &o.OptLanguage
	}
	if o.OptTheme != "" {
		f.Theme = &o.OptTheme
	}
	if o.OptPager != "" {
		f.Pager = &o.OptPager
	}
	if isSet("tabs") {
		f.TabWidth = &o.OptTabs
	}
	if isSet("nonprintable-notation") {
		f.NonprintableNotation = &o.OptNonprintableNotation
	}
	if o.OptShowAll {
		notation := o.OptNonprintableNotation
		if notation == "" {
			notation = "caret"
		}
		f.NonprintableNotation = &notation
	}

	if isSet("color") {
		t := config.TriState(o.OptColor)
		f.Color = &t
	}
	if isSet("decorations") {
		t := config.TriState(o.OptDecorations)
		f.Decorations = &t
	}
	if isSet("paging") {
		t := config.TriState(o.OptPaging)
		f.Paging = &t
	}
	if o.plainCount() >= 2 {
		never := config.Never
		f.Paging = &never
	}

	if isSet("wrap") {
		w := config.WrappingMode(o.OptWrap)
		f.Wrap = &w
	}
	if o.OptChopLongLines {
		w := config.WrapNever
		f.Wrap = &w
	}

	if isSet("italic-text") {
		t := config.TriState(o.OptItalicText)
		f.ItalicText = &t
	}

	style := o.styleSpec()
	if style != "" {
		f.Style = &style
	}

	f.MapSyntax = o.OptMapSyntax
	f.IgnoredSuffixes = o.OptIgnoredSuffix

	return f
}

// styleSpec folds --style, --plain, and --number into one comma-list per
// §6: -p/--plain selects the "plain" keyword outright (it wins over any
// --style value, matching bat's own "-p implies plain" precedent), and
// -n/--number adds "numbers" on top of whatever style is otherwise in play.
func (o CLIOptions) styleSpec() string {
	var components []string
	switch {
	case o.plainCount() > 0:
		components = append(components, "plain")
	case o.OptStyle != "":
		components = append(components, o.OptStyle)
	}
	if o.OptNumber {
		components = append(components, "numbers")
	}
	return strings.Join(components, ",")
}

// parseSyntaxMappingRule splits a --map-syntax token of the form
// <glob>:<name> into its glob and MappingTarget, recognizing the two literal
// tagged-variant names alongside an ordinary syntax name (§3, §4.2).
func parseSyntaxMappingRule(tok string) (string, syntaxmapping.MappingTarget, error) {
	i := strings.LastIndex(tok, ":")
	if i < 0 {
		return "", syntaxmapping.MappingTarget{}, fmt.Errorf("invalid --map-syntax rule %q: expected <glob>:<name>", tok)
	}
	glob, name := tok[:i], tok[i+1:]
	switch name {
	case "MapToUnknown":
		return glob, syntaxmapping.MappingTarget{Kind: syntaxmapping.MapToUnknown}, nil
	case "MapExtensionToUnknown":
		return glob, syntaxmapping.MappingTarget{Kind: syntaxmapping.MapExtensionToUnknown}, nil
	default:
		return glob, syntaxmapping.MappingTarget{Kind: syntaxmapping.MapTo, Name: name}, nil
	}
}

// parseLineRanges turns a list of --line-range/--highlight-line tokens into
// a ranges.LineRanges, or an empty LineRanges if none were given (matching
// every line).
func parseLineRanges(tokens []string) (*ranges.LineRanges, error) {
	if len(tokens) == 0 {
		return ranges.New(), nil
	}
	parsed := make([]ranges.LineRange, 0, len(tokens))
	for _, t := range tokens {
		r, err := ranges.Parse(t)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, r)
	}
	return ranges.New(parsed...), nil
}
