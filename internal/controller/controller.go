// Package controller implements §7's error taxonomy/policy and composes
// the A-J pipeline: for each input it opens (C), resolves a syntax (D),
// builds a highlighter (F) bound to the chosen theme, and threads lines
// through the preprocessor (E), the highlighter, decorations (G), and the
// wrapping engine (H) before writing through the output sink (I).
//
// The ignorable/exit-status error wrappers and the "classify, then decide
// whether to keep going" shape are grounded on peco.go's errIgnorable/
// errWithExitStatus/setExitStatus: a per-error marker interface rather than
// a big switch over concrete error types, so any package's sentinel error
// can be promoted to "ignorable" or "carries its own exit status" without
// that package importing this one.
package controller

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/batgo/batgo/internal/assets"
	"github.com/batgo/batgo/internal/config"
	"github.com/batgo/batgo/internal/decorations"
	"github.com/batgo/batgo/internal/input"
	"github.com/batgo/batgo/internal/ranges"
	"github.com/batgo/batgo/internal/resolver"
	"github.com/batgo/batgo/internal/sink"
	"github.com/batgo/batgo/internal/syntaxmapping"
	"github.com/batgo/batgo/internal/theme"
)

// ignorable marks an error as §7's BrokenPipe: silent success, exit 0.
type ignorable struct{ err error }

func (e *ignorable) Error() string  { return e.err.Error() }
func (e *ignorable) Ignorable() bool { return true }
func (e *ignorable) Cause() error   { return e.err }

func makeIgnorable(err error) error { return &ignorable{err: err} }

// withExitStatus tags a global-fatal error with the process exit code it
// must produce (§7: 2 for a fatal argument/setup error).
type withExitStatus struct {
	err    error
	status int
}

func (e *withExitStatus) Error() string  { return e.err.Error() }
func (e *withExitStatus) Cause() error   { return e.err }
func (e *withExitStatus) ExitStatus() int { return e.status }

func setExitStatus(err error, status int) error {
	return &withExitStatus{err: err, status: status}
}

func exitStatusOf(err error) (int, bool) {
	var e interface{ ExitStatus() int }
	if errors.As(err, &e) {
		return e.ExitStatus(), true
	}
	return 0, false
}

func isIgnorable(err error) bool {
	var e interface{ Ignorable() bool }
	return errors.As(err, &e) && e.Ignorable()
}

// isBrokenPipe reports §7's BrokenPipe taxonomy entry. render.go's write
// helper is the one place a broken pipe can actually occur (writing to
// stdout or a pager), and it wraps the detected syscall.EPIPE with
// makeIgnorable right there, the way peco.go's call sites wrap specific
// named benign errors rather than leaving a generic syscall check here.
func isBrokenPipe(err error) bool {
	return isIgnorable(err)
}

// Options carries everything the controller needs besides the list of
// inputs themselves: the immutable asset store and syntax mapping (shared
// by reference, §5), the consolidated config, the raw environment (needed
// for pager-tier resolution, which Config.Pager alone cannot disambiguate),
// the visible/highlighted line sets, and whether this run is interactive
// (the "auto" style-component and color expansion happens upstream; this
// package does not read Interactive).
type Options struct {
	Store       *assets.Store
	Mapping     *syntaxmapping.Mapping
	Guesser     resolver.Guesser
	Config      config.Config
	Env         config.Env
	Visible     *ranges.LineRanges
	Highlighted *ranges.LineRanges
	Interactive bool
	ProgramName string
}

// Controller owns one resolved theme and the options it was built from; it
// has no other mutable state, matching §5's "no shared mutable state
// besides the immutable asset store."
type Controller struct {
	opts  Options
	theme *theme.Theme
}

// deprecatedThemeAliases implements §9's open question: "ansi-light"/
// "ansi-dark" are kept as accepted names but resolve to "ansi".
var deprecatedThemeAliases = map[string]string{
	"ansi-light": "ansi",
	"ansi-dark":  "ansi",
}

// DeprecatedThemeAlias reports whether name is one of the deprecated
// "ansi-light"/"ansi-dark" aliases and, if so, what it resolves to -- so the
// CLI layer can print the deprecation warning §9 says the source emits,
// without this package importing anything that writes to stderr itself.
func DeprecatedThemeAlias(name string) (string, bool) {
	alias, ok := deprecatedThemeAliases[name]
	return alias, ok
}

// New resolves the run's theme once (§4.1: "an explicit user theme always
// overrides" the store's platform-conditional default) and returns a
// Controller ready to process inputs, or a global-fatal UnknownTheme error
// (§7) wrapped with exit status 2.
func New(opts Options) (*Controller, error) {
	name := opts.Config.Theme
	if alias, ok := deprecatedThemeAliases[name]; ok {
		name = alias
	}
	if name == "" {
		name = opts.Store.DefaultTheme()
	}
	th, err := opts.Store.Theme(name)
	if err != nil {
		return nil, setExitStatus(err, 2)
	}
	return &Controller{opts: opts, theme: th}, nil
}

// Run processes every input in order (§5: "inputs are processed in the
// order supplied"), writing through a sink built per Options.Config. It
// returns the process exit code of §6: 0 on success or a silent broken
// pipe, 1 if one or more inputs failed, 2 on a fatal setup error (pager
// resolution). errs from individual inputs are reported but never make Run
// itself return a non-nil error -- only a global fatal condition does.
func (c *Controller) Run(inputs []*input.Input, stdout, stderr io.Writer) (int, error) {
	snk, err := c.openSink(stdout, stderr)
	if err != nil {
		if status, ok := exitStatusOf(err); ok {
			return status, err
		}
		return 2, setExitStatus(err, 2)
	}
	defer snk.Close()

	var stdoutFile *os.File
	if snk.IsDirect() {
		if f, ok := stdout.(*os.File); ok {
			stdoutFile = f
		}
	}

	showRule := c.opts.Config.StyleComponents.Has(config.Rule)
	anyFailed := false
	for i, in := range inputs {
		if i > 0 && showRule {
			if werr := writeLine(snk.Writer, "%s\n", decorations.Rule(c.opts.Config.TermWidth)); werr != nil {
				if isBrokenPipe(werr) {
					return 0, nil
				}
				return 2, setExitStatus(werr, 2)
			}
		}
		err := c.processOne(in, snk, stdoutFile)
		if err == nil {
			continue
		}
		if isBrokenPipe(err) {
			// §7 policy: broken pipe short-circuits the whole run, silently.
			return 0, nil
		}
		anyFailed = true
		fmt.Fprintf(stderr, "%s: %s: %v\n", c.opts.ProgramName, in.Description().Name, err)
	}

	if anyFailed {
		return 1, nil
	}
	return 0, nil
}

func pagingMode(t config.TriState) sink.Mode {
	switch t {
	case config.Always:
		return sink.Always
	case config.Never:
		return sink.Never
	default:
		return sink.QuitIfOneScreen
	}
}

// openSink builds the output sink per §4.9: direct stdout when paging is
// off, otherwise a resolved-and-spawned pager subprocess with its
// less-specific arguments negotiated from the source of the winning
// resolution tier (a PAGER-supplied less loses its own arguments to the
// managed set). A pager that fails to spawn falls back to direct stdout.
func (c *Controller) openSink(stdout, stderr io.Writer) (*sink.Sink, error) {
	mode := pagingMode(c.opts.Config.PagingMode)
	if mode == sink.Never {
		return sink.Direct(stdout), nil
	}

	cmdline, source, err := sink.ResolveCommand(
		c.opts.Config.ExplicitPager,
		c.opts.Env.Pager,
		c.opts.Env.PagerFallback,
		c.opts.ProgramName,
	)
	if err != nil {
		return nil, err
	}

	var extraArgs []string
	if fields := strings.Fields(cmdline); len(fields) > 0 && looksLikeLess(fields[0]) {
		version := 0
		if out, verr := exec.Command(fields[0], "--version").Output(); verr == nil {
			version = sink.LessVersion(string(out))
		}

		showLineNumbers := c.opts.Config.StyleComponents.Has(config.LineNumbers)
		showGrid := c.opts.Config.StyleComponents.Has(config.Grid)
		panelWidth := decorations.PanelWidth(showLineNumbers, showGrid, c.opts.Config.TermWidth)
		extraArgs = sink.LessArgs(source, version, runtime.GOOS == "windows", mode == sink.QuitIfOneScreen, showLineNumbers, panelWidth)
		if source == sink.SourcePagerEnv {
			cmdline = fields[0]
		}
	}

	snk, err := sink.SpawnPager(cmdline, extraArgs, stdout, stderr)
	if err != nil {
		return sink.Direct(stdout), nil
	}
	return snk, nil
}

func looksLikeLess(cmd string) bool {
	return strings.EqualFold(filepath.Base(cmd), "less")
}
