// Package sink implements §4.9's output sink: the choice between direct
// stdout and a paging subprocess, pager resolution and argument
// negotiation, and the errgroup-supervised pager lifecycle (Supervise can
// add another subprocess to the same group).
//
// The pager-spawn shape (shlex.Split the resolved command, strip
// LESSOPEN/LESSCLOSE from the child env, pipe stdin, Wait on close) is
// grounded on the cli-cli `IOStreams.StartPager`/`StopPager` pattern from
// the reference pack, itself the same "shell out, stream through a pipe,
// tear down on close" shape as the teacher's own filter/external.go.
package sink

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/sync/errgroup"
)

// Mode selects between the three paging policies of §4.9.
type Mode int

const (
	Always Mode = iota
	QuitIfOneScreen
	Never
)

// ErrInvalidPagerValueBat is returned when the resolved pager's basename
// identifies this program itself -- spawning it would recurse forever
// (§7, InvalidPagerValueBat, global fatal).
var ErrInvalidPagerValueBat = fmt.Errorf("sink: resolved pager is this program")

// ResolveCommand picks the pager command line per §4.9's resolution order:
// explicit (--pager/config pager), then BAT_PAGER, then PAGER, then the
// hard-coded fallback "less". programName is this program's own
// executable basename, used to refuse self-recursion.
func ResolveCommand(explicit, batPagerEnv, pagerEnv, programName string) (string, ArgsSource, error) {
	cmdline, source := "", SourceDefault
	switch {
	case explicit != "":
		cmdline, source = explicit, SourceExplicit
	case batPagerEnv != "":
		cmdline, source = batPagerEnv, SourceBatPager
	case pagerEnv != "":
		cmdline, source = pagerEnv, SourcePagerEnv
	default:
		cmdline, source = "less", SourceDefault
	}

	args, err := shlex.Split(cmdline)
	if err != nil || len(args) == 0 {
		return "", source, fmt.Errorf("sink: cannot parse pager command %q: %w", cmdline, err)
	}
	base := filepath.Base(args[0])
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == programName {
		return "", source, ErrInvalidPagerValueBat
	}
	return cmdline, source, nil
}

// ArgsSource records which configuration layer supplied the pager command,
// since the less-argument negotiation rule differs depending on whether the
// arguments came from PAGER alone versus an explicit choice (§4.9).
type ArgsSource int

const (
	SourceDefault ArgsSource = iota
	SourceExplicit
	SourcePagerEnv
	SourceBatPager
)

// LessVersion parses the major version number out of `less --version`'s
// first line (e.g. "less 581 (...)"), caching the result at the call site.
// Unparseable or non-less output is treated as version 0, per §9's "pager
// version probing" note, so version-gated arguments are simply skipped.
func LessVersion(versionOutput string) int {
	firstLine := versionOutput
	if i := strings.IndexByte(versionOutput, '\n'); i >= 0 {
		firstLine = versionOutput[:i]
	}
	fields := strings.Fields(firstLine)
	for i, f := range fields {
		if f == "less" && i+1 < len(fields) {
			if n, err := strconv.Atoi(fields[i+1]); err == nil {
				return n
			}
		}
	}
	return 0
}

// LessArgs computes the managed less argument set of §4.9 for a less
// command that came from PAGER alone (source == SourcePagerEnv); the caller
// drops that command's own arguments in favour of this set, since those were
// never meant for this program's pager handshake. Other sources get nil.
func LessArgs(source ArgsSource, version int, windowsLike bool, quitIfOneScreen bool, showLineNumbers bool, panelWidth int) []string {
	if source != SourcePagerEnv {
		return nil
	}

	args := []string{"-R"}
	if quitIfOneScreen {
		args = append(args, "-F")
	}

	noInitCeiling := 530
	if windowsLike {
		noInitCeiling = 558
	}
	if version > 0 && version < noInitCeiling {
		args = append(args, "--no-init")
	}
	if version >= 600 && showLineNumbers {
		args = append(args, fmt.Sprintf("--header=0,%d", panelWidth), "--no-search-headers")
	}
	return args
}

// ShouldPage reports whether mode calls for attempting a pager at all.
// Never never pages; the other two modes attempt a pager, and the caller
// falls back to direct stdout on a spawn failure.
func (m Mode) ShouldPage() bool {
	return m != Never
}

// Sink owns either a direct stdout writer or a spawned pager process's
// stdin, plus any further subprocess handed to Supervise. Exactly one of
// Close's concerns is active per run:
// when no pager was spawned, Close is a no-op and the caller's stdout
// handle is simply never touched again.
type Sink struct {
	Writer io.WriteCloser

	pagerCmd *exec.Cmd
	group    *errgroup.Group
}

// Direct wraps stdout as a Sink with no pager: an unbuffered stdout
// writer that Close never tears down (closing the process's real stdout
// would be wrong).
func Direct(stdout io.Writer) *Sink {
	return &Sink{Writer: nopCloser{stdout}}
}

// SpawnPager starts the resolved pager command, piping its stdin back as
// the Sink's Writer and its stdout/stderr to this process's own. Env has
// LESSOPEN/LESSCLOSE stripped and LESSCHARSET=UTF-8 forced, so the pager
// never re-preprocesses the already-preprocessed bytes this program feeds
// it (§4.9).
func SpawnPager(cmdline string, extraArgs []string, stdout, stderr io.Writer) (*Sink, error) {
	argv, err := shlex.Split(cmdline)
	if err != nil || len(argv) == 0 {
		return nil, fmt.Errorf("sink: cannot parse pager command %q: %w", cmdline, err)
	}
	argv = append(argv, extraArgs...)

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("sink: pager %q not found: %w", argv[0], err)
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.Env = childEnv(os.Environ())
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("sink: pager stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("sink: pager spawn: %w", err)
	}

	g := &errgroup.Group{}
	g.Go(cmd.Wait)

	return &Sink{Writer: stdin, pagerCmd: cmd, group: g}, nil
}

// IsDirect reports whether this Sink writes straight to the caller's stdout
// with no pager subprocess in between. Callers use this to decide whether
// it's safe to hand the underlying *os.File to code that checks for the
// stdin/stdout same-fd case (§8 invariant 7) -- that check only applies
// while writing directly, never while paging.
func (s *Sink) IsDirect() bool {
	return s.pagerCmd == nil
}

// Supervise adds a concurrently-running subprocess (the optional input
// preprocessor, §4.3) to the same errgroup the pager is already supervised
// under, so Wait reports either process's failure.
func (s *Sink) Supervise(wait func() error) {
	if s.group == nil {
		s.group = &errgroup.Group{}
	}
	s.group.Go(wait)
}

// Close closes the pager's stdin (signaling it to drain and exit) and waits
// for every supervised subprocess. A no-pager Sink has nothing to close.
func (s *Sink) Close() error {
	if s.pagerCmd == nil {
		return nil
	}
	closeErr := s.Writer.Close()
	var waitErr error
	if s.group != nil {
		waitErr = s.group.Wait()
	}
	if closeErr != nil {
		return closeErr
	}
	return waitErr
}

// childEnv strips LESSOPEN/LESSCLOSE (so the pager doesn't re-run the
// preprocessor against already-preprocessed bytes) and forces
// LESSCHARSET=UTF-8, per §4.9.
func childEnv(environ []string) []string {
	out := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if strings.HasPrefix(kv, "LESSOPEN=") || strings.HasPrefix(kv, "LESSCLOSE=") || strings.HasPrefix(kv, "LESSCHARSET=") {
			continue
		}
		out = append(out, kv)
	}
	out = append(out, "LESSCHARSET=UTF-8")
	return out
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
