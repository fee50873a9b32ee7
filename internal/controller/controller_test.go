package controller

import (
	"bytes"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/batgo/batgo/internal/assets"
	"github.com/batgo/batgo/internal/config"
	"github.com/batgo/batgo/internal/input"
	"github.com/batgo/batgo/internal/syntaxmapping"
)

func newTestController(t *testing.T, cfg config.Config) *Controller {
	t.Helper()
	store, err := assets.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg.PagingMode = config.Never
	c, err := New(Options{
		Store:       store,
		Mapping:     syntaxmapping.New(),
		Config:      cfg,
		ProgramName: "bat",
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRunUnknownSyntaxFallsBackRatherThanFailing(t *testing.T) {
	cfg, err := config.Consolidate(nil, nil, config.Env{}, false, 80)
	if err != nil {
		t.Fatal(err)
	}
	c := newTestController(t, cfg)

	in := input.NewReader("fixture", bytes.NewBufferString("hello\nworld\n"))
	var out, errOut bytes.Buffer
	status, err := c.Run([]*input.Input{in}, &out, &errOut)
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if status != 0 {
		t.Errorf("expected exit status 0 for a readable input with no detectable syntax, got %d: %s", status, errOut.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("expected no stderr output, got %q", errOut.String())
	}
	if out.Len() == 0 {
		t.Error("expected rendered output on stdout")
	}
}

// Scenario 1: a .rs file resolves to Rust, and with grid/header/numbers
// style components its rendered output opens with a header naming the
// file and closes with a footer "┴" corner.
func TestRunRustFileRendersHeaderAndFooter(t *testing.T) {
	cfg, err := config.Consolidate(nil, nil, config.Env{}, false, 80)
	if err != nil {
		t.Fatal(err)
	}
	cfg.StyleComponents = config.NewStyleComponents(config.Grid, config.HeaderFilename, config.LineNumbers)
	c := newTestController(t, cfg)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.rs")
	if err := os.WriteFile(path, []byte("fn main() {\n    println!(\"hi\");\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	in := input.NewFile(path)
	var out, errOut bytes.Buffer
	status, err := c.Run([]*input.Input{in}, &out, &errOut)
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if status != 0 {
		t.Fatalf("expected exit status 0, got %d: %s", status, errOut.String())
	}

	rendered := out.String()
	lines := strings.Split(strings.TrimRight(rendered, "\n"), "\n")
	if len(lines) < 2 {
		t.Fatalf("expected at least a header and a body line, got %q", rendered)
	}
	if !strings.Contains(lines[0], "File: "+path) {
		t.Errorf("header line = %q, want it to report the file name", lines[0])
	}
	if !strings.HasPrefix(lines[len(lines)-1], "─") || !strings.Contains(lines[len(lines)-1], "┴") {
		t.Errorf("footer line = %q, want a closing ┴ corner", lines[len(lines)-1])
	}
}

func TestRunOneInputFailingContinuesToTheNext(t *testing.T) {
	cfg, err := config.Consolidate(nil, nil, config.Env{}, false, 80)
	if err != nil {
		t.Fatal(err)
	}
	c := newTestController(t, cfg)

	missing := input.NewFile("/no/such/file/for/this/test")
	ok := input.NewReader("fixture", bytes.NewBufferString("hello\n"))

	var out, errOut bytes.Buffer
	status, err := c.Run([]*input.Input{missing, ok}, &out, &errOut)
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if status != 1 {
		t.Errorf("expected exit status 1 when one input fails, got %d", status)
	}
	if errOut.Len() == 0 {
		t.Error("expected the missing-file failure to be reported on stderr")
	}
	if out.Len() == 0 {
		t.Error("expected the second, readable input to still produce output")
	}
}

func TestRunFatalSetupErrorAbortsBeforeAnyInput(t *testing.T) {
	cfg, err := config.Consolidate(nil, nil, config.Env{}, false, 80)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Theme = "Definitely Not A Real Theme"
	store, err := assets.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(Options{
		Store:       store,
		Mapping:     syntaxmapping.New(),
		Config:      cfg,
		ProgramName: "bat",
	})
	if err == nil {
		t.Fatal("expected New to fail on an unknown theme")
	}
	status, ok := exitStatusOf(err)
	if !ok || status != 2 {
		t.Errorf("expected an unknown-theme error tagged with exit status 2, got status=%d ok=%v", status, ok)
	}
}

// brokenPipeWriter fails every Write with syscall.EPIPE, the way a pipe
// closed on the reading end behaves, without needing an actual subprocess.
type brokenPipeWriter struct{}

func (brokenPipeWriter) Write(p []byte) (int, error) {
	return 0, &net.OpError{Op: "write", Err: syscall.EPIPE}
}

func TestRunBrokenPipeShortCircuitsSilently(t *testing.T) {
	cfg, err := config.Consolidate(nil, nil, config.Env{}, false, 80)
	if err != nil {
		t.Fatal(err)
	}
	c := newTestController(t, cfg)

	first := input.NewReader("a", bytes.NewBufferString("hello\n"))
	second := input.NewReader("b", bytes.NewBufferString("world\n"))

	var errOut bytes.Buffer
	status, err := c.Run([]*input.Input{first, second}, brokenPipeWriter{}, &errOut)
	if err != nil {
		t.Fatalf("Run returned unexpected error: %v", err)
	}
	if status != 0 {
		t.Errorf("expected exit status 0 on broken pipe, got %d", status)
	}
	if errOut.Len() != 0 {
		t.Errorf("expected broken pipe to be silent on stderr, got %q", errOut.String())
	}
}

var _ io.Writer = brokenPipeWriter{}
