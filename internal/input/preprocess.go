package input

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
	"github.com/lestrrat-go/pdebug/v2"
)

// PreprocessorConfig holds the LESSOPEN/LESSCLOSE pair of §6, consolidated
// as §3 describes ("a preprocessor is configured and not suppressed").
type PreprocessorConfig struct {
	// Command is the raw LESSOPEN-style spec, e.g. "||/usr/bin/lesspipe %s".
	Command string
	// CloseCommand is the raw LESSCLOSE-style spec, run at teardown with the
	// original path and the replacement path (or "-") substituted.
	CloseCommand string
	Suppress     bool
}

type preprocessMode int

const (
	modePipeStrict preprocessMode = iota // ||cmd
	modePipe                             // |cmd
	modeReplaceFile                      // cmd
)

// parsed splits Command into its mode and bare command template, and
// reports whether a leading "-" marks it as applying to stdin too.
func (pp PreprocessorConfig) parsed() (mode preprocessMode, template string, stdinOK bool) {
	spec := pp.Command
	switch {
	case strings.HasPrefix(spec, "||"):
		mode, spec = modePipeStrict, spec[2:]
	case strings.HasPrefix(spec, "|"):
		mode, spec = modePipe, spec[1:]
	default:
		mode = modeReplaceFile
	}
	if strings.HasPrefix(spec, "-") {
		stdinOK = true
		spec = spec[1:]
	}
	return mode, spec, stdinOK
}

// AppliesToStdin reports whether the preprocessor spec carries the leading
// "-" marker that extends it to stdin inputs (§4.3).
func (pp PreprocessorConfig) AppliesToStdin() bool {
	_, _, stdinOK := pp.parsed()
	return stdinOK
}

// preprocessHandle tracks the running (or already-finished) preprocessor
// subprocess so Close can run the teardown command.
type preprocessHandle struct {
	cfg         PreprocessorConfig
	origPath    string
	replacement string
	cmd         *exec.Cmd
}

// run spawns the preprocessor for path per the three modes of §4.3, and
// returns a reader over its kept output, or a nil reader if the output was
// discarded and the caller should fall back to the original input.
func (pp PreprocessorConfig) run(path string) (*preprocessHandle, io.Reader, error) {
	mode, template, _ := pp.parsed()
	cmdline := substitutePath(template, path)
	args, err := shlex.Split(cmdline)
	if err != nil || len(args) == 0 {
		return nil, nil, nil
	}

	h := &preprocessHandle{cfg: pp, origPath: path}

	if pdebug.Enabled {
		pdebug.Printf(context.Background(), "input: running preprocessor %v", args)
	}

	cmd := exec.Command(args[0], args[1:]...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, nil
	}
	h.cmd = cmd

	peek := newPeekReader(bufio.NewReader(out))

	switch mode {
	case modeReplaceFile:
		data, _ := io.ReadAll(peek)
		cmd.Wait()
		replacement := strings.TrimSpace(string(data))
		if replacement == "" {
			return h, nil, nil
		}
		h.replacement = replacement
		f, err := openReplacementFile(replacement)
		if err != nil {
			return h, nil, nil
		}
		return h, f, nil

	case modePipeStrict:
		_, hasByte, _ := peek.Peek()
		if !hasByte {
			err := cmd.Wait()
			if err != nil {
				return h, nil, nil
			}
		}
		h.replacement = "-"
		return h, peek, nil

	default: // modePipe
		_, hasByte, _ := peek.Peek()
		if !hasByte {
			cmd.Wait()
			return h, nil, nil
		}
		h.replacement = "-"
		return h, peek, nil
	}
}

// close runs the teardown command synchronously, per §4.3/§5.
func (h *preprocessHandle) close() error {
	if h == nil {
		return nil
	}
	if h.cmd != nil && h.cmd.Process != nil {
		h.cmd.Wait()
	}
	if h.cfg.CloseCommand == "" {
		return nil
	}
	cmdline := substituteTwoPaths(h.cfg.CloseCommand, h.origPath, h.replacement)
	args, err := shlex.Split(cmdline)
	if err != nil || len(args) == 0 {
		return nil
	}
	return exec.Command(args[0], args[1:]...).Run()
}

func substitutePath(template, path string) string {
	if strings.Contains(template, "%s") {
		return strings.Replace(template, "%s", path, 1)
	}
	return template + " " + path
}

// substituteTwoPaths fills a LESSCLOSE-style template's two %s placeholders
// with the original path and its replacement (or "-"), in order, appending
// whichever are missing (§4.3).
func substituteTwoPaths(template, orig, replacement string) string {
	out := strings.Replace(template, "%s", orig, 1)
	if strings.Contains(out, "%s") {
		return strings.Replace(out, "%s", replacement, 1)
	}
	if out == template {
		// no placeholders at all
		return out + " " + orig + " " + replacement
	}
	return out + " " + replacement
}

// PeekReader buffers a single byte so callers can decide whether to keep a
// subprocess's output before committing to it (§4.3).
type PeekReader struct {
	r       io.Reader
	peeked  [1]byte
	hasByte bool
	peekErr error
	done    bool
}

func newPeekReader(r io.Reader) *PeekReader {
	return &PeekReader{r: r}
}

// Peek attempts to read (and buffer) the stream's first byte without
// consuming it, reporting whether one was available.
func (p *PeekReader) Peek() (byte, bool, error) {
	if !p.done {
		n, err := p.r.Read(p.peeked[:])
		p.hasByte = n > 0
		p.peekErr = err
		p.done = true
	}
	return p.peeked[0], p.hasByte, p.peekErr
}

// Read implements io.Reader, returning the peeked byte first if Peek was
// called, then continuing to read from the wrapped reader.
func (p *PeekReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if p.done && p.hasByte {
		b[0] = p.peeked[0]
		p.hasByte = false
		return 1, nil
	}
	if p.done && p.peekErr != nil {
		err := p.peekErr
		p.peekErr = nil
		return 0, err
	}
	return p.r.Read(b)
}

func openReplacementFile(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
