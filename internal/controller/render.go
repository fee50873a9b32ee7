package controller

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/batgo/batgo/internal/ansi"
	"github.com/batgo/batgo/internal/config"
	"github.com/batgo/batgo/internal/decorations"
	"github.com/batgo/batgo/internal/encoding"
	"github.com/batgo/batgo/internal/highlight"
	"github.com/batgo/batgo/internal/input"
	"github.com/batgo/batgo/internal/preprocess"
	"github.com/batgo/batgo/internal/ranges"
	"github.com/batgo/batgo/internal/resolver"
	"github.com/batgo/batgo/internal/sink"
	"github.com/batgo/batgo/internal/style"
	"github.com/batgo/batgo/internal/wrap"
)

// highlightedLineBg is the background painted behind a --highlight-line
// row when the active theme defines no line-highlight color; otherwise the
// theme's LineHighlight is used.
var highlightedLineBg = style.FromIndex(237)

func (c *Controller) preprocessorConfig() input.PreprocessorConfig {
	return input.PreprocessorConfig{
		Command:      c.opts.Env.LessOpen,
		CloseCommand: c.opts.Env.LessClose,
	}
}

// processOne runs one input through the full C->D->E->F->G->H->I chain and
// writes its rendered chrome and body to snk. stdoutFile is non-nil only
// when writing directly to a real file descriptor, so the I/O-loop check of
// §4.3/§8 invariant 7 can compare identities; it is nil while paging, since
// the pager -- not this input -- owns the real stdout fd at that point.
func (c *Controller) processOne(in *input.Input, snk *sink.Sink, stdoutFile *os.File) error {
	opened, err := input.Open(in, c.preprocessorConfig(), stdoutFile)
	if err != nil {
		return err
	}
	defer opened.Close()

	ct, err := opened.Reader.ContentType()
	if err != nil {
		return err
	}

	firstRaw, readErr := opened.Reader.ReadLine()
	empty := readErr == io.EOF && len(firstRaw) == 0
	if readErr != nil && readErr != io.EOF {
		return readErr
	}

	var firstLine string
	if len(firstRaw) > 0 {
		firstLine, _ = opened.Reader.Decode(firstRaw)
	}

	ref, err := resolver.Resolve(c.opts.Store, c.opts.Mapping, resolver.Options{
		ExplicitLanguage: c.opts.Config.Language,
		Path:             resolverPath(in),
		FirstLine:        firstLine,
		Guesser:          c.opts.Guesser,
	})
	switch {
	case err == resolver.ErrUndetectedSyntax:
		ref = c.opts.Store.FallbackSyntax()
	case err != nil:
		return err
	}

	isBinary := ct.Kind == encoding.Binary
	nonprintableEnabled := c.opts.Config.NonprintableNotation != ""
	disposition := decorations.Disposition(isBinary, nonprintableEnabled, empty)

	showLineNumbers := c.opts.Config.StyleComponents.Has(config.LineNumbers)
	showGrid := c.opts.Config.StyleComponents.Has(config.Grid)
	showHeader := c.opts.Config.StyleComponents.Has(config.HeaderFilename)
	panelWidth := decorations.PanelWidth(showLineNumbers, showGrid, c.opts.Config.TermWidth)
	bodyWidth := c.opts.Config.TermWidth - panelWidth
	if bodyWidth < 1 {
		bodyWidth = 1
	}

	w := snk.Writer
	if disposition.HasHeader() && showHeader {
		tag := decorations.EncodingTag(ct.Tag(), empty)
		header := decorations.HeaderLine("File", in.Description().Name, tag, ct.BinaryDescription)
		var werr error
		if showGrid {
			werr = writeLine(w, "%s%s\n", decorations.TopCorner, header)
		} else {
			werr = writeLine(w, "%s\n", header)
		}
		if werr == nil && (showGrid || showLineNumbers) {
			werr = writeLine(w, "%s%s\n", strings.Repeat("─", panelWidth), disposition.HeaderSeparator()+strings.Repeat("─", bodyWidth))
		}
		if werr != nil {
			return werr
		}
	}

	switch disposition {
	case decorations.DispositionEmptyBinary:
		return nil
	case decorations.DispositionSuppressed:
		return writeLine(w, "%s: binary content from this input (%s) is not printed; use --nonprintable-notation to force it.\n", in.Description().Name, ct.BinaryDescription)
	}

	hl := highlight.New(ref.Definition(), c.theme)

	lineNo := 0
	cursor := 0
	notation := preprocess.NotationCaret
	if c.opts.Config.NonprintableNotation == "unicode" {
		notation = preprocess.NotationUnicode
	}

	showSnip := c.opts.Config.StyleComponents.Has(config.Snip)
	var enteredFirstRange, snippedThisGap bool

	raw := firstRaw
	for {
		if raw == nil {
			break
		}
		lineNo++

		if c.opts.Visible != nil && !c.opts.Visible.Empty() {
			switch status := c.opts.Visible.Check(lineNo); status {
			case ranges.AfterLast:
				raw = nil
			case ranges.BeforeOrBetween:
				if enteredFirstRange && !snippedThisGap && showSnip {
					panel := decorations.Panel(-1, showLineNumbers, showGrid, panelWidth)
					if err := writeLine(w, "%s%s\n", panel, decorations.Snip(bodyWidth)); err != nil {
						return err
					}
					snippedThisGap = true
				}
				raw, readErr = opened.Reader.ReadLine()
				if readErr != nil {
					raw = nil
				}
				continue
			default: // ranges.InRange
				enteredFirstRange = true
				snippedThisGap = false
			}
			if raw == nil {
				break
			}
		}

		text, _ := opened.Reader.Decode(raw)

		var rendered string
		if nonprintableEnabled {
			rendered = preprocess.Render(text, notation, c.opts.Config.TabWidth, &cursor)
		} else {
			rendered = preprocess.ExpandTabs(text, c.opts.Config.TabWidth, &cursor)
		}

		var lineBg *style.Color
		if c.opts.Highlighted != nil && !c.opts.Highlighted.Empty() && c.opts.Highlighted.Check(lineNo) == ranges.InRange {
			bg := c.theme.LineHighlight
			if bg.IsDefault() {
				bg = highlightedLineBg
			}
			lineBg = &bg
		}

		regions := hl.HighlightLine(rendered)
		acc := &highlight.AnsiAccumulator{}
		var styled strings.Builder
		for _, region := range regions {
			styled.WriteString(highlight.RenderLine(region, acc, c.opts.Config.ColoredOutput, c.opts.Config.TrueColor, lineBg))
		}

		if err := c.writeBody(w, styled.String(), rendered, lineNo, showLineNumbers, showGrid, panelWidth, bodyWidth, lineBg); err != nil {
			return err
		}

		raw, readErr = opened.Reader.ReadLine()
		if readErr != nil {
			raw = nil
		}
	}

	if disposition.HasFooter() && showHeader && showGrid {
		if err := writeLine(w, "%s%s\n", strings.Repeat("─", panelWidth), "┴"+strings.Repeat("─", bodyWidth)); err != nil {
			return err
		}
	}
	return nil
}

// writeLine writes one output line (header, separator, footer, snip, rule,
// body row, or the suppressed-binary warning) and promotes a broken-pipe
// write failure to
// ignorable at the point of failure, the same way peco.go's call sites wrap
// specific named benign errors with makeIgnorable rather than relying on a
// generic check further up the call stack.
func writeLine(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			return makeIgnorable(err)
		}
		return err
	}
	return nil
}

func (c *Controller) writeBody(w io.Writer, styledLine, plainLine string, lineNo int, showLineNumbers, showGrid bool, panelWidth, bodyWidth int, lineBg *style.Color) error {
	var segs []wrap.Segment
	if c.opts.Config.WrappingMode == config.WrapCharacter {
		segs = wrap.Char(styledLine, bodyWidth)
	} else {
		segs = []wrap.Segment{{Text: wrap.NoWrap(styledLine, c.opts.Config.TermWidth, lineBg, displayWidth(plainLine))}}
	}

	for _, seg := range segs {
		n := lineNo
		if seg.IsContinuation {
			n = -1
		}
		panel := decorations.Panel(n, showLineNumbers, showGrid, panelWidth)
		// The decoded line keeps its own "\n"; writeLine supplies the row's
		// newline, so drop the line's one to print a single row.
		text := strings.Replace(seg.Text, "\n", "", 1)
		if err := writeLine(w, "%s%s\n", panel, text); err != nil {
			return err
		}
	}
	return nil
}

// displayWidth sums go-runewidth's per-rune width across s, skipping
// embedded ANSI CSI runs as zero-width -- the same accounting wrap.Char
// and preprocess.ExpandTabs apply to the line.
func displayWidth(s string) int {
	w := 0
	i := 0
	for i < len(s) {
		if ansi.IsCSIStart(s, i) {
			i = ansi.CSIEnd(s, i)
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		w += runewidth.RuneWidth(r)
		i += size
	}
	return w
}

func resolverPath(in *input.Input) string {
	if in.Kind == input.OrdinaryFile {
		return in.Path
	}
	return ""
}
