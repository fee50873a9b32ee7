// Package highlight implements §4.6's highlighter driver: a small
// context/pattern tokenizer that feeds a syntax.Definition one line at a
// time, carrying a context stack forward across lines, and turns the
// resulting scope spans into styled Regions ready for the wrapping engine.
//
// The tokenizer itself is grounded on the glossary's "syntax definition"
// description and on original_source's sublime-syntax-shaped grammar: named
// contexts holding ordered regexp rules that may push or pop the stack.
// stdlib regexp is used rather than a pack regex library because none of the
// examples offer backreference/lookaround syntax a sublime-syntax port would
// want; this is the one stdlib choice in the package that needs a ledger
// entry rather than a library swap.
package highlight

import (
	"github.com/batgo/batgo/internal/style"
	"github.com/batgo/batgo/internal/syntax"
	"github.com/batgo/batgo/internal/theme"
)

// maxTokenizeLen bounds worst-case per-line tokenization cost (§4.6): a line
// longer than this is emitted as a single untokenized region instead.
const maxTokenizeLen = 8 * 1024

// Region is a maximal run of a line's text rendered under one Style.
type Region struct {
	Style style.Style
	Text  string
}

// Highlighter drives one syntax.Definition against one theme.Theme, keeping
// the tokenizer's context stack alive across successive HighlightLine calls
// so that multi-line constructs (block comments, here-docs) parse correctly.
type Highlighter struct {
	def   *syntax.Definition
	theme *theme.Theme
	stack []string
}

// New creates a Highlighter starting in def's main context.
func New(def *syntax.Definition, th *theme.Theme) *Highlighter {
	return &Highlighter{
		def:   def,
		theme: th,
		stack: []string{def.MainContext},
	}
}

// HighlightLine tokenizes line against the current context stack and
// returns its Regions. Parser state carries forward to the next call.
//
// A line over maxTokenizeLen bytes is not tokenized at all: it comes back
// as a single Region under the style of whatever context is now on top of
// the stack, per §4.6's worst-case bound.
func (h *Highlighter) HighlightLine(line string) []Region {
	if len(line) > maxTokenizeLen {
		return []Region{{Style: h.theme.StyleFor(h.currentScope()), Text: line}}
	}

	var regions []Region
	pos := 0
	for pos < len(line) {
		ctx := h.context()
		if ctx == nil {
			regions = append(regions, Region{Style: h.theme.StyleFor(""), Text: line[pos:]})
			break
		}

		rule, loc := h.matchRule(ctx, line[pos:])
		if rule == nil {
			regions = append(regions, Region{Style: h.theme.StyleFor(ctx.Name), Text: line[pos:]})
			break
		}

		start, end := loc[0], loc[1]
		if start > 0 {
			regions = append(regions, Region{Style: h.theme.StyleFor(ctx.Name), Text: line[pos : pos+start]})
		}
		matched := line[pos+start : pos+end]
		regions = append(regions, Region{Style: h.theme.StyleFor(rule.Scope), Text: matched})

		// A zero-width match (e.g. a lookahead-only pop rule) must still
		// make progress, or the loop never terminates.
		advance := end
		if advance == 0 {
			advance = 1
			if pos+advance > len(line) {
				advance = len(line) - pos
			}
			if advance == 0 {
				break
			}
		}
		pos += advance

		if rule.Pop && len(h.stack) > 1 {
			h.stack = h.stack[:len(h.stack)-1]
		}
		if rule.Push != "" {
			h.stack = append(h.stack, rule.Push)
		}
	}

	if len(regions) == 0 {
		regions = append(regions, Region{Style: h.theme.StyleFor(h.currentScope()), Text: line})
	}
	return regions
}

// matchRule finds the earliest-starting match among ctx's rules (ties broken
// by rule order, matching sublime-syntax's "first rule that matches wins"
// semantics), returning nil if none match.
func (h *Highlighter) matchRule(ctx *syntax.Context, text string) (*syntax.Rule, []int) {
	var best *syntax.Rule
	var bestLoc []int
	for i := range ctx.Rules {
		r := &ctx.Rules[i]
		loc := r.Match.FindStringIndex(text)
		if loc == nil {
			continue
		}
		if bestLoc == nil || loc[0] < bestLoc[0] {
			best, bestLoc = r, loc
		}
	}
	return best, bestLoc
}

func (h *Highlighter) context() *syntax.Context {
	if len(h.stack) == 0 {
		return nil
	}
	return h.def.Contexts[h.stack[len(h.stack)-1]]
}

func (h *Highlighter) currentScope() string {
	if ctx := h.context(); ctx != nil {
		return ctx.Name
	}
	return ""
}
