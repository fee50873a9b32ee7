// Package syntax defines the syntax-definition data model referenced by §3
// ("Syntax reference", "SyntaxReferenceInSet") and §4.6 (the tokenizer the
// highlighter driver feeds one line at a time). A syntax definition is a
// small set of named Contexts, each an ordered list of regexp-based Rules
// that can push/pop a context stack -- the Go-idiomatic shape of the
// sublime-syntax model the glossary and original_source describe, built with
// stdlib regexp because no pack library offers the backreference/lookaround
// regex a literal sublime-syntax port would want (see DESIGN.md).
package syntax

import "regexp"

// Rule matches a scope of text within a Context and optionally changes the
// context stack.
type Rule struct {
	Scope   string
	Match   *regexp.Regexp
	Push    string // non-empty: push this context after matching
	Pop     bool   // true: pop the current context after matching
}

// Context is a named, ordered list of match rules.
type Context struct {
	Name  string
	Rules []Rule
}

// Definition is one syntax: a name, the file names/extensions that resolve
// to it directly (used by the resolver's "try by full file name" and "try by
// extension" steps, §4.4), an optional first-line regexp (§4.4 step 3), and
// its contexts.
type Definition struct {
	Name           string
	Extensions     []string
	FileNames      []string
	FirstLineMatch *regexp.Regexp
	Contexts       map[string]*Context
	MainContext    string
}

// Ref is an opaque handle into a Set, matching §3's "Syntax reference... only
// valid against the owning syntax set" -- we store the index rather than a
// pointer so a Set can be copied/rebuilt without invalidating references
// held elsewhere (an out-of-range index resolves to nil instead of
// dangling).
type Ref struct {
	index int
}

// InSet pairs a Ref with its owning Set, the "SyntaxReferenceInSet" of §3,
// so the set's lifetime always brackets any use of the reference.
type InSet struct {
	Ref Ref
	Set *Set
}

// Definition dereferences the reference against its owning set.
func (r InSet) Definition() *Definition {
	return r.Set.byIndex(r.Ref)
}

// Set is an immutable collection of syntax Definitions, looked up by name or
// by Ref.
type Set struct {
	defs    []*Definition
	byName  map[string]Ref
	fallback Ref
}

// NewSet builds a Set from a slice of definitions. The definition named
// "Plain Text" becomes the fallback syntax (§4.1 "access the fallback
// syntax").
func NewSet(defs []*Definition) *Set {
	s := &Set{byName: map[string]Ref{}}
	for _, d := range defs {
		r := Ref{index: len(s.defs)}
		s.defs = append(s.defs, d)
		s.byName[d.Name] = r
		if d.Name == "Plain Text" {
			s.fallback = r
		}
	}
	return s
}

func (s *Set) byIndex(r Ref) *Definition {
	if r.index < 0 || r.index >= len(s.defs) {
		return nil
	}
	return s.defs[r.index]
}

// ByName looks up a syntax by its canonical name.
func (s *Set) ByName(name string) (InSet, bool) {
	r, ok := s.byName[name]
	if !ok {
		return InSet{}, false
	}
	return InSet{Ref: r, Set: s}, true
}

// ByToken looks up a syntax by a user-supplied --language token: first as an
// extension, then as a case-insensitive name match, per the resolver's step
// 1 (§4.4).
func (s *Set) ByToken(token string) (InSet, bool) {
	for _, d := range s.defs {
		for _, ext := range d.Extensions {
			if ext == token {
				r := s.byName[d.Name]
				return InSet{Ref: r, Set: s}, true
			}
		}
	}
	for _, d := range s.defs {
		if equalFold(d.Name, token) {
			r := s.byName[d.Name]
			return InSet{Ref: r, Set: s}, true
		}
	}
	return InSet{}, false
}

// ByFileName looks up a syntax whose FileNames list contains name exactly
// (used for "Makefile"-style full-name matches, §4.4).
func (s *Set) ByFileName(name string) (InSet, bool) {
	for _, d := range s.defs {
		for _, fn := range d.FileNames {
			if fn == name {
				r := s.byName[d.Name]
				return InSet{Ref: r, Set: s}, true
			}
		}
	}
	return InSet{}, false
}

// ByExtension looks up a syntax by file extension (without the leading dot).
func (s *Set) ByExtension(ext string) (InSet, bool) {
	for _, d := range s.defs {
		for _, e := range d.Extensions {
			if equalFold(e, ext) {
				r := s.byName[d.Name]
				return InSet{Ref: r, Set: s}, true
			}
		}
	}
	return InSet{}, false
}

// ByFirstLine attempts first-line detection (§4.4 step 3) over the already
// decoded-and-cached prefix, trimmed to its first line by the caller.
func (s *Set) ByFirstLine(firstLine string) (InSet, bool) {
	for _, d := range s.defs {
		if d.FirstLineMatch != nil && d.FirstLineMatch.MatchString(firstLine) {
			r := s.byName[d.Name]
			return InSet{Ref: r, Set: s}, true
		}
	}
	return InSet{}, false
}

// Fallback returns the "Plain Text" syntax (§4.1).
func (s *Set) Fallback() InSet {
	return InSet{Ref: s.fallback, Set: s}
}

// Names lists all syntax names (§4.1 "iterate syntax names").
func (s *Set) Names() []string {
	out := make([]string, len(s.defs))
	for i, d := range s.defs {
		out[i] = d.Name
	}
	return out
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
