// Package syntaxmapping implements §4.2: ordered glob rules that resolve a
// path to a MappingTarget, plus ignorable-suffix stripping. Matching is
// grounded on github.com/bmatcuk/doublestar/v4 (pulled from the
// standardbeagle-lci pack repo, which glob-matches paths the same way);
// doublestar has no case-fold flag, so case-insensitivity is achieved by
// lower-casing both sides before calling doublestar.Match, per §4.2.
package syntaxmapping

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// TargetKind tags the MappingTarget variant of §3.
type TargetKind int

const (
	MapTo TargetKind = iota
	MapToUnknown
	MapExtensionToUnknown
)

// MappingTarget is the tagged variant of §3.
type MappingTarget struct {
	Kind TargetKind
	Name string // only meaningful when Kind == MapTo
}

// rule is one (glob, target) pair, indexed by insertion order so that "last
// match wins" (§3 invariant) can be implemented as "maximum matching index".
type rule struct {
	glob   string
	target MappingTarget
	index  int
}

// Mapping is an ordered list of glob rules plus a set of ignorable suffixes,
// per §3. The built-in table is loaded first; user rules are appended after
// it, so they always carry a higher index and therefore win ties (§4.2).
type Mapping struct {
	rules             []rule
	ignorableSuffixes map[string]struct{}
}

// New constructs a Mapping from the built-in rule table. Additional rules
// (e.g. from --map-syntax) are added with AddUserRule, which always assigns
// a higher index than anything already present.
func New() *Mapping {
	m := &Mapping{ignorableSuffixes: map[string]struct{}{}}
	for _, br := range builtinRules {
		m.rules = append(m.rules, rule{glob: br.glob, target: br.target, index: len(m.rules)})
	}
	for _, s := range builtinIgnorableSuffixes {
		m.ignorableSuffixes[s] = struct{}{}
	}
	return m
}

// AddUserRule appends a user-supplied (glob, target) pair. User rules always
// have a higher index than built-ins and than earlier user rules, so later
// rules override earlier ones (§3 invariant, §6 "later rules override
// earlier ones").
func (m *Mapping) AddUserRule(glob string, target MappingTarget) error {
	if _, err := doublestar.Match(strings.ToLower(glob), "probe"); err != nil {
		return fmt.Errorf("invalid glob %q: %w", glob, err)
	}
	m.rules = append(m.rules, rule{glob: glob, target: target, index: len(m.rules)})
	return nil
}

// AddIgnorableSuffix registers an additional ignorable suffix (e.g. from
// --ignored-suffix).
func (m *Mapping) AddIgnorableSuffix(suffix string) {
	m.ignorableSuffixes[suffix] = struct{}{}
}

// Lookup returns the MappingTarget of the highest-index rule whose glob
// matches either the full path or the basename of p, per §4.2's "match
// twice... take the maximum matching index" algorithm. p must be an absolute
// or canonicalized path; globs treat "/" as a literal separator.
func (m *Mapping) Lookup(p string) (MappingTarget, bool) {
	base := path.Base(p)
	lowerPath := strings.ToLower(filepathToSlash(p))
	lowerBase := strings.ToLower(base)

	bestIndex := -1
	var best MappingTarget
	for _, r := range m.rules {
		g := strings.ToLower(r.glob)
		matchedPath, _ := doublestar.Match(g, lowerPath)
		matchedBase, _ := doublestar.Match(g, lowerBase)
		if (matchedPath || matchedBase) && r.index > bestIndex {
			bestIndex = r.index
			best = r.target
		}
	}
	if bestIndex < 0 {
		return MappingTarget{}, false
	}
	return best, true
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// StripIgnorableSuffixes repeatedly strips the longest matching ignorable
// suffix from name until none apply (§4.2), e.g. "foo.rs.gz.bak" with
// suffixes {.gz, .bak} becomes "foo.rs". Implemented as a simple greedy
// longest-match loop over the (typically tiny) suffix set; §4.2 describes a
// reversed-automaton for this, which is an implementation detail this
// straightforward loop is equivalent to for the corpus sizes involved here.
func (m *Mapping) StripIgnorableSuffixes(name string) string {
	for {
		stripped := false
		longest := ""
		for s := range m.ignorableSuffixes {
			if strings.HasSuffix(strings.ToLower(name), strings.ToLower(s)) && len(s) > len(longest) {
				longest = s
			}
		}
		if longest != "" {
			name = name[:len(name)-len(longest)]
			stripped = true
		}
		if !stripped {
			return name
		}
	}
}
