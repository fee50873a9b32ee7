// Package guess implements §4.10's supplemental language guesser: the
// lightweight statistical stand-in for original_source's compiled-in ML
// model, wired into the resolver's step 3 ("if the language-guesser is
// compiled in, attempt it") as a resolver.Guesser.
//
// The pipeline is word-segment -> stem -> trigram-shingle -> hash -> Jaccard
// similarity against small per-syntax reference fingerprints shipped
// alongside the embedded syntax definitions, grounded on
// standardbeagle-lci's internal/core/trigram.go (trigram fingerprinting) and
// internal/semantic/fuzzy_matcher.go (go-edlib similarity scoring).
package guess

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/clipperhouse/uax29/v2/words"
	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// DefaultThreshold is the minimum Jaccard similarity score required before
// Guess reports a match, rather than falling through to
// resolver.ErrUndetectedSyntax.
const DefaultThreshold = 0.35

// Guesser compares a trigram-shingle fingerprint of the sniffed input prefix
// against each syntax's reference fingerprint and returns the best match
// above threshold. It satisfies internal/resolver's Guesser interface.
type Guesser struct {
	reference map[string]string // syntax name -> precomputed fingerprint string
	threshold float64
}

// New builds a Guesser from the per-syntax reference keyword lists
// (assets.Store.Fingerprints), lowercasing and stemming each keyword the way
// Guess treats its input, and precomputing each syntax's fingerprint once.
func New(referenceWords map[string][]string, threshold float64) *Guesser {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	g := &Guesser{reference: make(map[string]string, len(referenceWords)), threshold: threshold}
	for name, ws := range referenceWords {
		stems := make([]string, len(ws))
		for i, w := range ws {
			stems[i] = porter2.Stem(strings.ToLower(w))
		}
		g.reference[name] = fingerprint(stems)
	}
	return g
}

// Guess tokenizes prefix, builds its fingerprint, and returns the
// best-scoring syntax name whose reference fingerprint clears the
// threshold.
func (g *Guesser) Guess(prefix string) (string, bool) {
	tokens := tokenizeAndStem(prefix)
	if len(tokens) < 3 {
		return "", false
	}
	query := fingerprint(tokens)

	var bestName string
	var bestScore float32
	for name, ref := range g.reference {
		score, err := edlib.StringsSimilarity(query, ref, edlib.Jaccard)
		if err != nil {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestName = name
		}
	}
	if bestName == "" || float64(bestScore) < g.threshold {
		return "", false
	}
	return bestName, true
}

// tokenizeAndStem splits text into word segments with uax29's Unicode word
// boundary algorithm, keeps only alphanumeric tokens, lowercases, and
// reduces each to its Porter2 stem.
func tokenizeAndStem(text string) []string {
	var tokens []string
	seg := words.FromBytes([]byte(text))
	for seg.Next() {
		w := strings.ToLower(string(seg.Value()))
		if !isWordToken(w) {
			continue
		}
		tokens = append(tokens, porter2.Stem(w))
	}
	return tokens
}

func isWordToken(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if r >= '0' && r <= '9' {
			continue
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		return false
	}
	return true
}

// fingerprint builds a deterministic, space-joined string of hex-encoded
// xxhash digests of every trigram shingle in tokens -- a set representation
// suitable for go-edlib's Jaccard similarity, which compares its two
// arguments as whitespace-delimited token sets.
func fingerprint(tokens []string) string {
	seen := map[string]struct{}{}
	for i := 0; i+2 < len(tokens); i++ {
		shingle := tokens[i] + " " + tokens[i+1] + " " + tokens[i+2]
		h := xxhash.Sum64String(shingle)
		seen[fmt.Sprintf("%x", h)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, " ")
}
