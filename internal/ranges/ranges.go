// Package ranges implements LineRange/LineRanges from §3 and the grammar of
// §6, grounded on peco's selection.Set (selection/selection.go): the same
// "ordered set backed by a google/btree.BTree, Ascend to walk it" shape,
// generalized from "selected line IDs" to "visible line intervals".
package ranges

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/btree"
)

// unbounded marks an open end of a range. Using 0/-1 sentinels (as the
// teacher's int-based APIs do) would collide with real line numbers, so we
// use an explicit flag per §9's recommendation ("a pair of half-open bounds
// with an explicit unbounded variant").
type bound struct {
	val       int
	unbounded bool
}

func boundedAt(v int) bound { return bound{val: v} }
func unboundedBound() bound { return bound{unbounded: true} }

// LineRange is an inclusive [start, end] interval over 1-based line numbers,
// with either end allowed to be Unbounded.
type LineRange struct {
	start bound
	end   bound
}

// Less implements btree.Item so LineRanges can keep ranges ordered by start,
// exactly as selection.Set orders line.Line by ID (selection/selection.go).
// Per §9, an inclusive-N start sorts the same as an exclusive-(N+1) start
// would, so overlapping/adjacent ranges compare by their start bound alone
// and ties are broken by end bound to keep Ascend order stable.
func (r LineRange) Less(than btree.Item) bool {
	o := than.(LineRange)
	if r.start.unbounded != o.start.unbounded {
		return r.start.unbounded
	}
	if r.start.val != o.start.val {
		return r.start.val < o.start.val
	}
	if r.end.unbounded != o.end.unbounded {
		return o.end.unbounded
	}
	return r.end.val < o.end.val
}

// Parse parses one of the forms N, N:, :N, N:M, N:+K, N:-K (§6).
func Parse(s string) (LineRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return LineRange{}, fmt.Errorf("empty line range")
	}
	if !strings.Contains(s, ":") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
		}
		return LineRange{start: boundedAt(n), end: boundedAt(n)}, nil
	}

	parts := strings.SplitN(s, ":", 2)
	left, right := parts[0], parts[1]

	if left == "" {
		n, err := strconv.Atoi(right)
		if err != nil {
			return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
		}
		return LineRange{start: unboundedBound(), end: boundedAt(n)}, nil
	}

	n, err := strconv.Atoi(left)
	if err != nil {
		return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
	}

	switch {
	case right == "":
		return LineRange{start: boundedAt(n), end: unboundedBound()}, nil
	case strings.HasPrefix(right, "+"):
		k, err := strconv.Atoi(right[1:])
		if err != nil {
			return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
		}
		return LineRange{start: boundedAt(n), end: boundedAt(n + k)}, nil
	case strings.HasPrefix(right, "-"):
		k, err := strconv.Atoi(right[1:])
		if err != nil {
			return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
		}
		start := n - k
		if start < 0 {
			start = 0
		}
		return LineRange{start: boundedAt(start), end: boundedAt(n)}, nil
	default:
		m, err := strconv.Atoi(right)
		if err != nil {
			return LineRange{}, fmt.Errorf("invalid line range %q: %w", s, err)
		}
		return LineRange{start: boundedAt(n), end: boundedAt(m)}, nil
	}
}

// Format renders a LineRange back into one of the §6 grammar forms. It is
// the inverse of Parse, satisfying the round-trip property of §8.
func (r LineRange) Format() string {
	switch {
	case !r.start.unbounded && !r.end.unbounded && r.start.val == r.end.val:
		return strconv.Itoa(r.start.val)
	case r.start.unbounded:
		return ":" + strconv.Itoa(r.end.val)
	case r.end.unbounded:
		return strconv.Itoa(r.start.val) + ":"
	default:
		return strconv.Itoa(r.start.val) + ":" + strconv.Itoa(r.end.val)
	}
}

func (r LineRange) contains(n int) bool {
	if !r.start.unbounded && n < r.start.val {
		return false
	}
	if !r.end.unbounded && n > r.end.val {
		return false
	}
	return true
}

// Status is the result of LineRanges.Check, per §3.
type Status int

const (
	InRange Status = iota
	BeforeOrBetween
	AfterLast
)

// LineRanges is an ordered set of LineRange, backed by a btree.BTree exactly
// as selection.Set backs an ordered set of line.Line (selection/selection.go).
// Typical counts are 1-3 (per §9), so Ascend's linear scan is the right tool.
type LineRanges struct {
	tree *btree.BTree
}

// New creates an empty LineRanges. An empty LineRanges matches every line
// (no restriction), mirroring the CLI's "no --line-range given" default.
func New(rs ...LineRange) *LineRanges {
	lr := &LineRanges{tree: btree.New(8)}
	for _, r := range rs {
		lr.tree.ReplaceOrInsert(r)
	}
	return lr
}

// Empty reports whether no ranges were configured.
func (lr *LineRanges) Empty() bool {
	return lr.tree.Len() == 0
}

// Check reports where n falls relative to the configured ranges, per §3.
// Monotonicity (invariant 3 of §8): once Check returns AfterLast for n, it
// returns AfterLast for every m >= n, because ranges are walked in
// ascending-start order and the last range's end is fixed.
func (lr *LineRanges) Check(n int) Status {
	if lr.Empty() {
		return InRange
	}

	inside := false
	allEnded := true
	lr.tree.Ascend(func(it btree.Item) bool {
		r := it.(LineRange)
		if r.contains(n) {
			inside = true
			return false
		}
		if r.end.unbounded || n <= r.end.val {
			allEnded = false
		}
		return true
	})
	if inside {
		return InRange
	}
	if allEnded {
		return AfterLast
	}
	return BeforeOrBetween
}

// All returns the configured ranges in ascending order.
func (lr *LineRanges) All() []LineRange {
	out := make([]LineRange, 0, lr.tree.Len())
	lr.tree.Ascend(func(it btree.Item) bool {
		out = append(out, it.(LineRange))
		return true
	})
	return out
}
