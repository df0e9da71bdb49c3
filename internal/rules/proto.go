package rules

import (
	"fmt"
	"slices"

	"github.com/seqlattice/recomb/internal/lattice"
)

// Match is one rule hit: a window at a half-open index range whose
// symbols exactly equal the rule's pattern.
type Match struct {
	Start int // window start index
	End   int // exclusive; always Start + k
	Rule  Rule
}

// WindowTags maps the k-wide window at index i to its proto tag set.
// Matching is exact-window lookup; an unmatched window yields the empty
// set (nil), not an error. Errors are reserved for out-of-range windows.
func (t *Table) WindowTags(seq lattice.Sequence, i, k int) ([]string, error) {
	window, err := seq.Window(i, k)
	if err != nil {
		return nil, err
	}
	r, ok := t.rules[window]
	if !ok {
		return nil, nil
	}
	return slices.Clone(r.ProtoTags), nil
}

// Matches scans every k-wide window of seq and returns the rule hits in
// ascending start order. Window width must satisfy 1 <= k <= len(seq).
func (t *Table) Matches(seq lattice.Sequence, k int) ([]Match, error) {
	n := seq.Len()
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: k=%d, n=%d", lattice.ErrWindowOutOfRange, k, n)
	}
	var matches []Match
	for i := 0; i+k <= n; i++ {
		window, err := seq.Window(i, k)
		if err != nil {
			return nil, err
		}
		if r, ok := t.rules[window]; ok {
			matches = append(matches, Match{Start: i, End: i + k, Rule: r})
		}
	}
	return matches, nil
}

// ScanTags returns the union of proto tags over all k-wide windows of
// seq, sorted. This is the tag set "of" a sequence: the prototype view
// the solver and the post-splice verifier both use.
func (t *Table) ScanTags(seq lattice.Sequence, k int) ([]string, error) {
	matches, err := t.Matches(seq, k)
	if err != nil {
		return nil, err
	}
	var tags []string
	for _, m := range matches {
		tags = append(tags, m.Rule.ProtoTags...)
	}
	return NormalizeTags(tags), nil
}
