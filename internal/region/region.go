package region

import (
	"fmt"
	"slices"
	"strings"

	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/rules"
)

// Region is a tagged half-open index range [Start, End).
// Regions are values: never mutated, a derived region is a new value.
type Region struct {
	Start int
	End   int
	Tags  []string // sorted, unique
}

// New constructs a region with a normalized tag set.
func New(start, end int, tags []string) Region {
	return Region{Start: start, End: end, Tags: rules.NormalizeTags(tags)}
}

// Len returns the number of index positions covered.
func (r Region) Len() int {
	return r.End - r.Start
}

// Empty reports whether the region covers no index positions.
func (r Region) Empty() bool {
	return r.End <= r.Start
}

// HasTag reports whether the region carries the given tag.
func (r Region) HasTag(tag string) bool {
	_, found := slices.BinarySearch(r.Tags, tag)
	return found
}

// Span maps the region's index range onto the span lattice of an
// n-symbol sequence, returning the coordinates of the first and last
// covered index.
func (r Region) Span(n int) (x0, x1 float64, err error) {
	x0, err = lattice.Coord(n, r.Start)
	if err != nil {
		return 0, 0, err
	}
	x1, err = lattice.Coord(n, r.End-1)
	if err != nil {
		return 0, 0, err
	}
	return x0, x1, nil
}

// String renders the region for diagnostics, e.g. "[3,7){dog}".
func (r Region) String() string {
	return fmt.Sprintf("[%d,%d){%s}", r.Start, r.End, strings.Join(r.Tags, ","))
}

// Overlap reports whether two regions share any index position.
// Adjacent half-open ranges ([0,4) and [4,7)) do not overlap.
func Overlap(a, b Region) bool {
	return a.Start < b.End && b.Start < a.End
}

// sameTags reports tag-set equality for two normalized tag slices.
func sameTags(a, b []string) bool {
	return slices.Equal(a, b)
}

// compare orders regions by start, then end, then tags.
// This is the deterministic output order of every Set.
func compare(a, b Region) int {
	if a.Start != b.Start {
		return a.Start - b.Start
	}
	if a.End != b.End {
		return a.End - b.End
	}
	return slices.Compare(a.Tags, b.Tags)
}
