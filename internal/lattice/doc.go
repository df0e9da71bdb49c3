// Package lattice maps discrete sequence indices onto the span lattice:
// the closed coordinate interval [-1, 1].
//
// The mapping is the geometric foundation the region algebra builds on.
// It is pure and total over valid indices:
//
//	x(i) = 2*(i/(n-1)) - 1   for n > 1
//	x(0) = 0                 for n = 1 (degenerate, no division)
//
// Coordinates are monotonic non-decreasing in i, with x(0) = -1 and
// x(n-1) = 1 whenever n > 1. Nothing in this package depends on the
// symbol alphabet; Sequence is an immutable wrapper over the raw symbols
// with bounds-checked window extraction.
package lattice
