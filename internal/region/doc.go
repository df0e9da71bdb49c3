// Package region implements the tagged interval algebra over sequence
// index ranges.
//
// A Region is an immutable half-open index range [Start, End) carrying a
// sorted proto-tag set. A Set is a normalized collection of regions:
// ascending by start, then end, then tags, with exact duplicates removed
// and same-tag overlapping or adjacent ranges merged. Regions with
// different tag sets may overlap freely; they remain distinct layers
// (the union discipline chosen here) rather than being flattened into
// combined tag sets.
//
// Operation semantics:
//
//   - Union:      all layers of both sets, renormalized.
//   - Intersect:  elementary segments covered by both sets, tagged with
//     the intersection of the active tag unions on each side.
//   - Difference: each left region minus the merged coverage of the
//     right set; surviving pieces keep the left region's tags.
//   - Overlap:    O(1) half-open range test.
//
// Union and Intersect are commutative and associative. All operations
// run as sweeps over sorted endpoints, O(C log C) in the number of
// interval boundaries, and produce deterministic output ordering so
// identical inputs always yield identical results.
package region
