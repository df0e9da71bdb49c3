// Package solver selects scored, non-overlapping sub-regions of a
// sequence that satisfy required/forbidden proto-tag constraints.
//
// A solve is a pure function of (sequence, k, required, forbidden,
// table snapshot, options): no clocks, no randomness, no shared state.
// Identical inputs produce identical outcomes, bit for bit.
//
// Pipeline:
//  1. Reject constraint sets where required and forbidden overlap.
//  2. Scan k-wide windows against the table (rules.Matches).
//  3. Candidates carrying a forbidden tag are excluded; their coverage
//     becomes the forbidden region set.
//  4. Every required tag must have candidate coverage, else the solve
//     is infeasible. The target is the union of required-tagged
//     coverage minus the forbidden coverage.
//  5. Candidates are clipped to the target, scored, ordered by
//     (score desc, priority asc, start asc), and consumed greedily: a
//     candidate fully inside already-selected coverage is skipped, a
//     partially covered one is clipped to its uncovered suffix.
//
// Deterministic ordering discipline: the sort is stable and every
// tie-break is explicit, so no outcome ever depends on map iteration
// or input declaration order.
package solver
