// Package engine wires the solve pipeline and drives the feedback loop.
//
// One solve is one synchronous, pure pipeline over immutable inputs:
//
//	constraint solve -> recommendation detection -> controlled splice
//	(with post-join verification) -> certificate generation
//
// A failed splice verification aborts the pipeline before certificate
// generation, so partial or non-conforming certificates cannot exist.
//
// The Runner drives repeated iterations: solve, analyze the certificate,
// apply the recommendations to produce the next table version. Each
// iteration is stamped with a monotonic logical sequence number - never
// a wall-clock timestamp, which would break replay comparison - and a
// run token. Iterations are bounded by a quota so a misbehaving rule
// table cannot drive an unbounded update loop; the loop also stops once
// an iteration yields no recommendations, since every later iteration
// would be identical.
//
// Concurrency: distinct solves share nothing but table snapshots, which
// are immutable. Callers may run solves for distinct sequences on
// separate goroutines against the same snapshot.
package engine
