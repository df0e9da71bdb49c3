// Package feedback mutates the rule table across iterations, bounded
// and auditable.
//
// The controller never touches a table in place. Analyze consumes a
// certificate plus detected error-tagged regions and produces an
// ordered recommendation set; Apply folds recommendations into a NEW
// table snapshot (version+1). Solves holding the old snapshot are
// unaffected - the table is copy-on-write.
//
// Update discipline:
//   - Per-pattern deltas are clamped to MaxDelta so the table converges
//     instead of oscillating.
//   - At most one recommendation per (pattern, field) per certificate.
//   - Applying recommendations never changes the table's pattern count.
//   - A malformed certificate is an error, not a silent skip: a skipped
//     update silently stalls convergence.
package feedback
