// Package cert produces the immutable audit record of one solve.
//
// A Certificate is a pure function of the solve inputs and outcome:
// the rule-table content hash, the window width, the ordered selection
// with per-region scores, the aggregate scores, and the recommendations
// derived from error-tagged patterns. No wall clock, no randomness -
// two identical solves produce byte-identical certificate records and
// identical content-addressed IDs.
//
// The certificate record is the one on-disk compatibility surface of
// the system. It serializes to canonical JSON (see the rules package)
// and hashes with the recomb/certificate/v1 domain prefix. A legacy
// line-oriented rendering (.cav) is provided for human inspection.
package cert
