// Package splice reconstructs an output sequence from a solver
// selection and verifies that the constraints still hold afterwards.
//
// The supported operation is the controlled join: concatenate the
// selected regions' symbol windows in ascending start order, then
// re-scan the joined output with the same rule table. Joining two
// windows can create a new window spanning the boundary (the k-1
// positions either side of each join), so verification scans every
// window of the output rather than trusting the pre-join tags. A
// non-conforming output is an error, never a best-effort result.
//
// The uncontrolled split mode - emitting fragments without join-time
// reverification - is representable in the request so that callers who
// ask for it get a typed refusal instead of silent nonconformance.
// Skipping verification is exactly the failure mode this engine exists
// to prevent.
package splice
