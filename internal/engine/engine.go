package engine

import (
	"errors"
	"fmt"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/feedback"
	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/solver"
	"github.com/seqlattice/recomb/internal/splice"
)

// ErrNilTable indicates a solve request without a table snapshot.
var ErrNilTable = errors.New("engine: nil rule table")

// Request carries everything one solve reads. The table is a snapshot:
// the solve never observes updates applied concurrently.
type Request struct {
	Sequence  lattice.Sequence
	K         int
	Required  []string
	Forbidden []string
	Table     *rules.Table

	// Solver and Feedback override the reference behavior; nil selects
	// the documented defaults. A non-nil all-zero Options is honored
	// as given.
	Solver   *solver.Options
	Feedback *feedback.Options

	// Mode defaults to the controlled splice. Requesting splice.ModeSplit
	// fails with ErrUncontrolledFragmentation.
	Mode splice.Mode
}

// withDefaults fills nil option blocks with the reference defaults.
func (r Request) withDefaults() Request {
	if r.Solver == nil {
		o := solver.DefaultOptions()
		r.Solver = &o
	}
	if r.Feedback == nil {
		o := feedback.DefaultOptions()
		r.Feedback = &o
	}
	return r
}

// Result is a successful solve: the spliced output, the solver outcome,
// and the certificate. All three are immutable.
type Result struct {
	Output      lattice.Sequence
	Outcome     *solver.Outcome
	Certificate *cert.Certificate
}

// Solve runs the full pipeline for one request.
//
// Any failure returns no output and no certificate: conformance is
// all-or-nothing, and a verification failure is never downgraded to a
// best-effort result.
func Solve(req Request) (*Result, error) {
	req = req.withDefaults()
	if req.Table == nil {
		return nil, ErrNilTable
	}

	outcome, err := solver.Solve(req.Sequence, req.K, req.Required, req.Forbidden, req.Table, *req.Solver)
	if err != nil {
		return nil, err
	}

	output, err := splice.Join(req.Sequence, outcome, req.Required, req.Forbidden, req.Table, req.Mode)
	if err != nil {
		return nil, err
	}

	recs := feedback.Detect(outcome.Selection, req.Table, *req.Feedback)
	certificate, err := cert.Generate(outcome, req.Table, recs)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	return &Result{Output: output, Outcome: outcome, Certificate: certificate}, nil
}
