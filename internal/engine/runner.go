package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/seqlattice/recomb/internal/feedback"
	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/rules"
)

// Iteration is the report of one solve/analyze/apply cycle.
type Iteration struct {
	Seq           int64        // logical clock stamp
	Table         *rules.Table // snapshot the solve read
	TableVersion  int64        // version of that snapshot
	CertificateID string       // content-addressed certificate identity
	Output        string
	Applied       int // number of recommendations applied
	Result        *Result
}

// RunReport summarizes a bounded feedback run.
type RunReport struct {
	RunID      string
	Iterations []Iteration
	Final      *rules.Table // table version after the last apply
	Converged  bool         // true when the run stopped on an empty recommendation set
}

// RunTokenGenerator produces run tokens. The token identifies a run in
// reports and persisted records; it is identity, not ordering - ordering
// comes from the clock.
type RunTokenGenerator interface {
	Generate() string
}

// UUIDGenerator is the production token source: a random UUID per run.
type UUIDGenerator struct{}

func (UUIDGenerator) Generate() string {
	return uuid.NewString()
}

// Runner drives the open-ended feedback loop under an iteration quota.
// The zero value is not usable; construct with NewRunner.
type Runner struct {
	clock *Clock
	quota *QuotaEnforcer
	runID string
}

// NewRunner creates a runner with a fresh logical clock, the given
// iteration limit, and a UUID run token.
func NewRunner(maxIterations int) *Runner {
	return NewRunnerWithTokens(maxIterations, UUIDGenerator{})
}

// NewRunnerWithTokens is NewRunner with an explicit token source.
// Tests use a fixed generator to get reproducible run identities.
func NewRunnerWithTokens(maxIterations int, gen RunTokenGenerator) *Runner {
	return &Runner{
		clock: NewClock(),
		quota: NewQuotaEnforcer(maxIterations),
		runID: gen.Generate(),
	}
}

// RunID returns the run token.
func (r *Runner) RunID() string {
	return r.runID
}

// Run executes solve/analyze/apply cycles over seq until the quota is
// reached or an iteration produces no recommendations (converged).
// Each cycle reads one table snapshot and applies its recommendations
// to produce the next; req.Table is never mutated.
func (r *Runner) Run(req Request) (*RunReport, error) {
	req = req.withDefaults()
	report := &RunReport{RunID: r.runID, Final: req.Table}

	table := req.Table
	for {
		if err := r.quota.Check(r.runID); err != nil {
			return report, err
		}

		iterReq := req
		iterReq.Table = table
		result, err := Solve(iterReq)
		if err != nil {
			return report, fmt.Errorf("iteration %d: %w", r.clock.Current()+1, err)
		}

		certID, err := result.Certificate.ID()
		if err != nil {
			return report, fmt.Errorf("iteration %d: %w", r.clock.Current()+1, err)
		}

		iter := Iteration{
			Seq:           r.clock.Next(),
			Table:         table,
			TableVersion:  table.Version(),
			CertificateID: certID,
			Output:        result.Output.String(),
			Result:        result,
		}

		recs := result.Certificate.Recommendations
		if len(recs) == 0 {
			report.Iterations = append(report.Iterations, iter)
			report.Final = table
			report.Converged = true
			return report, nil
		}

		next, err := feedback.Apply(table, recs, *req.Feedback)
		if err != nil {
			return report, fmt.Errorf("iteration %d: %w", iter.Seq, err)
		}
		iter.Applied = len(recs)
		report.Iterations = append(report.Iterations, iter)
		table = next
		report.Final = table
	}
}

// SolveSequence is a convenience for one-shot callers: parse the raw
// symbols and run a single solve against the snapshot.
func SolveSequence(symbols string, k int, required, forbidden []string, table *rules.Table) (*Result, error) {
	seq, err := lattice.NewSequence(symbols)
	if err != nil {
		return nil, err
	}
	return Solve(Request{Sequence: seq, K: k, Required: required, Forbidden: forbidden, Table: table})
}
