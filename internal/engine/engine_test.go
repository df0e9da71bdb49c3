package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/solver"
	"github.com/seqlattice/recomb/internal/splice"
	"github.com/seqlattice/recomb/internal/testutil"
)

func scenarioTable(t *testing.T) *rules.Table {
	t.Helper()
	tbl, err := rules.NewTable([]rules.Rule{
		{Pattern: "ATCG", Weight: 1.0, ProtoTags: []string{"cat"}},
		{Pattern: "GGAT", Weight: 1.0, ProtoTags: []string{"dog"}},
		{Pattern: "CGTA", Weight: 1.0, ProtoTags: []string{"fish"}},
	})
	require.NoError(t, err)
	return tbl
}

func scenarioRequest(t *testing.T) Request {
	t.Helper()
	return Request{
		Sequence:  lattice.MustSequence("ATCGGATCGTAA"),
		K:         4,
		Required:  []string{"cat", "dog"},
		Forbidden: []string{"fish"},
		Table:     scenarioTable(t),
	}
}

func TestSolvePipeline(t *testing.T) {
	res, err := Solve(scenarioRequest(t))
	require.NoError(t, err)

	assert.Equal(t, "ATCGGAT", res.Output.String())
	require.NotNil(t, res.Certificate)
	assert.Equal(t, scenarioTable(t).MustHash(), res.Certificate.TableHash)
	assert.Equal(t, 4, res.Certificate.K)
	assert.Empty(t, res.Certificate.Recommendations)
	require.Len(t, res.Outcome.Selection, 2)
}

func TestSolveDeterministicCertificate(t *testing.T) {
	a, err := Solve(scenarioRequest(t))
	require.NoError(t, err)
	b, err := Solve(scenarioRequest(t))
	require.NoError(t, err)

	assert.Equal(t, a.Output.String(), b.Output.String())
	assert.Equal(t, a.Certificate.MustID(), b.Certificate.MustID())
}

func TestSolveExplicitZeroOptions(t *testing.T) {
	// A non-nil all-zero Options is honored, not replaced by the
	// defaults: every candidate scores 0, nothing clears the minimum.
	req := scenarioRequest(t)
	req.Solver = &solver.Options{}

	_, err := Solve(req)
	assert.True(t, solver.IsNoFeasibleRegion(err))
}

func TestSolveNilTable(t *testing.T) {
	req := scenarioRequest(t)
	req.Table = nil

	_, err := Solve(req)
	assert.ErrorIs(t, err, ErrNilTable)
}

func TestSolveRefusesSplitMode(t *testing.T) {
	req := scenarioRequest(t)
	req.Mode = splice.ModeSplit

	_, err := Solve(req)
	assert.ErrorIs(t, err, splice.ErrUncontrolledFragmentation)
}

func TestSolveSequence(t *testing.T) {
	res, err := SolveSequence("ATCGGATCGTAA", 4, []string{"cat", "dog"}, []string{"fish"}, scenarioTable(t))
	require.NoError(t, err)
	assert.Equal(t, "ATCGGAT", res.Output.String())

	_, err = SolveSequence("", 4, nil, nil, scenarioTable(t))
	assert.ErrorIs(t, err, lattice.ErrEmptySequence)
}

func errorLoopRequest(t *testing.T) Request {
	t.Helper()
	tbl, err := rules.NewTable([]rules.Rule{
		{Pattern: "ATCG", Weight: 1.0, ProtoTags: []string{"cat", "healthy"}},
		{Pattern: "TTTT", Weight: 1.0, ProtoTags: []string{"cat", "error"}},
	})
	require.NoError(t, err)
	return Request{
		Sequence: lattice.MustSequence("TTTTATCG"),
		K:        4,
		Required: []string{"cat"},
		Table:    tbl,
	}
}

// Each cycle the error-tagged pattern picks up penalty until its score
// falls below the selection floor; the run then produces no
// recommendations and stops.
func TestRunnerConverges(t *testing.T) {
	runner := NewRunner(20)
	report, err := runner.Run(errorLoopRequest(t))
	require.NoError(t, err)

	assert.True(t, report.Converged)
	require.NotEmpty(t, report.Iterations)

	first := report.Iterations[0]
	assert.Equal(t, int64(1), first.Seq)
	assert.Equal(t, int64(1), first.TableVersion)
	assert.Equal(t, 2, first.Applied)
	assert.Equal(t, "TTTTATCG", first.Output)

	last := report.Iterations[len(report.Iterations)-1]
	assert.Equal(t, 0, last.Applied)
	assert.Equal(t, "ATCG", last.Output)

	// Penalty grows by the clamp each apply until the pattern drops out.
	final, ok := report.Final.Lookup("TTTT")
	require.True(t, ok)
	assert.GreaterOrEqual(t, final.Penalty, 10.0)
	assert.Equal(t, report.Final.Version(), int64(1+len(report.Iterations)-1))

	// Pattern count is stable across the whole run.
	assert.Equal(t, 2, report.Final.Len())
}

func TestRunnerQuotaExceeded(t *testing.T) {
	runner := NewRunner(3)
	report, err := runner.Run(errorLoopRequest(t))

	require.Error(t, err)
	assert.True(t, IsIterationsExceeded(err))
	assert.False(t, report.Converged)
	assert.Len(t, report.Iterations, 3)
}

func TestRunnerDeterministicIterations(t *testing.T) {
	a, err := NewRunner(20).Run(errorLoopRequest(t))
	require.NoError(t, err)
	b, err := NewRunner(20).Run(errorLoopRequest(t))
	require.NoError(t, err)

	require.Equal(t, len(a.Iterations), len(b.Iterations))
	for i := range a.Iterations {
		assert.Equal(t, a.Iterations[i].CertificateID, b.Iterations[i].CertificateID)
		assert.Equal(t, a.Iterations[i].Output, b.Iterations[i].Output)
	}
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestRunnerFixedToken(t *testing.T) {
	gen := testutil.NewFixedRunTokenGenerator("run-fixed-1")
	runner := NewRunnerWithTokens(20, gen)
	assert.Equal(t, "run-fixed-1", runner.RunID())

	report, err := runner.Run(errorLoopRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "run-fixed-1", report.RunID)
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	resumed := NewClockAt(41)
	assert.Equal(t, int64(42), resumed.Next())
}

func TestQuotaEnforcer(t *testing.T) {
	q := NewQuotaEnforcer(2)
	require.NoError(t, q.Check("run-1"))
	require.NoError(t, q.Check("run-1"))

	err := q.Check("run-1")
	require.Error(t, err)
	assert.True(t, IsIterationsExceeded(err))

	var ie *IterationsExceededError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "run-1", ie.RunID)
	assert.Equal(t, 3, ie.Iterations)
	assert.Equal(t, 2, ie.Limit)
}
