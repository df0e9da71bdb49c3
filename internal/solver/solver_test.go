package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/rules"
)

func scenarioTable(t *testing.T) *rules.Table {
	t.Helper()
	tbl, err := rules.NewTable([]rules.Rule{
		{Pattern: "ATCG", ProtoTags: []string{"cat"}},
		{Pattern: "GGAT", ProtoTags: []string{"dog"}},
		{Pattern: "CGTA", ProtoTags: []string{"fish"}},
	})
	require.NoError(t, err)
	return tbl
}

func TestSolveWorkedScenario(t *testing.T) {
	seq := lattice.MustSequence("ATCGGATCGTAA")
	out, err := Solve(seq, 4, []string{"cat", "dog"}, []string{"fish"}, scenarioTable(t), DefaultOptions())
	require.NoError(t, err)

	var got [][2]int
	for _, s := range out.Selection {
		got = append(got, [2]int{s.Region.Start, s.Region.End})
	}
	assert.Equal(t, [][2]int{{0, 4}, {4, 7}}, got)
	assert.Equal(t, []string{"cat", "dog"}, out.SelectionTags())
	assert.NotContains(t, out.SelectionTags(), "fish")
}

func TestSolveConflictingConstraints(t *testing.T) {
	seq := lattice.MustSequence("ATCGGATCGTAA")
	_, err := Solve(seq, 4, []string{"cat", "fish"}, []string{"fish"}, scenarioTable(t), DefaultOptions())
	require.Error(t, err)
	assert.True(t, IsConflictingConstraints(err))

	var se *SolveError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{"fish"}, se.Tags)
}

func TestSolveNoFeasibleRegion(t *testing.T) {
	t.Run("required tag never matched", func(t *testing.T) {
		seq := lattice.MustSequence("ATCGGATCGTAA")
		_, err := Solve(seq, 4, []string{"unicorn"}, nil, scenarioTable(t), DefaultOptions())
		assert.True(t, IsNoFeasibleRegion(err))
	})

	t.Run("required carrier is forbidden", func(t *testing.T) {
		tbl, err := rules.NewTable([]rules.Rule{
			{Pattern: "ATCG", ProtoTags: []string{"cat", "risky"}},
		})
		require.NoError(t, err)
		seq := lattice.MustSequence("ATCGATCG")
		_, err = Solve(seq, 4, []string{"cat"}, []string{"risky"}, tbl, DefaultOptions())
		assert.True(t, IsNoFeasibleRegion(err))
	})

	t.Run("no rule matches at all", func(t *testing.T) {
		seq := lattice.MustSequence("CCCCCCCC")
		_, err := Solve(seq, 4, nil, nil, scenarioTable(t), DefaultOptions())
		assert.True(t, IsNoFeasibleRegion(err))
	})
}

func TestSolveInvalidWindowWidth(t *testing.T) {
	seq := lattice.MustSequence("ATCG")
	_, err := Solve(seq, 5, nil, nil, scenarioTable(t), DefaultOptions())
	assert.ErrorIs(t, err, lattice.ErrWindowOutOfRange)

	_, err = Solve(seq, 0, nil, nil, scenarioTable(t), DefaultOptions())
	assert.ErrorIs(t, err, lattice.ErrWindowOutOfRange)
}

func TestSolveDeterministic(t *testing.T) {
	seq := lattice.MustSequence("ATCGGATCGTAAATCGGATCGTAA")
	first, err := Solve(seq, 4, []string{"cat", "dog"}, []string{"fish"}, scenarioTable(t), DefaultOptions())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Solve(seq, 4, []string{"cat", "dog"}, []string{"fish"}, scenarioTable(t), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSolveSelectionNonOverlap(t *testing.T) {
	seq := lattice.MustSequence("ATCGGATCGTAAATCGGATCGTAA")
	out, err := Solve(seq, 4, []string{"cat", "dog"}, []string{"fish"}, scenarioTable(t), DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, out.Selection)

	for i := 1; i < len(out.Selection); i++ {
		prev, cur := out.Selection[i-1].Region, out.Selection[i].Region
		assert.LessOrEqual(t, prev.End, cur.Start,
			"selection must be ordered and non-overlapping: %s then %s", prev, cur)
	}
}

func TestSolvePenaltyLowersRank(t *testing.T) {
	seq := lattice.MustSequence("ATCGTTTT")

	solveWithPenalty := func(t *testing.T, penalty float64) *Outcome {
		t.Helper()
		tbl, err := rules.NewTable([]rules.Rule{
			{Pattern: "ATCG", ProtoTags: []string{"cat", "healthy"}},
			{Pattern: "TTTT", Penalty: penalty, Priority: 4, ProtoTags: []string{"lesion", "error", "cat"}},
		})
		require.NoError(t, err)
		out, err := Solve(seq, 4, []string{"cat"}, nil, tbl, DefaultOptions())
		require.NoError(t, err)
		return out
	}

	scoreOf := func(out *Outcome) (float64, bool) {
		for _, s := range out.Selection {
			if s.Pattern == "TTTT" {
				return s.Score, true
			}
		}
		return 0, false
	}

	// A feedback-style penalty increase strictly lowers the lesion
	// pattern's score while it remains selectable...
	before, ok := scoreOf(solveWithPenalty(t, 5.0))
	require.True(t, ok)
	after, ok := scoreOf(solveWithPenalty(t, 6.0))
	require.True(t, ok)
	assert.Less(t, after, before)

	// ...and a large enough penalty drops it below the selection
	// threshold entirely.
	_, ok = scoreOf(solveWithPenalty(t, 8.0))
	assert.False(t, ok)
}

func TestSolveMaxRegions(t *testing.T) {
	seq := lattice.MustSequence("ATCGAATCGAATCGA")
	tbl, err := rules.NewTable([]rules.Rule{
		{Pattern: "ATCG", ProtoTags: []string{"cat", "healthy"}},
	})
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxRegions = 2
	out, err := Solve(seq, 4, []string{"cat"}, nil, tbl, opts)
	require.NoError(t, err)
	assert.Len(t, out.Selection, 2)
}

func TestSolveMinScoreThreshold(t *testing.T) {
	seq := lattice.MustSequence("ATCGGATCGTAA")
	opts := DefaultOptions()
	opts.MinScore = 10 // nothing can score above this
	_, err := Solve(seq, 4, []string{"cat", "dog"}, []string{"fish"}, scenarioTable(t), opts)
	assert.True(t, IsNoFeasibleRegion(err))
}

func TestSolveHealthAndPenaltyAggregates(t *testing.T) {
	tbl, err := rules.NewTable([]rules.Rule{
		{Pattern: "ATCG", Penalty: 0.5, ProtoTags: []string{"cat", "healthy"}},
		{Pattern: "TTTT", Penalty: 5.0, ProtoTags: []string{"cat", "lesion"}},
	})
	require.NoError(t, err)
	seq := lattice.MustSequence("ATCGTTTT")

	out, err := Solve(seq, 4, []string{"cat"}, nil, tbl, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, out.Selection, 2)
	assert.InDelta(t, 0.5, out.HealthScore, 1e-12)
	assert.InDelta(t, 5.5, out.PenaltyTotal, 1e-12)
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"both empty", nil, nil, 1.0},
		{"identical", []string{"a", "b"}, []string{"a", "b"}, 1.0},
		{"disjoint", []string{"a"}, []string{"b"}, 0.0},
		{"half", []string{"cat"}, []string{"cat", "dog"}, 0.5},
		{"one empty", []string{"a"}, nil, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Jaccard(tt.a, tt.b), 1e-12)
		})
	}
}
