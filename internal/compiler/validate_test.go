package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqlattice/recomb/internal/rules"
)

func mustTable(t *testing.T, rs []rules.Rule) *rules.Table {
	t.Helper()
	tbl, err := rules.NewTable(rs)
	require.NoError(t, err)
	return tbl
}

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateClean(t *testing.T) {
	tbl := mustTable(t, []rules.Rule{
		{Pattern: "ATCG", Weight: 1.0, ProtoTags: []string{"cat", "healthy"}},
		{Pattern: "TTTT", Weight: 1.0, ProtoTags: []string{"error"}},
	})
	assert.Empty(t, Validate(tbl))
}

func TestValidateMixedPatternLengths(t *testing.T) {
	tbl := mustTable(t, []rules.Rule{
		{Pattern: "AT", Weight: 1.0, ProtoTags: []string{"cat"}},
		{Pattern: "ATCG", Weight: 1.0, ProtoTags: []string{"dog"}},
	})
	assert.Contains(t, codes(Validate(tbl)), ErrPatternLengthMixed)
}

func TestValidateConflictingMarkers(t *testing.T) {
	tbl := mustTable(t, []rules.Rule{
		{Pattern: "ATCG", Weight: 1.0, ProtoTags: []string{"healthy", "error"}},
	})
	assert.Contains(t, codes(Validate(tbl)), ErrConflictingMarkers)
}

func TestValidateNegativeWeight(t *testing.T) {
	tbl := mustTable(t, []rules.Rule{
		{Pattern: "ATCG", Weight: -0.5, ProtoTags: []string{"cat"}},
	})
	assert.Contains(t, codes(Validate(tbl)), ErrNegativeWeight)
}

func TestValidateEmptyTags(t *testing.T) {
	tbl := mustTable(t, []rules.Rule{
		{Pattern: "ATCG", Weight: 1.0},
	})
	errs := Validate(tbl)
	assert.Contains(t, codes(errs), ErrEmptyTags)
	assert.Equal(t, "ATCG", errs[0].Pattern)
}

func TestValidateCollectsAll(t *testing.T) {
	tbl := mustTable(t, []rules.Rule{
		{Pattern: "AT", Weight: -1.0},
		{Pattern: "ATCG", Weight: 1.0, ProtoTags: []string{"healthy", "error"}},
	})
	got := codes(Validate(tbl))
	assert.Contains(t, got, ErrPatternLengthMixed)
	assert.Contains(t, got, ErrConflictingMarkers)
	assert.Contains(t, got, ErrNegativeWeight)
	assert.Contains(t, got, ErrEmptyTags)
}
