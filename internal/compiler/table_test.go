package compiler

import (
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seqlattice/recomb/internal/rules"
)

func compileString(t *testing.T, src string) (*rules.Table, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	return CompileTable(v)
}

func TestCompileTable(t *testing.T) {
	tbl, err := compileString(t, `
table: rules: {
	ATCG: {tags: ["cat", "healthy"], weight: 1.5}
	TTTT: {tags: ["error"], penalty: 2.0, priority: 3}
}`)
	require.NoError(t, err)

	assert.Equal(t, int64(1), tbl.Version())
	assert.Equal(t, []string{"ATCG", "TTTT"}, tbl.Patterns())

	atcg, ok := tbl.Lookup("ATCG")
	require.True(t, ok)
	assert.Equal(t, 1.5, atcg.Weight)
	assert.Equal(t, []string{"cat", "healthy"}, atcg.ProtoTags)
	assert.Equal(t, 0.0, atcg.Penalty)
	assert.Equal(t, 0, atcg.Priority)

	tttt, ok := tbl.Lookup("TTTT")
	require.True(t, ok)
	assert.Equal(t, 1.0, tttt.Weight) // default
	assert.Equal(t, 2.0, tttt.Penalty)
	assert.Equal(t, 3, tttt.Priority)
}

func TestCompileTableBareRuleMap(t *testing.T) {
	tbl, err := compileString(t, `rules: ATCG: tags: ["cat"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"ATCG"}, tbl.Patterns())
}

func TestCompileTableMissingRules(t *testing.T) {
	_, err := compileString(t, `other: 1`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "table.rules", ce.Field)
}

func TestCompileTableEmptyRuleMap(t *testing.T) {
	_, err := compileString(t, `table: rules: {}`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Message, "at least one rule")
}

func TestCompileTableMissingTags(t *testing.T) {
	_, err := compileString(t, `table: rules: ATCG: weight: 1.0`)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "rules.ATCG.tags", ce.Field)
}

func TestCompileTableBadTagType(t *testing.T) {
	_, err := compileString(t, `table: rules: ATCG: tags: [1, 2]`)
	assert.Error(t, err)
}
