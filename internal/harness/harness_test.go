package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
	require.NoError(t, err)
	return s
}

func TestLoadScenario(t *testing.T) {
	s := loadTestScenario(t, "worked_example")

	assert.Equal(t, "worked_example", s.Name)
	assert.Equal(t, "ATCGGATCGTAA", s.Sequence)
	assert.Equal(t, 4, s.K)
	assert.Equal(t, []string{"cat", "dog"}, s.Require)
	assert.Equal(t, []string{"fish"}, s.Forbid)
	assert.Len(t, s.Table.Rules, 3)
	assert.Equal(t, "ATCGGAT", s.Expect.Output)
	assert.Equal(t, []string{"(0,4)", "(4,7)"}, s.Expect.Regions)
}

func TestLoadScenarioNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join("testdata", "scenarios", "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestLoadScenarioRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	data := []byte("name: typo\nsequence: ATCG\nk: 4\nrequired: [cat]\ntable:\n  rules:\n    ATCG:\n      tags: [cat]\nexpect:\n  output: ATCG\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err := LoadScenario(path)
	assert.ErrorContains(t, err, "required")
}

func TestValidate(t *testing.T) {
	base := func() *Scenario {
		return &Scenario{
			Name:     "valid",
			Sequence: "ATCG",
			K:        4,
			Table:    TableSpec{Rules: map[string]RuleSpec{"ATCG": {Tags: []string{"cat"}}}},
			Expect:   ExpectClause{Output: "ATCG"},
		}
	}

	assert.NoError(t, base().Validate())

	missingName := base()
	missingName.Name = ""
	assert.Error(t, missingName.Validate())

	missingSeq := base()
	missingSeq.Sequence = ""
	assert.Error(t, missingSeq.Validate())

	badK := base()
	badK.K = 0
	assert.Error(t, badK.Validate())

	noRules := base()
	noRules.Table.Rules = nil
	assert.Error(t, noRules.Validate())

	bothExpects := base()
	bothExpects.Expect.Error = ErrNameConflict
	assert.Error(t, bothExpects.Validate())

	neitherExpect := base()
	neitherExpect.Expect = ExpectClause{}
	assert.Error(t, neitherExpect.Validate())
}

func TestRunWorkedExample(t *testing.T) {
	result, err := Run(loadTestScenario(t, "worked_example"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "expectation mismatches: %v", result.Errors)
	assert.Equal(t, "ATCGGAT", result.Output)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, 4, result.Certificate.K)
	assert.Empty(t, result.ErrorName)
}

func TestRunExpectedError(t *testing.T) {
	result, err := Run(loadTestScenario(t, "conflicting_constraints"))
	require.NoError(t, err)

	assert.True(t, result.Pass, "expectation mismatches: %v", result.Errors)
	assert.Equal(t, ErrNameConflict, result.ErrorName)
	assert.Empty(t, result.Output)
	assert.Nil(t, result.Certificate)
}

func TestRunOutputMismatch(t *testing.T) {
	s := loadTestScenario(t, "worked_example")
	s.Expect.Output = "TTTT"

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "TTTT")
}

func TestRunRegionMismatch(t *testing.T) {
	s := loadTestScenario(t, "worked_example")
	s.Expect.Regions = []string{"(0,4)"}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.NotEmpty(t, result.Errors)
}

func TestRunUnexpectedError(t *testing.T) {
	s := loadTestScenario(t, "conflicting_constraints")
	s.Expect = ExpectClause{Output: "ATCG"}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, ErrNameConflict, result.ErrorName)
}

func TestRunUnexpectedSuccess(t *testing.T) {
	s := loadTestScenario(t, "worked_example")
	s.Expect = ExpectClause{Error: ErrNameNoFeasibleRegion}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
}
