package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/seqlattice/recomb/internal/rules"
)

// SolveSnapshot captures the observable outcome of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type SolveSnapshot struct {
	ScenarioName string
	Output       string
	ErrorName    string
	Certificate  rules.CObject
}

// toCanonical converts a SolveSnapshot to a CObject so it can go through
// the same canonical serializer certificates use.
func (s *SolveSnapshot) toCanonical() rules.CObject {
	obj := rules.CObject{
		"scenario_name": rules.CString(s.ScenarioName),
	}
	if s.Output != "" {
		obj["output"] = rules.CString(s.Output)
	}
	if s.ErrorName != "" {
		obj["error_name"] = rules.CString(s.ErrorName)
	}
	if s.Certificate != nil {
		obj["certificate"] = s.Certificate
	}
	return obj
}

// RunWithGolden executes a scenario and compares the snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Golden files serve as the source of truth for expected solve output.
// The snapshot includes the full certificate, so any drift in scoring,
// selection order, or canonical serialization shows up as a diff.
//
// Returns error if scenario execution fails at the harness level.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	snapshot := SolveSnapshot{
		ScenarioName: scenario.Name,
		Output:       result.Output,
		ErrorName:    result.ErrorName,
	}
	if result.Certificate != nil {
		snapshot.Certificate = result.Certificate.Canonical()
	}

	data, err := rules.MarshalCanonical(snapshot.toCanonical())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
