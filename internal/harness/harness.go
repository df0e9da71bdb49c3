package harness

import (
	"errors"
	"fmt"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/engine"
	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/solver"
	"github.com/seqlattice/recomb/internal/splice"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success: the pipeline result
	// matched every expect clause.
	Pass bool `json:"pass"`

	// Output is the spliced output sequence, empty on failure.
	Output string `json:"output,omitempty"`

	// Certificate is the solve's certificate, nil on failure.
	Certificate *cert.Certificate `json:"certificate,omitempty"`

	// ErrorName is the classified failure mode, empty on success.
	ErrorName string `json:"error_name,omitempty"`

	// Errors contains expectation mismatches. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// AddError adds an expectation mismatch and marks the result as failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario and validates its expect clause.
//
// Pipeline errors the scenario expects are part of a passing result;
// only harness-level problems (a table that cannot be built, malformed
// expectations) surface as a returned error.
func Run(scenario *Scenario) (*Result, error) {
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	table, err := scenario.BuildTable()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := &Result{Pass: true}

	solveResult, err := engine.SolveSequence(scenario.Sequence, scenario.K, scenario.Require, scenario.Forbid, table)
	if err != nil {
		result.ErrorName = classifyError(err)
		if scenario.Expect.Error == "" {
			result.AddError("unexpected pipeline error: %v", err)
		} else if result.ErrorName != scenario.Expect.Error {
			result.AddError("expected error %s, got %s (%v)", scenario.Expect.Error, result.ErrorName, err)
		}
		return result, nil
	}

	result.Output = solveResult.Output.String()
	result.Certificate = solveResult.Certificate

	if scenario.Expect.Error != "" {
		result.AddError("expected error %s, but solve succeeded with output %s", scenario.Expect.Error, result.Output)
		return result, nil
	}

	if result.Output != scenario.Expect.Output {
		result.AddError("expected output %s, got %s", scenario.Expect.Output, result.Output)
	}
	if len(scenario.Expect.Regions) > 0 {
		got := renderRegions(solveResult.Certificate)
		if !equalStrings(got, scenario.Expect.Regions) {
			result.AddError("expected regions %v, got %v", scenario.Expect.Regions, got)
		}
	}

	return result, nil
}

// classifyError maps a pipeline error to its scenario error name.
func classifyError(err error) string {
	switch {
	case solver.IsNoFeasibleRegion(err):
		return ErrNameNoFeasibleRegion
	case solver.IsConflictingConstraints(err):
		return ErrNameConflict
	case splice.IsConstraintViolation(err):
		return ErrNameViolation
	case errors.Is(err, splice.ErrUncontrolledFragmentation),
		errors.Is(err, splice.ErrEmptySelection):
		return ErrNameFragmentation
	case errors.Is(err, lattice.ErrWindowOutOfRange),
		errors.Is(err, lattice.ErrInvalidIndex),
		errors.Is(err, lattice.ErrEmptySequence):
		return ErrNameWindowRange
	default:
		return "UNKNOWN"
	}
}

func renderRegions(c *cert.Certificate) []string {
	out := make([]string, 0, len(c.SelectedRegions))
	for _, r := range c.SelectedRegions {
		out = append(out, fmt.Sprintf("(%d,%d)", r.Start, r.End))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
