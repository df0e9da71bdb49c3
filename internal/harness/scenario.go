package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seqlattice/recomb/internal/rules"
)

// Scenario defines a conformance test scenario: one solve request plus
// the expected observable result.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden
	// file name for snapshot comparison.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Sequence is the raw symbol sequence to solve.
	Sequence string `yaml:"sequence"`

	// K is the scan window width.
	K int `yaml:"k"`

	// Require and Forbid are the constraint tag sets.
	Require []string `yaml:"require,omitempty"`
	Forbid  []string `yaml:"forbid,omitempty"`

	// Table is the inline rule table the scenario solves against.
	Table TableSpec `yaml:"table"`

	// Expect specifies the expected result. Exactly one of Output or
	// Error should be set.
	Expect ExpectClause `yaml:"expect"`
}

// TableSpec is the inline rule-table form, mirroring the on-disk YAML
// table layout.
type TableSpec struct {
	Rules map[string]RuleSpec `yaml:"rules"`
}

// RuleSpec is one inline rule. Scoring fields default to the neutral
// values.
type RuleSpec struct {
	Tags     []string `yaml:"tags"`
	Weight   *float64 `yaml:"weight,omitempty"`
	Penalty  float64  `yaml:"penalty,omitempty"`
	Priority int      `yaml:"priority,omitempty"`
}

// ExpectClause specifies the expected pipeline result.
type ExpectClause struct {
	// Output is the expected spliced output sequence.
	Output string `yaml:"output,omitempty"`

	// Regions are the expected selected index ranges, rendered as
	// "(start,end)" with a half-open range. If empty, regions are not
	// validated.
	Regions []string `yaml:"regions,omitempty"`

	// Error names the expected failure mode. One of the Err* constants.
	Error string `yaml:"error,omitempty"`
}

// Expected error names.
const (
	ErrNameNoFeasibleRegion = "NO_FEASIBLE_REGION"
	ErrNameConflict         = "CONFLICTING_CONSTRAINTS"
	ErrNameViolation        = "CONSTRAINT_VIOLATION"
	ErrNameFragmentation    = "UNCONTROLLED_FRAGMENTATION"
	ErrNameWindowRange      = "WINDOW_OUT_OF_RANGE"
)

// BuildTable constructs the rule-table snapshot from the inline spec.
func (s *Scenario) BuildTable() (*rules.Table, error) {
	rs := make([]rules.Rule, 0, len(s.Table.Rules))
	for pattern, spec := range s.Table.Rules {
		r := rules.Rule{
			Pattern:   pattern,
			Weight:    1.0,
			Penalty:   spec.Penalty,
			Priority:  spec.Priority,
			ProtoTags: spec.Tags,
		}
		if spec.Weight != nil {
			r.Weight = *spec.Weight
		}
		rs = append(rs, r)
	}
	return rules.NewTable(rs)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate checks scenario structural requirements.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if s.Sequence == "" {
		return fmt.Errorf("scenario %s: sequence is required", s.Name)
	}
	if s.K < 1 {
		return fmt.Errorf("scenario %s: k must be at least 1", s.Name)
	}
	if len(s.Table.Rules) == 0 {
		return fmt.Errorf("scenario %s: table rules are required", s.Name)
	}
	if (s.Expect.Output == "") == (s.Expect.Error == "") {
		return fmt.Errorf("scenario %s: expect exactly one of output or error", s.Name)
	}
	return nil
}
