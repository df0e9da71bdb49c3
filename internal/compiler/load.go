package compiler

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/seqlattice/recomb/internal/rules"
)

// yamlTable is the on-disk YAML form of a rule table.
type yamlTable struct {
	Table struct {
		Rules map[string]yamlRule `yaml:"rules"`
	} `yaml:"table"`
}

type yamlRule struct {
	Tags     []string `yaml:"tags"`
	Weight   *float64 `yaml:"weight"`
	Penalty  float64  `yaml:"penalty"`
	Priority int      `yaml:"priority"`
}

// Load reads a rule table from disk, dispatching on extension:
// .cue for CUE sources, .yaml/.yml for the YAML form.
func Load(path string) (*rules.Table, error) {
	switch filepath.Ext(path) {
	case ".cue":
		return LoadCUE(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, fmt.Errorf("unsupported table format %q (want .cue, .yaml or .yml)", filepath.Ext(path))
	}
}

// LoadCUE compiles a single CUE file into a rule table.
func LoadCUE(path string) (*rules.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return CompileTable(v)
}

// LoadYAML decodes the YAML table form. Unknown fields are errors so a
// typo'd scoring field fails loudly instead of silently defaulting.
func LoadYAML(path string) (*rules.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	var doc yamlTable
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing table %s: %w", path, err)
	}
	if len(doc.Table.Rules) == 0 {
		return nil, fmt.Errorf("parsing table %s: rule map is empty", path)
	}

	rs := make([]rules.Rule, 0, len(doc.Table.Rules))
	for pattern, yr := range doc.Table.Rules {
		r := rules.Rule{
			Pattern:   pattern,
			Weight:    1.0,
			Penalty:   yr.Penalty,
			Priority:  yr.Priority,
			ProtoTags: yr.Tags,
		}
		if yr.Weight != nil {
			r.Weight = *yr.Weight
		}
		rs = append(rs, r)
	}

	tbl, err := rules.NewTable(rs)
	if err != nil {
		return nil, fmt.Errorf("parsing table %s: %w", path, err)
	}
	return tbl, nil
}

// MarshalYAML renders a table in the on-disk YAML form, suitable for
// feeding back into Load. Map keys are emitted sorted, so the output is
// deterministic for a given rule content.
func MarshalYAML(t *rules.Table) ([]byte, error) {
	var doc yamlTable
	doc.Table.Rules = make(map[string]yamlRule, len(t.Patterns()))
	for _, r := range t.Rules() {
		w := r.Weight
		doc.Table.Rules[r.Pattern] = yamlRule{
			Tags:     r.ProtoTags,
			Weight:   &w,
			Penalty:  r.Penalty,
			Priority: r.Priority,
		}
	}
	return yaml.Marshal(doc)
}
