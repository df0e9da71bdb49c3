package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/seqlattice/recomb/internal/rules"
)

// CompileTable parses a CUE value into a version-1 rule-table snapshot.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value should contain the table struct, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`table: rules: ATCG: {tags: ["cat"]}`)
//	tbl, err := CompileTable(v)
func CompileTable(v cue.Value) (*rules.Table, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	rulesVal := v.LookupPath(cue.ParsePath("table.rules"))
	if !rulesVal.Exists() {
		// Also accept the bare rule map.
		rulesVal = v.LookupPath(cue.ParsePath("rules"))
	}
	if !rulesVal.Exists() {
		return nil, &CompileError{
			Field:   "table.rules",
			Message: "rule map is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := rulesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var rs []rules.Rule
	for iter.Next() {
		r, err := compileRule(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	if len(rs) == 0 {
		return nil, &CompileError{
			Field:   "table.rules",
			Message: "at least one rule is required",
			Pos:     rulesVal.Pos(),
		}
	}

	tbl, err := rules.NewTable(rs)
	if err != nil {
		return nil, &CompileError{
			Field:   "table.rules",
			Message: err.Error(),
			Pos:     rulesVal.Pos(),
		}
	}
	return tbl, nil
}

// compileRule parses one rule struct. The pattern is the struct label;
// tags is the only required field and scoring fields default to the
// neutral values (weight 1, penalty 0, priority 0).
func compileRule(pattern string, v cue.Value) (rules.Rule, error) {
	r := rules.Rule{Pattern: pattern, Weight: 1.0}

	tagsVal := v.LookupPath(cue.ParsePath("tags"))
	if !tagsVal.Exists() {
		return r, &CompileError{
			Field:   fmt.Sprintf("rules.%s.tags", pattern),
			Message: "tags are required",
			Pos:     v.Pos(),
		}
	}
	tagIter, err := tagsVal.List()
	if err != nil {
		return r, formatCUEError(err)
	}
	for tagIter.Next() {
		tag, err := tagIter.Value().String()
		if err != nil {
			return r, formatCUEError(err)
		}
		r.ProtoTags = append(r.ProtoTags, tag)
	}

	if wv := v.LookupPath(cue.ParsePath("weight")); wv.Exists() {
		if r.Weight, err = wv.Float64(); err != nil {
			return r, formatCUEError(err)
		}
	}
	if pv := v.LookupPath(cue.ParsePath("penalty")); pv.Exists() {
		if r.Penalty, err = pv.Float64(); err != nil {
			return r, formatCUEError(err)
		}
	}
	if pv := v.LookupPath(cue.ParsePath("priority")); pv.Exists() {
		p, err := pv.Int64()
		if err != nil {
			return r, formatCUEError(err)
		}
		r.Priority = int(p)
	}

	return r, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
