package compiler

import (
	"fmt"

	"github.com/seqlattice/recomb/internal/rules"
)

// Validation error codes (E100-E199)
const (
	ErrPatternLengthMixed = "E101" // patterns of differing lengths
	ErrConflictingMarkers = "E102" // rule tagged both healthy and error
	ErrNegativeWeight     = "E103" // weight below zero
	ErrEmptyTags          = "E104" // rule with no tags
)

// ValidationError represents a table semantic error.
type ValidationError struct {
	Pattern string `json:"pattern"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Pattern, e.Message)
}

// Validate checks table semantics beyond what construction enforces.
// Returns all errors found (does not fail-fast).
//
// Construction already rejects empty and duplicate patterns; this pass
// catches the mistakes a structurally valid table can still carry:
// mixed pattern lengths (a pattern longer or shorter than the scan
// window never matches), a rule marked both healthy and error, negative
// weights, and tagless rules that can never satisfy a constraint.
func Validate(t *rules.Table) []ValidationError {
	var errs []ValidationError

	patterns := t.Patterns()
	if len(patterns) > 1 {
		want := len(patterns[0])
		for _, p := range patterns[1:] {
			if len(p) != want {
				errs = append(errs, ValidationError{
					Pattern: p,
					Message: fmt.Sprintf("pattern length %d differs from %d; only one length can match a scan window", len(p), want),
					Code:    ErrPatternLengthMixed,
				})
			}
		}
	}

	for _, r := range t.Rules() {
		if r.HasTag(rules.TagHealthy) && r.HasTag(rules.TagError) {
			errs = append(errs, ValidationError{
				Pattern: r.Pattern,
				Message: "rule carries both the healthy and error markers",
				Code:    ErrConflictingMarkers,
			})
		}
		if r.Weight < 0 {
			errs = append(errs, ValidationError{
				Pattern: r.Pattern,
				Message: fmt.Sprintf("weight must be non-negative, got %v", r.Weight),
				Code:    ErrNegativeWeight,
			})
		}
		if len(r.ProtoTags) == 0 {
			errs = append(errs, ValidationError{
				Pattern: r.Pattern,
				Message: "rule has no tags and can never satisfy a constraint",
				Code:    ErrEmptyTags,
			})
		}
	}

	return errs
}
