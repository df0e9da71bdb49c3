package solver

import (
	"errors"
	"fmt"
	"strings"
)

// SolveError represents a constraint-level failure detected during a
// solve. All solve errors are local and recoverable by the caller; no
// shared state is ever left corrupted because no shared state is
// mutated.
type SolveError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Tags lists the proto tags involved, when relevant.
	Tags []string
}

// ErrorCode categorizes solve errors.
type ErrorCode string

const (
	// ErrCodeNoFeasibleRegion indicates the required tags yield an
	// empty target region before any scoring.
	ErrCodeNoFeasibleRegion ErrorCode = "NO_FEASIBLE_REGION"

	// ErrCodeConflictingConstraints indicates a tag present in both
	// the required and forbidden sets. Treated as an input error, not
	// resolved by precedence.
	ErrCodeConflictingConstraints ErrorCode = "CONFLICTING_CONSTRAINTS"
)

// Error implements the error interface.
func (e *SolveError) Error() string {
	if len(e.Tags) > 0 {
		return fmt.Sprintf("%s: %s (tags=%s)", e.Code, e.Message, strings.Join(e.Tags, ","))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNoFeasibleRegion returns true if the error is an infeasibility
// error. Uses errors.As to handle wrapped errors.
func IsNoFeasibleRegion(err error) bool {
	var se *SolveError
	return errors.As(err, &se) && se.Code == ErrCodeNoFeasibleRegion
}

// IsConflictingConstraints returns true if the error is a
// required/forbidden overlap error.
func IsConflictingConstraints(err error) bool {
	var se *SolveError
	return errors.As(err, &se) && se.Code == ErrCodeConflictingConstraints
}

// NewNoFeasibleRegionError creates a SolveError for an empty target.
func NewNoFeasibleRegionError(message string, tags []string) *SolveError {
	return &SolveError{Code: ErrCodeNoFeasibleRegion, Message: message, Tags: tags}
}

// NewConflictError creates a SolveError for overlapping constraint sets.
func NewConflictError(tags []string) *SolveError {
	return &SolveError{
		Code:    ErrCodeConflictingConstraints,
		Message: "tag appears in both required and forbidden sets",
		Tags:    tags,
	}
}
