package engine

import (
	"errors"
	"fmt"
)

// QuotaEnforcer bounds the number of feedback iterations in one run.
//
// The feedback loop has no terminal state of its own - the caller
// supplies the iteration budget. The quota turns a runaway update loop
// (a table that keeps generating recommendations) into a typed error
// instead of unbounded work.
type QuotaEnforcer struct {
	maxIterations int
	current       int
}

// NewQuotaEnforcer creates an enforcer with the given limit.
func NewQuotaEnforcer(maxIterations int) *QuotaEnforcer {
	return &QuotaEnforcer{maxIterations: maxIterations}
}

// Check increments the iteration counter and validates the limit.
// Returns IterationsExceededError once the quota is exceeded.
func (q *QuotaEnforcer) Check(runID string) error {
	q.current++
	if q.current > q.maxIterations {
		return &IterationsExceededError{
			RunID:      runID,
			Iterations: q.current,
			Limit:      q.maxIterations,
		}
	}
	return nil
}

// Current returns the iteration count so far.
func (q *QuotaEnforcer) Current() int {
	return q.current
}

// IterationsExceededError is returned when a run exceeds its iteration
// quota.
type IterationsExceededError struct {
	RunID      string
	Iterations int
	Limit      int
}

// Error implements the error interface.
func (e *IterationsExceededError) Error() string {
	return fmt.Sprintf("run %s exceeded iteration quota: %d iterations > %d limit",
		e.RunID, e.Iterations, e.Limit)
}

// IsIterationsExceeded returns true if the error is an iteration quota
// error. Uses errors.As to handle wrapped errors.
func IsIterationsExceeded(err error) bool {
	var ie *IterationsExceededError
	return errors.As(err, &ie)
}
