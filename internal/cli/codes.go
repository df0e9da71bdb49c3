package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/engine"
	"github.com/seqlattice/recomb/internal/feedback"
	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/solver"
	"github.com/seqlattice/recomb/internal/splice"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric   = "E001" // Generic/unknown error
	ErrCodeNotFound  = "E002" // Path not found
	ErrCodeTableLoad = "E003" // Table load/compile failed
	ErrCodeStore     = "E004" // Database error

	// Solve errors
	ErrCodeInvalidIndex  = "E101" // Index or window out of range
	ErrCodeNoFeasible    = "E102" // No feasible region
	ErrCodeConflict      = "E103" // Conflicting constraint sets
	ErrCodeViolation     = "E104" // Constraint violation after splice
	ErrCodeFragmentation = "E105" // Uncontrolled fragmentation refused
	ErrCodeInvalidTable  = "E106" // Malformed rule table

	// Feedback errors
	ErrCodeMalformedCert = "E111" // Certificate cannot be consumed
	ErrCodeTableMismatch = "E112" // Certificate/table hash mismatch

	// Run errors
	ErrCodeQuota = "E121" // Iteration quota exhausted without convergence
)

// parseSequence wraps sequence construction for commands that need the
// parsed form before building a request.
func parseSequence(symbols string) (lattice.Sequence, error) {
	return lattice.NewSequence(symbols)
}

// mapEngineError maps pipeline errors to CLI error codes.
func mapEngineError(err error) string {
	switch {
	case errors.Is(err, lattice.ErrEmptySequence),
		errors.Is(err, lattice.ErrInvalidIndex),
		errors.Is(err, lattice.ErrWindowOutOfRange):
		return ErrCodeInvalidIndex
	case solver.IsNoFeasibleRegion(err):
		return ErrCodeNoFeasible
	case solver.IsConflictingConstraints(err):
		return ErrCodeConflict
	case splice.IsConstraintViolation(err):
		return ErrCodeViolation
	case errors.Is(err, splice.ErrUncontrolledFragmentation),
		errors.Is(err, splice.ErrEmptySelection):
		return ErrCodeFragmentation
	case errors.Is(err, rules.ErrInvalidTable),
		errors.Is(err, rules.ErrUnknownPattern),
		errors.Is(err, engine.ErrNilTable):
		return ErrCodeInvalidTable
	case errors.Is(err, feedback.ErrMalformedCertificate):
		return ErrCodeMalformedCert
	case errors.Is(err, feedback.ErrTableMismatch):
		return ErrCodeTableMismatch
	default:
		return ErrCodeGeneric
	}
}

// newFormatter builds the per-command output formatter. Verbose logs go
// to stderr to avoid corrupting JSON output.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// readCertificateFile loads a certificate record from a JSON file.
func readCertificateFile(path string) (*cert.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading certificate: %w", err)
	}
	var c cert.Certificate
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing certificate %s: %w", path, err)
	}
	return &c, nil
}
