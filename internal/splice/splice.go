package splice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/region"
	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/solver"
)

// Mode selects the recombination discipline.
type Mode int

const (
	// ModeSplice is the controlled join: concatenation in index order
	// followed by full reverification. The only success path.
	ModeSplice Mode = iota

	// ModeSplit is the rejected uncontrolled fragmentation path. It is
	// representable so callers receive a typed refusal.
	ModeSplit
)

var (
	// ErrUncontrolledFragmentation indicates a caller path that would
	// produce fragments without join-time reverification.
	ErrUncontrolledFragmentation = errors.New("splice: uncontrolled fragmentation is not a supported success path")

	// ErrEmptySelection indicates a selection with no regions.
	ErrEmptySelection = errors.New("splice: empty selection")
)

// ConstraintViolationError reports a post-splice conformance failure:
// the joined output no longer satisfies the constraint sets it was
// selected under.
type ConstraintViolationError struct {
	// MissingRequired lists required tags absent from the output.
	MissingRequired []string

	// PresentForbidden lists forbidden tags found in the output,
	// including any introduced by windows spanning a join boundary.
	PresentForbidden []string
}

func (e *ConstraintViolationError) Error() string {
	var parts []string
	if len(e.MissingRequired) > 0 {
		parts = append(parts, fmt.Sprintf("required tags missing: %s", strings.Join(e.MissingRequired, ",")))
	}
	if len(e.PresentForbidden) > 0 {
		parts = append(parts, fmt.Sprintf("forbidden tags present: %s", strings.Join(e.PresentForbidden, ",")))
	}
	return "splice: constraint violation after splice: " + strings.Join(parts, "; ")
}

// IsConstraintViolation returns true for post-splice conformance
// failures. Uses errors.As to handle wrapped errors.
func IsConstraintViolation(err error) bool {
	var ce *ConstraintViolationError
	return errors.As(err, &ce)
}

// Join concatenates the selection's symbol windows in ascending start
// order and verifies the result against the constraints.
//
// The selection must be ordered and pairwise non-overlapping by index
// range; anything else is index fragmentation and is refused with
// ErrUncontrolledFragmentation, as is ModeSplit. Verification failures
// surface as ConstraintViolationError; the engine never suppresses one
// to return a best-effort result.
func Join(seq lattice.Sequence, out *solver.Outcome, required, forbidden []string, table *rules.Table, mode Mode) (lattice.Sequence, error) {
	if mode != ModeSplice {
		return lattice.Sequence{}, fmt.Errorf("%w: split mode requested", ErrUncontrolledFragmentation)
	}
	if out == nil || len(out.Selection) == 0 {
		return lattice.Sequence{}, ErrEmptySelection
	}

	var b strings.Builder
	prev := region.Region{Start: -1, End: -1}
	for i, sel := range out.Selection {
		r := sel.Region
		if i > 0 && r.Start < prev.End {
			return lattice.Sequence{}, fmt.Errorf("%w: selection not ordered and non-overlapping at %s", ErrUncontrolledFragmentation, r)
		}
		piece, err := seq.Slice(r.Start, r.End)
		if err != nil {
			return lattice.Sequence{}, fmt.Errorf("splice: %w", err)
		}
		b.WriteString(piece)
		prev = r
	}

	joined, err := lattice.NewSequence(b.String())
	if err != nil {
		return lattice.Sequence{}, fmt.Errorf("splice: %w", err)
	}

	if err := Verify(joined, out.K, required, forbidden, table); err != nil {
		return lattice.Sequence{}, err
	}
	return joined, nil
}

// Verify re-runs the prototype mapper over a joined output and checks
// the constraint sets. Scanning every window of the output subsumes the
// k-1 boundary positions at each join, which is where concatenation can
// introduce windows neither source region contained.
//
// An output shorter than k has no windows: its tag set is empty, so any
// required tag fails.
func Verify(output lattice.Sequence, k int, required, forbidden []string, table *rules.Table) error {
	required = rules.NormalizeTags(required)
	forbidden = rules.NormalizeTags(forbidden)

	var tags []string
	if k <= output.Len() {
		var err error
		tags, err = table.ScanTags(output, k)
		if err != nil {
			return fmt.Errorf("splice verify: %w", err)
		}
	}

	var missing []string
	for _, t := range required {
		if !rules.ContainsTag(tags, t) {
			missing = append(missing, t)
		}
	}
	var present []string
	for _, t := range forbidden {
		if rules.ContainsTag(tags, t) {
			present = append(present, t)
		}
	}

	if len(missing) > 0 || len(present) > 0 {
		return &ConstraintViolationError{MissingRequired: missing, PresentForbidden: present}
	}
	return nil
}
