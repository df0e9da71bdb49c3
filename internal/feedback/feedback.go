package feedback

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/solver"
)

var (
	// ErrMalformedCertificate indicates a certificate that cannot be
	// consumed: nil, wrong record version, or missing table hash.
	ErrMalformedCertificate = errors.New("feedback: malformed certificate")

	// ErrTableMismatch indicates the certificate was produced against
	// a different table content than the one supplied.
	ErrTableMismatch = errors.New("feedback: certificate table hash does not match table")
)

// Options bounds the controller's updates.
type Options struct {
	// MaxDelta is the maximum magnitude of any single penalty delta,
	// and the clamp applied at Apply time. Guarantees convergence.
	MaxDelta float64

	// PriorityStep is the priority increment used to deprioritize a
	// pattern (lower priority value = more preferred, so the step is
	// positive).
	PriorityStep int
}

// DefaultOptions returns the reference update bounds: penalty delta
// 2.0, priority step 1.
func DefaultOptions() Options {
	return Options{MaxDelta: 2.0, PriorityStep: 1}
}

// ErrorRegion is an externally or internally detected error-labeled
// region: the offending pattern and the half-open index range where it
// was observed.
type ErrorRegion struct {
	Pattern string
	Start   int
	End     int
}

// ForPattern is the pure per-pattern recommendation function: given a
// rule, it yields the bounded deltas for an error-tagged pattern, or
// nothing for a healthy one.
func ForPattern(r rules.Rule, opts Options) []cert.Recommendation {
	if !r.HasTag(rules.TagError) {
		return nil
	}
	return []cert.Recommendation{
		{Pattern: r.Pattern, Field: cert.FieldPenalty, Delta: opts.MaxDelta},
		{Pattern: r.Pattern, Field: cert.FieldPriority, Delta: float64(opts.PriorityStep)},
	}
}

// Detect derives recommendations from a solve's own selection: any
// selected region whose tags carry the error marker yields deltas for
// its originating pattern. Used to embed recommendations in the
// certificate at generation time.
func Detect(selection []solver.Selected, table *rules.Table, opts Options) []cert.Recommendation {
	var recs []cert.Recommendation
	for _, s := range selection {
		if !s.Region.HasTag(rules.TagError) {
			continue
		}
		if r, ok := table.Lookup(s.Pattern); ok {
			recs = append(recs, ForPattern(r, opts)...)
		}
	}
	return dedupe(recs)
}

// Analyze consumes a certificate plus freshly detected error regions
// and produces the bounded recommendation set for the next apply.
//
// The table must be the snapshot (by content) the certificate was
// produced against; a mismatch is an error since the deltas would
// adjust rules the certificate never scored. Regions naming patterns
// absent from the table are errors, not silent skips.
func Analyze(c *cert.Certificate, errRegions []ErrorRegion, table *rules.Table, opts Options) ([]cert.Recommendation, error) {
	if c == nil || c.RecordVersion != cert.RecordVersion || c.TableHash == "" {
		return nil, ErrMalformedCertificate
	}
	tableHash, err := table.Hash()
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	if c.TableHash != tableHash {
		return nil, fmt.Errorf("%w: certificate=%s table=%s", ErrTableMismatch, c.TableHash, tableHash)
	}

	recs := slices.Clone(c.Recommendations)
	for _, er := range errRegions {
		r, ok := table.Lookup(er.Pattern)
		if !ok {
			return nil, fmt.Errorf("%w: %q", rules.ErrUnknownPattern, er.Pattern)
		}
		recs = append(recs, ForPattern(r, opts)...)
	}
	return dedupe(recs), nil
}

// Apply folds recommendations into a new table snapshot. The input
// table is never mutated; the result carries version+1. Deltas are
// clamped to MaxDelta; unknown patterns are errors. The pattern count
// never changes.
func Apply(table *rules.Table, recs []cert.Recommendation, opts Options) (*rules.Table, error) {
	updated := table.Rules()
	index := make(map[string]int, len(updated))
	for i, r := range updated {
		index[r.Pattern] = i
	}

	for _, rec := range recs {
		i, ok := index[rec.Pattern]
		if !ok {
			return nil, fmt.Errorf("%w: %q", rules.ErrUnknownPattern, rec.Pattern)
		}
		delta := clamp(rec.Delta, opts.MaxDelta)
		switch rec.Field {
		case cert.FieldPenalty:
			updated[i].Penalty += delta
		case cert.FieldPriority:
			updated[i].Priority += int(math.Round(delta))
		default:
			return nil, fmt.Errorf("feedback: unknown recommendation field %q", rec.Field)
		}
	}

	next, err := table.Next(updated)
	if err != nil {
		return nil, fmt.Errorf("feedback apply: %w", err)
	}
	return next, nil
}

// dedupe enforces idempotency-per-certificate: at most one
// recommendation per (pattern, field), first occurrence wins, output
// ordered by pattern then field.
func dedupe(recs []cert.Recommendation) []cert.Recommendation {
	type key struct {
		pattern string
		field   cert.Field
	}
	seen := make(map[key]bool, len(recs))
	out := make([]cert.Recommendation, 0, len(recs))
	for _, rec := range recs {
		k := key{rec.Pattern, rec.Field}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, rec)
	}
	slices.SortStableFunc(out, func(a, b cert.Recommendation) int {
		if a.Pattern != b.Pattern {
			if a.Pattern < b.Pattern {
				return -1
			}
			return 1
		}
		if a.Field != b.Field {
			if a.Field < b.Field {
				return -1
			}
			return 1
		}
		return 0
	})
	return out
}

func clamp(delta, bound float64) float64 {
	if delta > bound {
		return bound
	}
	if delta < -bound {
		return -bound
	}
	return delta
}
