package solver

import (
	"github.com/seqlattice/recomb/internal/rules"
)

// Options holds the scoring weights and selection bounds.
type Options struct {
	// Weighted-sum coefficients. The defaults sum to 1.0.
	WeightJaccard float64
	WeightHealth  float64
	WeightPenalty float64
	WeightCount   float64

	// MinScore is the selection floor: greedy consumption stops when
	// no remaining candidate scores strictly above it.
	MinScore float64

	// MaxRegions caps the selection size. 0 means unlimited.
	MaxRegions int
}

// DefaultOptions returns the reference scoring behavior:
// jaccard 0.60, health 0.35, penalty 0.03, count 0.02.
func DefaultOptions() Options {
	return Options{
		WeightJaccard: 0.60,
		WeightHealth:  0.35,
		WeightPenalty: 0.03,
		WeightCount:   0.02,
	}
}

// Jaccard computes |a ∩ b| / |a ∪ b| over normalized tag slices.
// Two empty sets are identical, so their similarity is 1.
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	inter := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			inter++
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// baseScore computes the rank-independent score terms for a candidate:
//
//	w_jaccard * jaccard(tags, required) + w_health * health - w_penalty * penalty
//
// health is 1 when the candidate carries the healthy tag, else 0.
func (o Options) baseScore(tags []string, required []string, penalty float64) float64 {
	s := o.WeightJaccard * Jaccard(tags, required)
	if rules.ContainsTag(tags, rules.TagHealthy) {
		s += o.WeightHealth
	}
	s -= o.WeightPenalty * penalty
	return s
}

// rankBonus is the positional score term: w_count * (1 / rank), with
// rank the candidate's 1-based position in the pre-selection ordering.
// Adding it never reorders candidates because the base ordering is
// descending and 1/rank is too.
func (o Options) rankBonus(rank int) float64 {
	return o.WeightCount / float64(rank)
}
