package solver

import (
	"fmt"
	"slices"

	"github.com/seqlattice/recomb/internal/lattice"
	"github.com/seqlattice/recomb/internal/region"
	"github.com/seqlattice/recomb/internal/rules"
)

// Selected is one chosen region with its score provenance.
type Selected struct {
	Region   region.Region
	Pattern  string  // originating rule pattern
	Score    float64 // final score including the rank bonus
	Penalty  float64
	Priority int
}

// Outcome is the result of a feasible solve: the ordered non-overlapping
// selection plus the aggregate scores the certificate records.
type Outcome struct {
	Selection    []Selected // ascending start, pairwise non-overlapping
	Target       region.Set
	HealthScore  float64 // healthy fraction of the selection, in [0,1]
	JaccardScore float64 // selection tags vs whole-sequence tags
	PenaltyTotal float64
	K            int
}

// SelectionTags returns the union of tags over the selection, sorted.
func (o *Outcome) SelectionTags() []string {
	var tags []string
	for _, s := range o.Selection {
		tags = append(tags, s.Region.Tags...)
	}
	return rules.NormalizeTags(tags)
}

// candidate is a solve-scoped scored region.
type candidate struct {
	region   region.Region
	pattern  string
	priority int
	penalty  float64
	base     float64
	score    float64
}

// Solve computes the target region for the constraints and greedily
// selects scored non-overlapping regions from it.
//
// Errors: ErrCodeConflictingConstraints when required ∩ forbidden is
// non-empty; ErrCodeNoFeasibleRegion when a required tag has no
// candidate coverage or the target is empty; lattice errors for invalid
// window widths.
func Solve(seq lattice.Sequence, k int, required, forbidden []string, table *rules.Table, opts Options) (*Outcome, error) {
	required = rules.NormalizeTags(required)
	forbidden = rules.NormalizeTags(forbidden)

	if conflict := intersectSorted(required, forbidden); len(conflict) > 0 {
		return nil, NewConflictError(conflict)
	}

	matches, err := table.Matches(seq, k)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	// Partition matches: a window carrying any forbidden tag is never
	// selectable and its coverage is subtracted from the target.
	var eligible []rules.Match
	var forbiddenRegions []region.Region
	for _, m := range matches {
		r := region.New(m.Start, m.End, m.Rule.ProtoTags)
		if len(intersectSorted(r.Tags, forbidden)) > 0 {
			forbiddenRegions = append(forbiddenRegions, r)
			continue
		}
		eligible = append(eligible, m)
	}
	forbiddenSet := region.NewSet(forbiddenRegions...)

	target, err := computeTarget(eligible, required, forbiddenSet)
	if err != nil {
		return nil, err
	}

	candidates := clipCandidates(eligible, target)
	if len(candidates) == 0 {
		return nil, NewNoFeasibleRegionError("no candidate region survives the forbidden coverage", required)
	}

	scoreAndRank(candidates, required, opts)
	selection := greedySelect(candidates, opts)
	if len(selection) == 0 {
		return nil, NewNoFeasibleRegionError("no candidate region scores above the minimum threshold", required)
	}

	out := &Outcome{Selection: selection, Target: target, K: k}
	out.PenaltyTotal = totalPenalty(selection)
	out.HealthScore = healthFraction(selection)

	seqTags, err := table.ScanTags(seq, k)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	out.JaccardScore = Jaccard(out.SelectionTags(), seqTags)

	return out, nil
}

// computeTarget derives the solvable region set: the union of coverage
// of every required tag, minus the forbidden coverage. Every required
// tag must have non-empty coverage among eligible candidates. With no
// required tags, all eligible coverage is in play.
func computeTarget(eligible []rules.Match, required []string, forbiddenSet region.Set) (region.Set, error) {
	var covered region.Set
	if len(required) == 0 {
		var all []region.Region
		for _, m := range eligible {
			all = append(all, region.New(m.Start, m.End, nil))
		}
		covered = region.NewSet(all...)
	} else {
		for _, tag := range required {
			var tagged []region.Region
			for _, m := range eligible {
				if m.Rule.HasTag(tag) {
					tagged = append(tagged, region.New(m.Start, m.End, nil))
				}
			}
			if len(tagged) == 0 {
				return region.Set{}, NewNoFeasibleRegionError("required tag has no candidate coverage", []string{tag})
			}
			covered = covered.Union(region.NewSet(tagged...))
		}
	}

	target := covered.Coverage().Difference(forbiddenSet)
	if target.IsEmpty() {
		return region.Set{}, NewNoFeasibleRegionError("target region is empty after removing forbidden coverage", required)
	}
	return target, nil
}

// clipCandidates intersects each eligible match with the target
// coverage, keeping the match's tags and scoring parameters on every
// surviving piece.
func clipCandidates(eligible []rules.Match, target region.Set) []candidate {
	cover := target.Coverage().Regions()
	var out []candidate
	for _, m := range eligible {
		for _, c := range cover {
			start := max(m.Start, c.Start)
			end := min(m.End, c.End)
			if start >= end {
				continue
			}
			out = append(out, candidate{
				region:   region.New(start, end, m.Rule.ProtoTags),
				pattern:  m.Rule.Pattern,
				priority: m.Rule.Priority,
				penalty:  m.Rule.Penalty,
			})
		}
	}
	return out
}

// scoreAndRank computes base scores, applies the deterministic ordering
// (score desc, priority asc, start asc), and folds in the rank bonus.
func scoreAndRank(cands []candidate, required []string, opts Options) {
	for i := range cands {
		cands[i].base = opts.baseScore(cands[i].region.Tags, required, cands[i].penalty)
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		switch {
		case a.base > b.base:
			return -1
		case a.base < b.base:
			return 1
		case a.priority != b.priority:
			return a.priority - b.priority
		case a.region.Start != b.region.Start:
			return a.region.Start - b.region.Start
		default:
			return a.region.End - b.region.End
		}
	})
	for i := range cands {
		cands[i].score = cands[i].base + opts.rankBonus(i+1)
	}
}

// greedySelect consumes ranked candidates in order. A candidate fully
// inside already-selected coverage is skipped; a partially covered one
// is clipped to its uncovered suffix, which keeps the worked splice
// semantics (a shared window boundary contributes its symbols once).
func greedySelect(cands []candidate, opts Options) []Selected {
	var chosen []Selected
	var covered region.Set

	for _, c := range cands {
		if c.score <= opts.MinScore {
			break
		}
		if opts.MaxRegions > 0 && len(chosen) >= opts.MaxRegions {
			break
		}

		remainder := region.NewSet(c.region).Difference(covered).Regions()
		if len(remainder) == 0 {
			continue
		}
		// Keep only the trailing uncovered piece: clipping to the
		// suffix preserves contiguity with the previously selected
		// region at a join.
		piece := remainder[len(remainder)-1]
		piece = region.New(piece.Start, piece.End, c.region.Tags)

		chosen = append(chosen, Selected{
			Region:   piece,
			Pattern:  c.pattern,
			Score:    c.score,
			Penalty:  c.penalty,
			Priority: c.priority,
		})
		covered = covered.Union(region.NewSet(region.New(piece.Start, piece.End, nil)))
	}

	slices.SortFunc(chosen, func(a, b Selected) int {
		return a.Region.Start - b.Region.Start
	})
	return chosen
}

func totalPenalty(selection []Selected) float64 {
	var sum float64
	for _, s := range selection {
		sum += s.Penalty
	}
	return sum
}

func healthFraction(selection []Selected) float64 {
	if len(selection) == 0 {
		return 0
	}
	healthy := 0
	for _, s := range selection {
		if s.Region.HasTag(rules.TagHealthy) {
			healthy++
		}
	}
	return float64(healthy) / float64(len(selection))
}

// intersectSorted returns the elements common to two sorted slices.
func intersectSorted(a, b []string) []string {
	var out []string
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}
