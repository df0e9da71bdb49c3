package region

import (
	"slices"
	"sort"
)

// Set is a normalized collection of tagged regions.
// The zero value is the empty set.
type Set struct {
	regions []Region
}

// NewSet builds a normalized set from regions. Empty regions are
// dropped; exact duplicates collapse; same-tag overlapping or adjacent
// ranges merge.
func NewSet(regions ...Region) Set {
	return Set{regions: normalize(regions)}
}

// Regions returns the regions in deterministic order (ascending start,
// then end, then tags). The returned slice is a copy.
func (s Set) Regions() []Region {
	return slices.Clone(s.regions)
}

// Len returns the number of regions.
func (s Set) Len() int {
	return len(s.regions)
}

// IsEmpty reports whether the set covers nothing.
func (s Set) IsEmpty() bool {
	return len(s.regions) == 0
}

// Union returns all tag layers of both sets, renormalized. Overlapping
// regions with different tag sets remain distinct layers.
func (s Set) Union(o Set) Set {
	merged := make([]Region, 0, len(s.regions)+len(o.regions))
	merged = append(merged, s.regions...)
	merged = append(merged, o.regions...)
	return Set{regions: normalize(merged)}
}

// Intersect returns the index ranges covered by both sets. Each emitted
// region is an elementary segment (coalesced where contiguous) tagged
// with the intersection of the tag unions active on each side - the
// tags both operands agree on over that range.
func (s Set) Intersect(o Set) Set {
	events := make([]sweepEvent, 0, 2*(len(s.regions)+len(o.regions)))
	for _, r := range s.regions {
		events = append(events,
			sweepEvent{pos: r.Start, delta: 1, side: 0, tags: r.Tags},
			sweepEvent{pos: r.End, delta: -1, side: 0, tags: r.Tags})
	}
	for _, r := range o.regions {
		events = append(events,
			sweepEvent{pos: r.Start, delta: 1, side: 1, tags: r.Tags},
			sweepEvent{pos: r.End, delta: -1, side: 1, tags: r.Tags})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].pos < events[j].pos })

	var (
		out     []Region
		active  [2]int
		tagRefs [2]map[string]int
		prev    int
	)
	tagRefs[0] = make(map[string]int)
	tagRefs[1] = make(map[string]int)

	for i := 0; i < len(events); {
		pos := events[i].pos
		if active[0] > 0 && active[1] > 0 && prev < pos {
			out = appendCoalesced(out, Region{Start: prev, End: pos, Tags: activeTagIntersection(tagRefs)})
		}
		for i < len(events) && events[i].pos == pos {
			e := events[i]
			active[e.side] += e.delta
			for _, t := range e.tags {
				tagRefs[e.side][t] += e.delta
			}
			i++
		}
		prev = pos
	}

	return Set{regions: normalize(out)}
}

// Difference returns s minus every index range covered by o. Surviving
// pieces keep their original tags; o's tags are irrelevant, only its
// coverage matters.
func (s Set) Difference(o Set) Set {
	cover := o.Coverage().regions
	var out []Region
	for _, r := range s.regions {
		out = append(out, subtract(r, cover)...)
	}
	return Set{regions: normalize(out)}
}

// Coverage returns the merged, untagged index ranges the set covers.
// Untagged means the normalized empty tag set, the same representation
// New produces, so coverage regions compare equal to New(start, end, nil).
func (s Set) Coverage() Set {
	if len(s.regions) == 0 {
		return Set{}
	}
	sorted := slices.Clone(s.regions)
	slices.SortFunc(sorted, compare)

	var out []Region
	start, end := sorted[0].Start, sorted[0].End
	for _, r := range sorted[1:] {
		if r.Start <= end {
			end = max(end, r.End)
			continue
		}
		out = append(out, New(start, end, nil))
		start, end = r.Start, r.End
	}
	out = append(out, New(start, end, nil))
	return Set{regions: out}
}

type sweepEvent struct {
	pos   int
	delta int
	side  int
	tags  []string
}

// activeTagIntersection returns the sorted tags with positive refcounts
// on both sides of the sweep. Always non-nil, matching the normalized
// empty tag set.
func activeTagIntersection(refs [2]map[string]int) []string {
	tags := []string{}
	for t, n := range refs[0] {
		if n > 0 && refs[1][t] > 0 {
			tags = append(tags, t)
		}
	}
	slices.Sort(tags)
	return tags
}

// appendCoalesced extends the previous segment instead of appending when
// the new segment is contiguous and carries the same tags.
func appendCoalesced(out []Region, r Region) []Region {
	if n := len(out); n > 0 && out[n-1].End == r.Start && sameTags(out[n-1].Tags, r.Tags) {
		out[n-1].End = r.End
		return out
	}
	return append(out, r)
}

// subtract removes the sorted, disjoint cover intervals from r,
// returning the uncovered pieces in ascending order.
func subtract(r Region, cover []Region) []Region {
	var out []Region
	cursor := r.Start
	for _, c := range cover {
		if c.End <= cursor {
			continue
		}
		if c.Start >= r.End {
			break
		}
		if c.Start > cursor {
			out = append(out, Region{Start: cursor, End: c.Start, Tags: r.Tags})
		}
		cursor = max(cursor, c.End)
		if cursor >= r.End {
			return out
		}
	}
	if cursor < r.End {
		out = append(out, Region{Start: cursor, End: r.End, Tags: r.Tags})
	}
	return out
}

// normalize drops empty regions, merges same-tag overlapping or
// adjacent ranges, removes duplicates, and sorts into the deterministic
// output order.
func normalize(regions []Region) []Region {
	nonEmpty := make([]Region, 0, len(regions))
	for _, r := range regions {
		if !r.Empty() {
			nonEmpty = append(nonEmpty, r)
		}
	}
	if len(nonEmpty) == 0 {
		return nil
	}

	// Group by tag set so same-tag ranges become mergeable runs.
	slices.SortFunc(nonEmpty, func(a, b Region) int {
		if c := slices.Compare(a.Tags, b.Tags); c != 0 {
			return c
		}
		return compare(a, b)
	})

	merged := make([]Region, 0, len(nonEmpty))
	cur := nonEmpty[0]
	for _, r := range nonEmpty[1:] {
		if sameTags(cur.Tags, r.Tags) && r.Start <= cur.End {
			cur.End = max(cur.End, r.End)
			continue
		}
		merged = append(merged, cur)
		cur = r
	}
	merged = append(merged, cur)

	slices.SortFunc(merged, compare)
	return merged
}
