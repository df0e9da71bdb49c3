package rules

import (
	"slices"
	"strings"
)

// Well-known proto tags with engine-level meaning. All other tags are
// opaque labels owned by the table author.
const (
	// TagHealthy marks content that counts toward the health score.
	TagHealthy = "healthy"

	// TagError marks patterns the feedback controller penalizes.
	TagError = "error"
)

// Rule is one auxiliary-table entry: a fixed-width symbol pattern and
// its scoring parameters.
//
// Priority convention: lower value = more preferred. The feedback
// controller deprioritizes a pattern by incrementing its priority.
type Rule struct {
	Pattern   string   `json:"pattern"`
	Weight    float64  `json:"score_weight"`
	Penalty   float64  `json:"penalty"`
	Priority  int      `json:"priority"`
	ProtoTags []string `json:"proto_tags"`
}

// HasTag reports whether the rule carries the given proto tag.
// ProtoTags are kept sorted, so binary search applies.
func (r Rule) HasTag(tag string) bool {
	_, found := slices.BinarySearch(r.ProtoTags, tag)
	return found
}

// NormalizeTags returns a sorted copy of tags with duplicates and empty
// strings removed. All tag sets in the system are held in this form so
// that set operations and serialization are deterministic.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.TrimSpace(t) == "" {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ContainsTag reports whether a normalized tag slice contains tag.
func ContainsTag(tags []string, tag string) bool {
	_, found := slices.BinarySearch(tags, tag)
	return found
}

// normalized returns a copy of the rule with its tag set normalized.
func (r Rule) normalized() Rule {
	r.ProtoTags = NormalizeTags(r.ProtoTags)
	return r
}
