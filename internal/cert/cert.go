package cert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/seqlattice/recomb/internal/rules"
	"github.com/seqlattice/recomb/internal/solver"
)

// Version constants for the certificate record and engine.
const (
	// RecordVersion is the certificate record schema version.
	RecordVersion = "1"

	// EngineVersion is the recomb engine version.
	EngineVersion = "0.1.0"
)

// Field names a rule-table field a recommendation adjusts.
type Field string

const (
	FieldPenalty  Field = "penalty"
	FieldPriority Field = "priority"
)

// Recommendation is a proposed rule-table delta. Produced by scoring or
// by the feedback controller, applied only by an explicit apply step.
type Recommendation struct {
	Pattern string  `json:"pattern"`
	Field   Field   `json:"field"`
	Delta   float64 `json:"delta"`
}

// SelectedRegion is one chosen region as recorded in the certificate.
type SelectedRegion struct {
	Start   int      `json:"start"`
	End     int      `json:"end"` // exclusive
	Pattern string   `json:"pattern"`
	Tags    []string `json:"tags"`
	Score   float64  `json:"score"`
	Penalty float64  `json:"penalty"`
}

// Certificate is the immutable record of one solve. Never mutated after
// Generate; persistence is a collaborator's concern (see the store
// package) and partial certificates are never persisted.
type Certificate struct {
	TableHash       string           `json:"table_hash"`
	K               int              `json:"k"`
	SelectedRegions []SelectedRegion `json:"selected_regions"`
	HealthScore     float64          `json:"health_score"`
	JaccardScore    float64          `json:"jaccard_score"`
	PenaltyTotal    float64          `json:"penalty_total"`
	Recommendations []Recommendation `json:"recommendations"`
	EngineVersion   string           `json:"engine_version"`
	RecordVersion   string           `json:"record_version"`
}

// Generate builds the certificate for a solve outcome against the table
// snapshot the solve read. recs is the ordered recommendation set
// derived from the outcome (possibly empty, never reordered here).
func Generate(out *solver.Outcome, table *rules.Table, recs []Recommendation) (*Certificate, error) {
	tableHash, err := table.Hash()
	if err != nil {
		return nil, fmt.Errorf("certificate: %w", err)
	}

	selected := make([]SelectedRegion, 0, len(out.Selection))
	for _, s := range out.Selection {
		selected = append(selected, SelectedRegion{
			Start:   s.Region.Start,
			End:     s.Region.End,
			Pattern: s.Pattern,
			Tags:    s.Region.Tags,
			Score:   s.Score,
			Penalty: s.Penalty,
		})
	}

	if recs == nil {
		recs = []Recommendation{}
	}

	return &Certificate{
		TableHash:       tableHash,
		K:               out.K,
		SelectedRegions: selected,
		HealthScore:     out.HealthScore,
		JaccardScore:    out.JaccardScore,
		PenaltyTotal:    out.PenaltyTotal,
		Recommendations: recs,
		EngineVersion:   EngineVersion,
		RecordVersion:   RecordVersion,
	}, nil
}

// Canonical returns the certificate's canonical JSON value.
func (c *Certificate) Canonical() rules.CObject {
	regions := make(rules.CArray, 0, len(c.SelectedRegions))
	for _, r := range c.SelectedRegions {
		regions = append(regions, rules.CObject{
			"start":   rules.CInt(int64(r.Start)),
			"end":     rules.CInt(int64(r.End)),
			"pattern": rules.CString(r.Pattern),
			"tags":    rules.StringArray(r.Tags),
			"score":   rules.CFloat(r.Score),
			"penalty": rules.CFloat(r.Penalty),
		})
	}

	recs := make(rules.CArray, 0, len(c.Recommendations))
	for _, rec := range c.Recommendations {
		recs = append(recs, rules.CObject{
			"pattern": rules.CString(rec.Pattern),
			"field":   rules.CString(string(rec.Field)),
			"delta":   rules.CFloat(rec.Delta),
		})
	}

	return rules.CObject{
		"table_hash":       rules.CString(c.TableHash),
		"k":                rules.CInt(int64(c.K)),
		"selected_regions": regions,
		"health_score":     rules.CFloat(c.HealthScore),
		"jaccard_score":    rules.CFloat(c.JaccardScore),
		"penalty_total":    rules.CFloat(c.PenaltyTotal),
		"recommendations":  recs,
		"engine_version":   rules.CString(c.EngineVersion),
		"record_version":   rules.CString(c.RecordVersion),
	}
}

// MarshalCanonical serializes the certificate record to canonical JSON.
// This is the persisted, hashed form.
func (c *Certificate) MarshalCanonical() ([]byte, error) {
	return rules.MarshalCanonical(c.Canonical())
}

// ID computes the certificate's content-addressed identity: SHA-256
// over the canonical record with the certificate domain prefix.
func (c *Certificate) ID() (string, error) {
	canonical, err := c.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("certificate id: %w", err)
	}
	return rules.HashWithDomain(rules.DomainCertificate, canonical), nil
}

// MustID is like ID but panics on error.
// Use only in tests or when the certificate is known to be hashable.
func (c *Certificate) MustID() string {
	id, err := c.ID()
	if err != nil {
		panic(err)
	}
	return id
}

// RenderCAV renders the legacy line-oriented certificate form. The
// layout follows the original .cav records, minus the wall-clock
// timestamp: the table hash already pins the record to its inputs and
// a timestamp would break reproducibility.
func (c *Certificate) RenderCAV() string {
	var b strings.Builder
	b.WriteString("# Directed Evolution Certificate\n")
	fmt.Fprintf(&b, "TABLE_HASH: %s\n", c.TableHash)
	fmt.Fprintf(&b, "K: %d\n", c.K)

	ranges := make([]string, 0, len(c.SelectedRegions))
	for _, r := range c.SelectedRegions {
		ranges = append(ranges, fmt.Sprintf("(%d,%d)", r.Start, r.End))
	}
	fmt.Fprintf(&b, "SELECTED_REGIONS: [%s]\n", strings.Join(ranges, " "))

	fmt.Fprintf(&b, "HEALTH_SCORE: %s\n", formatFloat(c.HealthScore))
	fmt.Fprintf(&b, "JACCARD_SCORE: %s\n", formatFloat(c.JaccardScore))
	fmt.Fprintf(&b, "PENALTY_TOTAL: %s\n", formatFloat(c.PenaltyTotal))

	recs := make([]string, 0, len(c.Recommendations))
	for _, rec := range c.Recommendations {
		recs = append(recs, fmt.Sprintf("%s:%s:%s", rec.Pattern, rec.Field, formatFloat(rec.Delta)))
	}
	fmt.Fprintf(&b, "RECOMMENDATIONS: [%s]\n", strings.Join(recs, " "))

	return b.String()
}

// formatFloat matches the canonical JSON float form: shortest decimal
// that round-trips through float64.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
