package rules

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidTable is the class error for malformed rule tables.
	// Specific causes wrap it.
	ErrInvalidTable = errors.New("rules: invalid rule table")

	// ErrEmptyPattern indicates a rule with an empty pattern key.
	ErrEmptyPattern = fmt.Errorf("%w: empty pattern", ErrInvalidTable)

	// ErrDuplicatePattern indicates two rules sharing a pattern key.
	ErrDuplicatePattern = fmt.Errorf("%w: duplicate pattern", ErrInvalidTable)

	// ErrUnknownPattern indicates a lookup or update referencing a
	// pattern the table does not contain.
	ErrUnknownPattern = errors.New("rules: unknown pattern")
)

// Table is an immutable, versioned rule-table snapshot.
//
// Snapshots are copy-on-write: a solve reads one snapshot for its whole
// lifetime, and updates (feedback apply) produce a successor snapshot
// with Version+1. A Table is safe for concurrent readers.
type Table struct {
	version  int64
	rules    map[string]Rule
	patterns []string // sorted, the deterministic iteration order
}

// NewTable builds the initial snapshot (version 1) from rules.
// Patterns must be non-empty and unique; tag sets are normalized.
func NewTable(rs []Rule) (*Table, error) {
	return buildTable(1, rs)
}

// NewTableAt rebuilds a snapshot at a specific version. Used when
// rehydrating a persisted snapshot; new tables start at version 1 via
// NewTable.
func NewTableAt(version int64, rs []Rule) (*Table, error) {
	if version < 1 {
		return nil, fmt.Errorf("%w: version %d < 1", ErrInvalidTable, version)
	}
	return buildTable(version, rs)
}

// Next builds the successor snapshot from a full replacement rule list.
// The new snapshot carries this table's version + 1.
func (t *Table) Next(rs []Rule) (*Table, error) {
	return buildTable(t.version+1, rs)
}

func buildTable(version int64, rs []Rule) (*Table, error) {
	t := &Table{
		version:  version,
		rules:    make(map[string]Rule, len(rs)),
		patterns: make([]string, 0, len(rs)),
	}
	for _, r := range rs {
		if r.Pattern == "" {
			return nil, ErrEmptyPattern
		}
		if _, dup := t.rules[r.Pattern]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePattern, r.Pattern)
		}
		t.rules[r.Pattern] = r.normalized()
		t.patterns = append(t.patterns, r.Pattern)
	}
	slices.Sort(t.patterns)
	return t, nil
}

// Version returns the snapshot version. The externally supplied initial
// table is version 1; each apply increments it.
func (t *Table) Version() int64 {
	return t.version
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Lookup returns the rule for an exact pattern key.
func (t *Table) Lookup(pattern string) (Rule, bool) {
	r, ok := t.rules[pattern]
	return r, ok
}

// Patterns returns the pattern keys in sorted order.
// The returned slice is a copy.
func (t *Table) Patterns() []string {
	return slices.Clone(t.patterns)
}

// Rules returns all rules ordered by pattern. The returned slice is a
// copy; rule tag slices are shared but never mutated.
func (t *Table) Rules() []Rule {
	out := make([]Rule, 0, len(t.patterns))
	for _, p := range t.patterns {
		out = append(out, t.rules[p])
	}
	return out
}

// canonical returns the table's canonical JSON value. Version is
// deliberately excluded: identity is content of the rules, so an apply
// that changes nothing yields the same hash.
func (t *Table) canonical() CObject {
	ruleList := make(CArray, 0, len(t.patterns))
	for _, p := range t.patterns {
		r := t.rules[p]
		ruleList = append(ruleList, CObject{
			"pattern":      CString(r.Pattern),
			"score_weight": CFloat(r.Weight),
			"penalty":      CFloat(r.Penalty),
			"priority":     CInt(int64(r.Priority)),
			"proto_tags":   StringArray(r.ProtoTags),
		})
	}
	return CObject{"rules": ruleList}
}
