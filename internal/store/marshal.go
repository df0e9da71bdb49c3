package store

import (
	"encoding/json"
	"fmt"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/rules"
)

// marshalRules serializes a table's rule list to JSON TEXT for storage.
// The list is already in deterministic (pattern-sorted) order, and the
// struct tags keep the field names aligned with the canonical form.
func marshalRules(t *rules.Table) (string, error) {
	data, err := json.Marshal(t.Rules())
	if err != nil {
		return "", fmt.Errorf("marshal rules: %w", err)
	}
	return string(data), nil
}

// unmarshalRules rebuilds a table snapshot from stored rules TEXT.
func unmarshalRules(version int64, data string) (*rules.Table, error) {
	var rs []rules.Rule
	if err := json.Unmarshal([]byte(data), &rs); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}
	t, err := rules.NewTableAt(version, rs)
	if err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}
	return t, nil
}

// marshalCertificate serializes a certificate to its canonical JSON
// TEXT. This is the hashed form, so the stored record re-derives the
// same ID it was keyed under.
func marshalCertificate(c *cert.Certificate) (string, error) {
	data, err := c.MarshalCanonical()
	if err != nil {
		return "", fmt.Errorf("marshal certificate: %w", err)
	}
	return string(data), nil
}

// unmarshalCertificate parses stored certificate TEXT. Canonical JSON
// is plain JSON, so the struct tags are enough to read it back.
func unmarshalCertificate(data string) (*cert.Certificate, error) {
	var c cert.Certificate
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("unmarshal certificate: %w", err)
	}
	return &c, nil
}
