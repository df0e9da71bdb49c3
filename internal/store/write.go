package store

import (
	"context"
	"fmt"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/rules"
)

// WriteTable inserts a rule-table snapshot, keyed by content hash.
// Uses ON CONFLICT(hash) DO NOTHING for idempotency - re-persisting an
// unchanged table is a silent no-op.
//
// Returns the snapshot's content hash.
func (s *Store) WriteTable(ctx context.Context, t *rules.Table) (string, error) {
	hash, err := t.Hash()
	if err != nil {
		return "", fmt.Errorf("write table: %w", err)
	}

	rulesJSON, err := marshalRules(t)
	if err != nil {
		return "", fmt.Errorf("write table: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rule_tables (hash, version, rules)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, t.Version(), rulesJSON)
	if err != nil {
		return "", fmt.Errorf("write table: %w", err)
	}

	return hash, nil
}

// WriteCertificate inserts a certificate record stamped with its run
// token and logical clock seq. The certificate's table snapshot must
// already be persisted (foreign key on table_hash).
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency - a certificate is
// content-addressed, so a duplicate write carries identical content and
// is silently ignored.
//
// Returns the certificate's content-addressed ID.
func (s *Store) WriteCertificate(ctx context.Context, c *cert.Certificate, runID string, seq int64) (string, error) {
	id, err := c.ID()
	if err != nil {
		return "", fmt.Errorf("write certificate: %w", err)
	}

	record, err := marshalCertificate(c)
	if err != nil {
		return "", fmt.Errorf("write certificate: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO certificates (id, table_hash, run_id, seq, record)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, c.TableHash, runID, seq, record)
	if err != nil {
		return "", fmt.Errorf("write certificate: %w", err)
	}

	return id, nil
}
