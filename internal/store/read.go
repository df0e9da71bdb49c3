package store

import (
	"context"
	"fmt"

	"github.com/seqlattice/recomb/internal/cert"
	"github.com/seqlattice/recomb/internal/rules"
)

// RunRecord is one persisted certificate within a run, in logical clock
// order.
type RunRecord struct {
	ID          string
	Seq         int64
	TableHash   string
	Certificate *cert.Certificate
}

// ReadTable retrieves a rule-table snapshot by content hash.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) ReadTable(ctx context.Context, hash string) (*rules.Table, error) {
	var version int64
	var rulesJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT version, rules
		FROM rule_tables
		WHERE hash = ?
	`, hash).Scan(&version, &rulesJSON)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", hash, err)
	}

	return unmarshalRules(version, rulesJSON)
}

// ReadCertificate retrieves a certificate by content-addressed ID.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) ReadCertificate(ctx context.Context, id string) (*cert.Certificate, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `
		SELECT record
		FROM certificates
		WHERE id = ?
	`, id).Scan(&record)
	if err != nil {
		return nil, fmt.Errorf("read certificate %s: %w", id, err)
	}

	return unmarshalCertificate(record)
}

// ReadRun returns all certificates for a run token in deterministic
// order: ORDER BY seq ASC, id ASC COLLATE BINARY. Re-reading a run
// always yields the identical record sequence.
//
// Returns an empty slice (not nil) if no records exist for the run.
func (s *Store) ReadRun(ctx context.Context, runID string) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, table_hash, record
		FROM certificates
		WHERE run_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run %s: %w", runID, err)
	}
	defer rows.Close()

	records := []RunRecord{}
	for rows.Next() {
		var rec RunRecord
		var record string
		if err := rows.Scan(&rec.ID, &rec.Seq, &rec.TableHash, &record); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		if rec.Certificate, err = unmarshalCertificate(record); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run records: %w", err)
	}

	return records, nil
}
