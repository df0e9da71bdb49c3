// Package store provides SQLite-backed durable storage for rule-table
// snapshots and solve certificates.
//
// The store is an append-only record log:
//   - Rule tables: versioned snapshots, keyed by content hash
//   - Certificates: one per solve, keyed by content-addressed ID and
//     stamped with a run token plus a logical clock seq
//
// Ordering uses seq INTEGER (logical clock), never timestamps, and all
// multi-row queries order by seq ASC, id ASC COLLATE BINARY so replayed
// reads are byte-identical. Writes use ON CONFLICT DO NOTHING:
// content-addressed rows make duplicate writes harmless.
//
// Database configuration:
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: certificates reference persisted tables
//
// Content-addressed IDs come from the rules and cert packages: RFC 8785
// canonical JSON hashed with SHA-256 under a domain prefix.
package store
