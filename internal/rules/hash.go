package rules

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity. The version suffix
// enables future algorithm migration without colliding digests.
const (
	DomainTable       = "recomb/table/v1"
	DomainCertificate = "recomb/certificate/v1"
)

// HashWithDomain computes a SHA-256 digest with domain separation.
// Format: SHA256(domain + 0x00 + data), hex encoded.
// The null byte prevents domain/data boundary ambiguity.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash returns the table's content hash: SHA-256 over its canonical JSON
// with the table domain prefix. Two tables with identical rule content
// hash identically regardless of version or construction order.
func (t *Table) Hash() (string, error) {
	canonical, err := MarshalCanonical(t.canonical())
	if err != nil {
		return "", fmt.Errorf("table hash: %w", err)
	}
	return HashWithDomain(DomainTable, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only in tests or when the table is known to be hashable.
func (t *Table) MustHash() string {
	h, err := t.Hash()
	if err != nil {
		panic(err)
	}
	return h
}
