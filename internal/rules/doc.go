// Package rules defines the auxiliary rule table and the prototype
// mapping from fixed-width symbol windows to property tag sets.
//
// A Table is an immutable snapshot: construction validates it, and every
// update (see the feedback package) produces a new snapshot with a new
// version number. Solves read exactly one snapshot and are therefore
// unaffected by concurrent updates.
//
// Identity is content-addressed. Table.Hash() is a SHA-256 digest over
// the table's canonical JSON form with a domain-separation prefix, so two
// tables with identical content hash identically across processes and
// runs. Canonical serialization follows RFC 8785 (sorted UTF-16 keys, NFC
// strings, no HTML escaping) extended with one documented deviation:
// real-valued fields are serialized as shortest round-trip decimals,
// since rule weights and penalties are inherently real numbers. NaN and
// infinities are rejected.
package rules
