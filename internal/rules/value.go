package rules

import (
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the types allowed in canonical JSON.
// Only CString, CInt, CFloat, CBool, CArray, and CObject implement it.
// Null is not representable: absent fields are omitted, never null.
type Value interface {
	canonicalValue() // sealed
}

// CString is a string value. NFC-normalized at serialization.
type CString string

func (CString) canonicalValue() {}

// CInt is an integer value, always int64.
type CInt int64

func (CInt) canonicalValue() {}

// CFloat is a finite real value. Serialized as the shortest decimal that
// round-trips through float64. NaN and infinities fail serialization.
type CFloat float64

func (CFloat) canonicalValue() {}

// CBool is a boolean value.
type CBool bool

func (CBool) canonicalValue() {}

// CArray is an ordered array of values.
type CArray []Value

func (CArray) canonicalValue() {}

// CObject maps string keys to values. Use SortedKeys for deterministic
// iteration.
type CObject map[string]Value

func (CObject) canonicalValue() {}

// SortedKeys returns keys in RFC 8785 canonical order: UTF-16 code unit
// ordering, not Go's native UTF-8 byte ordering. The two differ for
// strings containing supplementary-plane characters.
func (obj CObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units as RFC 8785
// requires. utf16.Encode handles surrogate pairs correctly.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// StringArray builds a CArray from strings, preserving order.
func StringArray(ss []string) CArray {
	arr := make(CArray, len(ss))
	for i, s := range ss {
		arr[i] = CString(s)
	}
	return arr
}
