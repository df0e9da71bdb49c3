package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySequence indicates a sequence with no symbols.
	ErrEmptySequence = errors.New("lattice: sequence must be non-empty")

	// ErrInvalidIndex indicates an index outside [0, n-1].
	ErrInvalidIndex = errors.New("lattice: index out of range")

	// ErrWindowOutOfRange indicates a window extending past sequence bounds.
	ErrWindowOutOfRange = errors.New("lattice: window out of range")
)

// Coord maps index i of an n-symbol sequence to the span lattice [-1, 1].
//
// For n > 1 the mapping is x(i) = 2*(i/(n-1)) - 1. For n = 1 the formula
// would divide by zero, so the single index maps to 0.
//
// Returns ErrInvalidIndex if i is outside [0, n-1], or ErrEmptySequence
// if n < 1.
func Coord(n, i int) (float64, error) {
	if n < 1 {
		return 0, ErrEmptySequence
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: i=%d, n=%d", ErrInvalidIndex, i, n)
	}
	if n == 1 {
		return 0, nil
	}
	return 2*(float64(i)/float64(n-1)) - 1, nil
}

// Sequence is an immutable symbol sequence over a finite alphabet.
// The zero value is empty and invalid for all operations.
type Sequence struct {
	symbols string
}

// NewSequence wraps raw symbols as an immutable Sequence.
// Returns ErrEmptySequence for an empty input.
func NewSequence(symbols string) (Sequence, error) {
	if len(symbols) == 0 {
		return Sequence{}, ErrEmptySequence
	}
	return Sequence{symbols: symbols}, nil
}

// MustSequence is like NewSequence but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustSequence(symbols string) Sequence {
	s, err := NewSequence(symbols)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of symbols.
func (s Sequence) Len() int {
	return len(s.symbols)
}

// String returns the raw symbol content.
func (s Sequence) String() string {
	return s.symbols
}

// Window returns the k symbols starting at index i.
// Returns ErrWindowOutOfRange if [i, i+k) extends past the sequence,
// or if k < 1.
func (s Sequence) Window(i, k int) (string, error) {
	if k < 1 || i < 0 || i+k > len(s.symbols) {
		return "", fmt.Errorf("%w: start=%d, k=%d, n=%d", ErrWindowOutOfRange, i, k, len(s.symbols))
	}
	return s.symbols[i : i+k], nil
}

// Slice returns the symbols in the half-open index range [start, end).
// Returns ErrWindowOutOfRange for ranges outside the sequence or with
// end <= start.
func (s Sequence) Slice(start, end int) (string, error) {
	if start < 0 || end > len(s.symbols) || end <= start {
		return "", fmt.Errorf("%w: range [%d,%d), n=%d", ErrWindowOutOfRange, start, end, len(s.symbols))
	}
	return s.symbols[start:end], nil
}

// Coord maps index i of this sequence onto the span lattice.
func (s Sequence) Coord(i int) (float64, error) {
	return Coord(len(s.symbols), i)
}
