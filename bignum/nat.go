// Package bignum implements fixed-width, nonnegative multi-precision
// integers held as N 64-bit words, and the Montgomery-domain modular
// arithmetic built on top of them. Every operation here is
// constant-time in the *value* of its operands — the only thing any
// branch or loop bound may depend on is N, a capacity fixed once at
// construction (see SPEC_FULL.md §3 for why Go represents it as a runtime
// field rather than a generic array length).
package bignum

import (
	"encoding/binary"

	"github.com/vellum-crypto/vellum/cryptoerr"
)

// Nat is a nonnegative integer held in a fixed number of 64-bit words,
// little-endian word order (words[0] is least significant). The word
// count is fixed at construction and never changes; there is no
// leading-zero normalization — every Nat of a given capacity always
// occupies exactly that many words, and that capacity is the only
// length information any operation may branch on.
type Nat struct {
	words []uint64
}

// NewNat returns the zero value of PosInt<N> for N = capacityWords.
func NewNat(capacityWords int) *Nat {
	if capacityWords <= 0 {
		panic("bignum: capacity must be positive")
	}
	return &Nat{words: make([]uint64, capacityWords)}
}

// FromBytes decodes a big-endian byte string into a Nat with the given
// word capacity, failing with cryptoerr.ErrOutOfRange if data's
// magnitude needs more than capacityWords*8 bytes to represent. Leading
// zero bytes in data beyond the declared width are tolerated.
func FromBytes(capacityWords int, data []byte) (*Nat, error) {
	n := NewNat(capacityWords)
	maxLen := capacityWords * 8

	if len(data) > maxLen {
		for _, b := range data[:len(data)-maxLen] {
			if b != 0 {
				return nil, cryptoerr.ErrOutOfRange
			}
		}
		data = data[len(data)-maxLen:]
	}

	buf := make([]byte, maxLen)
	copy(buf[maxLen-len(data):], data)
	for i := 0; i < capacityWords; i++ {
		off := maxLen - (i+1)*8
		n.words[i] = binary.BigEndian.Uint64(buf[off : off+8])
	}
	return n, nil
}

// ToBytes writes n's big-endian representation, zero-padded to its
// declared width (LenBytes()), into dst. len(dst) must equal
// n.LenBytes() exactly — a caller contract, enforced by panic rather
// than a runtime error.
func (n *Nat) ToBytes(dst []byte) []byte {
	if len(dst) != n.LenBytes() {
		panic("bignum: ToBytes destination length must equal LenBytes()")
	}
	for i, w := range n.words {
		off := len(dst) - (i+1)*8
		binary.BigEndian.PutUint64(dst[off:off+8], w)
	}
	return dst
}

// LenWords returns N, the declared (public) word capacity.
func (n *Nat) LenWords() int { return len(n.words) }

// LenBytes returns the declared (public) byte width, N*8.
func (n *Nat) LenBytes() int { return len(n.words) * 8 }

// IsEven reports whether n's least-significant bit is clear.
func (n *Nat) IsEven() bool { return n.words[0]&1 == 0 }

// Clone returns an independent copy of n.
func (n *Nat) Clone() *Nat {
	c := NewNat(len(n.words))
	copy(c.words, n.words)
	return c
}

// LessThan reports whether n < other, in time depending only on their
// shared word capacity (a programmer-error contract requires equal
// capacity). The comparison folds words from most to least significant
// using a running decided/undecided mask pair rather than an early
// return, so no branch depends on where the first differing word falls.
func (n *Nat) LessThan(other *Nat) bool {
	if len(n.words) != len(other.words) {
		panic("bignum: LessThan requires equal capacity")
	}

	var lt, decided uint64
	for i := len(n.words) - 1; i >= 0; i-- {
		a, b := n.words[i], other.words[i]
		wordLt := maskBorrow(a, b)
		wordGt := maskBorrow(b, a)
		undecided := ^decided
		lt |= wordLt & undecided
		decided |= (wordLt | wordGt) & undecided
	}
	return lt&1 == 1
}

func maskBorrow(a, b uint64) uint64 {
	return 0 - subBorrow(a, b)
}
