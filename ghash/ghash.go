// Package ghash implements GHASH, the GF(2^128) keyed universal hash
// AES-GCM uses for authentication. Grounded on NIST SP 800-38D and on
// the calling convention in original_source/src/mid/aes_gcm.rs
// (GhashTable::new(h), Ghash::new(&table), ghash.add(block),
// ghash.into_bytes()).
package ghash

import "encoding/binary"

// reducingPoly is the GCM field's reduction polynomial x^128 + x^7 +
// x^2 + x + 1, represented in GCM's bit-reflected convention (the top
// 8 bits of this constant are the polynomial's non-leading terms,
// reflected; the rest are zero).
const reducingPoly uint64 = 0xe1 << 56

// Table precomputes H-multiples derived from the GHASH subkey H =
// E_K(0^128), once per AES key install. The layout here is a
// straightforward bit-at-a-time carryless-multiply-by-shift-and-
// reduce; an accelerated backend is free to use a different layout as
// long as it is derived from H deterministically.
type Table struct {
	// hL, hH hold H's two 64-bit halves, big-endian-bit-order within
	// each half (hH is the more-significant half).
	hH, hL uint64
}

// NewTable derives a GHASH Table from the 16-byte subkey h = E_K(0^128).
func NewTable(h [16]byte) *Table {
	return &Table{
		hH: binary.BigEndian.Uint64(h[:8]),
		hL: binary.BigEndian.Uint64(h[8:]),
	}
}

// Digest is the per-message accumulator (state X). The zero value,
// given a Table, is ready to absorb blocks starting from X=0.
type Digest struct {
	table  *Table
	xH, xL uint64
}

// New returns a fresh Digest over table, with X initialized to zero.
func New(table *Table) *Digest {
	return &Digest{table: table}
}

// Add absorbs one 16-byte block: X <- (X XOR block) * H. Partial
// (trailing) blocks must be zero-extended by the caller before calling
// Add — Digest itself has no notion of partial blocks (that's
// blockwise's job).
func (d *Digest) Add(block [16]byte) {
	d.xH ^= binary.BigEndian.Uint64(block[:8])
	d.xL ^= binary.BigEndian.Uint64(block[8:])
	d.xH, d.xL = gfMul(d.xH, d.xL, d.table.hH, d.table.hL)
}

// Sum finalizes the digest, returning X as 16 bytes. The Digest is left
// usable for continued absorption, treating digest state as plain
// accumulator bits rather than a one-shot consuming call — callers
// that want a fresh accumulator per message construct a new Digest via
// New instead of reusing Sum's receiver across unrelated messages.
func (d *Digest) Sum() [16]byte {
	var out [16]byte
	binary.BigEndian.PutUint64(out[:8], d.xH)
	binary.BigEndian.PutUint64(out[8:], d.xL)
	return out
}

// gfMul computes (xH:xL) * (yH:yL) in GF(2^128) under the GCM
// bit-reflected convention, via a branch-free (on data) shift-and-add-
// reduce across all 128 bits of y. No lookup table indexed by a secret
// value is used in this generic backend; every iteration does the same
// fixed amount of work regardless of the operands' bits.
func gfMul(xH, xL, yH, yL uint64) (zH, zL uint64) {
	var rH, rL uint64

	for i := 0; i < 128; i++ {
		// Bit i of y, scanned from the most significant bit of yH
		// down to the least significant bit of yL — the standard
		// GCM bit order for this convention.
		var bit uint64
		if i < 64 {
			bit = (yH >> uint(63-i)) & 1
		} else {
			bit = (yL >> uint(127-i)) & 1
		}
		mask := 0 - bit

		rH ^= xH & mask
		rL ^= xL & mask

		// Under the bit-reflected convention, x is shifted right
		// across the 128-bit pair rather than left; the bit shifted
		// out of xL's bottom (the pre-shift value of x's top bit)
		// triggers reduction by the field polynomial.
		carryOut := xL & 1
		xL = (xL >> 1) | (xH << 63)
		xH = xH >> 1
		reduceMask := 0 - carryOut
		xH ^= reducingPoly & reduceMask
	}

	return rH, rL
}
