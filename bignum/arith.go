package bignum

import "math/bits"

// subBorrow returns 1 if a-b borrows (a < b), else 0. A thin wrapper
// over bits.Sub64 kept separate so nat.go's comparison logic reads as
// "borrow", not raw bit-twiddling.
func subBorrow(a, b uint64) uint64 {
	_, borrow := bits.Sub64(a, b, 0)
	return borrow
}

// mulWide computes the full 2N-word product of two N-word operands
// using operand-scanning schoolbook multiplication. Every loop bound is
// fixed by N; no iteration is skipped based on an operand word being
// zero, so runtime never depends on the operand's value.
func mulWide(a, b []uint64) []uint64 {
	n := len(a)
	out := make([]uint64, 2*n)

	for i := 0; i < n; i++ {
		var carry uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(a[i], b[j])

			var c uint64
			lo, c = bits.Add64(lo, carry, 0)
			hi += c

			lo, c = bits.Add64(out[i+j], lo, 0)
			hi += c

			out[i+j] = lo
			carry = hi
		}
		out[i+n] = carry
	}
	return out
}

// addWords computes a+b over equal-length word slices, returning the
// result and the final carry-out bit (0 or 1).
func addWords(a, b []uint64) ([]uint64, uint64) {
	n := len(a)
	out := make([]uint64, n)
	var carry uint64
	for i := 0; i < n; i++ {
		out[i], carry = bits.Add64(a[i], b[i], carry)
	}
	return out, carry
}

// subWords computes a-b over equal-length word slices, returning the
// result and the final borrow-out bit (0 or 1).
func subWords(a, b []uint64) ([]uint64, uint64) {
	n := len(a)
	out := make([]uint64, n)
	var borrow uint64
	for i := 0; i < n; i++ {
		out[i], borrow = bits.Sub64(a[i], b[i], borrow)
	}
	return out, borrow
}
