// Package curve25519 implements X25519 (RFC 7748). Field arithmetic
// uses the standard radix-2^51 five-limb representation for integers
// mod 2^255-19, the layout used throughout the Go crypto ecosystem's
// curve25519 implementations (golang.org/x/crypto/curve25519's
// internal field type follows the same radix). original_source names
// the lower-level module (src/low/mod.rs) but its RFC 7748 test
// vectors are retrievable and are used as this package's known-answer
// tests; the field-arithmetic body itself is original Go following
// that standard layout, since the Rust source's field implementation
// was not retrievable.
package curve25519

// fieldElement represents an integer mod 2^255-19 as five 51-bit limbs,
// little-endian by significance. Limbs are allowed to carry slightly
// more than 51 bits between reductions; reduce brings every limb back
// under 2^51.
type fieldElement [5]uint64

const maskLow51Bits = (uint64(1) << 51) - 1

func feZero() fieldElement { return fieldElement{} }

func feOne() fieldElement { return fieldElement{1, 0, 0, 0, 0} }

// feFromBytes decodes a 32-byte little-endian value into a field
// element, masking the top bit per RFC 7748 §5 (the high bit of the
// most significant byte is ignored on decode for both u-coordinates
// and scalars' clamped form is handled separately).
func feFromBytes(b [32]byte) fieldElement {
	b[31] &= 0x7f

	var lo [4]uint64
	for i := 0; i < 4; i++ {
		lo[i] = uint64(b[8*i]) | uint64(b[8*i+1])<<8 | uint64(b[8*i+2])<<16 | uint64(b[8*i+3])<<24 |
			uint64(b[8*i+4])<<32 | uint64(b[8*i+5])<<40 | uint64(b[8*i+6])<<48 | uint64(b[8*i+7])<<56
	}

	var fe fieldElement
	fe[0] = lo[0] & maskLow51Bits
	fe[1] = (lo[0]>>51 | lo[1]<<13) & maskLow51Bits
	fe[2] = (lo[1]>>38 | lo[2]<<26) & maskLow51Bits
	fe[3] = (lo[2]>>25 | lo[3]<<39) & maskLow51Bits
	fe[4] = lo[3] >> 12
	return fe
}

// feToBytes fully reduces fe mod 2^255-19 and encodes it as 32
// little-endian bytes.
func feToBytes(fe fieldElement) [32]byte {
	fe = feReduceFull(fe)

	lo0 := fe[0] | fe[1]<<51
	lo1 := fe[1]>>13 | fe[2]<<38
	lo2 := fe[2]>>26 | fe[3]<<25
	lo3 := fe[3]>>39 | fe[4]<<12

	var out [32]byte
	for i, w := range [4]uint64{lo0, lo1, lo2, lo3} {
		out[8*i] = byte(w)
		out[8*i+1] = byte(w >> 8)
		out[8*i+2] = byte(w >> 16)
		out[8*i+3] = byte(w >> 24)
		out[8*i+4] = byte(w >> 32)
		out[8*i+5] = byte(w >> 40)
		out[8*i+6] = byte(w >> 48)
		out[8*i+7] = byte(w >> 56)
	}
	return out
}

// feCarryPropagate propagates carries from limb 0 upward and reduces
// the overflow above limb 4 back in via 2^255 = 19 (mod 2^255-19), the
// standard radix-51 reduction step used after every multiply/square.
func feCarryPropagate(fe fieldElement) fieldElement {
	c0 := fe[0] >> 51
	c1 := fe[1] >> 51
	c2 := fe[2] >> 51
	c3 := fe[3] >> 51
	c4 := fe[4] >> 51

	fe[0] &= maskLow51Bits
	fe[1] &= maskLow51Bits
	fe[2] &= maskLow51Bits
	fe[3] &= maskLow51Bits
	fe[4] &= maskLow51Bits

	fe[1] += c0
	fe[2] += c1
	fe[3] += c2
	fe[4] += c3
	fe[0] += c4 * 19

	return fe
}

func feAdd(a, b fieldElement) fieldElement {
	var r fieldElement
	for i := range r {
		r[i] = a[i] + b[i]
	}
	return feCarryPropagate(r)
}

// feSub computes a-b mod 2^255-19. Adding a multiple of p (here 2p, via
// the constant below) before subtracting keeps every limb non-negative
// without branching on the sign of a-b.
var feSubBias = fieldElement{
	0xFFFFFFFFFFFDA,
	0xFFFFFFFFFFFFE,
	0xFFFFFFFFFFFFE,
	0xFFFFFFFFFFFFE,
	0xFFFFFFFFFFFFE,
}

func feSub(a, b fieldElement) fieldElement {
	var r fieldElement
	for i := range r {
		r[i] = a[i] + feSubBias[i] - b[i]
	}
	return feCarryPropagate(r)
}

func feMul(a, b fieldElement) fieldElement {
	// Schoolbook 5x5 multiply with the standard radix-51
	// reduction-by-19 identity applied to cross terms that land above
	// limb 4 (2^255 = 19 mod 2^255-19, so each such term's weight of
	// 2^(51k) for k>=5 becomes 19*2^(51(k-5))).
	a0, a1, a2, a3, a4 := a[0], a[1], a[2], a[3], a[4]
	b0, b1, b2, b3, b4 := b[0], b[1], b[2], b[3], b[4]

	b1_19 := b1 * 19
	b2_19 := b2 * 19
	b3_19 := b3 * 19
	b4_19 := b4 * 19

	var lo, hi [5]uint64

	m := func(x, y uint64) (uint64, uint64) {
		return mulWide64(x, y)
	}

	add := func(i int, x, y uint64) {
		l, h := m(x, y)
		var carry uint64
		lo[i], carry = addc(lo[i], l, 0)
		hi[i], _ = addc(hi[i], h, carry)
	}

	add(0, a0, b0)
	add(0, a1, b4_19)
	add(0, a2, b3_19)
	add(0, a3, b2_19)
	add(0, a4, b1_19)

	add(1, a0, b1)
	add(1, a1, b0)
	add(1, a2, b4_19)
	add(1, a3, b3_19)
	add(1, a4, b2_19)

	add(2, a0, b2)
	add(2, a1, b1)
	add(2, a2, b0)
	add(2, a3, b4_19)
	add(2, a4, b3_19)

	add(3, a0, b3)
	add(3, a1, b2)
	add(3, a2, b1)
	add(3, a3, b0)
	add(3, a4, b4_19)

	add(4, a0, b4)
	add(4, a1, b3)
	add(4, a2, b2)
	add(4, a3, b1)
	add(4, a4, b0)

	return reduceWideLimbs(lo, hi)
}

func feSquare(a fieldElement) fieldElement {
	return feMul(a, a)
}

// reduceWideLimbs takes five (lo, hi) 128-bit products — each
// accumulating the weight-2^(51i) contribution to the 512-bit product
// before reduction — and folds them into a field element mod
// 2^255-19, using 51-bit carry chains between adjacent limbs, with the
// final carry out of limb 4 folded back via the x19 identity, exactly
// as feCarryPropagate does for the single-width case.
func reduceWideLimbs(lo, hi [5]uint64) fieldElement {
	var out [5]uint64
	var carry uint64
	for i := 0; i < 5; i++ {
		v := lo[i] + carry
		var overflow uint64
		if v < lo[i] {
			overflow = 1
		}
		out[i] = v & maskLow51Bits
		// The true 128-bit value at this position is v + (hi[i]+overflow)*2^64;
		// dividing by the limb's 2^51 weight carries (v>>51) plus
		// (hi[i]+overflow) scaled by 2^(64-51) into the next position.
		carry = (v >> 51) + (hi[i]+overflow)<<13
	}
	out[0] += carry * 19

	return feCarryPropagate(fieldElement(out))
}

func mulWide64(a, b uint64) (lo, hi uint64) {
	const mask32 = (uint64(1) << 32) - 1
	aLo, aHi := a&mask32, a>>32
	bLo, bHi := b&mask32, b>>32

	t0 := aLo * bLo
	t1 := aLo*bHi + aHi*bLo
	t2 := aHi * bHi

	lo = t0 + t1<<32
	carry := uint64(0)
	if lo < t0 {
		carry = 1
	}
	hi = t2 + t1>>32 + carry
	return
}

func addc(a, b, carryIn uint64) (sum, carryOut uint64) {
	sum = a + b + carryIn
	if sum < a || (carryIn == 1 && sum == a) {
		carryOut = 1
	}
	return
}

// feReduceFull fully reduces fe to its unique representative in
// [0, 2^255-19), via the standard conditional-subtract-p pattern: after
// carry propagation, fe is at most a few multiples of p above its
// canonical value, so one more propagation plus a constant-time
// conditional subtraction of p suffices.
func feReduceFull(fe fieldElement) fieldElement {
	fe = feCarryPropagate(fe)
	fe = feCarryPropagate(fe) // a second pass folds any carry the x19 add produced

	// p = 2^255-19, in the same limb layout.
	p := fieldElement{
		0x7FFFFFFFFFFED,
		0x7FFFFFFFFFFFF,
		0x7FFFFFFFFFFFF,
		0x7FFFFFFFFFFFF,
		0x7FFFFFFFFFFFF,
	}

	// Compute fe - p; if it doesn't borrow, fe >= p and we keep the
	// difference, else we keep fe. This mirrors bignum's condSub.
	var diff fieldElement
	var borrow uint64
	for i := 0; i < 5; i++ {
		d := fe[i] - p[i] - borrow
		borrow = (d >> 63) & 1
		diff[i] = d & maskLow51Bits
	}

	mask := uint64(0) - (1 - borrow)
	var out fieldElement
	for i := range out {
		out[i] = (fe[i] &^ mask) | (diff[i] & mask)
	}
	return out
}

// feInvert computes fe^-1 mod 2^255-19 via Fermat's little theorem
// (fe^(p-2)), using a fixed square-and-multiply addition chain. The
// exponent is public (fixed), so the chain's shape does not depend on
// fe's value; only fe's bits flow through uniform field operations.
func feInvert(fe fieldElement) fieldElement {
	// Standard curve25519 inversion addition chain: build up
	// 2^k - 1 exponents via repeated squarings, matching the
	// well-known addition chain used across the Go crypto ecosystem's
	// curve25519 implementations.
	z1 := fe
	z2 := feSquare(z1)
	z8 := feSquare(feSquare(z2))
	z9 := feMul(z8, z1)
	z11 := feMul(z9, z2)
	z22 := feSquare(z11)
	z_5_0 := feMul(z22, z9)

	z_10_0 := z_5_0
	for i := 0; i < 5; i++ {
		z_10_0 = feSquare(z_10_0)
	}
	z_10_0 = feMul(z_10_0, z_5_0)

	z_20_0 := z_10_0
	for i := 0; i < 10; i++ {
		z_20_0 = feSquare(z_20_0)
	}
	z_20_0 = feMul(z_20_0, z_10_0)

	z_40_0 := z_20_0
	for i := 0; i < 20; i++ {
		z_40_0 = feSquare(z_40_0)
	}
	z_40_0 = feMul(z_40_0, z_20_0)

	z_50_0 := z_40_0
	for i := 0; i < 10; i++ {
		z_50_0 = feSquare(z_50_0)
	}
	z_50_0 = feMul(z_50_0, z_10_0)

	z_100_0 := z_50_0
	for i := 0; i < 50; i++ {
		z_100_0 = feSquare(z_100_0)
	}
	z_100_0 = feMul(z_100_0, z_50_0)

	z_200_0 := z_100_0
	for i := 0; i < 100; i++ {
		z_200_0 = feSquare(z_200_0)
	}
	z_200_0 = feMul(z_200_0, z_100_0)

	z_250_0 := z_200_0
	for i := 0; i < 50; i++ {
		z_250_0 = feSquare(z_250_0)
	}
	z_250_0 = feMul(z_250_0, z_50_0)

	r := z_250_0
	for i := 0; i < 5; i++ {
		r = feSquare(r)
	}
	r = feMul(r, z11)

	return r
}

// feCSwap conditionally swaps a and b in constant time when swap is 1
// (the Montgomery ladder's cswap, branch-free in the swap bit's value).
func feCSwap(a, b *fieldElement, swap uint64) {
	mask := uint64(0) - swap
	for i := 0; i < 5; i++ {
		t := mask & (a[i] ^ b[i])
		a[i] ^= t
		b[i] ^= t
	}
}

// feMulSmall multiplies fe by a small public constant (used for the
// A24 = 121665 coefficient in the Montgomery ladder's curve equation).
func feMulSmall(fe fieldElement, c uint64) fieldElement {
	var lo, hi [5]uint64
	for i := 0; i < 5; i++ {
		l, h := mulWide64(fe[i], c)
		lo[i], hi[i] = l, h
	}
	return reduceWideLimbs(lo, hi)
}
