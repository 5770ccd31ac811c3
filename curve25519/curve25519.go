package curve25519

// ScalarSize and PointSize are both 32 bytes per RFC 7748.
const ScalarSize = 32
const PointSize = 32

// basePoint is u=9, the RFC 7748 Curve25519 base point.
var basePoint = [32]byte{9}

// a24 is (486662-2)/4 = 121665, the Montgomery ladder coefficient for
// Curve25519's curve equation.
const a24 = 121665

// X25519 computes the X25519 function (RFC 7748 §5): scalar-multiplies
// point by scalar (after RFC 7748 §5's clamping) via the Montgomery
// ladder, writing the 32-byte result to out.
func X25519(out *[32]byte, scalar, point *[32]byte) {
	u := feFromBytes(*point)
	k := clampScalar(*scalar)
	*out = feToBytes(ladder(k, u))
}

// X25519Base computes X25519 against the fixed base point u=9.
func X25519Base(out *[32]byte, scalar *[32]byte) {
	X25519(out, scalar, &basePoint)
}

// clampScalar applies RFC 7748 §5's scalar clamping: clear the low 3
// bits, clear the high bit, and set the second-highest bit.
func clampScalar(scalar [32]byte) [32]byte {
	scalar[0] &= 248
	scalar[31] &= 127
	scalar[31] |= 64
	return scalar
}

// ladder runs the Montgomery ladder (RFC 7748 §5) over the clamped
// scalar k and the u-coordinate u, using constant-time cswap at every
// step so the sequence of field operations is independent of k's bits
// — only the public bit *position* (the loop index) ever appears in a
// branch.
func ladder(k [32]byte, u fieldElement) fieldElement {
	x1 := u
	x2 := feOne()
	z2 := feZero()
	x3 := u
	z3 := feOne()

	var swap uint64

	for pos := 254; pos >= 0; pos-- {
		bit := uint64((k[pos/8] >> uint(pos%8)) & 1)
		swap ^= bit
		feCSwap(&x2, &x3, swap)
		feCSwap(&z2, &z3, swap)
		swap = bit

		a := feAdd(x2, z2)
		aa := feSquare(a)
		b := feSub(x2, z2)
		bb := feSquare(b)
		e := feSub(aa, bb)
		c := feAdd(x3, z3)
		d := feSub(x3, z3)
		da := feMul(d, a)
		cb := feMul(c, b)

		x3 = feSquare(feAdd(da, cb))
		z3 = feMul(x1, feSquare(feSub(da, cb)))
		x2 = feMul(aa, bb)
		z2 = feMul(e, feAdd(aa, feMulSmall(e, a24)))
	}

	feCSwap(&x2, &x3, swap)
	feCSwap(&z2, &z3, swap)

	return feMul(x2, feInvert(z2))
}
