package bignum

import (
	"math/bits"

	"github.com/vellum-crypto/vellum/cryptoerr"
	"github.com/vellum-crypto/vellum/ctutil"
)

// Modulus bundles an odd Nat n with the Montgomery-domain constants
// derived from it once at construction: n0 = -n^-1 mod 2^64
// (MontNegInverse), the montifier R^2 mod n, and R mod n ("one" in the
// domain). Generalized to any odd modulus so rsa and (were this core
// extended to P-256) elliptic-curve field arithmetic can share it.
type Modulus struct {
	n         *Nat
	n0        uint64
	montifier *Nat // R^2 mod n
	one       *Nat // R mod n, i.e. 1 in the Montgomery domain
}

// NewModulus validates n (must be odd) and precomputes its Montgomery
// constants. Bit-length/range validation specific to a particular
// consumer (e.g. rsa's [2048, 8192]-bit window) is that consumer's
// responsibility — Modulus itself only enforces the arithmetic
// precondition (odd n) that Montgomery form requires.
func NewModulus(n *Nat) (*Modulus, error) {
	if n.IsEven() {
		return nil, cryptoerr.ErrOutOfRange
	}

	m := &Modulus{n: n, n0: n.MontNegInverse(), montifier: n.Montifier()}

	one := NewNat(n.LenWords())
	one.words[0] = 1
	m.one = m.MontMul(one, m.montifier)
	return m, nil
}

// N returns a copy of the modulus in standard (non-Montgomery) form.
func (m *Modulus) N() *Nat { return m.n.Clone() }

// One returns R mod n, the multiplicative identity's representation in
// the Montgomery domain.
func (m *Modulus) One() *Nat { return m.one.Clone() }

// MontMul computes r = a*b*R^-1 mod n for a, b already in the
// Montgomery domain. The final conditional subtraction
// of n is performed unconditionally, selected on the reduction's carry
// and the trial subtraction's borrow via ctutil.SelectU64 rather than a
// branch.
func (m *Modulus) MontMul(a, b *Nat) *Nat {
	return m.Redc(mulWide(a.words, b.words))
}

// MontSqr computes a*a*R^-1 mod n. It is implemented directly atop
// MontMul; squaring-specific shortcuts would only help performance,
// not the constant-time contract, and this core is optimized for
// auditability over speed in its generic (non-accelerated) backend.
func (m *Modulus) MontSqr(a *Nat) *Nat {
	return m.MontMul(a, a)
}

// Redc reduces a 2N-word wide value (conceptually T < n*R, which holds
// whenever T is itself the product of two values already reduced mod
// n) into N words in the Montgomery domain, via separated
// operand-scanning Montgomery reduction.
func (m *Modulus) Redc(wide []uint64) *Nat {
	nw := m.n.LenWords()
	if len(wide) != 2*nw {
		panic("bignum: Redc requires a 2N-word input")
	}

	t := append([]uint64(nil), wide...)
	var top uint64 // carry out of t's top word; the reduced value is top:t[nw:]
	for i := 0; i < nw; i++ {
		mi := t[i] * m.n0 // low-word product mod 2^64, by uint64 wraparound

		var carry uint64
		for j := 0; j < nw; j++ {
			hi, lo := bits.Mul64(mi, m.n.words[j])

			var c uint64
			lo, c = bits.Add64(lo, carry, 0)
			hi += c

			lo, c = bits.Add64(t[i+j], lo, 0)
			hi += c

			t[i+j] = lo
			carry = hi
		}

		// Propagate the final carry through every remaining word
		// unconditionally — the loop bound (2*nw - i - nw) depends
		// only on the public iteration index i, never on carry's
		// value.
		c := carry
		for k := i + nw; k < 2*nw; k++ {
			t[k], c = bits.Add64(t[k], c, 0)
		}
		top += c
	}

	result := NewNat(nw)
	copy(result.words, t[nw:2*nw])
	return m.condSub(result, top)
}

// condSub returns (carry:r)-n if carry:r >= n, else r unchanged,
// selected branch-free from the carry word above r and the borrow flag
// of the trial subtraction.
func (m *Modulus) condSub(r *Nat, carry uint64) *Nat {
	diff, borrow := subWords(r.words, m.n.words)
	// carry=0 and borrow=1 (r<n) -> keep r; otherwise -> keep diff
	mask := ctutil.MaskU64(borrow) &^ ctutil.MaskU64(carry)

	out := NewNat(m.n.LenWords())
	for i := range out.words {
		out.words[i] = ctutil.SelectU64(mask, diff[i], r.words[i])
	}
	return out
}

// ToMontgomery converts x (standard domain, x < n) into the Montgomery
// domain: xR mod n.
func (m *Modulus) ToMontgomery(x *Nat) *Nat {
	return m.MontMul(x, m.montifier)
}

// FromMontgomery converts xMont (Montgomery domain) back to the
// standard domain: x mod n.
func (m *Modulus) FromMontgomery(xMont *Nat) *Nat {
	nw := m.n.LenWords()
	wide := make([]uint64, 2*nw)
	copy(wide[:nw], xMont.words)
	return m.Redc(wide)
}

// Montifier computes R^2 mod n, where R = 2^(64*LenWords()), via
// 2*64*LenWords() repeated modular doublings starting from the value 1:
// doubling 1 the full 2*64*N times reaches R^2 mod n directly in one
// length-bounded loop whose iteration count is public — it depends on
// N, never on n's or the running accumulator's value.
func (n *Nat) Montifier() *Nat {
	nw := n.LenWords()
	acc := NewNat(nw)
	acc.words[0] = 1
	for i := 0; i < 2*64*nw; i++ {
		acc = doubleModN(acc, n)
	}
	return acc
}

// doubleModN computes (2*acc) mod n in constant time, where acc < n.
// Doubling can overflow the declared width by one bit (when n's top
// word uses its full range); that overflow is folded into the
// subtract-or-keep decision alongside the ordinary borrow flag, rather
// than requiring an extra word of state.
func doubleModN(acc, n *Nat) *Nat {
	sum, carry := addWords(acc.words, acc.words)
	diff, borrow := subWords(sum, n.words)

	// value (= carry:sum as an (nw+1)-word number) >= n iff carry==1
	// or borrow==0. diff's low nw words already equal (sum-n) mod
	// 2^(64*nw) regardless of carry, so no separate high-word
	// bookkeeping is needed once the decision mask is right.
	carryMask := ctutil.MaskU64(carry)
	useDiffMask := carryMask | ^ctutil.MaskU64(borrow)

	out := NewNat(n.LenWords())
	for i := range out.words {
		out.words[i] = ctutil.SelectU64(useDiffMask, sum[i], diff[i])
	}
	return out
}

// MontNegInverse computes n0 = -n^-1 mod 2^64 via Newton-Hensel
// iteration, depending only on n's low word. Five
// doublings of precision starting from the 3 correct bits of the seed
// y=n (odd n squares to 1 mod 8) comfortably clear 64 bits (3, 6, 12,
// 24, 48, 96).
func (n *Nat) MontNegInverse() uint64 {
	x := n.words[0]
	y := x
	for i := 0; i < 5; i++ {
		y = y * (2 - x*y)
	}
	return -y
}
