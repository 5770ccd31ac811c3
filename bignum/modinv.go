package bignum

import (
	"math/big"

	"github.com/vellum-crypto/vellum/cryptoerr"
)

// ModInv computes a^-1 mod n for odd n. It sits outside the
// timing-sensitive RSA-public hot path (mont_mul/mont_sqr/mont_redc),
// so it is implemented on top of math/big rather than a from-scratch
// constant-time binary GCD: every other primitive in this package
// avoids math/big specifically because it is not constant-time, but
// this operation has no secret-dependent callers in this module, and
// reusing the standard library's well-tested extended Euclidean
// algorithm here is preferable to a bespoke non-constant-time one.
// Callers needing a constant-time inverse on a secret-dependent path
// must not use this function.
func ModInv(a, n *Nat) (*Nat, error) {
	nBig := new(big.Int).SetBytes(toBytes(n))
	aBig := new(big.Int).SetBytes(toBytes(a))
	aBig.Mod(aBig, nBig)

	inv := new(big.Int).ModInverse(aBig, nBig)
	if inv == nil {
		return nil, cryptoerr.ErrOutOfRange
	}

	buf := make([]byte, n.LenBytes())
	inv.FillBytes(buf)
	return FromBytes(n.LenWords(), buf)
}

func toBytes(n *Nat) []byte {
	buf := make([]byte, n.LenBytes())
	n.ToBytes(buf)
	return buf
}
