// Package rsa implements the public-modulus RSA operation: m = c^e mod
// n, via bignum's Montgomery domain. Secret-key (signing/decryption)
// RSA is out of scope — this package has no notion of a private
// exponent.
//
// Grounded on original_source/src/mid/rsa_pub.rs (RsaPublicKey::new,
// public_op, and the modulus bit-length window).
package rsa

import (
	"math/bits"

	"github.com/vellum-crypto/vellum/bignum"
	"github.com/vellum-crypto/vellum/cryptoerr"
)

const (
	// MinPublicModulusBits is the smallest accepted RSA modulus size.
	MinPublicModulusBits = 2048
	// MaxPublicModulusBits is the largest accepted RSA modulus size.
	MaxPublicModulusBits = 8192

	minPublicModulusBytes = MinPublicModulusBits / 8
	maxPublicModulusBytes = MaxPublicModulusBits / 8
	maxPublicModulusWords = MaxPublicModulusBits / 64
)

// PublicKey is the immutable triple (n, e, precomputes), fixed-width
// at maxPublicModulusWords regardless of the actual modulus size
// within [2048, 8192] bits — the same "declared width, not value"
// discipline bignum.Nat enforces throughout.
type PublicKey struct {
	mod *bignum.Modulus
	e   uint32
}

// NewPublicKey validates n and e and precomputes the Montgomery
// constants used by PublicOp. n must be odd and between
// MinPublicModulusBits and MaxPublicModulusBits (inclusive) bits wide;
// e must be nonzero.
func NewPublicKey(n []byte, e uint32) (*PublicKey, error) {
	if e == 0 {
		return nil, cryptoerr.ErrOutOfRange
	}

	// Trim leading zero bytes first so the modulus's *true* magnitude —
	// down to the bit, not just the byte — is what gets checked against
	// the accepted [2048, 8192]-bit window: a 2047- or 8193-bit modulus
	// must be rejected, not merely one outside the byte-rounded range.
	trimmed := n
	for len(trimmed) > 0 && trimmed[0] == 0 {
		trimmed = trimmed[1:]
	}
	if len(trimmed) == 0 {
		return nil, cryptoerr.ErrOutOfRange
	}
	bitLenN := (len(trimmed)-1)*8 + bits.Len8(trimmed[0])
	if bitLenN < MinPublicModulusBits || bitLenN > MaxPublicModulusBits {
		return nil, cryptoerr.ErrOutOfRange
	}

	nNat, err := bignum.FromBytes(maxPublicModulusWords, n)
	if err != nil {
		return nil, cryptoerr.ErrOutOfRange
	}

	mod, err := bignum.NewModulus(nNat)
	if err != nil {
		return nil, err
	}

	return &PublicKey{mod: mod, e: e}, nil
}

// ModulusLenBytes returns the fixed (maximum) modulus width this
// PublicKey operates at.
func (k *PublicKey) ModulusLenBytes() int { return maxPublicModulusBytes }

// PublicOp computes m = c^e mod n. c must satisfy 0 <= c
// < n; otherwise cryptoerr.ErrOutOfRange is returned before any
// secret-dependent work begins. Because e is public (typically 65537),
// the square-and-multiply loop is permitted to branch on e's bits —
// this is the only bignum consumer in this module allowed to do so,
// and it never scans bits of c or n.
func (k *PublicKey) PublicOp(c []byte) ([]byte, error) {
	cNat, err := bignum.FromBytes(maxPublicModulusWords, c)
	if err != nil {
		return nil, cryptoerr.ErrOutOfRange
	}
	if !cNat.LessThan(k.mod.N()) {
		return nil, cryptoerr.ErrOutOfRange
	}

	cMont := k.mod.ToMontgomery(cNat)
	acc := k.mod.One()

	first := true
	for bit := bitLen(k.e) - 1; bit >= 0; bit-- {
		if first {
			first = false
		} else {
			acc = k.mod.MontSqr(acc)
		}
		if k.e&(1<<uint(bit)) != 0 {
			acc = k.mod.MontMul(acc, cMont)
		}
	}

	m := k.mod.FromMontgomery(acc)
	out := make([]byte, maxPublicModulusBytes)
	m.ToBytes(out)
	return out, nil
}

// bitLen returns floor(log2(e))+1, the number of bits needed to
// represent e (e is assumed nonzero, guaranteed by NewPublicKey).
func bitLen(e uint32) int {
	n := 0
	for e != 0 {
		e >>= 1
		n++
	}
	return n
}
