// Package aead implements AEAD drivers for AES-GCM and
// ChaCha20-Poly1305. AesGcm is stitched: it interleaves block-cipher
// keystream generation with GHASH accumulation in a single pass.
// ChaCha20Poly1305 is not: it runs the keystream over the whole
// message and the Poly1305 MAC over the whole ciphertext as two
// separate passes. Grounded
// on NIST SP 800-38D / RFC 7539 for the stitching order and on
// _examples/tmthrgd-chacha20poly1305/chacha20poly1305.go for the
// calling convention: in-place Encrypt/Decrypt methods named after the
// construction, plus crypto/cipher.AEAD-shaped Seal/Open wrappers where
// Seal panics on programmer-contract violations (bad nonce length) and
// Open returns an error for attacker-influenced failures
// (authentication failure).
package aead

import (
	"encoding/binary"

	"github.com/vellum-crypto/vellum/aesblock"
	"github.com/vellum-crypto/vellum/blockwise"
	"github.com/vellum-crypto/vellum/ctutil"
	"github.com/vellum-crypto/vellum/cryptoerr"
	"github.com/vellum-crypto/vellum/ghash"
)

// NonceSize is the only supported AES-GCM nonce length: this driver
// supports only the 96-bit nonce profile.
const NonceSize = 12

// TagSize is the AES-GCM authentication tag size.
const TagSize = 16

// AesGcm is a stitched AES-GCM driver bound to one AES key.
type AesGcm struct {
	key        *aesblock.Key
	ghashTable *ghash.Table
}

// NewAesGcm derives the GHASH subkey H = AES_K(0^128) and returns a
// driver ready to encrypt or decrypt any number of messages under key.
func NewAesGcm(key []byte) (*AesGcm, error) {
	k, err := aesblock.NewKey(key)
	if err != nil {
		return nil, err
	}

	var zero, h [16]byte
	k.Encrypt(h[:], zero[:])

	return &AesGcm{key: k, ghashTable: ghash.NewTable(h)}, nil
}

// Encrypt encrypts inout in place under nonce and aad, writing the
// 16-byte authentication tag to tagOut.
func (g *AesGcm) Encrypt(nonce, aad, inout []byte, tagOut []byte) {
	if len(nonce) != NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	if len(tagOut) != TagSize {
		panic("aead: tagOut must be 16 bytes")
	}

	y0 := counterBlock(nonce, 1)
	var eY0 [16]byte
	g.key.Encrypt(eY0[:], y0[:])

	acc := ghash.New(g.ghashTable)
	absorbAAD(acc, aad)

	counter := uint32(2)
	encryptBlock := func(chunk []byte) {
		var ks [16]byte
		block := counterBlock(nonce, counter)
		g.key.Encrypt(ks[:], block[:])
		for i := range chunk {
			chunk[i] ^= ks[i]
		}

		var padded [16]byte
		copy(padded[:], chunk)
		acc.Add(padded)
		counter++
	}

	absorber := blockwise.NewAbsorber(16)
	absorber.Feed(inout, func(full []byte) {
		for len(full) > 0 {
			encryptBlock(full[:16])
			full = full[16:]
		}
	})
	absorber.Finish(func(partial []byte) {
		if len(partial) > 0 {
			encryptBlock(inout[len(inout)-len(partial):])
		}
	})

	absorbLengths(acc, len(aad), len(inout))

	tag := acc.Sum()
	for i := range tag {
		tag[i] ^= eY0[i]
	}
	copy(tagOut, tag[:])
}

// Decrypt decrypts inout in place under nonce and aad, checking it
// against tag. On authentication failure, inout is zeroed before
// cryptoerr.ErrDecryptFailed is returned, so unauthenticated plaintext
// never leaves this call.
func (g *AesGcm) Decrypt(nonce, aad, inout []byte, tag []byte) error {
	if len(nonce) != NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	if len(tag) != TagSize {
		panic("aead: tag must be 16 bytes")
	}

	y0 := counterBlock(nonce, 1)
	var eY0 [16]byte
	g.key.Encrypt(eY0[:], y0[:])

	acc := ghash.New(g.ghashTable)
	absorbAAD(acc, aad)

	counter := uint32(2)
	decryptBlock := func(chunk []byte) {
		// GHASH absorbs ciphertext before decryption.
		var padded [16]byte
		copy(padded[:], chunk)
		acc.Add(padded)

		var ks [16]byte
		block := counterBlock(nonce, counter)
		g.key.Encrypt(ks[:], block[:])
		for i := range chunk {
			chunk[i] ^= ks[i]
		}
		counter++
	}

	absorber := blockwise.NewAbsorber(16)
	absorber.Feed(inout, func(full []byte) {
		for len(full) > 0 {
			decryptBlock(full[:16])
			full = full[16:]
		}
	})
	absorber.Finish(func(partial []byte) {
		if len(partial) > 0 {
			decryptBlock(inout[len(inout)-len(partial):])
		}
	})

	absorbLengths(acc, len(aad), len(inout))

	actual := acc.Sum()
	for i := range actual {
		actual[i] ^= eY0[i]
	}

	if !ctutil.Equal(actual[:], tag) {
		zero(inout)
		return cryptoerr.ErrDecryptFailed
	}
	return nil
}

// Seal appends the ciphertext and tag for plaintext (encrypted under
// nonce and aad) to dst and returns the extended slice, matching the
// crypto/cipher.AEAD calling convention. Seal panics on a programmer
// contract violation (wrong nonce length), following
// tmthrgd-chacha20poly1305's panic-vs-error split.
func (g *AesGcm) Seal(dst, nonce, plaintext, aad []byte) []byte {
	if len(nonce) != NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	ret, out := sliceForAppend(dst, len(plaintext)+TagSize)
	copy(out, plaintext)
	g.Encrypt(nonce, aad, out[:len(plaintext)], out[len(plaintext):])
	return ret
}

// Open verifies and decrypts ciphertext (which must include the
// trailing tag), appending the plaintext to dst. Open returns an error
// rather than panicking on authentication failure, since that failure
// is attacker-influenced rather than a programmer mistake.
func (g *AesGcm) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	if len(ciphertext) < TagSize {
		return nil, cryptoerr.ErrDecryptFailed
	}

	ct := ciphertext[:len(ciphertext)-TagSize]
	tag := ciphertext[len(ciphertext)-TagSize:]

	ret, out := sliceForAppend(dst, len(ct))
	copy(out, ct)
	if err := g.Decrypt(nonce, aad, out, tag); err != nil {
		return nil, err
	}
	return ret, nil
}

// counterBlock builds Y_i = nonce || big-endian u32(i), the GCM counter
// block.
func counterBlock(nonce []byte, counter uint32) [16]byte {
	var block [16]byte
	copy(block[:12], nonce)
	binary.BigEndian.PutUint32(block[12:], counter)
	return block
}

func absorbAAD(acc *ghash.Digest, aad []byte) {
	absorbBlock := func(chunk []byte) {
		var block [16]byte
		copy(block[:], chunk)
		acc.Add(block)
	}

	absorber := blockwise.NewAbsorber(16)
	absorber.Feed(aad, func(full []byte) {
		for len(full) > 0 {
			absorbBlock(full[:16])
			full = full[16:]
		}
	})
	absorber.Finish(func(partial []byte) {
		if len(partial) > 0 {
			absorbBlock(partial)
		}
	})
}

// absorbLengths feeds the final GHASH length block encoding
// |AAD|*8 and |C|*8 as big-endian u64s.
func absorbLengths(acc *ghash.Digest, aadLen, ctLen int) {
	var block [16]byte
	binary.BigEndian.PutUint64(block[:8], uint64(aadLen)*8)
	binary.BigEndian.PutUint64(block[8:], uint64(ctLen)*8)
	acc.Add(block)
}

// zero overwrites b via an optimization barrier the compiler cannot
// elide, so callers can rely on sensitive buffers being cleared even
// across a failed decrypt.
func zero(b []byte) {
	for i := range b {
		b[i] = ctutil.Barrier(0)
	}
}

// sliceForAppend extends in to have n additional bytes and returns both
// the full extended slice (head) and the newly-appended tail, matching
// the helper of the same name and purpose in
// tmthrgd-chacha20poly1305/chacha20poly1305.go.
func sliceForAppend(in []byte, n int) (head, tail []byte) {
	if total := len(in) + n; cap(in) >= total {
		head = in[:total]
	} else {
		head = make([]byte, total)
		copy(head, in)
	}
	tail = head[len(in):]
	return
}
