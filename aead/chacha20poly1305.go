package aead

import (
	"encoding/binary"

	"github.com/vellum-crypto/vellum/chacha20"
	"github.com/vellum-crypto/vellum/ctutil"
	"github.com/vellum-crypto/vellum/cryptoerr"
	"github.com/vellum-crypto/vellum/poly1305"
)

// ChaCha20Poly1305 is a ChaCha20-Poly1305 driver bound to one key,
// following RFC 7539 §2.8's construction. Unlike AesGcm it is not
// stitched: Encrypt XORs the keystream over the whole message and then
// MACs the ciphertext, and Decrypt MACs the whole ciphertext before
// decrypting it, each as two separate passes.
type ChaCha20Poly1305 struct {
	key [chacha20.KeySize]byte
}

// NewChaCha20Poly1305 binds a driver to a 32-byte key.
func NewChaCha20Poly1305(key []byte) (*ChaCha20Poly1305, error) {
	if len(key) != chacha20.KeySize {
		return nil, cryptoerr.ErrOutOfRange
	}
	c := &ChaCha20Poly1305{}
	copy(c.key[:], key)
	return c, nil
}

// Encrypt encrypts inout in place under nonce and aad, writing the
// 16-byte tag to tagOut.
func (c *ChaCha20Poly1305) Encrypt(nonce, aad, inout []byte, tagOut []byte) {
	if len(nonce) != chacha20.NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	if len(tagOut) != poly1305.TagSize {
		panic("aead: tagOut must be 16 bytes")
	}

	polyKey, stream := c.init(nonce)

	stream.XORKeyStream(inout, inout)

	mac := poly1305.New(polyKey[:])
	absorbPadded(mac, aad)
	absorbPadded(mac, inout)
	absorbLengths64(mac, len(aad), len(inout))

	var tag [poly1305.TagSize]byte
	mac.Sum(&tag)
	copy(tagOut, tag[:])
}

// Decrypt decrypts inout in place under nonce and aad, checking it
// against tag. On authentication failure, inout is zeroed before
// cryptoerr.ErrDecryptFailed is returned, matching AesGcm.Decrypt.
func (c *ChaCha20Poly1305) Decrypt(nonce, aad, inout []byte, tag []byte) error {
	if len(nonce) != chacha20.NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	if len(tag) != poly1305.TagSize {
		panic("aead: tag must be 16 bytes")
	}

	polyKey, stream := c.init(nonce)

	mac := poly1305.New(polyKey[:])
	absorbPadded(mac, aad)
	absorbPadded(mac, inout)
	absorbLengths64(mac, len(aad), len(inout))

	var actual [poly1305.TagSize]byte
	mac.Sum(&actual)

	if !ctutil.Equal(actual[:], tag) {
		zero(inout)
		return cryptoerr.ErrDecryptFailed
	}

	stream.XORKeyStream(inout, inout)
	return nil
}

// Seal appends the ciphertext and tag for plaintext to dst, following
// the crypto/cipher.AEAD calling convention.
func (c *ChaCha20Poly1305) Seal(dst, nonce, plaintext, aad []byte) []byte {
	if len(nonce) != chacha20.NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	ret, out := sliceForAppend(dst, len(plaintext)+poly1305.TagSize)
	copy(out, plaintext)
	c.Encrypt(nonce, aad, out[:len(plaintext)], out[len(plaintext):])
	return ret
}

// Open verifies and decrypts ciphertext (which must include the
// trailing tag), appending the plaintext to dst.
func (c *ChaCha20Poly1305) Open(dst, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(nonce) != chacha20.NonceSize {
		panic("aead: nonce must be 12 bytes")
	}
	if len(ciphertext) < poly1305.TagSize {
		return nil, cryptoerr.ErrDecryptFailed
	}

	ct := ciphertext[:len(ciphertext)-poly1305.TagSize]
	tag := ciphertext[len(ciphertext)-poly1305.TagSize:]

	ret, out := sliceForAppend(dst, len(ct))
	copy(out, ct)
	if err := c.Decrypt(nonce, aad, out, tag); err != nil {
		return nil, err
	}
	return ret, nil
}

// init derives the one-time Poly1305 key from block counter zero of
// the ChaCha20 keystream (RFC 7539 §2.6), then returns a generator
// positioned at counter 1 for message keystream — the same two-stage
// key derivation tmthrgd-chacha20poly1305 documents.
func (c *ChaCha20Poly1305) init(nonce []byte) ([32]byte, *chacha20.Cipher) {
	stream, err := chacha20.New(c.key[:], nonce)
	if err != nil {
		panic(err)
	}

	var block0 [chacha20.BlockSize]byte
	stream.KeystreamBlock(block0[:])

	var polyKey [32]byte
	copy(polyKey[:], block0[:32])

	return polyKey, stream
}

// absorbPadded feeds data into mac followed by zero padding out to the
// next 16-byte boundary, per RFC 7539 §2.8's Poly1305 MAC construction.
func absorbPadded(mac *poly1305.Digest, data []byte) {
	mac.Write(data)
	if rem := len(data) % 16; rem != 0 {
		var pad [16]byte
		mac.Write(pad[:16-rem])
	}
}

// absorbLengths64 feeds the final 16-byte block of the RFC 7539
// construction: little-endian u64 AAD length followed by little-endian
// u64 ciphertext length.
func absorbLengths64(mac *poly1305.Digest, aadLen, ctLen int) {
	var block [16]byte
	binary.LittleEndian.PutUint64(block[:8], uint64(aadLen))
	binary.LittleEndian.PutUint64(block[8:], uint64(ctLen))
	mac.Write(block[:])
}
