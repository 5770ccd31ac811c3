// Package chacha20 implements the ChaCha20 block function and keystream
// generator per RFC 7539 §2.3-2.4. Like aesblock, this is a
// free-standing primitive with no notion of AEAD framing; aead drives
// it one block at a time and XORs the keystream with the message.
//
// Grounded on RFC 7539 directly, with the calling convention (a keyed,
// counter-advancing generator rather than a one-shot function) matching
// _examples/tmthrgd-chacha20poly1305's use of golang.org/x/crypto's
// chacha20 package (key material for Poly1305 is the first block's
// keystream at counter 0, message keystream starts at counter 1).
package chacha20

import (
	"encoding/binary"

	"github.com/vellum-crypto/vellum/cryptoerr"
)

// KeySize is the ChaCha20 key size in bytes.
const KeySize = 32

// NonceSize is the RFC 7539 96-bit nonce size in bytes.
const NonceSize = 12

// BlockSize is the ChaCha20 keystream block size in bytes.
const BlockSize = 64

const (
	sigma0 = 0x61707865
	sigma1 = 0x3320646e
	sigma2 = 0x79622d32
	sigma3 = 0x6b206574
)

// Cipher is a keyed, positioned ChaCha20 keystream generator.
type Cipher struct {
	key     [8]uint32
	nonce   [3]uint32
	counter uint32
}

// New creates a Cipher from a 32-byte key and 12-byte nonce, positioned
// at block counter 0.
func New(key, nonce []byte) (*Cipher, error) {
	if len(key) != KeySize || len(nonce) != NonceSize {
		return nil, cryptoerr.ErrOutOfRange
	}
	c := &Cipher{}
	for i := 0; i < 8; i++ {
		c.key[i] = binary.LittleEndian.Uint32(key[4*i:])
	}
	for i := 0; i < 3; i++ {
		c.nonce[i] = binary.LittleEndian.Uint32(nonce[4*i:])
	}
	return c, nil
}

// SetCounter repositions the generator at an explicit block counter
// (used to skip the AEAD construction's reserved block-zero keystream,
// which seeds the Poly1305 one-time key instead of message keystream).
func (c *Cipher) SetCounter(counter uint32) {
	c.counter = counter
}

// KeystreamBlock produces one 64-byte keystream block at the current
// counter into dst, then advances the counter by one.
func (c *Cipher) KeystreamBlock(dst []byte) {
	if len(dst) != BlockSize {
		panic("chacha20: dst must be exactly one block")
	}

	state := [16]uint32{
		sigma0, sigma1, sigma2, sigma3,
		c.key[0], c.key[1], c.key[2], c.key[3],
		c.key[4], c.key[5], c.key[6], c.key[7],
		c.counter, c.nonce[0], c.nonce[1], c.nonce[2],
	}
	working := state

	for i := 0; i < 10; i++ {
		quarterRound(&working, 0, 4, 8, 12)
		quarterRound(&working, 1, 5, 9, 13)
		quarterRound(&working, 2, 6, 10, 14)
		quarterRound(&working, 3, 7, 11, 15)
		quarterRound(&working, 0, 5, 10, 15)
		quarterRound(&working, 1, 6, 11, 12)
		quarterRound(&working, 2, 7, 8, 13)
		quarterRound(&working, 3, 4, 9, 14)
	}

	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(dst[4*i:], working[i]+state[i])
	}

	c.counter++
}

// XORKeyStream XORs src with the keystream starting at the generator's
// current counter position, writing the result to dst (which may alias
// src). len(src) need not be a multiple of BlockSize; a final partial
// block consumes only as many keystream bytes as needed, and the
// generator's counter still advances by one for that partial block
// (matching RFC 7539's per-block counter discipline).
func (c *Cipher) XORKeyStream(dst, src []byte) {
	if len(dst) < len(src) {
		panic("chacha20: dst shorter than src")
	}

	var block [BlockSize]byte
	for len(src) > 0 {
		c.KeystreamBlock(block[:])
		n := len(src)
		if n > BlockSize {
			n = BlockSize
		}
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ block[i]
		}
		dst = dst[n:]
		src = src[n:]
	}
}

func quarterRound(s *[16]uint32, a, b, c, d int) {
	s[a] += s[b]
	s[d] ^= s[a]
	s[d] = rotl(s[d], 16)
	s[c] += s[d]
	s[b] ^= s[c]
	s[b] = rotl(s[b], 12)
	s[a] += s[b]
	s[d] ^= s[a]
	s[d] = rotl(s[d], 8)
	s[c] += s[d]
	s[b] ^= s[c]
	s[b] = rotl(s[b], 7)
}

func rotl(x uint32, n uint) uint32 {
	return x<<n | x>>(32-n)
}
