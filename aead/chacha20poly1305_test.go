package aead

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vellum-crypto/vellum/cryptoerr"
)

func TestChaCha20Poly1305RoundTrips(t *testing.T) {
	key := decodeHex(t, "808182838485868788898a8b8c8d8e8f909192939495969798999a9b9c9d9e9f")
	nonce := decodeHex(t, "070000004041424344454647")
	aad := decodeHex(t, "50515253c0c1c2c3c4c5c6c7")
	plaintext := []byte("Ladies and Gentlemen of the class of '99: If I could offer you only one tip for the future, sunscreen would be it.")

	c, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)

	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, 16)
	c.Encrypt(nonce, aad, inout, tag)
	require.NotEqual(t, plaintext, inout)

	c2, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)
	err = c2.Decrypt(nonce, aad, inout, tag)
	require.NoError(t, err)
	require.Equal(t, plaintext, inout)
}

func TestChaCha20Poly1305TamperedCiphertextFailsAndZeroes(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 12)
	plaintext := []byte("some secret message")

	c, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)
	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, 16)
	c.Encrypt(nonce, nil, inout, tag)

	inout[0] ^= 0x01

	c2, _ := NewChaCha20Poly1305(key)
	err = c2.Decrypt(nonce, nil, inout, tag)
	require.ErrorIs(t, err, cryptoerr.ErrDecryptFailed)
	require.Equal(t, make([]byte, len(inout)), inout)
}

func TestChaCha20Poly1305TamperedAADFails(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 12)
	plaintext := []byte("some secret message")

	c, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)
	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, 16)
	c.Encrypt(nonce, []byte("aad"), inout, tag)

	c2, _ := NewChaCha20Poly1305(key)
	err = c2.Decrypt(nonce, []byte("different aad"), inout, tag)
	require.ErrorIs(t, err, cryptoerr.ErrDecryptFailed)
}

func TestChaCha20Poly1305SealOpenRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	nonce := make([]byte, 12)
	for i := range nonce {
		nonce[i] = byte(i + 1)
	}
	aad := []byte("header")
	plaintext := []byte("seal/open round trip message for chacha20poly1305")

	c, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)
	sealed := c.Seal(nil, nonce, plaintext, aad)

	c2, _ := NewChaCha20Poly1305(key)
	opened, err := c2.Open(nil, nonce, sealed, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestChaCha20Poly1305EmptyPlaintextAndAAD(t *testing.T) {
	key := make([]byte, 32)
	nonce := make([]byte, 12)

	c, err := NewChaCha20Poly1305(key)
	require.NoError(t, err)
	var tag [16]byte
	c.Encrypt(nonce, nil, nil, tag[:])

	c2, _ := NewChaCha20Poly1305(key)
	err = c2.Decrypt(nonce, nil, nil, tag[:])
	require.NoError(t, err)
}

func TestNewChaCha20Poly1305RejectsBadKeySize(t *testing.T) {
	_, err := NewChaCha20Poly1305(make([]byte, 31))
	require.Error(t, err)
}
