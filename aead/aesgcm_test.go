package aead

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vellum-crypto/vellum/cryptoerr"
)

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestAesGcmEmptySmokeVector is NIST GCM test case 1: an all-zero
// 128-bit key and nonce with empty AAD and plaintext.
func TestAesGcmEmptySmokeVector(t *testing.T) {
	key := make([]byte, 16)
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := make([]byte, NonceSize)
	tag := make([]byte, TagSize)
	g.Encrypt(nonce, nil, nil, tag)

	require.Equal(t, "58e2fccefa7e3061367f1d57a4e7455a", hex.EncodeToString(tag))
}

func TestEncryptDecryptRoundTrips(t *testing.T) {
	key := decodeHex(t, "000102030405060708090a0b0c0d0e0f")
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := decodeHex(t, "000000000000000000000001")
	aad := []byte("associated data")
	plaintext := []byte("the quick brown fox jumps over the lazy dog, four blocks and change")

	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, TagSize)
	g.Encrypt(nonce, aad, inout, tag)
	require.NotEqual(t, plaintext, inout)

	g2, err := NewAesGcm(key)
	require.NoError(t, err)
	err = g2.Decrypt(nonce, aad, inout, tag)
	require.NoError(t, err)
	require.Equal(t, plaintext, inout)
}

func TestDecryptTamperedCiphertextFailsAndZeroes(t *testing.T) {
	key := decodeHex(t, "000102030405060708090a0b0c0d0e0f")
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := decodeHex(t, "000000000000000000000001")
	plaintext := []byte("some secret message")
	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, TagSize)
	g.Encrypt(nonce, nil, inout, tag)

	inout[0] ^= 0x01

	g2, _ := NewAesGcm(key)
	err = g2.Decrypt(nonce, nil, inout, tag)
	require.ErrorIs(t, err, cryptoerr.ErrDecryptFailed)
	require.Equal(t, make([]byte, len(inout)), inout)
}

func TestDecryptTamperedTagFailsAndZeroes(t *testing.T) {
	key := decodeHex(t, "000102030405060708090a0b0c0d0e0f")
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := decodeHex(t, "000000000000000000000001")
	plaintext := []byte("some secret message")
	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, TagSize)
	g.Encrypt(nonce, nil, inout, tag)

	tag[0] ^= 0x01

	g2, _ := NewAesGcm(key)
	err = g2.Decrypt(nonce, nil, inout, tag)
	require.ErrorIs(t, err, cryptoerr.ErrDecryptFailed)
	require.Equal(t, make([]byte, len(inout)), inout)
}

func TestDecryptTamperedAADFails(t *testing.T) {
	key := decodeHex(t, "000102030405060708090a0b0c0d0e0f")
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := decodeHex(t, "000000000000000000000001")
	aad := []byte("aad")
	plaintext := []byte("some secret message")
	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, TagSize)
	g.Encrypt(nonce, aad, inout, tag)

	g2, _ := NewAesGcm(key)
	err = g2.Decrypt(nonce, []byte("tampered aad"), inout, tag)
	require.ErrorIs(t, err, cryptoerr.ErrDecryptFailed)
}

func TestSealOpenRoundTrip(t *testing.T) {
	key := decodeHex(t, "000102030405060708090a0b0c0d0e0f")
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := decodeHex(t, "000000000000000000000001")
	aad := []byte("aad")
	plaintext := []byte("seal/open round trip message")

	sealed := g.Seal(nil, nonce, plaintext, aad)

	g2, _ := NewAesGcm(key)
	opened, err := g2.Open(nil, nonce, sealed, aad)
	require.NoError(t, err)
	require.Equal(t, plaintext, opened)
}

func TestOpenRejectsShortCiphertext(t *testing.T) {
	key := decodeHex(t, "000102030405060708090a0b0c0d0e0f")
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := decodeHex(t, "000000000000000000000001")
	_, err = g.Open(nil, nonce, make([]byte, TagSize-1), nil)
	require.Error(t, err)
}

func TestEncryptPanicsOnWrongNonceLength(t *testing.T) {
	key := make([]byte, 16)
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	require.Panics(t, func() {
		g.Encrypt(make([]byte, 11), nil, nil, make([]byte, TagSize))
	})
}

func TestMultiBlockMessageLargerThanOneBlock(t *testing.T) {
	key := decodeHex(t, "000102030405060708090a0b0c0d0e0f")
	g, err := NewAesGcm(key)
	require.NoError(t, err)

	nonce := decodeHex(t, "000000000000000000000001")
	plaintext := make([]byte, 100)
	for i := range plaintext {
		plaintext[i] = byte(i)
	}
	inout := append([]byte(nil), plaintext...)
	tag := make([]byte, TagSize)
	g.Encrypt(nonce, nil, inout, tag)

	g2, _ := NewAesGcm(key)
	err = g2.Decrypt(nonce, nil, inout, tag)
	require.NoError(t, err)
	require.Equal(t, plaintext, inout)
}
