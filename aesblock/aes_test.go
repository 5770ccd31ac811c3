package aesblock

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// Known-answer vectors from FIPS-197 Appendix C (C.1/C.2/C.3).
func TestFIPS197KnownAnswerVectors(t *testing.T) {
	cases := []struct {
		name       string
		key        string
		plaintext  string
		ciphertext string
	}{
		{
			name:       "AES-128",
			key:        "000102030405060708090a0b0c0d0e0f",
			plaintext:  "00112233445566778899aabbccddeeff",
			ciphertext: "69c4e0d86a7b0430d8cdb78070b4c55a",
		},
		{
			name:       "AES-192",
			key:        "000102030405060708090a0b0c0d0e0f1011121314151617",
			plaintext:  "00112233445566778899aabbccddeeff",
			ciphertext: "dda97ca4864cdfe06eaf70a0ec0d7191",
		},
		{
			name:       "AES-256",
			key:        "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
			plaintext:  "00112233445566778899aabbccddeeff",
			ciphertext: "8ea2b7ca516745bfeafc49904b496089",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			key, err := NewKey(decodeHex(t, c.key))
			require.NoError(t, err)

			dst := make([]byte, BlockSize)
			key.Encrypt(dst, decodeHex(t, c.plaintext))
			require.Equal(t, c.ciphertext, hex.EncodeToString(dst))
		})
	}
}

func TestNewKeyRejectsBadLength(t *testing.T) {
	require.Panics(t, func() {
		_, _ = NewKey(make([]byte, 17))
	})
}

func TestEncryptPanicsOnWrongBlockLength(t *testing.T) {
	key, err := NewKey(make([]byte, 16))
	require.NoError(t, err)

	require.Panics(t, func() {
		key.Encrypt(make([]byte, 15), make([]byte, 16))
	})
}

func TestDistinctKeysProduceDistinctCiphertext(t *testing.T) {
	var pt [16]byte
	k1, err := NewKey(make([]byte, 16))
	require.NoError(t, err)
	k2Bytes := make([]byte, 16)
	k2Bytes[0] = 1
	k2, err := NewKey(k2Bytes)
	require.NoError(t, err)

	out1 := make([]byte, 16)
	out2 := make([]byte, 16)
	k1.Encrypt(out1, pt[:])
	k2.Encrypt(out2, pt[:])
	require.NotEqual(t, out1, out2)
}
