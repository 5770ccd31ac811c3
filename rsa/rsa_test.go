package rsa

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

// Modulus and ciphertext below are the RFC-free smoke-test vectors
// carried over from the source this core's RSA shape was distilled
// from (a 2048-bit modulus, e=65537, and a matching ciphertext).
const smokeModulusHex = "e4462968e3e29ce73be8acdaf9d592be9904363aef3399f793b91713429ceaf963a1e5c6bb57714cc14601ecac5ae5b89543aafa683d507387fc8304661fab1e0c6ef032506321c674ece4f67ab294beae81663e1aa698cd5b782c7bf4df3976f15e88daa2e0e82eb583db1b56e46b6f4e3cde9f007e3b8f8f5cb8550422ea1f6d92e108762a68c535d2379a54dcf74f1938db7702d9f9724d7f98a5e37cef06c7b03f58bc9d38728aac1803b9ee60e76e18f69087b38a5fbb95d099095b2cda4bd788aa2a050738aef6a16e93001fc36bb4dc6bc1c6061e349c5b2bd6505d64d905db95a0e12cb3b15ba490a2a7ccbf10af12e316b3dec54fb1b66368d8d9b1"

const smokeCiphertextHex = "000b36b5c6d932d018a6319982f6ba83d51bb6db849987c0e98f0663ac8de443b045d3013e03baedd0a9c649086322290f1ff325effe65ff27f25dc6e779e95fd2f5090c28fee56c75240a79e4f69e2b5b5271b622d80897eabd4b0653a62eb926910fc734a45d3b9d23c010f882a7bb8c50357d449d1400cf5ae092eb83609a48bcace020d744c9e7f76625040ea9209cb623028f2ba386fa234edde9f8c8a463654c9d52244a0d0ad62d94956445aaf9f5268bf721f76af91946bc2eeb2aaf0f312f27864ed42ef7bc0f14ce75ef93ad3a843ab3296fe9d733d86cbe2011f3923c16780bc479aa8debb1d1e2daf3d74392728c81523df1c97e7cfd0eb2028451"

func decodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestPublicOpSmoke(t *testing.T) {
	n := decodeHex(t, smokeModulusHex)
	c := decodeHex(t, smokeCiphertextHex)

	key, err := NewPublicKey(n, 0x10001)
	require.NoError(t, err)

	m1, err := key.PublicOp(c)
	require.NoError(t, err)

	m2, err := key.PublicOp(c)
	require.NoError(t, err)
	require.Equal(t, m1, m2, "PublicOp must be a pure function of (n, e, c)")

	tampered := append([]byte(nil), c...)
	tampered[len(tampered)-1] ^= 0x01
	m3, err := key.PublicOp(tampered)
	require.NoError(t, err)
	require.NotEqual(t, m1, m3)
}

func TestNewPublicKeyRejectsEvenModulus(t *testing.T) {
	n := decodeHex(t, smokeModulusHex)
	n[len(n)-1] &^= 1 // force even
	_, err := NewPublicKey(n, 0x10001)
	require.Error(t, err)
}

func TestNewPublicKeyRejectsZeroExponent(t *testing.T) {
	n := decodeHex(t, smokeModulusHex)
	_, err := NewPublicKey(n, 0)
	require.Error(t, err)
}

func TestNewPublicKeyRejectsOutOfRangeModulusSize(t *testing.T) {
	tooSmall := make([]byte, minPublicModulusBytes-8)
	tooSmall[0] = 0xFF
	tooSmall[len(tooSmall)-1] |= 1
	_, err := NewPublicKey(tooSmall, 0x10001)
	require.Error(t, err)

	tooBig := make([]byte, maxPublicModulusBytes+8)
	tooBig[0] = 0xFF
	tooBig[len(tooBig)-1] |= 1
	_, err = NewPublicKey(tooBig, 0x10001)
	require.Error(t, err)
}

func TestNewPublicKeyRejects2047And8193Bits(t *testing.T) {
	n2047 := make([]byte, minPublicModulusBytes)
	n2047[0] = 0x7F // clears the top bit: 2047 significant bits, not 2048
	n2047[len(n2047)-1] |= 1
	_, err := NewPublicKey(n2047, 0x10001)
	require.Error(t, err)

	n8193 := make([]byte, maxPublicModulusBytes+1)
	n8193[0] = 0x01 // one extra bit beyond the 8192-bit window
	n8193[len(n8193)-1] |= 1
	_, err = NewPublicKey(n8193, 0x10001)
	require.Error(t, err)
}

func TestPublicOpRejectsCiphertextAtOrAboveModulus(t *testing.T) {
	n := decodeHex(t, smokeModulusHex)
	key, err := NewPublicKey(n, 0x10001)
	require.NoError(t, err)

	_, err = key.PublicOp(n) // c == n
	require.Error(t, err)
}
