package poly1305

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

// TestRFC7539Vector is the worked example from RFC 7539 §2.5.2.
func TestRFC7539Vector(t *testing.T) {
	key := decodeHex(t, "85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b")
	msg := []byte("Cryptographic Forum Research Group")

	d := New(key)
	d.Write(msg)
	var tag [TagSize]byte
	d.Sum(&tag)

	require.Equal(t, "a8061dc1305136c6c22b8baf0c0127a9", hex.EncodeToString(tag[:]))
}

func TestZeroKeyZeroMessageYieldsZeroTag(t *testing.T) {
	var key [KeySize]byte
	d := New(key[:])
	var tag [TagSize]byte
	d.Sum(&tag)
	require.Equal(t, [TagSize]byte{}, tag)
}

func TestSplitWritesMatchSingleWrite(t *testing.T) {
	key := decodeHex(t, "85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b")
	msg := []byte("Cryptographic Forum Research Group")

	d1 := New(key)
	d1.Write(msg)
	var tag1 [TagSize]byte
	d1.Sum(&tag1)

	d2 := New(key)
	for i := range msg {
		d2.Write(msg[i : i+1])
	}
	var tag2 [TagSize]byte
	d2.Sum(&tag2)

	require.Equal(t, tag1, tag2)
}

func TestEveryKeyByteMatters(t *testing.T) {
	key := decodeHex(t, "85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b")
	msg := []byte("message")

	d1 := New(key)
	d1.Write(msg)
	var tag1 [TagSize]byte
	d1.Sum(&tag1)

	key2 := append([]byte(nil), key...)
	key2[31] ^= 0x01
	d2 := New(key2)
	d2.Write(msg)
	var tag2 [TagSize]byte
	d2.Sum(&tag2)

	require.NotEqual(t, tag1, tag2)
}

func TestMultiBlockMessageExactly16ByteAligned(t *testing.T) {
	key := decodeHex(t, "85d6be7857556d337f4452fe42d506a80103808afb0db2fd4abff6af4149f51b")
	msg := make([]byte, 64)
	for i := range msg {
		msg[i] = byte(i)
	}

	d := New(key)
	d.Write(msg)
	var tag [TagSize]byte
	d.Sum(&tag)
	require.NotEqual(t, [TagSize]byte{}, tag)
}
