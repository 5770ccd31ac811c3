// Package poly1305 implements the Poly1305 universal hash (RFC 7539
// §2.5): r/s key split, a 130-bit accumulator, block-wise absorb, and
// s-addition finalization. Grounded on the calling convention
// documented in
// _examples/tmthrgd-chacha20poly1305/chacha20poly1305.go (one-time key
// drawn from the first 32 bytes of a ChaCha20 block-zero keystream; the
// RFC 7539 construction's explicit per-block padding to 16 bytes).
package poly1305

import "encoding/binary"

// KeySize is the required size of a Poly1305 one-time key (r || s).
const KeySize = 32

// TagSize is the size of a Poly1305 tag.
const TagSize = 16

const blockSize = 16

// mask26 isolates one 26-bit limb; Poly1305's accumulator is carried in
// five 26-bit limbs (130 bits total) so that limb products fit well
// within uint64 without needing a wider scratch type, the standard
// radix-2^26 Poly1305 layout.
const mask26 = (1 << 26) - 1

// Digest is the per-message Poly1305 state: the clamped r, the s
// addend, and a 130-bit running accumulator. One Digest per message,
// like ghash.Digest and blockwise.Absorber.
type Digest struct {
	r  [5]uint64 // clamped r, radix 2^26
	s  [4]uint32 // s, little-endian 32-bit words
	h  [5]uint64 // accumulator, radix 2^26
	buf  [blockSize]byte
	used int
}

// New creates a Digest from a 32-byte one-time key (r || s).
func New(key []byte) *Digest {
	if len(key) != KeySize {
		panic("poly1305: key must be 32 bytes")
	}

	d := new(Digest)

	t0 := binary.LittleEndian.Uint32(key[0:4])
	t1 := binary.LittleEndian.Uint32(key[4:8])
	t2 := binary.LittleEndian.Uint32(key[8:12])
	t3 := binary.LittleEndian.Uint32(key[12:16])

	// Clamp r per RFC 7539 §2.5.1: clear specific bits so r is always
	// usable without overflow in the reduction step below.
	t0 &= 0x0fffffff
	t1 &= 0x0ffffffc
	t2 &= 0x0ffffffc
	t3 &= 0x0ffffffc

	r := uint64(t0) | uint64(t1)<<32
	d.r[0] = r & mask26
	d.r[1] = (r >> 26) & mask26
	r = uint64(t1) | uint64(t2)<<32
	d.r[2] = (r >> 20) & mask26
	r = uint64(t2) | uint64(t3)<<32
	d.r[3] = (r >> 14) & mask26
	d.r[4] = (r >> 40) & mask26

	d.s[0] = binary.LittleEndian.Uint32(key[16:20])
	d.s[1] = binary.LittleEndian.Uint32(key[20:24])
	d.s[2] = binary.LittleEndian.Uint32(key[24:28])
	d.s[3] = binary.LittleEndian.Uint32(key[28:32])

	return d
}

// Write absorbs arbitrary-length input, buffering any trailing partial
// block across calls (the same blockwise-absorption discipline
// blockwise.Absorber formalizes, inlined here since Poly1305's block
// function and the absorber are small enough to fuse without losing
// clarity).
func (d *Digest) Write(p []byte) {
	if d.used > 0 {
		n := copy(d.buf[d.used:], p)
		d.used += n
		p = p[n:]
		if d.used < blockSize {
			return
		}
		d.block(d.buf[:], true)
		d.used = 0
	}

	for len(p) >= blockSize {
		d.block(p[:blockSize], true)
		p = p[blockSize:]
	}

	d.used = copy(d.buf[:], p)
}

// block absorbs exactly one 16-byte block, adding the 2^128 bit just
// past its 16 bytes when hasHighBit is true, as RFC 7539 does for every
// full 16-byte message block. Write always passes true; a trailing
// partial block is absorbed by finalBlock from Sum instead.
func (d *Digest) block(block []byte, hasHighBit bool) {
	t0 := binary.LittleEndian.Uint32(block[0:4])
	t1 := binary.LittleEndian.Uint32(block[4:8])
	t2 := binary.LittleEndian.Uint32(block[8:12])
	t3 := binary.LittleEndian.Uint32(block[12:16])

	h0 := d.h[0] + (uint64(t0) & mask26)
	h1 := d.h[1] + ((uint64(t0)>>26 | uint64(t1)<<6) & mask26)
	h2 := d.h[2] + ((uint64(t1)>>20 | uint64(t2)<<12) & mask26)
	h3 := d.h[3] + ((uint64(t2)>>14 | uint64(t3)<<18) & mask26)
	var hibit uint64
	if hasHighBit {
		hibit = 1 << 24
	}
	h4 := d.h[4] + (uint64(t3)>>8 | hibit)

	d.h = mulReduce([5]uint64{h0, h1, h2, h3, h4}, d.r)
}

// mulReduce computes (h*r) mod (2^130-5), the Poly1305 field
// reduction, in radix 2^26 limbs.
func mulReduce(h, r [5]uint64) [5]uint64 {
	// 5x5 schoolbook multiply, limbs above the top carry an implicit
	// x5 weight from the 2^130 = 5 (mod 2^130-5) reduction identity.
	r1_5 := r[1] * 5
	r2_5 := r[2] * 5
	r3_5 := r[3] * 5
	r4_5 := r[4] * 5

	d0 := h[0]*r[0] + h[1]*r4_5 + h[2]*r3_5 + h[3]*r2_5 + h[4]*r1_5
	d1 := h[0]*r[1] + h[1]*r[0] + h[2]*r4_5 + h[3]*r3_5 + h[4]*r2_5
	d2 := h[0]*r[2] + h[1]*r[1] + h[2]*r[0] + h[3]*r4_5 + h[4]*r3_5
	d3 := h[0]*r[3] + h[1]*r[2] + h[2]*r[1] + h[3]*r[0] + h[4]*r4_5
	d4 := h[0]*r[4] + h[1]*r[3] + h[2]*r[2] + h[3]*r[1] + h[4]*r[0]

	return carryReduce([5]uint64{d0, d1, d2, d3, d4})
}

// carryReduce propagates carries across the five 26-bit limbs and
// folds the overflow above bit 130 back in via the 2^130 = 5 (mod
// 2^130-5) identity.
func carryReduce(d [5]uint64) [5]uint64 {
	c := d[0] >> 26
	h0 := d[0] & mask26
	d1 := d[1] + c
	c = d1 >> 26
	h1 := d1 & mask26
	d2 := d[2] + c
	c = d2 >> 26
	h2 := d2 & mask26
	d3 := d[3] + c
	c = d3 >> 26
	h3 := d3 & mask26
	d4 := d[4] + c
	c = d4 >> 26
	h4 := d4 & mask26
	h0 += c * 5
	c = h0 >> 26
	h0 &= mask26
	h1 += c

	return [5]uint64{h0, h1, h2, h3, h4}
}

// Sum finalizes the accumulator (any trailing partial block is padded
// with a single 1-bit and zeros, per RFC 7539 §2.5.1) and adds s,
// writing the resulting 16-byte tag to out.
func (d *Digest) Sum(out *[TagSize]byte) {
	if d.used > 0 {
		d.h = d.finalBlock(d.buf[:d.used], d.used)
	}

	// carryReduce can leave h1 a few units above 2^26; one more carry
	// pass brings every limb back to 26 bits before the packing below.
	d.h = carryReduce(d.h)

	h0, h1, h2, h3, h4 := d.h[0], d.h[1], d.h[2], d.h[3], d.h[4]

	// Fully reduce h mod 2^130-5: compute h-p and select h or h-p
	// depending on whether h >= p, without branching on secret data.
	g0 := h0 + 5
	c := g0 >> 26
	g0 &= mask26
	g1 := h1 + c
	c = g1 >> 26
	g1 &= mask26
	g2 := h2 + c
	c = g2 >> 26
	g2 &= mask26
	g3 := h3 + c
	c = g3 >> 26
	g3 &= mask26
	g4 := h4 + c - (1 << 26)

	// mask is all-ones if h >= 2^130-5 (i.e. g4's top bit did not
	// underflow), else all-zero.
	mask := (g4 >> 63) - 1
	notMask := ^mask
	h0 = (h0 & notMask) | (g0 & mask)
	h1 = (h1 & notMask) | (g1 & mask)
	h2 = (h2 & notMask) | (g2 & mask)
	h3 = (h3 & notMask) | (g3 & mask)
	h4 = (h4 & notMask) | (g4 & mask)

	// Pack the five 26-bit limbs into two 64-bit words, then add s.
	lo := h0 | h1<<26 | h2<<52
	hi := (h2 >> 12) | h3<<14 | h4<<40

	s0 := uint64(d.s[0]) | uint64(d.s[1])<<32
	s1 := uint64(d.s[2]) | uint64(d.s[3])<<32

	var carry uint64
	lo, carry = addWithCarry(lo, s0)
	hi, _ = addWithCarry(hi+carry, s1)

	binary.LittleEndian.PutUint64(out[0:8], lo)
	binary.LittleEndian.PutUint64(out[8:16], hi)
}

func addWithCarry(a, b uint64) (sum, carry uint64) {
	sum = a + b
	if sum < a {
		carry = 1
	}
	return
}

// finalBlock absorbs a trailing partial block of originalLen bytes
// (< blockSize), zero-padding it and writing the 1-bit terminator just
// past its last byte, and returns the updated accumulator.
func (d *Digest) finalBlock(block []byte, originalLen int) [5]uint64 {
	var padded [blockSize]byte
	copy(padded[:], block)
	if originalLen < blockSize {
		padded[originalLen] = 1
	}

	t0 := binary.LittleEndian.Uint32(padded[0:4])
	t1 := binary.LittleEndian.Uint32(padded[4:8])
	t2 := binary.LittleEndian.Uint32(padded[8:12])
	t3 := binary.LittleEndian.Uint32(padded[12:16])

	h0 := d.h[0] + (uint64(t0) & mask26)
	h1 := d.h[1] + ((uint64(t0)>>26 | uint64(t1)<<6) & mask26)
	h2 := d.h[2] + ((uint64(t1)>>20 | uint64(t2)<<12) & mask26)
	h3 := d.h[3] + ((uint64(t2)>>14 | uint64(t3)<<18) & mask26)
	h4 := d.h[4] + (uint64(t3) >> 8)

	return mulReduce([5]uint64{h0, h1, h2, h3, h4}, d.r)
}
