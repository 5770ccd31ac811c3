// Package ctutil provides the leaf constant-time primitives every other
// vellum package builds on: byte equality, an optimization barrier, and
// conditional select. Every routine here runs in time depending only on
// the *length* of its inputs, never their value.
package ctutil

// Barrier is the identity function on a byte, but is written so that a
// compiler cannot see through it and fold away the data-independence of
// the computation that produced x. It is applied at every point where a
// value derived from secret data is about to be reduced to a boolean
// (the XOR-fold in Equal) or discarded (zeroing scratch buffers) — the
// two places an optimizer could otherwise reintroduce a branch or elide
// a write.
//
// go:noinline pins this across compiler versions; the volatile-style
// pointer round-trip defeats the common "trivial identity function"
// inlining-then-constant-folding pass.
//
//go:noinline
func Barrier(x uint8) uint8 {
	return barrierImpl(x)
}

// barrierImpl is kept separate from Barrier so the noinline directive
// has a single, stable attachment point regardless of how Barrier itself
// is later wrapped (e.g. by a SIMD-aware build).
func barrierImpl(x uint8) uint8 {
	p := &x
	return *p
}

// BarrierU64 is Barrier's 64-bit counterpart, used by SelectU64 on each
// masked operand so the word-at-a-time select bignum relies on is not
// rewritten into a branch.
//
//go:noinline
func BarrierU64(x uint64) uint64 {
	p := &x
	return *p
}
