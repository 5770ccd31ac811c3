// Package cryptoerr collects the small, cross-cutting error taxonomy
// shared by the packages that form vellum's public boundary: rsa and
// aead. Programmer-contract violations (a wrong-size AES key, AEAD
// nonce or tag) are not part of this taxonomy and panic instead; a
// wrong-size ChaCha20 key or nonce is reported as ErrOutOfRange.
package cryptoerr

import "errors"

var (
	// ErrOutOfRange is returned when a caller-supplied integer or length
	// falls outside the interval a primitive accepts: an RSA modulus of
	// disallowed bit-length, an RSA ciphertext >= the modulus, an
	// input to a fixed-width decode that overflows the declared width,
	// or a ChaCha20 key or nonce of the wrong size.
	ErrOutOfRange = errors.New("vellum: value out of accepted range")

	// ErrDecryptFailed is returned when AEAD authentication fails. The
	// caller's in-place buffer has already been zeroed by the time this
	// error is observed.
	ErrDecryptFailed = errors.New("vellum: authentication failed")
)
