// Package dispatch implements a one-time CPU-capability probe: a
// CPU-feature dispatcher that would supply either a generic backend or
// an accelerated backend, with the selection made once and stable
// thereafter. Building and shipping an accelerated backend itself is
// out of scope; this package only records what the running CPU
// supports, once, so a future accelerated backend has a stable place
// to query from without re-probing on every call.
//
// Grounded on _examples/caddyserver-caddy/caddytls/config.go's
// `cpuid.CPU.AesNi()`-style feature check, updated to the cpuid/v2 API
// carried in tuneinsight/lattigo's own go.mod (an indirect dependency
// there; promoted to direct here since this package is the first to
// call it).
package dispatch

import (
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// Capabilities records which hardware-accelerated primitives the
// current CPU could in principle support. No code path in this module
// currently branches on these fields for anything beyond their own
// tests; they exist as a stable query surface for a future accelerated
// backend.
type Capabilities struct {
	AESNI     bool
	PCLMULQDQ bool // carryless multiply, relevant to an accelerated GHASH
	AVX2      bool
}

var (
	once   sync.Once
	probed Capabilities
)

// Probe returns the process-wide Capabilities, computing them on first
// call and caching the result for every subsequent call: the selection
// is made once and is stable thereafter.
func Probe() Capabilities {
	once.Do(func() {
		probed = Capabilities{
			AESNI:     cpuid.CPU.Supports(cpuid.AESNI),
			PCLMULQDQ: cpuid.CPU.Supports(cpuid.CLMUL),
			AVX2:      cpuid.CPU.Supports(cpuid.AVX2),
		}
	})
	return probed
}
