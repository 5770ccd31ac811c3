package ctutil

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"
)

// coefficientOfVariation times fn(i) once for each i in [0, samples)
// and returns stddev/mean over the resulting latency sample. A
// value-correlated timing leak tends to separate the sample into
// clusters and inflate this ratio; a constant-time routine's ratio is
// dominated by scheduler/measurement noise alone.
//
// This is a coarse regression guard against accidental branches, not a
// rigorous side-channel proof — physical side-channel countermeasures
// are out of scope for this core.
func coefficientOfVariation(t *testing.T, samples int, fn func(i int)) float64 {
	t.Helper()

	latencies := make([]float64, samples)
	for i := 0; i < samples; i++ {
		start := time.Now()
		fn(i)
		latencies[i] = float64(time.Since(start))
	}

	data := stats.Float64Data(latencies)
	mean, err := data.Mean()
	require.NoError(t, err)
	if mean == 0 {
		return 0
	}

	sd, err := data.StandardDeviation()
	require.NoError(t, err)
	return sd / mean
}

func TestEqualTimingIsValueIndependent(t *testing.T) {
	if testing.Short() {
		t.Skip("timing histogram test skipped in -short mode")
	}

	const n = 4096
	a := make([]byte, 64)
	_, _ = rand.Read(a)
	b := append([]byte(nil), a...)

	cv := coefficientOfVariation(t, n, func(i int) {
		// Half the samples compare equal buffers, half compare
		// buffers differing in their very first byte — the
		// cheapest possible early-exit opportunity for a
		// non-constant-time implementation to expose.
		if i%2 == 0 {
			Equal(a, b)
		} else {
			bb := append([]byte(nil), b...)
			bb[0] ^= 0xFF
			Equal(a, bb)
		}
	})

	// Generous threshold: this is a CI-stable smoke check, not a
	// precision side-channel measurement.
	require.Less(t, cv, 5.0, "ct_equal timing variance (cv=%f) suggests a value-dependent branch", cv)
}
