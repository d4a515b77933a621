package beamformer_test

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wiless/vlib"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
	"github.com/wiless/beamform/beamformer"
	"github.com/wiless/beamform/synth"
)

// 300 MHz: one meter wavelength, so 0.5 m spacing is half-wavelength.
const testFreqHz = 3.0e8

func newULASteering(t *testing.T, n int) *array.Steering {
	t.Helper()
	g, err := array.NewUniformLinear(n, 0.5)
	require.NoError(t, err)
	st, err := array.NewSteering(g)
	require.NoError(t, err)
	return st
}

// hdot returns a^H b, mirroring the combiner convention.
func hdot(a, b vlib.VectorC) complex128 {
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum
}

// receive synthesizes a reproducible test block.
func receive(t *testing.T, st *array.Steering, samples int, sources []synth.Source, noiseStd float64, seed int64) beamform.SignalBlock {
	t.Helper()
	sc := synth.Scenario{
		Steering:    st,
		FreqHz:      testFreqHz,
		Samples:     samples,
		Sources:     sources,
		NoiseStdDev: noiseStd,
	}
	block, err := sc.Receive(rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return block
}

// patternPowerAt returns the power of the grid point closest to azDeg.
func patternPowerAt(points []beamformer.PatternPoint, azDeg float64) float64 {
	best, bestDiff := 0.0, math.MaxFloat64
	for _, p := range points {
		if d := math.Abs(p.Direction.AzimuthDeg - azDeg); d < bestDiff {
			bestDiff = d
			best = p.Power
		}
	}
	return best
}
