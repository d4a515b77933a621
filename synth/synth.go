// Package synth constructs simulated received blocks for testing the
// beamformers: narrowband plane-wave superposition plus circular complex
// Gaussian noise. In production this package is replaced by real data
// acquisition and is deliberately kept thin.
package synth

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
)

// Source is one plane-wave emitter: a direction of arrival and the complex
// baseband waveform observed at the array phase center.
type Source struct {
	Direction beamform.Direction
	Waveform  []complex128
}

// Tone returns a complex exponential of n samples completing cyclesPerBlock
// cycles over the block, with the given amplitude and initial phase.
func Tone(n int, cyclesPerBlock, amplitude, phaseRad float64) []complex128 {
	s := make([]complex128, n)
	for t := 0; t < n; t++ {
		arg := 2*math.Pi*cyclesPerBlock*float64(t)/float64(n) + phaseRad
		s[t] = complex(amplitude, 0) * cmplx.Exp(complex(0, arg))
	}
	return s
}

// Scenario describes one synthetic capture. NoiseStdDev is the total
// per-element noise standard deviation (real and imaginary parts each carry
// half the variance).
type Scenario struct {
	Steering    *array.Steering
	FreqHz      float64
	Samples     int
	Sources     []Source
	NoiseStdDev float64
}

// Receive synthesizes the received block Y[t,i] = sum_k a_k[i]*s_k[t] plus
// noise. Randomness comes only from rng, so concurrent scenarios stay
// independent and a fixed seed reproduces the block exactly. rng may be nil
// only when NoiseStdDev is zero.
func (sc *Scenario) Receive(rng *rand.Rand) (beamform.SignalBlock, error) {
	if sc.Steering == nil {
		return beamform.SignalBlock{}, &beamform.ConfigurationError{Param: "steering", Reason: "steering engine must not be nil"}
	}
	// Checked up front so a noise-only scenario cannot carry a frequency
	// that would fail the moment a source is added.
	if _, err := sc.Steering.Lambda(sc.FreqHz); err != nil {
		return beamform.SignalBlock{}, err
	}
	if sc.Samples <= 0 {
		return beamform.SignalBlock{}, &beamform.ConfigurationError{Param: "samples", Reason: "sample count must be >= 1"}
	}
	if sc.NoiseStdDev < 0 {
		return beamform.SignalBlock{}, &beamform.ConfigurationError{Param: "noiseStdDev", Reason: "noise standard deviation must be >= 0"}
	}
	if sc.NoiseStdDev > 0 && rng == nil {
		return beamform.SignalBlock{}, &beamform.ConfigurationError{Param: "rng", Reason: "a random source is required when noise is enabled"}
	}

	n := sc.Steering.Array.NumElements()
	block, err := beamform.NewSignalBlock(sc.Samples, n)
	if err != nil {
		return beamform.SignalBlock{}, err
	}

	for _, src := range sc.Sources {
		if len(src.Waveform) != sc.Samples {
			return beamform.SignalBlock{}, &beamform.ConfigurationError{Param: "waveform", Reason: "waveform length must equal the scenario sample count"}
		}
		a, err := sc.Steering.Vector(src.Direction, sc.FreqHz)
		if err != nil {
			return beamform.SignalBlock{}, err
		}
		for t := 0; t < sc.Samples; t++ {
			s := src.Waveform[t]
			for i := 0; i < n; i++ {
				block.Set(t, i, block.At(t, i)+a[i]*s)
			}
		}
	}

	if sc.NoiseStdDev > 0 {
		sigma := sc.NoiseStdDev / math.Sqrt2
		for t := 0; t < sc.Samples; t++ {
			for i := 0; i < n; i++ {
				noise := complex(sigma*rng.NormFloat64(), sigma*rng.NormFloat64())
				block.Set(t, i, block.At(t, i)+noise)
			}
		}
	}
	return block, nil
}
