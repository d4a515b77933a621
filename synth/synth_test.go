package synth_test

import (
	"errors"
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
	"github.com/wiless/beamform/synth"
)

const testFreqHz = 3.0e8

func newScenario(t *testing.T, n, samples int, sources []synth.Source, noise float64) synth.Scenario {
	t.Helper()
	g, err := array.NewUniformLinear(n, 0.5)
	require.NoError(t, err)
	st, err := array.NewSteering(g)
	require.NoError(t, err)
	return synth.Scenario{
		Steering:    st,
		FreqHz:      testFreqHz,
		Samples:     samples,
		Sources:     sources,
		NoiseStdDev: noise,
	}
}

func TestToneProperties(t *testing.T) {
	s := synth.Tone(100, 7, 2.5, 0.3)
	require.Len(t, s, 100)
	for _, v := range s {
		assert.InDelta(t, 2.5, cmplx.Abs(v), 1e-12)
	}
	assert.InDelta(t, 0.3, cmplx.Phase(s[0]), 1e-12)
}

func TestReceiveIsReproducible(t *testing.T) {
	sc := newScenario(t, 4, 64, []synth.Source{
		{Direction: beamform.Direction{AzimuthDeg: 30}, Waveform: synth.Tone(64, 5.2, 1, 0)},
	}, 1.0)

	a, err := sc.Receive(rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	b, err := sc.Receive(rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	c, err := sc.Receive(rand.New(rand.NewSource(100)))
	require.NoError(t, err)

	same, different := true, false
	for tdx := 0; tdx < 64; tdx++ {
		for i := 0; i < 4; i++ {
			same = same && a.At(tdx, i) == b.At(tdx, i)
			different = different || a.At(tdx, i) != c.At(tdx, i)
		}
	}
	assert.True(t, same, "equal seeds must reproduce the block exactly")
	assert.True(t, different, "different seeds must produce different noise")
}

func TestReceiveNoiselessPlaneWave(t *testing.T) {
	dir := beamform.Direction{AzimuthDeg: -25}
	waveform := synth.Tone(32, 3.7, 1.2, 0.1)
	sc := newScenario(t, 5, 32, []synth.Source{{Direction: dir, Waveform: waveform}}, 0)

	block, err := sc.Receive(nil)
	require.NoError(t, err)
	require.Equal(t, 32, block.Samples())
	require.Equal(t, 5, block.Elements())

	a, err := sc.Steering.Vector(dir, testFreqHz)
	require.NoError(t, err)
	for tdx := 0; tdx < 32; tdx++ {
		for i := 0; i < 5; i++ {
			want := a[i] * waveform[tdx]
			assert.InDelta(t, real(want), real(block.At(tdx, i)), 1e-12)
			assert.InDelta(t, imag(want), imag(block.At(tdx, i)), 1e-12)
		}
	}
}

func TestReceiveNoisePower(t *testing.T) {
	sc := newScenario(t, 1, 20000, nil, 2.0)
	block, err := sc.Receive(rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	var power float64
	for tdx := 0; tdx < block.Samples(); tdx++ {
		v := block.At(tdx, 0)
		power += real(v)*real(v) + imag(v)*imag(v)
	}
	power /= float64(block.Samples())
	assert.InDelta(t, 4.0, power, 0.4)
}

func TestReceiveValidation(t *testing.T) {
	var cfgErr *beamform.ConfigurationError

	sc := newScenario(t, 3, 16, nil, 1.0)
	_, err := sc.Receive(nil)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	sc = newScenario(t, 3, 0, nil, 0)
	_, err = sc.Receive(nil)
	require.Error(t, err)

	sc = newScenario(t, 3, 16, []synth.Source{
		{Direction: beamform.Direction{}, Waveform: synth.Tone(8, 1, 1, 0)},
	}, 0)
	_, err = sc.Receive(nil)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	sc = newScenario(t, 3, 16, nil, -1)
	_, err = sc.Receive(nil)
	require.Error(t, err)

	// A noise-only scenario still rejects a bad carrier frequency.
	sc = newScenario(t, 3, 16, nil, 1.0)
	sc.FreqHz = 0
	_, err = sc.Receive(rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))

	sc.Steering = nil
	sc.NoiseStdDev = 0
	_, err = sc.Receive(nil)
	require.Error(t, err)
}
