package beamformer_test

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/beamformer"
	"github.com/wiless/beamform/synth"
)

func TestPhaseShiftRecoversPlaneWave(t *testing.T) {
	st := newULASteering(t, 8)
	dir := beamform.Direction{AzimuthDeg: 25}
	waveform := synth.Tone(128, 9.5, 1.5, 0.3)

	block := receive(t, st, 128, []synth.Source{{Direction: dir, Waveform: waveform}}, 0, 0)

	bf, err := beamformer.NewPhaseShift(st, dir, testFreqHz)
	require.NoError(t, err)
	y, w, err := bf.Apply(block)
	require.NoError(t, err)
	require.Len(t, y, 128)
	require.Equal(t, 8, w.Size())

	// Distortionless: a pure plane wave from the steer direction passes
	// with unit gain.
	for tdx := range y {
		assert.InDelta(t, real(waveform[tdx]), real(y[tdx]), 1e-9)
		assert.InDelta(t, imag(waveform[tdx]), imag(y[tdx]), 1e-9)
	}
}

func TestPhaseShiftWeightNormalization(t *testing.T) {
	st := newULASteering(t, 10)
	dir := beamform.Direction{AzimuthDeg: -33}

	bf, err := beamformer.NewPhaseShift(st, dir, testFreqHz)
	require.NoError(t, err)
	w, err := bf.Weights()
	require.NoError(t, err)

	for i := range w {
		assert.InDelta(t, 0.1, cmplx.Abs(w[i]), 1e-12)
	}

	a, err := st.Vector(dir, testFreqHz)
	require.NoError(t, err)
	g := hdot(w, a)
	assert.InDelta(t, 1.0, real(g), 1e-12)
	assert.InDelta(t, 0.0, imag(g), 1e-12)
}

func TestPhaseShiftValidation(t *testing.T) {
	st := newULASteering(t, 4)

	_, err := beamformer.NewPhaseShift(nil, beamform.Direction{}, testFreqHz)
	require.Error(t, err)
	_, err = beamformer.NewPhaseShift(st, beamform.Direction{}, 0)
	require.Error(t, err)

	bf, err := beamformer.NewPhaseShift(st, beamform.Direction{}, testFreqHz)
	require.NoError(t, err)

	wrong := receive(t, newULASteering(t, 5), 16, nil, 1, 1)
	var cfgErr *beamform.ConfigurationError
	_, _, err = bf.Apply(wrong)
	require.Error(t, err)
	assert.True(t, errors.As(err, &cfgErr))
}
