// Package beamformer computes complex weight vectors that combine
// per-element signals so that energy from a desired direction is preserved
// while energy from other directions is attenuated.
//
// Normalization convention, shared by all three beamformers: weights are
// distortionless toward the steer direction, w^H a(steer) = 1, and a block
// is combined as y[t] = w^H x[t] where x[t] is the row-t snapshot. A unit
// plane wave from the steer direction therefore passes with unit gain.
package beamformer

import (
	"math/cmplx"

	"github.com/wiless/vlib"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
)

// PhaseShift is the conventional (delay-and-sum) beamformer: deterministic
// weights from a single steering vector, no training or adaptation.
type PhaseShift struct {
	Steering  *array.Steering
	Direction beamform.Direction
	FreqHz    float64
}

// NewPhaseShift validates the configuration eagerly.
func NewPhaseShift(st *array.Steering, dir beamform.Direction, freqHz float64) (*PhaseShift, error) {
	if st == nil {
		return nil, &beamform.ConfigurationError{Param: "steering", Reason: "steering engine must not be nil"}
	}
	if _, err := st.Lambda(freqHz); err != nil {
		return nil, err
	}
	return &PhaseShift{Steering: st, Direction: dir, FreqHz: freqHz}, nil
}

// Weights returns w = a/N for steering vector a, so that w^H a = 1 for an
// isotropic array.
func (p *PhaseShift) Weights() (vlib.VectorC, error) {
	a, err := p.Steering.Vector(p.Direction, p.FreqHz)
	if err != nil {
		return nil, err
	}
	return a.Scale(1.0 / float64(a.Size())), nil
}

// Apply combines the block with the phase-shift weights and returns the
// output samples together with the weights used.
func (p *PhaseShift) Apply(block beamform.SignalBlock) ([]complex128, vlib.VectorC, error) {
	w, err := p.Weights()
	if err != nil {
		return nil, nil, err
	}
	y, err := applyWeights(block, w)
	if err != nil {
		return nil, nil, err
	}
	return y, w, nil
}

// applyWeights combines each snapshot with conj(w): y[t] = w^H x[t].
func applyWeights(block beamform.SignalBlock, w vlib.VectorC) ([]complex128, error) {
	if !block.IsValid() {
		return nil, &beamform.ConfigurationError{Param: "block", Reason: "uninitialized signal block"}
	}
	if block.Elements() != w.Size() {
		return nil, &beamform.ConfigurationError{Param: "block", Reason: "element count does not match weight vector length"}
	}
	out := make([]complex128, block.Samples())
	for t := 0; t < block.Samples(); t++ {
		var sum complex128
		for i := 0; i < w.Size(); i++ {
			sum += cmplx.Conj(w[i]) * block.At(t, i)
		}
		out[t] = sum
	}
	return out, nil
}

// dotc returns a^H b.
func dotc(a, b vlib.VectorC) complex128 {
	var sum complex128
	for i := range a {
		sum += cmplx.Conj(a[i]) * b[i]
	}
	return sum
}
