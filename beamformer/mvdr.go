package beamformer

import (
	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/mat"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
)

// CovarianceSource selects where an adaptive beamformer estimates its
// spatial covariance from. Exactly two variants exist: SelfEstimate and
// TrainedOn.
type CovarianceSource interface {
	covarianceSource()
}

// SelfEstimate estimates the covariance from the same block being filtered.
// When the true signal direction differs from the configured steer
// direction, the mismatch energy is treated as interference and the desired
// signal may be suppressed along with it (self-nulling).
type SelfEstimate struct{}

func (SelfEstimate) covarianceSource() {}

// TrainedOn estimates the covariance from a separate interference-plus-noise
// block with no desired signal present, avoiding self-nulling.
type TrainedOn struct {
	Interference beamform.SignalBlock
}

func (TrainedOn) covarianceSource() {}

// MVDR is the minimum variance distortionless response beamformer: weights
// minimize the output power w^H R w subject to w^H a(Direction) = 1.
//
// Loading is the diagonal loading strength relative to trace(R)/N, applied
// before every solve; the constructor sets DefaultLoading and a negative
// value disables loading.
type MVDR struct {
	Steering  *array.Steering
	Direction beamform.Direction
	FreqHz    float64
	Source    CovarianceSource
	Loading   float64
}

// NewMVDR validates the configuration eagerly and applies the documented
// loading default.
func NewMVDR(st *array.Steering, dir beamform.Direction, freqHz float64, src CovarianceSource) (*MVDR, error) {
	if st == nil {
		return nil, &beamform.ConfigurationError{Param: "steering", Reason: "steering engine must not be nil"}
	}
	if _, err := st.Lambda(freqHz); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, &beamform.ConfigurationError{Param: "source", Reason: "covariance source must be SelfEstimate or TrainedOn"}
	}
	if tr, ok := src.(TrainedOn); ok {
		if !tr.Interference.IsValid() {
			return nil, &beamform.ConfigurationError{Param: "source", Reason: "training block must be initialized"}
		}
		if tr.Interference.Elements() != st.Array.NumElements() {
			return nil, &beamform.ConfigurationError{Param: "source", Reason: "training block element count does not match geometry"}
		}
	}
	return &MVDR{Steering: st, Direction: dir, FreqHz: freqHz, Source: src, Loading: DefaultLoading}, nil
}

// covarianceFor resolves the configured source against the block under
// filter and applies diagonal loading.
func covarianceFor(src CovarianceSource, loading float64, block beamform.SignalBlock) (*mat.CDense, error) {
	var training beamform.SignalBlock
	switch s := src.(type) {
	case TrainedOn:
		training = s.Interference
	default:
		training = block
	}
	r, err := EstimateCovariance(training)
	if err != nil {
		return nil, err
	}
	if loading > 0 {
		r = DiagonalLoad(r, loading)
		log.Debugf("beamformer: diagonal loading applied (epsRel=%g, N=%d)", loading, training.Elements())
	}
	return r, nil
}

// Weights solves w = R^{-1} a / (a^H R^{-1} a) for the block's covariance
// source. Fails with NumericalInstabilityError when R stays singular or
// ill-conditioned after loading.
func (b *MVDR) Weights(block beamform.SignalBlock) (vlib.VectorC, error) {
	if block.IsValid() && block.Elements() != b.Steering.Array.NumElements() {
		return nil, &beamform.ConfigurationError{Param: "block", Reason: "block element count does not match geometry"}
	}
	a, err := b.Steering.Vector(b.Direction, b.FreqHz)
	if err != nil {
		return nil, err
	}
	r, err := covarianceFor(b.Source, b.Loading, block)
	if err != nil {
		return nil, err
	}

	n := a.Size()
	rhs := mat.NewCDense(n, 1, nil)
	for i := 0; i < n; i++ {
		rhs.Set(i, 0, a[i])
	}
	x, cond, err := solveMulti("mvdr solve", r, rhs)
	if err != nil {
		log.Warnf("beamformer: mvdr covariance solve failed (condition estimate %.3g)", cond)
		return nil, err
	}

	rinva := vlib.NewVectorC(n)
	for i := 0; i < n; i++ {
		rinva[i] = x.At(i, 0)
	}
	denom := dotc(a, rinva)
	w := vlib.NewVectorC(n)
	for i := 0; i < n; i++ {
		w[i] = rinva[i] / denom
	}
	return w, nil
}

// Apply computes the weights for the block and combines it, returning the
// output samples alongside the weights used.
func (b *MVDR) Apply(block beamform.SignalBlock) ([]complex128, vlib.VectorC, error) {
	w, err := b.Weights(block)
	if err != nil {
		return nil, nil, err
	}
	y, err := applyWeights(block, w)
	if err != nil {
		return nil, nil, err
	}
	return y, w, nil
}
