package beamformer

import (
	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/mat"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
)

// ConstraintSet pairs an N x K constraint matrix (columns are steering
// vectors or arbitrary weight templates) with the length-K desired-response
// vector.
type ConstraintSet struct {
	n       int
	columns []vlib.VectorC
	resp    []complex128
}

// NewConstraintSet creates an empty constraint set for an array of
// numElements sensors.
func NewConstraintSet(numElements int) (*ConstraintSet, error) {
	if numElements <= 0 {
		return nil, &beamform.ConfigurationError{Param: "numElements", Reason: "element count must be >= 1"}
	}
	return &ConstraintSet{n: numElements}, nil
}

// Add appends one linear constraint c^H w = response.
func (cs *ConstraintSet) Add(c vlib.VectorC, response complex128) error {
	if c.Size() != cs.n {
		return &beamform.ConfigurationError{Param: "constraint", Reason: "constraint vector length does not match element count"}
	}
	col := vlib.NewVectorC(cs.n)
	copy(col, c)
	cs.columns = append(cs.columns, col)
	cs.resp = append(cs.resp, response)
	return nil
}

// NumElements reports N.
func (cs *ConstraintSet) NumElements() int { return cs.n }

// NumConstraints reports K.
func (cs *ConstraintSet) NumConstraints() int { return len(cs.columns) }

// Matrix assembles the N x K constraint matrix C.
func (cs *ConstraintSet) Matrix() *mat.CDense {
	c := mat.NewCDense(cs.n, len(cs.columns), nil)
	for j, col := range cs.columns {
		for i := 0; i < cs.n; i++ {
			c.Set(i, j, col[i])
		}
	}
	return c
}

// Response returns a copy of the desired-response vector f.
func (cs *ConstraintSet) Response() []complex128 {
	out := make([]complex128, len(cs.resp))
	copy(out, cs.resp)
	return out
}

// FlankedConstraints builds the robustness band used against self-nulling:
// unit-response constraints at dir and at dir +/- flankDeg in azimuth, so a
// small steer mismatch stays inside the preserved band.
func FlankedConstraints(st *array.Steering, dir beamform.Direction, freqHz, flankDeg float64) (*ConstraintSet, error) {
	if flankDeg <= 0 {
		return nil, &beamform.ConfigurationError{Param: "flankDeg", Reason: "flank angle must be > 0"}
	}
	cs, err := NewConstraintSet(st.Array.NumElements())
	if err != nil {
		return nil, err
	}
	for _, off := range []float64{-flankDeg, 0, flankDeg} {
		d := beamform.Direction{AzimuthDeg: dir.AzimuthDeg + off, ElevationDeg: dir.ElevationDeg}
		a, err := st.Vector(d, freqHz)
		if err != nil {
			return nil, err
		}
		if err := cs.Add(a, 1); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

// LCMV is the linearly constrained minimum variance beamformer: weights
// minimize w^H R w subject to C^H w = f for K >= 1 simultaneous
// constraints. With a single unit constraint it reduces to MVDR.
type LCMV struct {
	Constraints *ConstraintSet
	Source      CovarianceSource
	Loading     float64
}

// NewLCMV validates the configuration eagerly and applies the documented
// loading default.
func NewLCMV(cs *ConstraintSet, src CovarianceSource) (*LCMV, error) {
	if cs == nil || cs.NumConstraints() == 0 {
		return nil, &beamform.ConfigurationError{Param: "constraints", Reason: "constraint set must contain at least one constraint"}
	}
	if src == nil {
		return nil, &beamform.ConfigurationError{Param: "source", Reason: "covariance source must be SelfEstimate or TrainedOn"}
	}
	if tr, ok := src.(TrainedOn); ok {
		if !tr.Interference.IsValid() {
			return nil, &beamform.ConfigurationError{Param: "source", Reason: "training block must be initialized"}
		}
		if tr.Interference.Elements() != cs.NumElements() {
			return nil, &beamform.ConfigurationError{Param: "source", Reason: "training block element count does not match constraint set"}
		}
	}
	return &LCMV{Constraints: cs, Source: src, Loading: DefaultLoading}, nil
}

// Weights solves w = R^{-1} C (C^H R^{-1} C)^{-1} f. A singular covariance
// or constraint gram matrix fails with NumericalInstabilityError.
func (b *LCMV) Weights(block beamform.SignalBlock) (vlib.VectorC, error) {
	n := b.Constraints.NumElements()
	if block.IsValid() && block.Elements() != n {
		return nil, &beamform.ConfigurationError{Param: "block", Reason: "block element count does not match constraint set"}
	}
	r, err := covarianceFor(b.Source, b.Loading, block)
	if err != nil {
		return nil, err
	}

	c := b.Constraints.Matrix()
	x, cond, err := solveMulti("lcmv covariance solve", r, c)
	if err != nil {
		log.Warnf("beamformer: lcmv covariance solve failed (condition estimate %.3g)", cond)
		return nil, err
	}

	// Gram system (C^H R^{-1} C) z = f, Hermitian by construction.
	gram := cmul(ctranspose(c), x)
	hermitify(gram)
	k := b.Constraints.NumConstraints()
	f := mat.NewCDense(k, 1, nil)
	for i, v := range b.Constraints.Response() {
		f.Set(i, 0, v)
	}
	z, cond, err := solveMulti("lcmv gram solve", gram, f)
	if err != nil {
		log.Warnf("beamformer: lcmv gram solve failed (condition estimate %.3g)", cond)
		return nil, err
	}

	w := vlib.NewVectorC(n)
	for i := 0; i < n; i++ {
		var sum complex128
		for j := 0; j < k; j++ {
			sum += x.At(i, j) * z.At(j, 0)
		}
		w[i] = sum
	}
	return w, nil
}

// Apply computes the weights for the block and combines it, returning the
// output samples alongside the weights used.
func (b *LCMV) Apply(block beamform.SignalBlock) ([]complex128, vlib.VectorC, error) {
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
