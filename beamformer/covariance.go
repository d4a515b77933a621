package beamformer

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/wiless/beamform"
)

// DefaultLoading is the default diagonal loading strength, relative to
// trace(R)/N. Loading is applied by default; set the beamformer's Loading
// field to a negative value to disable it.
const DefaultLoading = 1e-6

// EstimateCovariance returns the biased sample spatial covariance of a
// block: R[i][j] = (1/T) * sum_t Y[t,i]*conj(Y[t,j]), the average of the
// snapshot outer products x[t]*x[t]^H. This orientation pairs with the
// combiner y[t] = w^H x[t], so that the output power is w^H R w. The 1/T
// normalization (not 1/(T-1)) is fixed so that loading thresholds and
// absolute power comparisons are stable. The result is Hermitian by
// construction.
func EstimateCovariance(block beamform.SignalBlock) (*mat.CDense, error) {
	if !block.IsValid() {
		return nil, &beamform.ConfigurationError{Param: "block", Reason: "uninitialized signal block"}
	}
	t := block.Samples()
	// Y^H*Y accumulates conj(Y[t,i])*Y[t,j]; the entrywise conjugate flips
	// it to the x*x^H orientation.
	r := cmul(ctranspose(block.Data()), block.Data())
	n, _ := r.Dims()
	scale := complex(1.0/float64(t), 0)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.Set(i, j, scale*cmplx.Conj(r.At(i, j)))
		}
	}
	hermitify(r)
	return r, nil
}

// DiagonalLoad returns R + epsRel*trace(R)/N * I, leaving R untouched.
// epsRel <= 0 returns an unloaded copy.
func DiagonalLoad(r *mat.CDense, epsRel float64) *mat.CDense {
	n, _ := r.Dims()
	out := cscale(1, r)
	if epsRel <= 0 {
		return out
	}
	eps := epsRel * real(ctrace(r)) / float64(n)
	for i := 0; i < n; i++ {
		out.Set(i, i, out.At(i, i)+complex(eps, 0))
	}
	return out
}

// HermitianError returns the largest magnitude by which r deviates from
// conjugate symmetry.
func HermitianError(r *mat.CDense) float64 {
	n, c := r.Dims()
	if n != c {
		panic("beamformer: hermitian check of a non-square matrix")
	}
	worst := 0.0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if d := cmplx.Abs(r.At(i, j) - cmplx.Conj(r.At(j, i))); d > worst {
				worst = d
			}
		}
	}
	return worst
}
