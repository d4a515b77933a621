package beamformer

// Hand-rolled complex matrix primitives. gonum's mat.CDense is used as the
// container, but it ships no complex solver, so elimination and the
// conjugate-transpose products are written out explicitly.

import (
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/wiless/beamform"
)

// condLimit is the pivot-ratio condition estimate above which a solve is
// reported as numerically unstable (1/cond below 1e-12).
const condLimit = 1e12

// ctranspose returns the conjugate transpose of a.
func ctranspose(a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(c, r, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(j, i, cmplx.Conj(a.At(i, j)))
		}
	}
	return out
}

// cmul returns a*b.
func cmul(a, b *mat.CDense) *mat.CDense {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ca != rb {
		panic("beamformer: inner dimension mismatch in complex multiply")
	}
	out := mat.NewCDense(ra, cb, nil)
	for i := 0; i < ra; i++ {
		for j := 0; j < cb; j++ {
			var sum complex128
			for k := 0; k < ca; k++ {
				sum += a.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// cscale returns f*a.
func cscale(f complex128, a *mat.CDense) *mat.CDense {
	r, c := a.Dims()
	out := mat.NewCDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.Set(i, j, f*a.At(i, j))
		}
	}
	return out
}

// ctrace returns the trace of a square matrix.
func ctrace(a *mat.CDense) complex128 {
	r, c := a.Dims()
	if r != c {
		panic("beamformer: trace of a non-square matrix")
	}
	var tr complex128
	for i := 0; i < r; i++ {
		tr += a.At(i, i)
	}
	return tr
}

// hermitify averages a with its conjugate transpose in place, removing the
// rounding skew accumulated while estimating a covariance.
func hermitify(a *mat.CDense) {
	r, c := a.Dims()
	if r != c {
		panic("beamformer: hermitify of a non-square matrix")
	}
	for i := 0; i < r; i++ {
		a.Set(i, i, complex(real(a.At(i, i)), 0))
		for j := i + 1; j < c; j++ {
			v := (a.At(i, j) + cmplx.Conj(a.At(j, i))) / 2
			a.Set(i, j, v)
			a.Set(j, i, cmplx.Conj(v))
		}
	}
}

// solveMulti solves A*X = B by Gaussian elimination with partial pivoting
// and returns X together with the pivot-ratio condition estimate. A and B
// are left untouched. The solve fails with NumericalInstabilityError when a
// pivot vanishes or the pivot ratio exceeds condLimit.
func solveMulti(op string, a, b *mat.CDense) (*mat.CDense, float64, error) {
	n, nc := a.Dims()
	if n != nc {
		panic("beamformer: solve with a non-square matrix")
	}
	rb, k := b.Dims()
	if rb != n {
		panic("beamformer: solve with mismatched right-hand side")
	}

	// Working copies: [A | B] augmented.
	work := mat.NewCDense(n, n+k, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			work.Set(i, j, a.At(i, j))
		}
		for j := 0; j < k; j++ {
			work.Set(i, n+j, b.At(i, j))
		}
	}

	maxPivot, minPivot := 0.0, 0.0
	for col := 0; col < n; col++ {
		// Partial pivot on the largest magnitude in the column.
		pivRow, pivMag := col, cmplx.Abs(work.At(col, col))
		for r := col + 1; r < n; r++ {
			if m := cmplx.Abs(work.At(r, col)); m > pivMag {
				pivRow, pivMag = r, m
			}
		}
		if pivMag == 0 {
			return nil, condEstimate(maxPivot, 0), &beamform.NumericalInstabilityError{Op: op, ConditionNumber: condEstimate(maxPivot, 0)}
		}
		if pivRow != col {
			for j := col; j < n+k; j++ {
				tmp := work.At(col, j)
				work.Set(col, j, work.At(pivRow, j))
				work.Set(pivRow, j, tmp)
			}
		}
		if col == 0 || pivMag > maxPivot {
			maxPivot = pivMag
		}
		if col == 0 || pivMag < minPivot {
			minPivot = pivMag
		}

		piv := work.At(col, col)
		for r := col + 1; r < n; r++ {
			factor := work.At(r, col) / piv
			if factor == 0 {
				continue
			}
			work.Set(r, col, 0)
			for j := col + 1; j < n+k; j++ {
				work.Set(r, j, work.At(r, j)-factor*work.At(col, j))
			}
		}
	}

	cond := condEstimate(maxPivot, minPivot)
	if cond > condLimit {
		return nil, cond, &beamform.NumericalInstabilityError{Op: op, ConditionNumber: cond}
	}

	// Back substitution.
	x := mat.NewCDense(n, k, nil)
	for j := 0; j < k; j++ {
		for i := n - 1; i >= 0; i-- {
			sum := work.At(i, n+j)
			for l := i + 1; l < n; l++ {
				sum -= work.At(i, l) * x.At(l, j)
			}
			x.Set(i, j, sum/work.At(i, i))
		}
	}
	return x, cond, nil
}

func condEstimate(maxPivot, minPivot float64) float64 {
	if minPivot == 0 {
		return condLimit * 10
	}
	return maxPivot / minPivot
}
