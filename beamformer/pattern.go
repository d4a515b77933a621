package beamformer

import (
	"math"
	"math/cmplx"
	"runtime"

	"github.com/wiless/vlib"
	"golang.org/x/sync/errgroup"

	"github.com/wiless/beamform"
	"github.com/wiless/beamform/array"
)

// PatternPoint is one (direction, power) sample of a beam pattern.
type PatternPoint struct {
	Direction beamform.Direction
	Power     float64
}

// PatternOptions controls the pattern projection. Decibels reports power as
// 10*log10; Normalize references the peak (peak = 1, or 0 dB); Workers > 1
// evaluates the grid with that many goroutines (0 means NumCPU, 1 forces
// serial). Parallelism never changes the result, only the wall time.
type PatternOptions struct {
	Decibels  bool
	Normalize bool
	Workers   int
}

// EvaluatePattern computes p(theta) = |w^H a(theta, freqHz)|^2 over a grid
// of directions. Purely a read-only projection of the weights.
func EvaluatePattern(st *array.Steering, w vlib.VectorC, freqHz float64, dirs []beamform.Direction, opt PatternOptions) ([]PatternPoint, error) {
	if st == nil {
		return nil, &beamform.ConfigurationError{Param: "steering", Reason: "steering engine must not be nil"}
	}
	if w.Size() != st.Array.NumElements() {
		return nil, &beamform.ConfigurationError{Param: "weights", Reason: "weight vector length does not match geometry"}
	}
	if len(dirs) == 0 {
		return nil, &beamform.ConfigurationError{Param: "dirs", Reason: "direction grid must be non-empty"}
	}
	if _, err := st.Lambda(freqHz); err != nil {
		return nil, err
	}

	workers := opt.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(dirs) {
		workers = len(dirs)
	}

	powers := make([]float64, len(dirs))
	evalRange := func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			a, err := st.Vector(dirs[i], freqHz)
			if err != nil {
				return err
			}
			powers[i] = math.Pow(cmplx.Abs(dotc(w, a)), 2)
		}
		return nil
	}

	if workers == 1 {
		if err := evalRange(0, len(dirs)); err != nil {
			return nil, err
		}
	} else {
		var g errgroup.Group
		chunk := (len(dirs) + workers - 1) / workers
		for lo := 0; lo < len(dirs); lo += chunk {
			lo, hi := lo, lo+chunk
			if hi > len(dirs) {
				hi = len(dirs)
			}
			g.Go(func() error { return evalRange(lo, hi) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	if opt.Normalize {
		peak := 0.0
		for _, p := range powers {
			if p > peak {
				peak = p
			}
		}
		if peak > 0 {
			for i := range powers {
				powers[i] /= peak
			}
		}
	}

	out := make([]PatternPoint, len(dirs))
	for i := range dirs {
		p := powers[i]
		if opt.Decibels {
			if p > 0 {
				p = vlib.Db(p)
			} else {
				p = math.Inf(-1)
			}
		}
		out[i] = PatternPoint{Direction: dirs[i], Power: p}
	}
	return out, nil
}

// AzimuthGrid returns the directions fromDeg..toDeg (inclusive) in stepDeg
// increments at a fixed elevation, for azimuth-cut pattern evaluation.
func AzimuthGrid(fromDeg, toDeg, stepDeg, elevationDeg float64) []beamform.Direction {
	if stepDeg <= 0 || toDeg < fromDeg {
		return nil
	}
	var dirs []beamform.Direction
	for az := fromDeg; az <= toDeg+stepDeg/2; az += stepDeg {
		dirs = append(dirs, beamform.Direction{AzimuthDeg: az, ElevationDeg: elevationDeg})
	}
	return dirs
}
