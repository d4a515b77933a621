package array

import (
	"math"
	"math/cmplx"

	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/mat"

	"github.com/wiless/beamform"
)

// SpeedOfLight is the default propagation speed in m/s.
const SpeedOfLight = 3.0e8

// Steering computes array response vectors for a fixed geometry. SpeedMps
// is the propagation speed of the medium (defaults to SpeedOfLight for RF;
// acoustic arrays set ~343). A Steering value is read-only after
// construction and safe for concurrent use.
type Steering struct {
	Array    ArrayGeometry
	SpeedMps float64
}

// NewSteering wraps a geometry with the default propagation speed.
func NewSteering(g ArrayGeometry) (*Steering, error) {
	if g == nil || g.NumElements() == 0 {
		return nil, &beamform.ConfigurationError{Param: "geometry", Reason: "geometry must have at least one element"}
	}
	return &Steering{Array: g, SpeedMps: SpeedOfLight}, nil
}

// Lambda returns the wavelength for freqHz.
func (s *Steering) Lambda(freqHz float64) (float64, error) {
	if s.SpeedMps <= 0 {
		return 0, &beamform.ConfigurationError{Param: "SpeedMps", Reason: "propagation speed must be > 0"}
	}
	if freqHz <= 0 {
		return 0, &beamform.ConfigurationError{Param: "freqHz", Reason: "carrier frequency must be > 0"}
	}
	return s.SpeedMps / freqHz, nil
}

// Vector returns the steering vector for one direction at freqHz. Entry i
// is gain_i(dir) * exp(-j*2*pi/lambda * dot(p_i, u)) for element position
// p_i and propagation unit vector u. Isotropic elements give unit-magnitude
// entries.
func (s *Steering) Vector(dir beamform.Direction, freqHz float64) (vlib.VectorC, error) {
	lambda, err := s.Lambda(freqHz)
	if err != nil {
		return nil, err
	}
	ux, uy, uz := dir.UnitVector()
	positions := s.Array.Positions()
	a := vlib.NewVectorC(len(positions))
	k := 2.0 * math.Pi / lambda
	for i, p := range positions {
		phase := -k * (p.X*ux + p.Y*uy + p.Z*uz)
		gain := complex(s.Array.ElementGain(i, dir), 0)
		a[i] = gain * cmplx.Exp(complex(0, phase))
	}
	return a, nil
}

// Matrix evaluates the steering vector over a grid of directions, one
// column per direction (N x D), for pattern computation.
func (s *Steering) Matrix(dirs []beamform.Direction, freqHz float64) (*mat.CDense, error) {
	if len(dirs) == 0 {
		return nil, &beamform.ConfigurationError{Param: "dirs", Reason: "direction grid must be non-empty"}
	}
	n := s.Array.NumElements()
	out := mat.NewCDense(n, len(dirs), nil)
	for j, dir := range dirs {
		a, err := s.Vector(dir, freqHz)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			out.Set(i, j, a[i])
		}
	}
	return out, nil
}

// Vectors evaluates one direction over a list of carrier frequencies, for
// callers that operate on more than one narrowband carrier.
func (s *Steering) Vectors(dir beamform.Direction, freqsHz []float64) ([]vlib.VectorC, error) {
	if len(freqsHz) == 0 {
		return nil, &beamform.ConfigurationError{Param: "freqsHz", Reason: "frequency list must be non-empty"}
	}
	out := make([]vlib.VectorC, len(freqsHz))
	for i, f := range freqsHz {
		a, err := s.Vector(dir, f)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}
