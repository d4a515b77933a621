// Package array models multi-element sensor geometries and computes the
// steering vectors (per-element complex phase/gain factors) that the
// beamformers and the pattern evaluator consume.
package array

import (
	"github.com/wiless/vlib"

	"github.com/wiless/beamform"
)

// GainFunc returns the amplitude gain of element i toward a direction. The
// steering vector entry magnitude equals this gain, so a power pattern must
// be converted with math.Sqrt before use.
type GainFunc func(i int, dir beamform.Direction) float64

// UniformGain adapts a direction-only pattern (the common case: identical
// elements) to a GainFunc.
func UniformGain(gain func(beamform.Direction) float64) GainFunc {
	return func(_ int, dir beamform.Direction) float64 { return gain(dir) }
}

// ArrayGeometry is the capability every layout variant exposes. Positions
// are fixed for the lifetime of the geometry; instances are safe to share
// across concurrent callers.
type ArrayGeometry interface {
	NumElements() int
	// Positions returns a copy of the ordered element coordinates in meters.
	Positions() []vlib.Location3D
	// ElementGain returns the amplitude gain of element i toward dir
	// (1 when isotropic).
	ElementGain(i int, dir beamform.Direction) float64
}

type geometry struct {
	positions []vlib.Location3D
	gain      GainFunc
}

func (g *geometry) NumElements() int { return len(g.positions) }

func (g *geometry) Positions() []vlib.Location3D {
	out := make([]vlib.Location3D, len(g.positions))
	copy(out, g.positions)
	return out
}

func (g *geometry) ElementGain(i int, dir beamform.Direction) float64 {
	if g.gain == nil {
		return 1.0
	}
	return g.gain(i, dir)
}

// NewUniformLinear creates an n-element uniform linear array along the y
// axis, centered at the origin, with spacingM meters between elements.
// Azimuth is the scan angle of this layout at zero elevation.
func NewUniformLinear(n int, spacingM float64) (ArrayGeometry, error) {
	if n <= 0 {
		return nil, &beamform.ConfigurationError{Param: "n", Reason: "element count must be >= 1"}
	}
	if spacingM <= 0 {
		return nil, &beamform.ConfigurationError{Param: "spacingM", Reason: "element spacing must be > 0"}
	}
	pos := make([]vlib.Location3D, n)
	offset := float64(n-1) * spacingM / 2.0
	for i := 0; i < n; i++ {
		pos[i].Y = float64(i)*spacingM - offset
	}
	return &geometry{positions: pos}, nil
}

// NewUniformRectangular creates a rows x cols planar array in the y-z
// plane, centered at the origin. Elements are ordered row-major, rows along
// z and columns along y.
func NewUniformRectangular(rows, cols int, rowSpacingM, colSpacingM float64) (ArrayGeometry, error) {
	if rows <= 0 || cols <= 0 {
		return nil, &beamform.ConfigurationError{Param: "rows/cols", Reason: "row and column counts must be >= 1"}
	}
	if rowSpacingM <= 0 || colSpacingM <= 0 {
		return nil, &beamform.ConfigurationError{Param: "spacing", Reason: "row and column spacing must be > 0"}
	}
	pos := make([]vlib.Location3D, 0, rows*cols)
	zoff := float64(rows-1) * rowSpacingM / 2.0
	yoff := float64(cols-1) * colSpacingM / 2.0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pos = append(pos, vlib.Location3D{
				Y: float64(c)*colSpacingM - yoff,
				Z: float64(r)*rowSpacingM - zoff,
			})
		}
	}
	return &geometry{positions: pos}, nil
}

// NewArbitrary creates a geometry from explicit element coordinates.
// Positions are copied; the geometry never observes later mutation of the
// caller's slice.
func NewArbitrary(positions []vlib.Location3D) (ArrayGeometry, error) {
	if len(positions) == 0 {
		return nil, &beamform.ConfigurationError{Param: "positions", Reason: "element count must be >= 1"}
	}
	pos := make([]vlib.Location3D, len(positions))
	copy(pos, positions)
	return &geometry{positions: pos}, nil
}

// WithElementGain returns a geometry sharing g's positions with a
// direction-dependent element amplitude gain. Pass nil to restore the
// isotropic default.
func WithElementGain(g ArrayGeometry, gain GainFunc) ArrayGeometry {
	return &geometry{positions: g.Positions(), gain: gain}
}
