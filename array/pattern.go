package array

// Element-level direction gains. Elements default to isotropic point
// sensors; Pattern3GPP implements the parabolic element pattern of
// TR 37.840 for callers that need a directional element.

import (
	"math"

	"github.com/wiless/vlib"

	"github.com/wiless/beamform"
)

// Wrap0To180 wraps the input angle to 0..180 degrees.
func Wrap0To180(degree float64) float64 {
	if degree >= 0 && degree <= 180 {
		return degree
	}
	if degree < 0 {
		degree = -degree
	}
	if degree >= 360 {
		degree = math.Mod(degree, 360)
	}
	if degree > 180 {
		degree = 360 - degree
	}
	return degree
}

// Wrap180To180 wraps the input angle to -180..180 degrees.
func Wrap180To180(degree float64) float64 {
	if degree >= -180 && degree <= 180 {
		return degree
	}
	if degree > 180 {
		rem := math.Mod(degree, 180.0)
		degree = -180 + rem
	} else if degree < -180 {
		rem := math.Mod(degree, 180.0)
		degree = 180 + rem
	}
	return degree
}

// Pattern3GPP is the 3GPP parabolic element pattern applied independently
// in azimuth and elevation, floored at -SLAVDb.
type Pattern3GPP struct {
	HBeamWidthDeg float64
	VBeamWidthDeg float64
	SLAVDb        float64
	VTiltDeg      float64
}

// NewPattern3GPP returns the TR 37.840 defaults: 65 degree beamwidths,
// 30 dB side-lobe attenuation, no tilt.
func NewPattern3GPP() Pattern3GPP {
	return Pattern3GPP{HBeamWidthDeg: 65, VBeamWidthDeg: 65, SLAVDb: 30}
}

func (p Pattern3GPP) axisGainDb(thetaDeg, tiltDeg, beamWidthDeg float64) float64 {
	theta := Wrap180To180(thetaDeg)
	return -math.Min(12.0*math.Pow((theta-tiltDeg)/beamWidthDeg, 2), p.SLAVDb)
}

// Gain returns the element amplitude gain toward dir, suitable as a
// GainFunc. The power gain is the product of the horizontal and vertical
// parabolic cuts, never below -SLAVDb.
func (p Pattern3GPP) Gain(dir beamform.Direction) float64 {
	hDb := p.axisGainDb(dir.AzimuthDeg, 0, p.HBeamWidthDeg)
	vDb := p.axisGainDb(dir.ElevationDeg, -p.VTiltDeg, p.VBeamWidthDeg)
	power := math.Max(vlib.InvDb(hDb+vDb), vlib.InvDb(-p.SLAVDb))
	return math.Sqrt(power)
}
