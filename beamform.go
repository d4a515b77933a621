// Package beamform holds the shared data model for narrowband array
// processing: directions of arrival and multi-element signal blocks.
// The actual numerics live in the array, beamformer and synth subpackages.
package beamform

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Direction is a direction of arrival (or departure) in degrees.
// Azimuth is measured in the x-y plane from +x toward +y, elevation from
// the x-y plane toward +z.
type Direction struct {
	AzimuthDeg   float64
	ElevationDeg float64
}

// UnitVector returns the propagation unit vector for d.
func (d Direction) UnitVector() (x, y, z float64) {
	az := d.AzimuthDeg * math.Pi / 180.0
	el := d.ElevationDeg * math.Pi / 180.0
	x = math.Cos(el) * math.Cos(az)
	y = math.Cos(el) * math.Sin(az)
	z = math.Sin(el)
	return x, y, z
}

// SignalBlock is a finite block of received samples: rows are time samples,
// columns are array elements. The zero value is not usable; construct with
// NewSignalBlock or BlockFromRows.
type SignalBlock struct {
	data *mat.CDense
}

// NewSignalBlock allocates a zeroed samples x elements block.
func NewSignalBlock(samples, elements int) (SignalBlock, error) {
	if samples <= 0 {
		return SignalBlock{}, &ConfigurationError{Param: "samples", Reason: "must be >= 1"}
	}
	if elements <= 0 {
		return SignalBlock{}, &ConfigurationError{Param: "elements", Reason: "must be >= 1"}
	}
	return SignalBlock{data: mat.NewCDense(samples, elements, nil)}, nil
}

// BlockFromRows builds a block from per-sample rows. Every row must have
// the same number of per-element amplitudes.
func BlockFromRows(rows [][]complex128) (SignalBlock, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return SignalBlock{}, &ConfigurationError{Param: "rows", Reason: "must contain at least one sample and one element"}
	}
	n := len(rows[0])
	b, err := NewSignalBlock(len(rows), n)
	if err != nil {
		return SignalBlock{}, err
	}
	for t, row := range rows {
		if len(row) != n {
			return SignalBlock{}, &ConfigurationError{Param: "rows", Reason: "ragged rows: all samples must cover the same element count"}
		}
		for i, v := range row {
			b.data.Set(t, i, v)
		}
	}
	return b, nil
}

// Samples reports the number of time samples (rows).
func (b SignalBlock) Samples() int {
	if b.data == nil {
		return 0
	}
	t, _ := b.data.Dims()
	return t
}

// Elements reports the number of array elements (columns).
func (b SignalBlock) Elements() int {
	if b.data == nil {
		return 0
	}
	_, n := b.data.Dims()
	return n
}

// At returns the amplitude of element i at sample t.
func (b SignalBlock) At(t, i int) complex128 { return b.data.At(t, i) }

// Set assigns the amplitude of element i at sample t.
func (b SignalBlock) Set(t, i int, v complex128) { b.data.Set(t, i, v) }

// Data exposes the underlying matrix for numeric consumers.
func (b SignalBlock) Data() *mat.CDense { return b.data }

// IsValid reports whether the block was properly constructed.
func (b SignalBlock) IsValid() bool { return b.data != nil }

// Add superimposes o onto b in place. Shapes must match exactly.
func (b SignalBlock) Add(o SignalBlock) error {
	if !b.IsValid() || !o.IsValid() {
		return &ConfigurationError{Param: "block", Reason: "uninitialized signal block"}
	}
	if b.Samples() != o.Samples() || b.Elements() != o.Elements() {
		return &ConfigurationError{Param: "block", Reason: "shape mismatch between superimposed blocks"}
	}
	for t := 0; t < b.Samples(); t++ {
		for i := 0; i < b.Elements(); i++ {
			b.data.Set(t, i, b.data.At(t, i)+o.data.At(t, i))
		}
	}
	return nil
}
