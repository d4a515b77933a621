package array

import (
	"encoding/json"
	"strings"

	ms "github.com/mitchellh/mapstructure"

	"github.com/wiless/beamform"
)

// Settings describes a geometry in a form loadable from generic maps or
// JSON, for callers that configure arrays from files rather than code.
type Settings struct {
	Type        string // "linear" or "rectangular"
	N           int
	SpacingM    float64
	Rows        int
	Cols        int
	RowSpacingM float64
	ColSpacingM float64
}

// SetDefault fills the conventional half-meter linear layout.
func (s *Settings) SetDefault() {
	s.Type = "linear"
	s.N = 1
	s.SpacingM = 0.5
}

// Build constructs the geometry the settings describe.
func (s Settings) Build() (ArrayGeometry, error) {
	switch strings.ToLower(s.Type) {
	case "linear":
		return NewUniformLinear(s.N, s.SpacingM)
	case "rectangular":
		return NewUniformRectangular(s.Rows, s.Cols, s.RowSpacingM, s.ColSpacingM)
	default:
		return nil, &beamform.ConfigurationError{Param: "Type", Reason: "unknown geometry type " + s.Type}
	}
}

// FromMap decodes geometry settings from a generic map and builds the
// geometry.
func FromMap(m map[string]interface{}) (ArrayGeometry, error) {
	var s Settings
	s.SetDefault()
	if err := ms.Decode(m, &s); err != nil {
		return nil, &beamform.ConfigurationError{Param: "settings", Reason: err.Error()}
	}
	return s.Build()
}

// FromJSON decodes geometry settings from a JSON document and builds the
// geometry.
func FromJSON(js string) (ArrayGeometry, error) {
	var s Settings
	s.SetDefault()
	if err := json.Unmarshal([]byte(js), &s); err != nil {
		return nil, &beamform.ConfigurationError{Param: "settings", Reason: err.Error()}
	}
	return s.Build()
}
