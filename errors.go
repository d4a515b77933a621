package beamform

import "fmt"

// ConfigurationError reports invalid setup: bad geometry parameters,
// mismatched block/geometry dimensions, mismatched constraint and response
// lengths, or non-positive frequency/spacing. Never retried.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("beamform: invalid %s: %s", e.Param, e.Reason)
}

// NumericalInstabilityError reports a singular or near-singular covariance
// or constraint-gram matrix. ConditionNumber carries the estimate observed
// during the failed solve for diagnosis.
type NumericalInstabilityError struct {
	Op              string
	ConditionNumber float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("beamform: %s: matrix is singular or ill-conditioned (condition estimate %.3g)", e.Op, e.ConditionNumber)
}
