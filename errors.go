package emulsion

import (
	"errors"
	"fmt"
)

// Error kinds. Every failure returned by the engine wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	// ErrInvalidComposition: phase fractions out of bounds or not summing to 100.
	ErrInvalidComposition = errors.New("invalid composition")

	// ErrInvalidComponentData: a resolved record is physically implausible
	// (non-positive or placeholder density, non-positive flash point, ...).
	ErrInvalidComponentData = errors.New("invalid component data")

	// ErrInvalidStabilityInput: negative salinity or a surfactant without ionic type.
	ErrInvalidStabilityInput = errors.New("invalid stability input")

	// ErrOptimizationFailure: the solver did not converge. Non-fatal.
	ErrOptimizationFailure = errors.New("optimization failure")

	// ErrUnknownComponent: a registry lookup missed.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrInvalidConfig: solver settings or search bounds are unusable.
	ErrInvalidConfig = errors.New("invalid optimizer config")
)

// FieldError carries the offending field and value for one of the error kinds above.
type FieldError struct {
	Kind   error   // One of the Err* sentinels
	Field  string  // e.g. "aqueous", "solvent.density"
	Value  float64 // Offending value (NaN when not numeric)
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%v: %s = %g: %s", e.Kind, e.Field, e.Value, e.Reason)
}

// Unwrap exposes the error kind to errors.Is.
func (e *FieldError) Unwrap() error {
	return e.Kind
}

func compositionError(field string, value float64, reason string) error {
	return &FieldError{Kind: ErrInvalidComposition, Field: field, Value: value, Reason: reason}
}

func componentError(field string, value float64, reason string) error {
	return &FieldError{Kind: ErrInvalidComponentData, Field: field, Value: value, Reason: reason}
}

func stabilityError(field string, value float64, reason string) error {
	return &FieldError{Kind: ErrInvalidStabilityInput, Field: field, Value: value, Reason: reason}
}
