package recovery

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InvalidInputError through errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ErrNoQualifyingCandidate is reported by Result.Optimum when no candidate
// passed both the feasibility filter and the margin test.
var ErrNoQualifyingCandidate = errors.New("no billet length meets the criteria (extrusion length <= 28 m and margin > 15%)")

// InvalidInputError describes a process parameter or candidate list that
// cannot be evaluated.
type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field string, value float64, reason string) error {
	return &InvalidInputError{Field: field, Value: value, Reason: reason}
}
