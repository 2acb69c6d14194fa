package meshgen

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidArgument is matched by every ArgumentError via errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a shape parameter that violates its constraint.
type ArgumentError struct {
	Shape      string  // "sphere", "cylinder"
	Param      string  // "radius", "height", "segments"
	Value      float64 // offending value
	Constraint string  // e.g. "> 0", ">= 3"
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s must be %s, got %g", e.Shape, e.Param, e.Constraint, e.Value)
}

// Is reports whether target is ErrInvalidArgument.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// checkPositive rejects zero, negative, NaN and infinite lengths.
func checkPositive(shape, param string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return &ArgumentError{Shape: shape, Param: param, Value: v, Constraint: "> 0 and finite"}
	}
	return nil
}

// checkSegments rejects segment counts outside [min, max]. max keeps every
// vertex index representable as uint32.
func checkSegments(shape string, segments, min, max int) error {
	if segments < min {
		return &ArgumentError{
			Shape:      shape,
			Param:      "segments",
			Value:      float64(segments),
			Constraint: fmt.Sprintf(">= %d", min),
		}
	}
	if segments > max {
		return &ArgumentError{
			Shape:      shape,
			Param:      "segments",
			Value:      float64(segments),
			Constraint: fmt.Sprintf("<= %d", max),
		}
	}
	return nil
}
