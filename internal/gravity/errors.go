package gravity

import (
	"errors"
	"fmt"
)

// Domain errors for field evaluation.
var (
	// ErrSingularPoint indicates the observation point coincides with the
	// source, or is so close that the result is not representable.
	ErrSingularPoint = errors.New("gravity: singular evaluation point (r = 0)")

	// ErrNonFinite indicates a NaN or Inf coordinate or mass.
	ErrNonFinite = errors.New("gravity: non-finite input")
)

// SingularEvaluationError wraps ErrSingularPoint with the offending geometry.
type SingularEvaluationError struct {
	Observation Point3D
	Source      Point3D
}

func (e *SingularEvaluationError) Error() string {
	return fmt.Sprintf("%v: observation %v, source %v", ErrSingularPoint, e.Observation, e.Source)
}

func (e *SingularEvaluationError) Unwrap() error {
	return ErrSingularPoint
}
