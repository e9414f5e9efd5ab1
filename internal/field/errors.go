package field

import (
	"errors"
	"fmt"
)

var (
	// ErrBadSpacing indicates a spacing that does not evenly divide the extent.
	ErrBadSpacing = errors.New("field: spacing does not divide extent")

	// ErrEmptyMesh indicates a mesh or level list with no points.
	ErrEmptyMesh = errors.New("field: empty mesh")
)

// EvaluationError wraps a per-cell failure with its grid position.
type EvaluationError struct {
	Level   int
	Z       float64
	IX, IY  int
	Wrapped error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("level %d (z=%g m) cell (%d,%d): %v", e.Level, e.Z, e.IX, e.IY, e.Wrapped)
}

func (e *EvaluationError) Unwrap() error {
	return e.Wrapped
}
