package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/gravfield/internal/gravity"
)

// Mesh is a regular horizontal grid. X varies with the column index, Y with
// the row index.
type Mesh struct {
	X       []float64
	Y       []float64
	Spacing float64
}

// Linspace returns n evenly spaced values over [min, max].
func Linspace(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = min
		return out
	}
	floats.Span(out, min, max)
	out[n-1] = max
	return out
}

// NewMesh builds an n×n mesh spanning [min, max] on both axes.
func NewMesh(min, max float64, n int) (Mesh, error) {
	if n < 1 {
		return Mesh{}, fmt.Errorf("%w: %d points", ErrEmptyMesh, n)
	}
	spacing := 0.0
	if n > 1 {
		spacing = (max - min) / float64(n-1)
	}
	return Mesh{
		X:       Linspace(min, max, n),
		Y:       Linspace(min, max, n),
		Spacing: spacing,
	}, nil
}

// MaxAxisPoints caps the nodes per mesh axis.
const MaxAxisPoints = 10001

// AxisPoints returns the node count per axis for spacing over [min, max].
func AxisPoints(min, max, spacing float64) (int, error) {
	if !finite(min) || !finite(max) || !finite(spacing) || spacing <= 0 || max <= min {
		return 0, fmt.Errorf("%w: spacing=%g extent=[%g, %g]", ErrBadSpacing, spacing, min, max)
	}
	steps := (max - min) / spacing
	if steps >= MaxAxisPoints {
		return 0, fmt.Errorf("%w: spacing=%g gives more than %d points per axis", ErrBadSpacing, spacing, MaxAxisPoints)
	}
	n := math.Round(steps)
	if math.Abs(steps-n) > 1e-9*math.Max(1, steps) {
		return 0, fmt.Errorf("%w: spacing=%g extent=[%g, %g]", ErrBadSpacing, spacing, min, max)
	}
	return int(n) + 1, nil
}

// MeshForSpacing builds the square mesh over [min, max] with the given spacing.
// 5 m over [-100, 100] yields 41×41 points; 25 m yields 9×9.
func MeshForSpacing(min, max, spacing float64) (Mesh, error) {
	n, err := AxisPoints(min, max, spacing)
	if err != nil {
		return Mesh{}, err
	}
	m, err := NewMesh(min, max, n)
	if err != nil {
		return Mesh{}, err
	}
	m.Spacing = spacing
	return m, nil
}

func (m Mesh) Dims() (nx, ny int) { return len(m.X), len(m.Y) }

func (m Mesh) Len() int { return len(m.X) * len(m.Y) }

// Point returns the observation point for column ix, row iy at elevation z.
func (m Mesh) Point(ix, iy int, z float64) gravity.Point3D {
	return gravity.Point3D{X: m.X[ix], Y: m.Y[iy], Z: z}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
