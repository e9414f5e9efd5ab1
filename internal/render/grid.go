package render

import (
	"gonum.org/v1/plot/plotter"

	"github.com/san-kum/gravfield/internal/field"
)

// levelGrid adapts one level of a ScalarField to plotter.GridXYZ.
type levelGrid struct {
	mesh  field.Mesh
	field *field.ScalarField
	k     int
}

var _ plotter.GridXYZ = levelGrid{}

func (g levelGrid) Dims() (c, r int)   { return g.mesh.Dims() }
func (g levelGrid) Z(c, r int) float64 { return g.field.At(c, r, g.k) }
func (g levelGrid) X(c int) float64    { return g.mesh.X[c] }
func (g levelGrid) Y(r int) float64    { return g.mesh.Y[r] }

// meshPoints returns every node of the mesh for sample markers.
func meshPoints(m field.Mesh) plotter.XYs {
	pts := make(plotter.XYs, 0, m.Len())
	for _, y := range m.Y {
		for _, x := range m.X {
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
	}
	return pts
}

// contourLevels returns n evenly spaced isoline values strictly inside r.
func contourLevels(r field.Range, n int) []float64 {
	if n < 2 {
		return nil
	}
	step := r.Span() / float64(n)
	out := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		out = append(out, r.Min+float64(i)*step)
	}
	return out
}
