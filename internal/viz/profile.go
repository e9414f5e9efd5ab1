package viz

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/gravity"
	"github.com/san-kum/gravfield/internal/render"
)

// Quantity selects which evaluated field a terminal view shows.
type Quantity int

const (
	Potential Quantity = iota
	Effect
)

var ErrOutOfRange = errors.New("viz: index out of range")

func (q Quantity) String() string {
	if q == Effect {
		return "gz"
	}
	return "U"
}

// Unit is the display unit used by terminal charts.
func (q Quantity) Unit() string {
	if q == Effect {
		return "mGal"
	}
	return "µJ/kg"
}

func (q Quantity) scale(v float64) float64 {
	if q == Effect {
		return gravity.ToMilliGal(v)
	}
	return gravity.ToMicroJoulePerKg(v)
}

func (q Quantity) field(s *field.Survey) *field.ScalarField {
	if q == Effect {
		return s.Effect
	}
	return s.Potential
}

// Profile is one row of a survey level along x, in display units.
type Profile struct {
	Quantity Quantity
	Z        float64
	Y        float64
	X        []float64
	Values   []float64
}

// ProfileAt extracts the row iy of level k.
func ProfileAt(s *field.Survey, q Quantity, k, iy int) (Profile, error) {
	nx, ny := s.Mesh.Dims()
	if k < 0 || k >= len(s.Levels) || iy < 0 || iy >= ny {
		return Profile{}, fmt.Errorf("%w: level %d row %d", ErrOutOfRange, k, iy)
	}
	f := q.field(s)
	p := Profile{
		Quantity: q,
		Z:        s.Levels[k],
		Y:        s.Mesh.Y[iy],
		X:        append([]float64(nil), s.Mesh.X...),
		Values:   make([]float64, nx),
	}
	for ix := 0; ix < nx; ix++ {
		p.Values[ix] = q.scale(f.At(ix, iy, k))
	}
	return p, nil
}

// Caption describes the profile in chart captions.
func (p Profile) Caption() string {
	return fmt.Sprintf("%s [%s] along x, y = %s m, z = %s m (x: %s..%s m)",
		p.Quantity, p.Quantity.Unit(),
		render.FormatMetres(p.Y), render.FormatMetres(p.Z),
		render.FormatMetres(p.X[0]), render.FormatMetres(p.X[len(p.X)-1]))
}

// RenderProfile plots p with asciigraph. Zero width or height lets
// asciigraph choose from the data.
func RenderProfile(p Profile, width, height int) string {
	if len(p.Values) == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Caption(p.Caption()),
		asciigraph.Precision(3),
	}
	if width > 0 {
		opts = append(opts, asciigraph.Width(width))
	}
	if height > 0 {
		opts = append(opts, asciigraph.Height(height))
	}
	return asciigraph.Plot(p.Values, opts...)
}
