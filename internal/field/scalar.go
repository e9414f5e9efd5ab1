package field

import "math"

// ScalarField stores samples indexed (ix, iy, k) in a flat slice.
type ScalarField struct {
	NX, NY, NZ int
	values     []float64
}

func NewScalarField(nx, ny, nz int) *ScalarField {
	return &ScalarField{
		NX:     nx,
		NY:     ny,
		NZ:     nz,
		values: make([]float64, nx*ny*nz),
	}
}

func (f *ScalarField) index(ix, iy, k int) int {
	return (k*f.NY+iy)*f.NX + ix
}

func (f *ScalarField) At(ix, iy, k int) float64 {
	return f.values[f.index(ix, iy, k)]
}

func (f *ScalarField) Set(ix, iy, k int, v float64) {
	f.values[f.index(ix, iy, k)] = v
}

// Row returns the x-ordered samples of row iy at level k. The slice aliases
// the field storage.
func (f *ScalarField) Row(iy, k int) []float64 {
	start := f.index(0, iy, k)
	return f.values[start : start+f.NX]
}

// Level returns a copy of level k as [iy][ix].
func (f *ScalarField) Level(k int) [][]float64 {
	out := make([][]float64, f.NY)
	for iy := range out {
		out[iy] = append([]float64(nil), f.Row(iy, k)...)
	}
	return out
}

func (f *ScalarField) Range() Range {
	r := EmptyRange()
	for _, v := range f.values {
		r = r.Include(v)
	}
	return r
}

func (f *ScalarField) LevelRange(k int) Range {
	r := EmptyRange()
	start := f.index(0, 0, k)
	for _, v := range f.values[start : start+f.NX*f.NY] {
		r = r.Include(v)
	}
	return r
}

// Range is a closed [Min, Max] interval of field values.
type Range struct {
	Min, Max float64
}

// EmptyRange returns the identity for Include and Union.
func EmptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (r Range) IsEmpty() bool { return r.Min > r.Max }

func (r Range) Include(v float64) Range {
	if math.IsNaN(v) {
		return r
	}
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}

func (r Range) Union(o Range) Range {
	if o.IsEmpty() {
		return r
	}
	return r.Include(o.Min).Include(o.Max)
}

func (r Range) Span() float64 {
	if r.IsEmpty() {
		return 0
	}
	return r.Max - r.Min
}

// Widen returns a range with a non-zero span. A degenerate range is padded
// symmetrically by a fraction of its magnitude (or by 1 around zero) so
// colour maps can normalize against it.
func (r Range) Widen() Range {
	if r.IsEmpty() {
		return Range{Min: 0, Max: 1}
	}
	if r.Span() > 0 {
		return r
	}
	pad := math.Abs(r.Min) * 0.05
	if pad == 0 {
		pad = 1
	}
	return Range{Min: r.Min - pad, Max: r.Max + pad}
}

// Ranges folds the ranges of all fields.
func Ranges(fields ...*ScalarField) Range {
	r := EmptyRange()
	for _, f := range fields {
		r = r.Union(f.Range())
	}
	return r
}
