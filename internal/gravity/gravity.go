package gravity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// G is the universal gravitational constant in N·m²/kg².
const G = 6.674e-11

const (
	// MilliGal is one milligal expressed in m/s².
	MilliGal = 1e-5
	// MicroJoulePerKg is one µJ/kg expressed in J/kg.
	MicroJoulePerKg = 1e-6
)

// Point3D is a position in metres. z grows upward.
type Point3D struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	Z float64 `yaml:"z" json:"z"`
}

// Vec converts p to a gonum vector.
func (p Point3D) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

func (p Point3D) Sub(o Point3D) Point3D {
	d := r3.Sub(p.Vec(), o.Vec())
	return Point3D{X: d.X, Y: d.Y, Z: d.Z}
}

func (p Point3D) Norm() float64 {
	return r3.Norm(p.Vec())
}

func (p Point3D) IsFinite() bool {
	return finite(p.X) && finite(p.Y) && finite(p.Z)
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point3D) float64 {
	return a.Sub(b).Norm()
}

// PointMass is an idealized source with all of its mass at Location.
type PointMass struct {
	Location Point3D
	Mass     float64
}

// Sample holds both field quantities at one observation point.
type Sample struct {
	Potential float64
	Effect    float64
}

// Potential returns U = -G*mass/r at obs for a point mass at src.
func Potential(obs, src Point3D, mass float64) (float64, error) {
	r, _, err := separation(obs, src, mass)
	if err != nil {
		return 0, err
	}
	return finiteResult(obs, src, -G*mass/r)
}

// VerticalEffect returns gz = G*mass*(obs.Z-src.Z)/r^3 at obs. The result is
// positive when the observer is above the source.
func VerticalEffect(obs, src Point3D, mass float64) (float64, error) {
	r, dz, err := separation(obs, src, mass)
	if err != nil {
		return 0, err
	}
	return finiteResult(obs, src, G*mass*dz/(r*r*r))
}

func (pm PointMass) Potential(obs Point3D) (float64, error) {
	return Potential(obs, pm.Location, pm.Mass)
}

func (pm PointMass) VerticalEffect(obs Point3D) (float64, error) {
	return VerticalEffect(obs, pm.Location, pm.Mass)
}

// Sample evaluates potential and vertical effect with a single distance computation.
func (pm PointMass) Sample(obs Point3D) (Sample, error) {
	r, dz, err := separation(obs, pm.Location, pm.Mass)
	if err != nil {
		return Sample{}, err
	}
	gm := G * pm.Mass
	s := Sample{
		Potential: -gm / r,
		Effect:    gm * dz / (r * r * r),
	}
	if !finite(s.Potential) || !finite(s.Effect) {
		return Sample{}, &SingularEvaluationError{Observation: obs, Source: pm.Location}
	}
	return s, nil
}

// ToMilliGal converts an acceleration in m/s² to mGal.
func ToMilliGal(gz float64) float64 { return gz / MilliGal }

// ToMicroJoulePerKg converts a potential in J/kg to µJ/kg.
func ToMicroJoulePerKg(u float64) float64 { return u / MicroJoulePerKg }

func separation(obs, src Point3D, mass float64) (r, dz float64, err error) {
	if !obs.IsFinite() || !src.IsFinite() || !finite(mass) {
		return 0, 0, fmt.Errorf("%w: obs=%v src=%v mass=%g", ErrNonFinite, obs, src, mass)
	}
	d := obs.Sub(src)
	r = d.Norm()
	if r == 0 {
		return 0, 0, &SingularEvaluationError{Observation: obs, Source: src}
	}
	return r, d.Z, nil
}

// finiteResult rejects values that overflowed because r is too small to
// represent r or r³.
func finiteResult(obs, src Point3D, v float64) (float64, error) {
	if !finite(v) {
		return 0, &SingularEvaluationError{Observation: obs, Source: src}
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
