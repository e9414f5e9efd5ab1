// Package gravity evaluates the gravitational field of a single point mass.
//
// The package exposes two pure evaluators:
//
//   - [Potential]: scalar potential U = -G*m/r (J/kg)
//   - [VerticalEffect]: vertical acceleration gz = G*m*dz/r^3 (m/s^2)
//
// Both return a [*SingularEvaluationError] when the observation point
// coincides with the source or lies so close that the result overflows, so
// an undefined value never reaches
// downstream aggregation or plotting.
//
// # Example
//
//	src := gravity.PointMass{Location: gravity.Point3D{Z: -10}, Mass: 1e7}
//	u, err := src.Potential(gravity.Point3D{})
//	if errors.Is(err, gravity.ErrSingularPoint) {
//	    // observation sits on the mass
//	}
package gravity
