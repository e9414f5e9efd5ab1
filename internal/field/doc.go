// Package field builds observation grids and samples point-mass fields over them.
//
// A [Mesh] is a regular horizontal grid. [Evaluator.Evaluate] fills one
// [ScalarField] for potential and one for vertical effect, indexed
// (ix, iy, level). [Range] aggregates min/max values for shared colour scales.
//
// # Thread Safety
//
// Evaluation fans out over (level, row) tasks. Each task writes a disjoint
// slice of the output arrays, so fields need no locking while being filled.
// A finished [Survey] is read-only.
package field
