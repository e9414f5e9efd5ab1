package field

import (
	"context"
	"fmt"

	"github.com/san-kum/gravfield/internal/gravity"
)

// Survey is the result of evaluating one mesh at every elevation level.
type Survey struct {
	Mesh      Mesh
	Levels    []float64
	Potential *ScalarField
	Effect    *ScalarField
}

// PotentialRange and EffectRange return the min/max over all levels.
func (s *Survey) PotentialRange() Range { return s.Potential.Range() }
func (s *Survey) EffectRange() Range    { return s.Effect.Range() }

// Evaluator samples a fixed point mass over meshes.
type Evaluator struct {
	Source gravity.PointMass
	// Workers bounds concurrency. Zero selects DefaultWorkers, a negative
	// value selects GOMAXPROCS.
	Workers int
	// OnLevel, when set, is called before level k is evaluated.
	OnLevel func(k int, z float64)
}

func NewEvaluator(src gravity.PointMass, workers int) *Evaluator {
	return &Evaluator{Source: src, Workers: workers}
}

// Evaluate fills potential and effect fields for every (cell, level). Cells
// are independent, so the result does not depend on the worker count.
func (e *Evaluator) Evaluate(ctx context.Context, mesh Mesh, levels []float64) (*Survey, error) {
	nx, ny := mesh.Dims()
	if nx == 0 || ny == 0 || len(levels) == 0 {
		return nil, fmt.Errorf("%w: %dx%d mesh, %d levels", ErrEmptyMesh, nx, ny, len(levels))
	}

	s := &Survey{
		Mesh:      mesh,
		Levels:    append([]float64(nil), levels...),
		Potential: NewScalarField(nx, ny, len(levels)),
		Effect:    NewScalarField(nx, ny, len(levels)),
	}

	// Levels run in order, rows of a level in parallel.
	for k, z := range s.Levels {
		if e.OnLevel != nil {
			e.OnLevel(k, z)
		}
		err := ParallelFor(ctx, ny, 1, e.Workers, func(ctx context.Context, start, end int) error {
			for iy := start; iy < end; iy++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := e.evaluateRow(s, k, iy); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (e *Evaluator) evaluateRow(s *Survey, k, iy int) error {
	z := s.Levels[k]
	u := s.Potential.Row(iy, k)
	gz := s.Effect.Row(iy, k)
	for ix := range u {
		sample, err := e.Source.Sample(s.Mesh.Point(ix, iy, z))
		if err != nil {
			return &EvaluationError{Level: k, Z: z, IX: ix, IY: iy, Wrapped: err}
		}
		u[ix] = sample.Potential
		gz[ix] = sample.Effect
	}
	return nil
}
