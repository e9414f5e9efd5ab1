// Package survey drives a full run: evaluate every configured grid, fold the
// shared colour ranges and render one figure per grid spacing.
package survey

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/gravfield/internal/config"
	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/render"
)

// Grid is the evaluated survey for one spacing.
type Grid struct {
	Spacing float64
	*field.Survey
}

type Result struct {
	ID             string
	Source         config.Config
	Grids          []Grid
	PotentialRange field.Range
	EffectRange    field.Range
	Artifacts      []string
	Elapsed        time.Duration
}

type Runner struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

// New returns a Runner. Console progress goes to out (nil discards it) and
// diagnostics to logger (nil disables them).
func New(cfg *config.Config, logger *zap.Logger, out io.Writer) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if out == nil {
		out = io.Discard
	}
	return &Runner{cfg: cfg, logger: logger, out: out}
}

// Evaluate computes every configured grid and the global ranges without
// rendering anything.
func (r *Runner) Evaluate(ctx context.Context) (*Result, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}

	res := &Result{
		ID:             uuid.NewString(),
		Source:         *r.cfg.Clone(),
		PotentialRange: field.EmptyRange(),
		EffectRange:    field.EmptyRange(),
	}
	log := r.logger.With(zap.String("run", res.ID))
	log.Info("survey started",
		zap.Float64("mass", r.cfg.Mass),
		zap.Stringer("source", r.cfg.Source),
		zap.Float64s("z_levels", r.cfg.ZLevels),
		zap.Float64s("spacings", r.cfg.Spacings),
		zap.Int("workers", r.cfg.Workers),
	)

	ev := field.NewEvaluator(r.cfg.PointMass(), r.cfg.Workers)
	ev.OnLevel = func(_ int, z float64) {
		fmt.Fprintf(r.out, "  z = %s m\n", render.FormatMetres(z))
	}
	for _, spacing := range r.cfg.Spacings {
		mesh, err := field.MeshForSpacing(r.cfg.Extent.Min, r.cfg.Extent.Max, spacing)
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(r.out, "Computing %s m grid...\n", render.FormatMetres(spacing))
		start := time.Now()
		s, err := ev.Evaluate(ctx, mesh, r.cfg.ZLevels)
		if err != nil {
			return nil, fmt.Errorf("%s m grid: %w", render.FormatMetres(spacing), err)
		}

		nx, ny := mesh.Dims()
		log.Debug("grid evaluated",
			zap.Float64("spacing", spacing),
			zap.Int("nx", nx),
			zap.Int("ny", ny),
			zap.Duration("elapsed", time.Since(start)),
		)

		res.Grids = append(res.Grids, Grid{Spacing: spacing, Survey: s})
		res.PotentialRange = res.PotentialRange.Union(s.PotentialRange())
		res.EffectRange = res.EffectRange.Union(s.EffectRange())
	}

	fmt.Fprintf(r.out, "\nGlobal ranges:\n")
	fmt.Fprintf(r.out, "  U:  [%.6e, %.6e] J/kg\n", res.PotentialRange.Min, res.PotentialRange.Max)
	fmt.Fprintf(r.out, "  gz: [%.6e, %.6e] m/s²\n", res.EffectRange.Min, res.EffectRange.Max)
	return res, nil
}

// Run evaluates and renders every grid.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := r.Evaluate(ctx)
	if err != nil {
		return nil, err
	}

	opts := RenderOptions(r.cfg)
	for _, g := range res.Grids {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fmt.Fprintf(r.out, "\nGenerating %s m spacing plots...\n", render.FormatMetres(g.Spacing))
		path := filepath.Join(r.cfg.Output.Dir, render.FileName(r.cfg.Output.Prefix, g.Spacing, r.cfg.Output.Format))
		fig := render.Figure{
			Title:          render.FigureTitle(g.Spacing),
			Survey:         g.Survey,
			PotentialRange: res.PotentialRange,
			EffectRange:    res.EffectRange,
		}
		if err := render.Save(path, fig, opts); err != nil {
			return res, fmt.Errorf("render %s: %w", path, err)
		}
		fmt.Fprintf(r.out, "  Saved: %s\n", path)
		r.logger.Debug("figure saved", zap.String("run", res.ID), zap.String("path", path))
		res.Artifacts = append(res.Artifacts, path)
	}

	res.Elapsed = time.Since(start)
	r.logger.Info("survey finished",
		zap.String("run", res.ID),
		zap.Int("figures", len(res.Artifacts)),
		zap.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

// RenderOptions maps the render and output config onto renderer options.
func RenderOptions(cfg *config.Config) render.Options {
	return render.Options{
		Levels:   cfg.Render.Levels,
		Width:    vg.Length(cfg.Render.WidthIn) * vg.Inch,
		Height:   vg.Length(cfg.Render.HeightIn) * vg.Inch,
		DPI:      cfg.Output.DPI,
		Markers:  cfg.Render.Markers,
		Isolines: cfg.Render.Isolines,
	}
}

// Find returns the grid with the given spacing.
func (r *Result) Find(spacing float64) (Grid, bool) {
	for _, g := range r.Grids {
		if g.Spacing == spacing {
			return g, true
		}
	}
	return Grid{}, false
}
