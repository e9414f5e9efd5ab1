package survey

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/gravfield/internal/config"
	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/gravity"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "figures")
	cfg.Output.DPI = 30
	cfg.Render.WidthIn = 4
	cfg.Render.HeightIn = 6
	return cfg
}

func TestEvaluate_LabRun(t *testing.T) {
	var out bytes.Buffer
	res, err := New(testConfig(t), zaptest.NewLogger(t), &out).Evaluate(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Grids, 2)
	g5, ok := res.Find(5)
	require.True(t, ok)
	assert.Equal(t, 41, g5.Potential.NX)
	g25, ok := res.Find(25)
	require.True(t, ok)
	assert.Equal(t, 9, g25.Potential.NY)

	// the 5 m grid contains every 25 m node, so the global range is the 5 m range
	assert.Equal(t, g5.PotentialRange(), res.PotentialRange)
	assert.Equal(t, g5.EffectRange(), res.EffectRange)
	assert.InDelta(t, -6.674e-5, res.PotentialRange.Min, 1e-12)
	assert.InDelta(t, 6.674e-6, res.EffectRange.Max, 1e-13)
	assert.NotEmpty(t, res.ID)

	text := out.String()
	assert.Contains(t, text, "Computing 5 m grid...")
	assert.Contains(t, text, "Computing 25 m grid...")
	assert.Contains(t, text, "  z = 100 m")
	assert.Contains(t, text, "Global ranges:")
	assert.True(t, strings.Index(text, "Computing 5 m") < strings.Index(text, "Computing 25 m"))
}

func TestRun_WritesFigures(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	res, err := New(cfg, zaptest.NewLogger(t), &out).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{
		filepath.Join(cfg.Output.Dir, "gravity_fields_spacing_5m.png"),
		filepath.Join(cfg.Output.Dir, "gravity_fields_spacing_25m.png"),
	}, res.Artifacts)

	for _, p := range res.Artifacts {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		assert.Contains(t, out.String(), "Saved: "+p)
	}
}

func TestRun_SingularSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source = gravity.Point3D{X: 0, Y: 0, Z: 10}

	var out bytes.Buffer
	_, err := New(cfg, nil, &out).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, gravity.ErrSingularPoint))

	var ee *field.EvaluationError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, 10.0, ee.Z)

	// each level is announced before it runs, so the failing level is the last line
	assert.Equal(t, "Computing 5 m grid...\n  z = 0 m\n  z = 10 m\n", out.String())

	_, statErr := os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(statErr), "no figure should be written after a singular evaluation")
}

func TestRun_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Spacings = []float64{30}

	_, err := New(cfg, nil, nil).Run(context.Background())
	assert.ErrorIs(t, err, field.ErrBadSpacing)

	cfg.Mass = 0
	_, err = New(cfg, nil, nil).Run(context.Background())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRenderOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	opts := RenderOptions(cfg)
	assert.Equal(t, 20, opts.Levels)
	assert.Equal(t, 150, opts.DPI)
	assert.InDelta(t, 12*72.0, float64(opts.Width), 1e-9)
	assert.InDelta(t, 16*72.0, float64(opts.Height), 1e-9)
}
