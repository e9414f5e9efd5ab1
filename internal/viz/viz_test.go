package viz

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravfield/internal/config"
	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/gravity"
	"github.com/san-kum/gravfield/internal/survey"
)

func testResult(t *testing.T) *survey.Result {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Spacings = []float64{25, 50}
	res, err := survey.New(cfg, nil, nil).Evaluate(context.Background())
	require.NoError(t, err)
	return res
}

func TestQuantityUnits(t *testing.T) {
	assert.Equal(t, "U", Potential.String())
	assert.Equal(t, "gz", Effect.String())
	assert.Equal(t, "µJ/kg", Potential.Unit())
	assert.Equal(t, "mGal", Effect.Unit())
	assert.InDelta(t, 1.0, Effect.scale(gravity.MilliGal), 1e-12)
	assert.InDelta(t, 1.0, Potential.scale(gravity.MicroJoulePerKg), 1e-12)
}

func TestProfileAt(t *testing.T) {
	res := testResult(t)
	g := res.Grids[0]

	p, err := ProfileAt(g.Survey, Effect, 0, 4)
	require.NoError(t, err)
	assert.Len(t, p.Values, 9)
	assert.Equal(t, 0.0, p.Y)
	assert.Equal(t, 0.0, p.Z)
	assert.InDelta(t, gravity.ToMilliGal(g.Effect.At(4, 4, 0)), p.Values[4], 1e-12)
	assert.Contains(t, p.Caption(), "gz [mGal]")

	_, err = ProfileAt(g.Survey, Potential, 3, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = ProfileAt(g.Survey, Potential, 0, 9)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestRenderProfile(t *testing.T) {
	res := testResult(t)
	p, err := ProfileAt(res.Grids[0].Survey, Potential, 1, 4)
	require.NoError(t, err)

	out := RenderProfile(p, 40, 8)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "U [µJ/kg]")
	assert.Empty(t, RenderProfile(Profile{}, 40, 8))
}

func TestSparkline(t *testing.T) {
	rng := field.Range{Min: 0, Max: 8}
	assert.Empty(t, Sparkline(nil, rng, 1))
	assert.Empty(t, Sparkline([]float64{1}, field.EmptyRange(), 1))

	// one block per sampled node
	vals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	assert.Equal(t, 9, lipgloss.Width(Sparkline(vals, rng, 1)))
	assert.Equal(t, 5, lipgloss.Width(Sparkline(vals, rng, 2)))
	assert.Equal(t, 3, lipgloss.Width(Sparkline(vals, rng, 4)))

	// heights follow the shared range, not the row's own min and max
	low := Sparkline([]float64{0, 1}, rng, 1)
	assert.Equal(t, "▁▂", stripANSI(low))
	assert.Equal(t, "████", stripANSI(Sparkline([]float64{8, 9, 20, 8}, rng, 1)))
}

func TestSparklineStride(t *testing.T) {
	assert.Equal(t, 1, SparklineStride(9, 40))
	assert.Equal(t, 2, SparklineStride(41, 40))
	assert.Equal(t, 3, SparklineStride(81, 40))
	assert.Equal(t, 1, SparklineStride(81, 0))
}

func stripANSI(s string) string {
	var b strings.Builder
	skip := false
	for _, r := range s {
		switch {
		case r == 0x1b:
			skip = true
		case skip && r == 'm':
			skip = false
		case !skip:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestSummary(t *testing.T) {
	res := testResult(t)
	out := Summary(res.ID, res.Source.PointMass(), res.Source.Spacings, res.PotentialRange, res.EffectRange)
	assert.Contains(t, out, res.ID)
	assert.Contains(t, out, "25 m, 50 m")
	assert.Contains(t, out, "J/kg")
	assert.Contains(t, out, "mGal")
}

func TestThemes(t *testing.T) {
	defer SetTheme("viridis")
	assert.Equal(t, []string{"viridis", "minimal"}, ThemeNames())
	assert.Equal(t, "viridis", GetTheme("missing").Name)
	SetTheme("minimal")
	assert.Equal(t, "minimal", CurrentTheme.Name)
}

func TestExploreModel(t *testing.T) {
	_, err := NewExploreModel(nil)
	assert.ErrorIs(t, err, ErrNoGrids)

	res := testResult(t)
	m, err := NewExploreModel(res)
	require.NoError(t, err)
	assert.Equal(t, 4, m.row)

	press := func(m ExploreModel, k string) ExploreModel {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		return next.(ExploreModel)
	}

	m = press(m, "up")
	assert.Equal(t, 5, m.row)
	m = press(m, "down")
	m = press(m, "down")
	assert.Equal(t, 3, m.row)

	m = press(m, "z")
	assert.Equal(t, 1, m.level)
	m = press(m, "u")
	assert.Equal(t, Effect, m.quantity)

	m = press(m, "g")
	assert.Equal(t, 1, m.grid)
	assert.Equal(t, 0, m.level)
	assert.Equal(t, 2, m.row)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(ExploreModel)
	view := m.View()
	assert.Contains(t, view, "Grid Spacing: 50 m")
	assert.Contains(t, view, "gz [mGal]")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
