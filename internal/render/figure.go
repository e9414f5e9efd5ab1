package render

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/san-kum/gravfield/internal/field"
)

// Quantity describes one column of the figure.
type Quantity struct {
	Title string
	Label string
}

var (
	PotentialQuantity = Quantity{Title: "Gravity Potential U", Label: "U [J/kg]"}
	EffectQuantity    = Quantity{Title: "Gravity Effect gz", Label: "gz [m/s²]"}
)

const titleBand = vg.Length(0.5 * vg.Inch)

// Figure is one multi-panel image: a row per elevation level with potential
// on the left and vertical effect on the right, both scaled to shared ranges.
type Figure struct {
	Title          string
	Survey         *field.Survey
	PotentialRange field.Range
	EffectRange    field.Range
}

type Options struct {
	// Levels is the number of colour bands per panel.
	Levels   int
	Width    vg.Length
	Height   vg.Length
	DPI      int
	Markers  bool
	Isolines bool
}

func DefaultOptions() Options {
	return Options{
		Levels:   20,
		Width:    12 * vg.Inch,
		Height:   16 * vg.Inch,
		DPI:      150,
		Markers:  true,
		Isolines: true,
	}
}

// FigureTitle is the headline for a grid of the given spacing.
func FigureTitle(spacing float64) string {
	return fmt.Sprintf("Point Mass Gravity Fields – Grid Spacing: %s m", FormatMetres(spacing))
}

// PanelTitle is the per-panel title, e.g. "Gravity Potential U at z = 10 m".
func PanelTitle(q Quantity, z float64) string {
	return fmt.Sprintf("%s at z = %s m", q.Title, FormatMetres(z))
}

func FormatMetres(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Draw lays out the figure on dc.
func (f Figure) Draw(dc draw.Canvas, opts Options) error {
	if f.Survey == nil || len(f.Survey.Levels) == 0 {
		return errors.New("render: figure has no survey data")
	}
	if opts.Levels < 2 {
		return fmt.Errorf("render: need at least 2 colour levels, got %d", opts.Levels)
	}

	height := dc.Max.Y - dc.Min.Y
	header := plot.New()
	header.Title.Text = f.Title
	header.Title.TextStyle.Font.Size = vg.Points(14)
	header.HideAxes()
	header.Draw(draw.Crop(dc, 0, 0, height-titleBand, 0))

	body := draw.Crop(dc, 0, 0, 0, -titleBand)
	tiles := draw.Tiles{
		Rows:      len(f.Survey.Levels),
		Cols:      2,
		PadX:      6 * vg.Millimeter,
		PadY:      6 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 4 * vg.Millimeter,
		PadLeft:   4 * vg.Millimeter,
		PadRight:  4 * vg.Millimeter,
	}

	columns := []struct {
		q   Quantity
		fld *field.ScalarField
		rng field.Range
	}{
		{PotentialQuantity, f.Survey.Potential, f.PotentialRange.Widen()},
		{EffectQuantity, f.Survey.Effect, f.EffectRange.Widen()},
	}

	for k, z := range f.Survey.Levels {
		for col, c := range columns {
			grid := levelGrid{mesh: f.Survey.Mesh, field: c.fld, k: k}
			if err := drawPanel(tiles.At(body, col, k), grid, c.q, z, c.rng, opts); err != nil {
				return fmt.Errorf("render: panel %q z=%g: %w", c.q.Title, z, err)
			}
		}
	}
	return nil
}

// drawPanel splits cell into a banded field plot and its colour bar.
func drawPanel(cell draw.Canvas, grid levelGrid, q Quantity, z float64, rng field.Range, opts Options) error {
	cm, err := NewViridis(rng.Min, rng.Max)
	if err != nil {
		return err
	}

	width := cell.Max.X - cell.Min.X
	barWidth := width * 0.2

	p := plot.New()
	p.Title.Text = PanelTitle(q, z)
	p.Title.TextStyle.Font.Size = vg.Points(11)
	p.X.Label.Text = "x [m]"
	p.Y.Label.Text = "y [m]"

	hm := plotter.NewHeatMap(grid, cm.Palette(opts.Levels))
	hm.Min, hm.Max = rng.Min, rng.Max
	p.Add(hm)

	if lv := contourLevels(rng, opts.Levels); opts.Isolines && len(lv) > 0 {
		iso := plotter.NewContour(grid, lv, solid{color.Gray{Y: 40}})
		for i := range iso.LineStyles {
			iso.LineStyles[i].Width = vg.Points(0.4)
		}
		p.Add(iso)
	}

	if opts.Markers {
		sc, err := plotter.NewScatter(meshPoints(grid.mesh))
		if err != nil {
			return err
		}
		sc.GlyphStyle.Shape = draw.CrossGlyph{}
		sc.GlyphStyle.Radius = vg.Points(1.5)
		sc.GlyphStyle.Color = color.Black
		p.Add(sc)
	}

	p.Draw(draw.Crop(cell, 0, -barWidth, 0, 0))

	bar := plot.New()
	bar.HideX()
	bar.Y.Label.Text = q.Label
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true, Colors: opts.Levels})
	bar.Draw(draw.Crop(cell, width-barWidth, 0, 0, 0))

	return nil
}
