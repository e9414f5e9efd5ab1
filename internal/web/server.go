// Package web serves interactive HTML views of a survey result.
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"

	"github.com/san-kum/gravfield/internal/field"
	"github.com/san-kum/gravfield/internal/render"
	"github.com/san-kum/gravfield/internal/survey"
)

var errNoResult = errors.New("no survey result yet")

// Server holds the latest survey result and renders it on request. The
// result can be swapped while serving.
type Server struct {
	mu     sync.RWMutex
	res    *survey.Result
	logger *zap.Logger
}

func NewServer(res *survey.Result, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{res: res, logger: logger}
}

// SetResult replaces the served result.
func (s *Server) SetResult(res *survey.Result) {
	s.mu.Lock()
	s.res = res
	s.mu.Unlock()
}

func (s *Server) Result() *survey.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

// Handler routes:
//   - /            index with links to every panel
//   - /chart       one panel; query params grid (spacing, m), field (u|gz), z (level, m)
//   - /profile     U and gz along x; query params grid, z, y
//   - /api/ranges  run id and global ranges as JSON
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/chart", s.handleChart)
	mux.HandleFunc("/profile", s.handleProfile)
	mux.HandleFunc("/api/ranges", s.handleRanges)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	res := s.Result()
	if res == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "no survey result yet")
		return
	}

	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>gravfield</title></head><body>\n")
	fmt.Fprintf(&b, "<h1>Point Mass Gravity Fields</h1>\n<p>run %s</p>\n", html.EscapeString(res.ID))
	for _, g := range res.Grids {
		sp := render.FormatMetres(g.Spacing)
		fmt.Fprintf(&b, "<h2>%s</h2>\n<ul>\n", html.EscapeString(render.FigureTitle(g.Spacing)))
		for _, z := range g.Levels {
			zs := render.FormatMetres(z)
			fmt.Fprintf(&b, "<li>z = %s m: <a href=\"/chart?grid=%s&amp;field=u&amp;z=%s\">U</a> · "+
				"<a href=\"/chart?grid=%s&amp;field=gz&amp;z=%s\">gz</a> · "+
				"<a href=\"/profile?grid=%s&amp;z=%s\">profile</a></li>\n",
				zs, sp, zs, sp, zs, sp, zs)
		}
		b.WriteString("</ul>\n")
	}
	b.WriteString("</body></html>\n")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(b.Bytes())
}

// lookup resolves the grid and level query params against res. Missing
// params select the first grid and level.
func lookup(res *survey.Result, r *http.Request) (survey.Grid, int, error) {
	if res == nil || len(res.Grids) == 0 {
		return survey.Grid{}, 0, errNoResult
	}

	g := res.Grids[0]
	if v := r.URL.Query().Get("grid"); v != "" {
		sp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return survey.Grid{}, 0, fmt.Errorf("bad grid %q", v)
		}
		var ok bool
		if g, ok = res.Find(sp); !ok {
			return survey.Grid{}, 0, fmt.Errorf("no %s m grid", v)
		}
	}

	k := 0
	if v := r.URL.Query().Get("z"); v != "" {
		z, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return survey.Grid{}, 0, fmt.Errorf("bad z %q", v)
		}
		k = -1
		for i, lz := range g.Levels {
			if lz == z {
				k = i
				break
			}
		}
		if k < 0 {
			return survey.Grid{}, 0, fmt.Errorf("no level at z = %s m", v)
		}
	}
	return g, k, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	res := s.Result()
	g, k, err := lookup(res, r)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}

	q, f, rng := render.PotentialQuantity, g.Potential, res.PotentialRange
	switch r.URL.Query().Get("field") {
	case "", "u", "U":
	case "gz":
		q, f, rng = render.EffectQuantity, g.Effect, res.EffectRange
	default:
		writeJSONError(w, http.StatusBadRequest, "field must be u or gz")
		return
	}

	chart := panelChart(g, k, q, f, rng.Widen())
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	g, k, err := lookup(s.Result(), r)
	if err != nil {
		s.writeLookupError(w, err)
		return
	}

	iy := len(g.Mesh.Y) / 2
	if v := r.URL.Query().Get("y"); v != "" {
		y, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("bad y %q", v))
			return
		}
		iy = -1
		for i, my := range g.Mesh.Y {
			if my == y {
				iy = i
				break
			}
		}
		if iy < 0 {
			writeJSONError(w, http.StatusNotFound, fmt.Sprintf("no mesh row at y = %s m", v))
			return
		}
	}

	page := components.NewPage()
	page.AddCharts(
		profileChart(g, k, iy, render.PotentialQuantity, g.Potential),
		profileChart(g, k, iy, render.EffectQuantity, g.Effect),
	)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type rangeResponse struct {
	ID        string      `json:"id"`
	Spacings  []float64   `json:"spacings"`
	Potential field.Range `json:"potential"`
	Effect    field.Range `json:"effect"`
}

func (s *Server) handleRanges(w http.ResponseWriter, r *http.Request) {
	res := s.Result()
	if res == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "no survey result yet")
		return
	}
	resp := rangeResponse{
		ID:        res.ID,
		Potential: res.PotentialRange,
		Effect:    res.EffectRange,
	}
	for _, g := range res.Grids {
		resp.Spacings = append(resp.Spacings, g.Spacing)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, errNoResult) {
		writeJSONError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.logger.Debug("bad chart request", zap.Error(err))
	writeJSONError(w, http.StatusNotFound, err.Error())
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// panelChart draws level k of f as a coloured scatter on the mesh, coloured
// with the viridis stops over the shared range.
func panelChart(g survey.Grid, k int, q render.Quantity, f *field.ScalarField, rng field.Range) *charts.Scatter {
	nx, ny := g.Mesh.Dims()
	data := make([]opts.ScatterData, 0, nx*ny)
	for iy := 0; iy < ny; iy++ {
		for ix := 0; ix < nx; ix++ {
			data = append(data, opts.ScatterData{Value: []interface{}{g.Mesh.X[ix], g.Mesh.Y[iy], f.At(ix, iy, k)}})
		}
	}

	lo, hi := g.Mesh.X[0], g.Mesh.X[nx-1]

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "gravfield", Width: "800px", Height: "760px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    render.PanelTitle(q, g.Levels[k]),
			Subtitle: render.FigureTitle(g.Spacing),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: lo, Max: hi, Name: "x [m]", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: lo, Max: hi, Name: "y [m]", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(rng.Min),
			Max:        float32(rng.Max),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: render.ViridisHex},
		}),
	)
	scatter.AddSeries(q.Label, data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 12}))
	return scatter
}

func profileChart(g survey.Grid, k, iy int, q render.Quantity, f *field.ScalarField) *charts.Line {
	nx, _ := g.Mesh.Dims()
	xs := make([]string, nx)
	ys := make([]opts.LineData, nx)
	for ix := 0; ix < nx; ix++ {
		xs[ix] = render.FormatMetres(g.Mesh.X[ix])
		ys[ix] = opts.LineData{Value: f.At(ix, iy, k)}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    render.PanelTitle(q, g.Levels[k]),
			Subtitle: fmt.Sprintf("y = %s m", render.FormatMetres(g.Mesh.Y[iy])),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "x [m]"}),
		charts.WithYAxisOpts(opts.YAxis{Name: q.Label}),
	)
	line.SetXAxis(xs).AddSeries(q.Label, ys)
	return line
}
