package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/gravfield/internal/config"
	"github.com/san-kum/gravfield/internal/survey"
)

func evaluate(t *testing.T, cfg *config.Config) *survey.Result {
	t.Helper()
	res, err := survey.New(cfg, nil, nil).Evaluate(context.Background())
	require.NoError(t, err)
	return res
}

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Spacings = []float64{25, 50}
	return cfg
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServer_NoResult(t *testing.T) {
	h := NewServer(nil, nil).Handler()
	for _, target := range []string{"/", "/chart", "/profile", "/api/ranges"} {
		assert.Equal(t, http.StatusServiceUnavailable, get(t, h, target).Code, target)
	}
}

func TestServer_Index(t *testing.T) {
	h := NewServer(evaluate(t, smallConfig()), zaptest.NewLogger(t)).Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Grid Spacing: 25 m")
	assert.Contains(t, body, "/chart?grid=50&amp;field=gz&amp;z=100")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)
}

func TestServer_Chart(t *testing.T) {
	h := NewServer(evaluate(t, smallConfig()), zaptest.NewLogger(t)).Handler()

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/chart", http.StatusOK, "Gravity Potential U at z = 0 m"},
		{"/chart?grid=25&field=gz&z=10", http.StatusOK, "Gravity Effect gz at z = 10 m"},
		{"/chart?grid=50&field=u&z=100", http.StatusOK, "Grid Spacing: 50 m"},
		{"/chart?grid=5", http.StatusNotFound, "no 5 m grid"},
		{"/chart?grid=abc", http.StatusNotFound, "bad grid"},
		{"/chart?z=42", http.StatusNotFound, "no level"},
		{"/chart?field=rho", http.StatusBadRequest, "field must be"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestServer_Profile(t *testing.T) {
	h := NewServer(evaluate(t, smallConfig()), nil).Handler()

	rec := get(t, h, "/profile?grid=25&z=10&y=25")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "y = 25 m")

	assert.Equal(t, http.StatusNotFound, get(t, h, "/profile?y=3").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, h, "/profile?y=x").Code)
}

func TestServer_Ranges(t *testing.T) {
	res := evaluate(t, smallConfig())
	h := NewServer(res, nil).Handler()

	rec := get(t, h, "/api/ranges")
	require.Equal(t, http.StatusOK, rec.Code)
	var got rangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, res.ID, got.ID)
	assert.Equal(t, []float64{25, 50}, got.Spacings)
	assert.Equal(t, res.PotentialRange, got.Potential)
	assert.Equal(t, res.EffectRange, got.Effect)
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gravfield.yaml")
	cfg := smallConfig()
	require.NoError(t, config.Save(path, cfg))

	srv := NewServer(evaluate(t, cfg), nil)
	w := NewWatcher(path, nil, srv, zaptest.NewLogger(t))
	w.debounce = 20 * time.Millisecond
	reloaded := make(chan *survey.Result, 4)
	w.reloaded = func(r *survey.Result) { reloaded <- r }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Let the watch register before writing.
	time.Sleep(100 * time.Millisecond)
	cfg.Mass = 2e7
	require.NoError(t, config.Save(path, cfg))

	select {
	case res := <-reloaded:
		assert.Equal(t, 2e7, res.Source.Mass)
		assert.Same(t, res, srv.Result())
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after config change")
	}
}

func TestWatcher_BadConfigKeepsResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gravfield.yaml")
	cfg := smallConfig()
	require.NoError(t, config.Save(path, cfg))

	before := evaluate(t, cfg)
	srv := NewServer(before, nil)
	w := NewWatcher(path, nil, srv, zaptest.NewLogger(t))

	cfg.Spacings = []float64{7}
	require.NoError(t, config.Save(path, cfg))
	w.reload(context.Background())
	assert.Same(t, before, srv.Result())
}

func TestWatcher_ReloadKeepsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gravfield.yaml")
	cfg := smallConfig()
	require.NoError(t, config.Save(path, cfg))

	// file first, then the command-line mass on top
	resolve := func() (*config.Config, error) {
		c, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		c.Mass = 5e7
		return c, nil
	}

	start, err := resolve()
	require.NoError(t, err)
	srv := NewServer(evaluate(t, start), nil)
	w := NewWatcher(path, resolve, srv, zaptest.NewLogger(t))

	cfg.Mass = 2e7
	cfg.Source.Z = -20
	require.NoError(t, config.Save(path, cfg))
	w.reload(context.Background())

	got := srv.Result()
	assert.Equal(t, 5e7, got.Source.Mass, "override lost on reload")
	assert.Equal(t, -20.0, got.Source.Source.Z, "file change not picked up")
}

func TestLookup_UsesGivenResult(t *testing.T) {
	a := evaluate(t, smallConfig())
	other := smallConfig()
	other.Spacings = []float64{100}
	b := evaluate(t, other)

	req := httptest.NewRequest(http.MethodGet, "/chart?grid=25&z=10", nil)
	g, k, err := lookup(a, req)
	require.NoError(t, err)
	assert.Equal(t, 25.0, g.Spacing)
	assert.Equal(t, 1, k)

	_, _, err = lookup(b, req)
	assert.ErrorContains(t, err, "no 25 m grid")
	_, _, err = lookup(nil, req)
	assert.ErrorIs(t, err, errNoResult)
}

func TestServer_ChartWhileSwapping(t *testing.T) {
	a := evaluate(t, smallConfig())
	heavy := smallConfig()
	heavy.Mass = 9e9
	b := evaluate(t, heavy)

	srv := NewServer(a, nil)
	h := srv.Handler()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			if i%2 == 0 {
				srv.SetResult(b)
			} else {
				srv.SetResult(a)
			}
		}
	}()
	for i := 0; i < 20; i++ {
		rec := get(t, h, "/chart?grid=25&field=gz&z=10")
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	<-done
}
