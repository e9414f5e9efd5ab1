package web

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/san-kum/gravfield/internal/config"
	"github.com/san-kum/gravfield/internal/survey"
)

const defaultDebounce = 250 * time.Millisecond

// Resolver builds the effective config for a reload. It must apply the same
// layering as startup so reloads keep presets and flag overrides.
type Resolver func() (*config.Config, error)

// Watcher re-evaluates the survey whenever its config file changes and hands
// the new result to the server. A config that fails to load or evaluate is
// logged and the previous result keeps being served.
type Watcher struct {
	path     string
	resolve  Resolver
	server   *Server
	logger   *zap.Logger
	debounce time.Duration

	// reloaded, when set, receives every successful reload.
	reloaded func(*survey.Result)
}

// NewWatcher watches path. A nil resolve reloads the file alone.
func NewWatcher(path string, resolve Resolver, server *Server, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolve == nil {
		resolve = func() (*config.Config, error) { return config.Load(path) }
	}
	return &Watcher{path: path, resolve: resolve, server: server, logger: logger, debounce: defaultDebounce}
}

// Run blocks until ctx is done. The parent directory is watched so editors
// that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.path)
	if err != nil {
		return err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	w.logger.Info("watching config", zap.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	cfg, err := w.resolve()
	if err != nil {
		w.logger.Warn("config reload failed", zap.Error(err))
		return
	}
	res, err := survey.New(cfg, w.logger, nil).Evaluate(ctx)
	if err != nil {
		w.logger.Warn("re-evaluation failed", zap.Error(err))
		return
	}
	w.server.SetResult(res)
	w.logger.Info("survey reloaded", zap.String("run", res.ID))
	if w.reloaded != nil {
		w.reloaded(res)
	}
}
