// Package watch rebuilds the site whenever its inputs change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups bursts of editor writes into a single rebuild.
const DefaultDebounce = 200 * time.Millisecond

// BuildFunc performs one full rebuild.
type BuildFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Dirs are watched non-recursively; empty entries are ignored.
	Dirs     []string
	Debounce time.Duration
}

// Watcher runs build after changes settle. Builds run on the watcher goroutine, so they
// never overlap.
type Watcher struct {
	build    BuildFunc
	logger   *slog.Logger
	dirs     []string
	debounce time.Duration
}

// New validates opts and returns a Watcher. Nothing is watched until Run.
func New(logger *slog.Logger, build BuildFunc, opts Options) (*Watcher, error) {
	if build == nil {
		return nil, errors.New("build function must be provided")
	}
	if logger == nil {
		logger = slog.Default()
	}
	var dirs []string
	for _, d := range opts.Dirs {
		if strings.TrimSpace(d) != "" {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		return nil, errors.New("at least one directory must be watched")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Watcher{
		build:    build,
		logger:   logger.With("component", "watcher"),
		dirs:     dirs,
		debounce: opts.Debounce,
	}, nil
}

// Run blocks until ctx is canceled. A failed rebuild is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	for _, dir := range w.dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.logger.Info("watching for changes", slog.Any("dirs", w.dirs), slog.Duration("debounce", w.debounce))

	var timer *time.Timer
	var fire <-chan time.Time
	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(w.debounce)
			fire = timer.C
			return
		}
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			w.logger.Info("watcher stopped")
			return nil

		case <-fire:
			w.rebuild(ctx)

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Debug("change detected", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", slog.Any("err", err))
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context) {
	start := time.Now()
	if err := w.build(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.logger.Error("rebuild failed", slog.Any("err", err))
		return
	}
	w.logger.Info("rebuilt", slog.Duration("duration", time.Since(start)))
}

// relevant drops permission-only changes and hidden or editor backup files.
func relevant(ev fsnotify.Event) bool {
	if ev.Name == "" || ev.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return true
}
