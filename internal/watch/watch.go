// Package watch re-runs a full export whenever the exported tree changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"

	"github.com/gorewood/codexport/internal/export"
	"github.com/gorewood/codexport/internal/logging"
)

// DefaultDebounce is how long the watcher waits for the tree to settle
// before exporting.
const DefaultDebounce = 300 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   hclog.Logger
	// OnRun is called after every export, including the first one.
	OnRun func(*export.Result, error)
}

// Watcher watches every non-pruned directory under the exporter's root.
// Events and exports are handled on the goroutine that calls Run, so two
// exports never overlap.
type Watcher struct {
	exp      *export.Exporter
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   hclog.Logger
	onRun    func(*export.Result, error)
	watched  map[string]struct{}
}

// New creates a Watcher and registers the directory tree.
func New(exp *export.Exporter, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		exp:      exp,
		fsw:      fsw,
		debounce: opts.Debounce,
		logger:   opts.Logger,
		onRun:    opts.OnRun,
		watched:  make(map[string]struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = logging.Discard()
	}
	if w.onRun == nil {
		w.onRun = func(*export.Result, error) {}
	}

	if err := w.addTree(exp.Root()); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Watched reports the number of directories being watched.
func (w *Watcher) Watched() int {
	return len(w.watched)
}

// Run exports once, then re-exports after each debounced burst of relevant
// changes until ctx is cancelled. Only the first export's error is
// returned; later failures go to OnRun and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	result, err := w.exp.Run()
	w.onRun(result, err)
	if err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			relevant := w.Relevant(event)
			w.track(event)
			if !relevant {
				continue
			}
			w.logger.Debug("change", "op", event.Op.String(), "path", event.Name)
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Debug("re-exporting", "root", w.exp.Root())
			result, err := w.exp.Run()
			w.onRun(result, err)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// Relevant reports whether an event can change the exported document.
// Writes to the output file itself, anything under a pruned directory,
// permission changes and files the filter rejects are ignored.
func (w *Watcher) Relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	path := filepath.Clean(event.Name)
	if path == w.exp.OutputPath() {
		return false
	}

	rel, err := filepath.Rel(w.exp.Root(), path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	if w.exp.Filter().PrunedPath(rel) {
		return false
	}

	if w.exp.Filter().Allowed(filepath.Base(path)) {
		return true
	}
	// A directory appearing or vanishing can add or remove many files.
	if _, ok := w.watched[path]; ok {
		return true
	}
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

// track keeps the watch set in step with directories being created and removed.
func (w *Watcher) track(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		info, err := os.Lstat(path)
		if err == nil && info.IsDir() && !w.exp.Filter().SkipDir(info.Name()) {
			if err := w.addTree(path); err != nil {
				w.logger.Warn("cannot watch new directory", "path", path, "error", err)
			}
		}
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		// fsnotify drops removed directories on its own
		delete(w.watched, path)
	}
}

// addTree watches dir and every directory beneath it that is not pruned.
// Symlinked directories are not followed, matching the exporter.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watching %s: %w", dir, err)
			}
			w.logger.Debug("cannot read directory", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.exp.Root() && w.exp.Filter().SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if errors.Is(err, fs.ErrPermission) {
				w.logger.Debug("cannot watch directory", "path", path, "error", err)
				return filepath.SkipDir
			}
			return fmt.Errorf("watching %s: %w", path, err)
		}
		w.watched[path] = struct{}{}
		return nil
	})
}
