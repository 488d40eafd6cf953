// Package watch reruns the koans when their inputs change: the
// learner saves a file, the path is walked again.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"digital.vasic.koans/pkg/logging"
)

// Watcher observes directories and files and calls back once a
// burst of changes has settled.
type Watcher struct {
	debounce time.Duration
	logger   logging.Logger
	paths    []string
	ready    chan struct{}
}

// New creates a watcher for paths. A directory is watched as a
// whole; a file is watched through its parent directory so
// editors that replace the file on save are still noticed.
// Empty paths are ignored.
func New(
	debounce time.Duration,
	logger logging.Logger,
	paths ...string,
) *Watcher {
	if logger == nil {
		logger = logging.NullLogger{}
	}
	w := &Watcher{
		debounce: debounce,
		logger:   logger,
		ready:    make(chan struct{}),
	}
	for _, p := range paths {
		if p != "" {
			w.paths = append(w.paths, p)
		}
	}
	return w
}

// Ready is closed once every path is being watched.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is done, calling onChange after each
// settled burst of changes. An onChange error is logged and
// watching continues. A Watcher can be run once.
func (w *Watcher) Run(
	ctx context.Context,
	onChange func(ctx context.Context) error,
) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	dirs, files, err := w.resolve()
	if err != nil {
		return err
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	close(w.ready)
	w.logger.Debug("watch_started",
		logging.IntField("directories", len(dirs)),
	)

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev, dirs, files) {
				continue
			}
			w.logger.Debug("watch_event",
				logging.StringField("path", ev.Name),
				logging.StringField("op", ev.Op.String()),
			)
			settle = time.After(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch_error", logging.ErrorField(err))

		case <-settle:
			settle = nil
			if err := onChange(ctx); err != nil {
				w.logger.Warn("rerun_failed", logging.ErrorField(err))
			}
		}
	}
}

// resolve maps each watched directory to whether all of its
// entries matter, and collects the individually watched files.
func (w *Watcher) resolve() (map[string]bool, map[string]struct{}, error) {
	dirs := make(map[string]bool)
	files := make(map[string]struct{})

	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to watch %s: %w", p, err)
		}
		if info.IsDir() {
			dirs[abs] = true
			continue
		}
		parent := filepath.Dir(abs)
		if !dirs[parent] {
			dirs[parent] = false
		}
		files[abs] = struct{}{}
	}

	if len(dirs) == 0 {
		return nil, nil, fmt.Errorf("nothing to watch")
	}
	return dirs, files, nil
}

func relevant(
	ev fsnotify.Event,
	dirs map[string]bool,
	files map[string]struct{},
) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if _, ok := files[ev.Name]; ok {
		return true
	}
	return dirs[filepath.Dir(ev.Name)]
}
