package preview

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/logfields"
)

// watcher turns filesystem events below a set of directories into debounced
// full rebuilds. At most one rebuild runs at a time; changes arriving during a
// rebuild queue exactly one more. Events under an excluded subtree (the
// output root) never trigger a rebuild.
type watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	roots   []string
	files   map[string]struct{}
	exclude []string
}

func newWatcher(dirs, files, exclude []string, debounce time.Duration, logger *slog.Logger) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w := &watcher{
		fs:       fw,
		debounce: debounce,
		logger:   logger,
		files:    make(map[string]struct{}, len(files)),
		exclude:  cleanPaths(exclude),
	}
	for _, dir := range cleanPaths(dirs) {
		if _, err := os.Stat(dir); err != nil {
			logger.Debug("Skipping missing watch directory", logfields.Path(dir))
			continue
		}
		if w.excluded(dir) {
			logger.Warn("Watch directory lies inside the output root; skipping", logfields.Path(dir))
			continue
		}
		w.roots = append(w.roots, dir)
		w.addDirsRecursive(dir)
	}
	// Single files are watched through their directory so editors that
	// replace the file by rename keep being observed.
	for _, f := range cleanPaths(files) {
		w.files[f] = struct{}{}
		if err := w.fs.Add(filepath.Dir(f)); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(f), logfields.Error(err))
		}
	}
	return w, nil
}

// run processes events until ctx ends. The returned channel is closed when
// the watcher stops.
func (w *watcher) run(ctx context.Context, rebuild func()) <-chan error {
	done := make(chan error, 1)
	rebuildReq, trigger := newDebouncer(w.debounce)
	startRebuildWorker(ctx, rebuildReq, rebuild)

	go func() {
		defer close(done)
		defer func() { _ = w.fs.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				w.handleEvent(ev, trigger)
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("Watcher error", logfields.Error(err))
			}
		}
	}()
	return done
}

func (w *watcher) handleEvent(ev fsnotify.Event, trigger func()) {
	name := filepath.Clean(ev.Name)
	if shouldIgnoreEvent(name) || !w.relevant(name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(name); err == nil && fi.IsDir() {
			w.addDirsRecursive(name)
		}
	}
	w.logger.Debug("File change detected", logfields.Path(name), slog.String("op", ev.Op.String()))
	trigger()
}

// relevant reports whether a change to path should rebuild the site.
func (w *watcher) relevant(path string) bool {
	if w.excluded(path) {
		return false
	}
	if _, ok := w.files[path]; ok {
		return true
	}
	for _, root := range w.roots {
		if within(path, root) {
			return true
		}
	}
	return false
}

func (w *watcher) excluded(path string) bool {
	for _, ex := range w.exclude {
		if within(path, ex) {
			return true
		}
	}
	return false
}

func (w *watcher) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.excluded(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// within reports whether path equals dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func cleanPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, filepath.Clean(p))
	}
	return out
}

// newDebouncer returns a request channel and a trigger that signals it once
// per quiet period.
func newDebouncer(quiet time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(quiet, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

func startRebuildWorker(ctx context.Context, rebuildReq chan struct{}, rebuild func()) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				rebuild()
			}
		}
	}()
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	// Editor temp and swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
