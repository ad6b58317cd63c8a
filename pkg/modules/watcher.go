package modules

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yaklabco/luaufmt/internal/logging"
)

// DefaultDebounce is how long the watcher waits for writes to a file to
// settle before reporting it.
const DefaultDebounce = 150 * time.Millisecond

// WriteFunc is called with the path of a script that was written.
type WriteFunc func(ctx context.Context, path string)

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// PackagesDir is the Wally packages folder relative to the root.
	PackagesDir string

	// Debounce delays write notifications. Zero means DefaultDebounce.
	Debounce time.Duration

	// OnWrite is called once writes to a .lua or .luau file settle.
	// Nil disables write notifications.
	OnWrite WriteFunc

	// OnKnitServer is called when a KnitServer script appears under the root.
	OnKnitServer func(ctx context.Context, path string)
}

// Watcher keeps a Catalog in sync with a directory tree.
//
// Created files are registered, removed and renamed files are unregistered,
// and new directories are watched as they appear. fsnotify reports the new
// name of a rename as a separate create event.
type Watcher struct {
	root    string
	catalog *Catalog
	opts    WatchOptions
	fsw     *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer
	gens   map[string]uint64
	gen    uint64
}

// NewWatcher starts watching every directory under root.
// Call Run to process events and Close to release the watches.
func NewWatcher(root string, catalog *Catalog, opts WatchOptions) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve watch root: %w", err)
	}
	if err := checkRoot(abs); err != nil {
		return nil, err
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		root:    abs,
		catalog: catalog,
		opts:    opts,
		fsw:     fsw,
		timers:  make(map[string]*time.Timer),
		gens:    make(map[string]uint64),
	}

	if err := w.addTree(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string {
	return w.root
}

// Run processes filesystem events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	defer w.stopTimers()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logging.FieldError, err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.stopTimers()
	if err := w.fsw.Close(); err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}
	return nil
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	logger := logging.FromContext(ctx)
	path := filepath.Clean(event.Name)
	logger.Debug("filesystem event", logging.FieldEvent, event.Op.String(), logging.FieldPath, path)

	switch {
	case event.Has(fsnotify.Create):
		info, err := os.Stat(path)
		if err != nil {
			return
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return
			}
			if err := w.addTree(path); err != nil {
				logger.Warn("cannot watch directory", logging.FieldPath, path, logging.FieldError, err)
			}
			w.registerTree(ctx, path)
			return
		}
		w.register(ctx, path)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if kind, ok := Unregister(w.catalog, w.root, w.opts.PackagesDir, path); ok {
			logger.Debug("module removed", logging.FieldModule, NameFromPath(path), logging.FieldKind, kind)
		}
		w.catalog.Knit.RemoveUnder(path)
		w.catalog.Wally.RemoveUnder(path)
		w.cancelWrite(path)

	case event.Has(fsnotify.Write):
		w.scheduleWrite(ctx, path)
	}
}

func (w *Watcher) register(ctx context.Context, path string) {
	if w.opts.OnKnitServer != nil && IsKnitServerPath(path) {
		w.opts.OnKnitServer(ctx, path)
	}
	if kind, ok := Register(w.catalog, w.root, w.opts.PackagesDir, path); ok {
		logging.FromContext(ctx).Debug("module added",
			logging.FieldModule, NameFromPath(path), logging.FieldKind, kind)
	}
}

// registerTree registers files that appeared in a new directory before its
// watch was in place.
func (w *Watcher) registerTree(ctx context.Context, dir string) {
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped.
		}
		if entry.IsDir() {
			if path != dir && skipDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		w.register(ctx, path)
		return nil
	})
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && skipDirs[entry.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) scheduleWrite(ctx context.Context, path string) {
	if w.opts.OnWrite == nil || !isSourceFile(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.gens[path] = gen
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() {
		w.fireWrite(ctx, path, gen)
	})
}

func (w *Watcher) fireWrite(ctx context.Context, path string, gen uint64) {
	w.mu.Lock()
	current := w.gens[path] == gen
	if current {
		delete(w.gens, path)
		delete(w.timers, path)
	}
	w.mu.Unlock()

	if !current || ctx.Err() != nil {
		return
	}
	w.opts.OnWrite(ctx, path)
}

func (w *Watcher) cancelWrite(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
		delete(w.gens, path)
	}
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
		delete(w.gens, path)
	}
}
