// Package watch reports changes to the configuration file and library.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/prompter/pkg/log"
)

// DefaultDebounce is how long the watcher waits for further events before
// reporting a change.
const DefaultDebounce = 100 * time.Millisecond

// ChangeFunc is called with the events collected during one debounce window.
type ChangeFunc func(ctx context.Context, events []fsnotify.Event)

// Watcher watches individual files and directory trees.
//
// fsnotify watches directories, not files, and does not recurse. Files are
// watched through their parent directory and filtered by name. Trees are
// watched directory by directory, and directories created later are added
// as they appear.
type Watcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]struct{}
	dirs     map[string]struct{}
	ignored  map[string]struct{}
	trees    []string
	debounce time.Duration
	mu       sync.Mutex
}

// Option configures a [Watcher].
type Option func(*Watcher)

// WithDebounce sets the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithIgnore excludes paths from change reports, even when they are inside a
// watched tree. Use it for files written in response to changes.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			abs, err := filepath.Abs(p)
			if err == nil {
				p = abs
			}

			w.ignored[p] = struct{}{}
		}
	}
}

// New creates a new [Watcher].
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		files:    map[string]struct{}{},
		dirs:     map[string]struct{}{},
		ignored:  map[string]struct{}{},
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// AddFile watches a single file. The file does not need to exist yet, but
// its directory does.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.addDir(filepath.Dir(abs))
	if err != nil {
		return err
	}

	w.files[abs] = struct{}{}

	return nil
}

// AddTree watches root and every directory below it.
func (w *Watcher) AddTree(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", root, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.walk(abs)
	if err != nil {
		return err
	}

	w.trees = append(w.trees, abs)

	return nil
}

func (w *Watcher) walk(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		return w.addDir(path)
	})
	if err != nil {
		return fmt.Errorf("walk %q: %w", root, err)
	}

	return nil
}

func (w *Watcher) addDir(dir string) error {
	if _, ok := w.dirs[dir]; ok {
		return nil
	}

	err := w.fsw.Add(dir)
	if err != nil {
		return fmt.Errorf("add path to watcher: %w", err)
	}

	w.dirs[dir] = struct{}{}

	return nil
}

// Watches reports whether a change to path is reported.
func (w *Watcher) Watches(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.ignored[abs]; ok {
		return false
	}

	if _, ok := w.files[abs]; ok {
		return true
	}

	for _, root := range w.trees {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

// Run calls fn after each burst of relevant events until ctx is done.
// Chmod-only events are ignored. fn is never called concurrently.
func (w *Watcher) Run(ctx context.Context, fn ChangeFunc) error {
	logger := log.WithContext(ctx)

	var (
		pending []fsnotify.Event
		timer   = time.NewTimer(w.debounce)
	)

	timer.Stop()

	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if evt.Op == fsnotify.Chmod || !w.Watches(evt.Name) {
				continue
			}

			if evt.Has(fsnotify.Create) {
				w.trackCreated(ctx, evt.Name)
			}

			logger.DebugContext(ctx, "file event", slog.String("event", evt.String()))

			pending = append(pending, evt)

			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}

			events := pending
			pending = nil

			fn(ctx, events)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			logger.ErrorContext(ctx, "watch error", slog.Any("err", err))
		}
	}
}

// trackCreated starts watching directories created inside a tree.
func (w *Watcher) trackCreated(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	err = w.walk(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.WithContext(ctx).WarnContext(ctx, "watch new directory",
			slog.String("path", path),
			slog.Any("err", err),
		)
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	if err != nil {
		return fmt.Errorf("close watcher: %w", err)
	}

	return nil
}
