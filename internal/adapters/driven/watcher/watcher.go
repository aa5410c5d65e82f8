// Package watcher reports changes to local document sources using fsnotify.
// Parent directories are watched rather than files so that editors which
// save by rename are still observed.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/domain"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/core/ports/driven"
	"github.com/lesteroliver911/pdf-analysis-claude-sonnet/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.SourceWatcher = (*Watcher)(nil)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// ChangeFunc is called once per changed source, outside any watcher lock.
type ChangeFunc func(source string)

// Watcher maps file events back to the sources that name the file.
type Watcher struct {
	fsw      *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration

	mu      sync.Mutex
	sources map[string]map[string]struct{} // file path -> sources
	paths   map[string]string              // source -> file path
	dirs    map[string]int                 // directory -> watched file count
	timers  map[string]*time.Timer
	stopped bool

	done chan struct{}
	wg   sync.WaitGroup
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New starts a watcher that calls onChange for every modified, removed or
// replaced source.
func New(onChange ChangeFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		fsw:      fsw,
		onChange: onChange,
		debounce: DefaultDebounce,
		sources:  make(map[string]map[string]struct{}),
		paths:    make(map[string]string),
		dirs:     make(map[string]int),
		timers:   make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Watch starts observing the file behind source. Remote sources are ignored.
func (w *Watcher) Watch(source string) error {
	path, ok := domain.LocalPath(source)
	if !ok {
		return nil
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", source, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return fmt.Errorf("watcher is closed")
	}
	if _, ok := w.paths[source]; ok {
		return nil
	}

	dir := filepath.Dir(path)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	w.dirs[dir]++

	if w.sources[path] == nil {
		w.sources[path] = make(map[string]struct{})
	}
	w.sources[path][source] = struct{}{}
	w.paths[source] = path

	logger.Debug("Watching %s", path)
	return nil
}

// Unwatch stops observing source.
func (w *Watcher) Unwatch(source string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path, ok := w.paths[source]
	if !ok {
		return nil
	}
	delete(w.paths, source)

	delete(w.sources[path], source)
	if len(w.sources[path]) == 0 {
		delete(w.sources, path)
		if t, ok := w.timers[path]; ok {
			t.Stop()
			delete(w.timers, path)
		}
	}

	dir := filepath.Dir(path)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if w.stopped {
		return nil
	}
	if err := w.fsw.Remove(dir); err != nil {
		return fmt.Errorf("unwatch %s: %w", dir, err)
	}
	return nil
}

// Watched returns the number of watched sources.
func (w *Watcher) Watched() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.paths)
}

// Close stops the watcher. Pending notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("File watcher error: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	path := filepath.Clean(event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped || len(w.sources[path]) == 0 {
		return
	}

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() { w.fire(path) })
}

// fire reports every source of path. The callback may call Unwatch.
func (w *Watcher) fire(path string) {
	w.mu.Lock()
	delete(w.timers, path)
	if w.stopped {
		w.mu.Unlock()
		return
	}
	sources := make([]string, 0, len(w.sources[path]))
	for source := range w.sources[path] {
		sources = append(sources, source)
	}
	w.mu.Unlock()

	for _, source := range sources {
		logger.Info("Source changed on disk: %s", source)
		w.onChange(source)
	}
}
