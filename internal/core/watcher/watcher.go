// Package watcher runs a handler for every subtitle file that appears in a
// directory.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler processes one settled file.
type Handler func(ctx context.Context, path string) error

// Options tunes a Watcher. Zero values take defaults.
type Options struct {
	// Settle is how long a file must go without writes before it is handled.
	Settle time.Duration

	// MaxConcurrent bounds handlers running at once.
	MaxConcurrent int

	// Filter, when set, must return true for a path to be handled.
	Filter func(path string) bool

	Logger *zap.SugaredLogger
}

const (
	defaultSettle        = 500 * time.Millisecond
	defaultMaxConcurrent = 1
)

// Watcher monitors one directory for .srt files.
type Watcher struct {
	dir     string
	handler Handler
	filter  func(string) bool
	settle  time.Duration
	log     *zap.SugaredLogger

	fsw *fsnotify.Watcher
	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.Mutex
	timers map[string]*time.Timer
	busy   map[string]bool
	closed bool
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, handler Handler, opts Options) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watcher: handler is required")
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.Settle <= 0 {
		opts.Settle = defaultSettle
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Watcher{
		dir:     dir,
		handler: handler,
		filter:  opts.Filter,
		settle:  opts.Settle,
		log:     log,
		fsw:     fsw,
		sem:     make(chan struct{}, opts.MaxConcurrent),
		timers:  make(map[string]*time.Timer),
		busy:    make(map[string]bool),
	}, nil
}

// Run handles events until ctx is canceled, then waits for running handlers
// and returns ctx.Err().
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Infow("watching", "dir", w.dir, "max_concurrent", cap(w.sem))

	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				w.shutdown()
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.accepts(event.Name) {
				w.log.Debugw("ignoring file", "path", event.Name)
				continue
			}
			w.schedule(ctx, event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.shutdown()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Errorw("watcher error", "error", err)
		}
	}
}

// Close stops the underlying file system watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) accepts(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || !IsSubtitle(path) {
		return false
	}
	return w.filter == nil || w.filter(path)
}

// IsSubtitle reports whether path has an .srt extension.
func IsSubtitle(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".srt")
}

// schedule (re)starts the settle timer for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() { w.fire(ctx, path) })
}

func (w *Watcher) fire(ctx context.Context, path string) {
	w.mu.Lock()
	delete(w.timers, path)
	if w.closed || w.busy[path] {
		w.mu.Unlock()
		return
	}
	w.busy[path] = true
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			delete(w.busy, path)
			w.mu.Unlock()
		}()

		select {
		case w.sem <- struct{}{}:
		case <-ctx.Done():
			return
		}
		defer func() { <-w.sem }()

		w.log.Infow("new subtitle", "path", path)
		if err := w.handler(ctx, path); err != nil {
			w.log.Errorw("failed to process", "path", path, "error", err)
		}
	}()
}

func (w *Watcher) shutdown() {
	w.mu.Lock()
	w.closed = true
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	w.log.Infow("waiting for running translations")
	w.wg.Wait()
	w.log.Infow("watcher stopped")
}
