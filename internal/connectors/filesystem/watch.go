package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexsync/internal/core/ports/driven"
	"github.com/custodia-labs/lexsync/internal/logger"
)

const (
	// DefaultDebounce is how long changes are collected before they are emitted.
	DefaultDebounce = 300 * time.Millisecond

	// changeBuffer is the size of the change channel.
	changeBuffer = 256
)

// ErrClosed is returned when watching a closed source.
var ErrClosed = errors.New("filesystem: source is closed")

type watcher struct {
	source   *Source
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
}

// Watch emits included files that change under the root. Changes are
// collected for DefaultDebounce and emitted together in path order.
// The channel closes when ctx is cancelled or the source is closed.
func (s *Source) Watch(ctx context.Context) (<-chan driven.CorpusChange, error) {
	return s.WatchWithDebounce(ctx, DefaultDebounce)
}

// WatchWithDebounce is Watch with an explicit debounce interval.
func (s *Source) WatchWithDebounce(ctx context.Context, debounce time.Duration) (<-chan driven.CorpusChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.watcher != nil {
		return nil, fmt.Errorf("filesystem: already watching %s", s.rootPath)
	}
	if err := s.checkRoot(); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &watcher{
		source:   s,
		fsw:      fsw,
		debounce: debounce,
		pending:  make(map[string]struct{}),
	}
	if err := w.addRecursive(s.rootPath); err != nil {
		fsw.Close()
		return nil, err
	}
	s.watcher = w

	changes := make(chan driven.CorpusChange, changeBuffer)
	go w.run(ctx, changes)
	return changes, nil
}

func (w *watcher) close() error {
	return w.fsw.Close()
}

// detach releases the watcher so the source can be watched again.
func (w *watcher) detach() {
	w.source.mu.Lock()
	if w.source.watcher == w {
		w.source.watcher = nil
	}
	w.source.mu.Unlock()
	_ = w.fsw.Close()
}

// addRecursive watches every non-hidden directory under root.
func (w *watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			logger.Warn("Failed to watch %s: %v", p, err)
		}
		return nil
	})
}

func (w *watcher) run(ctx context.Context, out chan<- driven.CorpusChange) {
	defer close(out)
	defer w.detach()
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
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
			logger.Warn("Watcher error: %v", err)

		case <-ticker.C:
			if !w.flush(ctx, out) {
				return
			}
		}
	}
}

// handle records an event on an included file. New directories are watched.
func (w *watcher) handle(event fsnotify.Event) {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}

	rel, err := w.source.relative(event.Name)
	if err != nil || isHidden(rel) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				logger.Warn("Failed to watch new directory %s: %v", rel, err)
			}
			return
		}
	}

	if !w.source.included(rel) {
		return
	}

	w.mu.Lock()
	w.pending[rel] = struct{}{}
	w.mu.Unlock()
	logger.Debug("Corpus change: %s %s", event.Op, rel)
}

// flush emits pending changes. Returns false if ctx ended while sending.
func (w *watcher) flush(ctx context.Context, out chan<- driven.CorpusChange) bool {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return true
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(paths)
	for _, p := range paths {
		select {
		case <-ctx.Done():
			return false
		case out <- driven.CorpusChange{Path: p}:
		}
	}
	return true
}
