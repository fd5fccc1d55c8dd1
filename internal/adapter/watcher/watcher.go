package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/jjmejia/micode-manager-sub000/internal/port"
)

// DefaultDebounce is the quiet period before a batch of changes is flushed.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the absolute paths changed since the last flush, sorted.
// Removed files are included; the handler decides what a missing file means.
type Handler func(paths []string)

// Watcher watches a directory tree and reports batches of changed source
// files after a debounce period.
type Watcher struct {
	root     string
	filter   port.PathFilter
	onChange Handler
	debounce time.Duration
	logger   *log.Logger

	fsw      *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher over every directory under root the filter does not
// skip. Call Start to begin delivering changes.
func New(root string, filter port.PathFilter, onChange Handler, opts ...Option) (*Watcher, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		root:     root,
		filter:   filter,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   log.Default().WithPrefix("watch"),
		fsw:      fsw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addDirectories(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching in a new goroutine.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Stop ends the watch loop and releases the fsnotify handle. It is safe to
// call more than once, but only after Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.fsw.Close()
	})
}

// Done is closed once the watch loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	flushCh := make(chan struct{}, 1)
	changed := make(map[string]bool)

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return

		case <-w.stopCh:
			stopTimer()
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				stopTimer()
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skipsDir(event.Name) {
						if err := w.addDirectories(event.Name); err != nil {
							w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
						}
					}
					continue
				}
			}

			if !w.relevant(event) {
				continue
			}
			changed[event.Name] = true

			stopTimer()
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case flushCh <- struct{}{}:
				default:
				}
			})

		case <-flushCh:
			w.flush(changed)
			changed = make(map[string]bool)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				stopTimer()
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) flush(changed map[string]bool) {
	if len(changed) == 0 {
		return
	}
	paths := make([]string, 0, len(changed))
	for p := range changed {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	w.logger.Debug("flushing changes", "files", len(paths))
	w.onChange(paths)
}

// relevant keeps write, create, remove and rename events on matching files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	rel, ok := w.rel(event.Name)
	if !ok {
		return false
	}
	return w.filter.Matches(rel)
}

func (w *Watcher) skipsDir(path string) bool {
	rel, ok := w.rel(path)
	return !ok || w.filter.SkipsDir(rel)
}

func (w *Watcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (w *Watcher) addDirectories(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if w.skipsDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}
