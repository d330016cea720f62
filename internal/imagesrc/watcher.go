package imagesrc

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ErrWatcherClosed is returned by Next once the watcher is closed.
var ErrWatcherClosed = errors.New("watcher closed")

// Watcher reports rewrites of a single image file. It watches the file's
// directory, since editors often replace files instead of writing in place.
type Watcher struct {
	w *fsnotify.Watcher

	mu   sync.Mutex
	path string
	dir  string
}

// NewWatcher returns a watcher that is not yet watching anything.
func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{w: w}, nil
}

// Watch switches the watcher to path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dir != "" && w.dir != dir {
		if err := w.w.Remove(w.dir); err != nil {
			log.Debug("fsnotify fail to unwatch dir", "dir", w.dir, "error", err)
		}
	}
	if w.dir != dir {
		if err := w.w.Add(dir); err != nil {
			return err
		}
		log.Debug("fsnotify watching dir", "dir", dir)
	}
	w.path, w.dir = abs, dir
	return nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Next blocks until the watched file is written or recreated and returns
// its path.
func (w *Watcher) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case event, ok := <-w.w.Events:
			if !ok {
				return "", ErrWatcherClosed
			}
			path := w.Path()
			if event.Name != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)
			return path, nil
		case err, ok := <-w.w.Errors:
			if !ok {
				return "", ErrWatcherClosed
			}
			log.Debug("fsnotify error", "error", err)
		}
	}
}

// Close stops the watcher and wakes any pending Next.
func (w *Watcher) Close() error {
	return w.w.Close()
}
