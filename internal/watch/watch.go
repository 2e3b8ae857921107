// Package watch reports changes to a single file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher watches one file and emits on Changes after a burst of writes has
// been quiet for the debounce interval.
//
// The parent directory is watched rather than the file itself so editors that
// save by renaming a temp file over the original keep producing events.
type Watcher struct {
	path     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	log      *zap.Logger
	changes  chan struct{}
}

func New(path string, debounce time.Duration, log *zap.Logger) (*Watcher, error) {
	if path == "" {
		return nil, errors.New("watch: path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch: %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		fs:       fw,
		log:      log.With(zap.String("path", abs)),
		// One pending notification is enough: receivers re-read the file.
		changes: make(chan struct{}, 1),
	}, nil
}

func (w *Watcher) Path() string { return w.path }

// Changes is closed when Run returns.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Run processes filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("file event", zap.String("op", ev.Op.String()))
			if w.debounce <= 0 {
				w.notify()
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.notify()
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
