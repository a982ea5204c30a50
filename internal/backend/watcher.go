package backend

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/imodel-browser/internal/documents"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
	"github.com/fsnotify/fsnotify"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindDocuments Kind = iota
)

// Event conveys an updated document list or a watch error.
type Event struct {
	Kind      Kind
	Documents []string
	Err       error
}

// ListFunc enumerates the documents of dir.
type ListFunc func(dir string) []string

// Watcher publishes the snapshot documents of a directory whenever the set
// changes. It listens for filesystem notifications and falls back to polling
// every interval when the directory cannot be watched.
type Watcher struct {
	dir      string
	interval time.Duration
	list     ListFunc
	throttle *throttle

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup

	last    []string
	hasLast bool
}

// NewWatcher starts watching dir for snapshot documents.
func NewWatcher(dir string, interval time.Duration) *Watcher {
	return newWatcher(dir, interval, documents.BimDocuments, true)
}

func newWatcher(dir string, interval time.Duration, list ListFunc, notify bool) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		dir:      dir,
		interval: interval,
		list:     list,
		throttle: newThrottle(250 * time.Millisecond),
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	var fs *fsnotify.Watcher
	if notify {
		fs = w.openNotify()
	}
	w.wg.Add(1)
	if fs != nil {
		go w.watch(fs)
	} else {
		go w.poll()
	}

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the watcher goroutine has exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) openNotify() *fsnotify.Watcher {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		events.Documents.WatchFallback(w.dir, err)
		return nil
	}
	if err := fs.Add(w.dir); err != nil {
		events.Documents.WatchFallback(w.dir, err)
		_ = fs.Close()
		return nil
	}
	return fs
}

// emit sends the current list when it differs from the last one sent.
func (w *Watcher) emit() bool {
	docs := w.list(w.dir)
	slices.Sort(docs)
	if w.hasLast && slices.Equal(docs, w.last) {
		return true
	}
	w.last, w.hasLast = docs, true
	return w.send(Event{Kind: KindDocuments, Documents: slices.Clone(docs)})
}

func (w *Watcher) send(evt Event) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- evt:
		return true
	}
}

func (w *Watcher) watch(fs *fsnotify.Watcher) {
	defer w.wg.Done()
	defer func() { _ = fs.Close() }()

	if !w.emit() {
		return
	}
	for {
		select {
		case <-w.ctx.Done():
			return
		case evt, ok := <-fs.Events:
			if !ok {
				return
			}
			if !relevant(evt) {
				continue
			}
			w.throttle.wait()
			if !w.emit() {
				return
			}
		case err, ok := <-fs.Errors:
			if !ok {
				return
			}
			if !w.send(Event{Kind: KindDocuments, Err: err}) {
				return
			}
		}
	}
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	if !w.emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !w.emit() {
				return
			}
		}
	}
}

// relevant reports whether evt can change the document list.
func relevant(evt fsnotify.Event) bool {
	if evt.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	ext := strings.TrimPrefix(filepath.Ext(evt.Name), ".")
	return strings.EqualFold(ext, documents.BimExtension)
}
