package backend

import (
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func nextDocuments(t *testing.T, w *Watcher) []string {
	t.Helper()
	select {
	case evt, ok := <-w.Events():
		if !ok {
			t.Fatalf("events channel closed")
		}
		if evt.Err != nil {
			t.Fatalf("unexpected watch error: %v", evt.Err)
		}
		if evt.Kind != KindDocuments {
			t.Fatalf("unexpected kind %v", evt.Kind)
		}
		return evt.Documents
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for documents")
	}
	return nil
}

func TestWatcherPublishesNewDocument(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "a.bim")
	if err := os.WriteFile(existing, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	w := NewWatcher(dir, 50*time.Millisecond)
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})

	if got := nextDocuments(t, w); !slices.Equal(got, []string{existing}) {
		t.Fatalf("unexpected initial documents %v", got)
	}

	added := filepath.Join(dir, "b.BIM")
	if err := os.WriteFile(added, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := nextDocuments(t, w); !slices.Equal(got, []string{existing, added}) {
		t.Fatalf("unexpected documents after create %v", got)
	}
}

func TestWatcherPollsWhenDirectoryCannotBeWatched(t *testing.T) {
	var (
		mu    sync.Mutex
		docs  = []string{"/x/a.bim"}
		calls int
	)
	list := func(string) []string {
		mu.Lock()
		defer mu.Unlock()
		calls++
		return slices.Clone(docs)
	}
	w := newWatcher(filepath.Join(t.TempDir(), "missing"), 10*time.Millisecond, list, true)
	t.Cleanup(func() {
		w.Stop()
		w.Wait()
	})

	if got := nextDocuments(t, w); !slices.Equal(got, []string{"/x/a.bim"}) {
		t.Fatalf("unexpected initial documents %v", got)
	}
	mu.Lock()
	docs = append(docs, "/x/b.bim")
	mu.Unlock()
	if got := nextDocuments(t, w); !slices.Equal(got, []string{"/x/a.bim", "/x/b.bim"}) {
		t.Fatalf("unexpected polled documents %v", got)
	}
}

func TestWatcherSkipsUnchangedLists(t *testing.T) {
	w := newWatcher("unused", 5*time.Millisecond, func(string) []string { return []string{"/x/a.bim"} }, false)
	nextDocuments(t, w)
	select {
	case evt := <-w.Events():
		t.Fatalf("expected no repeat event, got %+v", evt)
	case <-time.After(60 * time.Millisecond):
	}
	w.Stop()
	w.Wait()
	if _, ok := <-w.Events(); ok {
		t.Fatalf("expected closed channel after stop")
	}
}

func TestRelevantEvents(t *testing.T) {
	cases := []struct {
		evt  fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "/d/a.bim", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/d/a.BIM", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/d/a.bim", Op: fsnotify.Rename}, true},
		{fsnotify.Event{Name: "/d/a.bim", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/d/a.txt", Op: fsnotify.Create}, false},
	}
	for _, tc := range cases {
		if got := relevant(tc.evt); got != tc.want {
			t.Fatalf("relevant(%v) = %v, want %v", tc.evt, got, tc.want)
		}
	}
}
