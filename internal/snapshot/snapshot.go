// Package snapshot implements the snapshots screen: the list of local
// snapshot files and the "Choose File..." flow.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/atomicstack/imodel-browser/internal/bridge"
	"github.com/atomicstack/imodel-browser/internal/format/order"
	"github.com/atomicstack/imodel-browser/internal/imodel"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
	"github.com/atomicstack/imodel-browser/internal/panel"
)

// Title heads the screen.
const Title = "Select iModel"

// ChooseKey is the row key of the synthetic "Choose File..." row.
const ChooseKey = "choose"

// ChooseLabel labels the synthetic first row.
const ChooseLabel = "Choose File..."

// Entry is a listed snapshot file.
type Entry struct {
	Path string
	Name string
}

// Opener opens a snapshot file.
type Opener func(ctx context.Context, path string) (*imodel.Connection, error)

// OpenFunc receives every connection the screen opens.
type OpenFunc func(path string, conn *imodel.Connection)

// Screen lists snapshot files known to the host and opens them.
type Screen struct {
	bridge bridge.Querier
	opener Opener
	onOpen OpenFunc

	mu      sync.RWMutex
	entries []Entry
}

// NewScreen returns a screen that queries b for documents and hands opened
// connections to onOpen. A nil opener means imodel.OpenSnapshot.
func NewScreen(b bridge.Querier, opener Opener, onOpen OpenFunc) *Screen {
	if opener == nil {
		opener = imodel.OpenSnapshot
	}
	return &Screen{bridge: b, opener: opener, onOpen: onOpen}
}

// Load asks the host for the snapshot documents and replaces the list.
func (s *Screen) Load(ctx context.Context) error {
	if s.bridge == nil {
		s.SetDocuments(nil)
		return nil
	}
	paths, err := bridge.QueryInto[[]string](ctx, s.bridge, bridge.QueryBimDocuments, nil)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	s.SetDocuments(paths)
	return nil
}

// SetDocuments replaces the list with paths, sorted ignoring case.
func (s *Screen) SetDocuments(paths []string) {
	sorted := make([]string, 0, len(paths))
	for _, path := range paths {
		if strings.TrimSpace(path) != "" {
			sorted = append(sorted, path)
		}
	}
	order.Strings(sorted)
	entries := make([]Entry, len(sorted))
	for i, path := range sorted {
		entries[i] = Entry{Path: path, Name: DisplayName(path)}
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	events.Snapshot.List(len(entries))
}

// Entries returns a copy of the listed snapshots.
func (s *Screen) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dup := make([]Entry, len(s.entries))
	copy(dup, s.entries)
	return dup
}

// Rows renders "Choose File..." followed by one row per snapshot, keyed by
// path.
func (s *Screen) Rows() []panel.Row {
	entries := s.Entries()
	rows := make([]panel.Row, 0, len(entries)+1)
	rows = append(rows, panel.Row{Key: ChooseKey, Label: ChooseLabel, Icon: panel.IconChooseFile})
	for _, entry := range entries {
		rows = append(rows, panel.Row{Key: entry.Path, Label: entry.Name, Icon: panel.IconSnapshotBim})
	}
	return rows
}

// Open opens path and hands the connection to the open callback.
func (s *Screen) Open(ctx context.Context, path string) error {
	events.Snapshot.Open(path)
	conn, err := s.opener(ctx, path)
	if err != nil {
		return err
	}
	events.Snapshot.Opened(path, conn.Key())
	if s.onOpen != nil {
		s.onOpen(path, conn)
	}
	return nil
}

// Choose asks the host for a file and opens it. An empty answer means the
// user cancelled and nothing happens.
func (s *Screen) Choose(ctx context.Context) error {
	if s.bridge == nil {
		return nil
	}
	path, err := bridge.QueryInto[string](ctx, s.bridge, bridge.QueryChooseDocument, nil)
	if err != nil {
		return fmt.Errorf("choose snapshot: %w", err)
	}
	if path == "" {
		events.Snapshot.CancelChoose(events.SnapshotReasonCancel)
		return nil
	}
	events.Snapshot.SubmitChoose(path)
	return s.Open(ctx, path)
}

// Activate handles a click on the row with key.
func (s *Screen) Activate(ctx context.Context, key string) error {
	if key == ChooseKey {
		return s.Choose(ctx)
	}
	return s.Open(ctx, key)
}

// DisplayName strips everything up to the last slash.
func DisplayName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
