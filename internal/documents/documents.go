// Package documents enumerates snapshot files in the private documents
// directory and serves them over the bridge.
package documents

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/atomicstack/imodel-browser/internal/bridge"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
)

// BimExtension is the extension of iModel snapshot files.
const BimExtension = "bim"

// Chooser asks the user for a document. An empty path means they cancelled.
type Chooser interface {
	Choose(ctx context.Context) (string, error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context) (string, error)

func (f ChooserFunc) Choose(ctx context.Context) (string, error) { return f(ctx) }

// Dir returns override when set, otherwise the Documents folder in the
// user's home directory.
func Dir(override string) string {
	if dir := strings.TrimSpace(override); dir != "" {
		return filepath.Clean(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "Documents"
	}
	return filepath.Join(home, "Documents")
}

// ListWithExtension returns the paths of the regular files in dir whose
// extension matches ext, ignoring case. The leading dot of ext is optional.
// An unreadable directory yields an empty list.
func ListWithExtension(dir, ext string) []string {
	want := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	matches := []string{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		events.Documents.Unreadable(dir, err)
		return matches
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		name := entry.Name()
		got := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
		if got != want {
			continue
		}
		path := filepath.Join(dir, name)
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
		}
		matches = append(matches, path)
	}
	events.Documents.Listed(dir, want, len(matches))
	return matches
}

// BimDocuments lists the snapshot files in dir.
func BimDocuments(dir string) []string {
	return ListWithExtension(dir, BimExtension)
}

// RegisterQueryHandlers binds the document queries on m. getBimDocuments
// lists dir; an optional string parameter selects another extension.
// chooseDocument delegates to chooser and answers "" when chooser is nil.
func RegisterQueryHandlers(m *bridge.Messenger, dir string, chooser Chooser) {
	m.RegisterQueryHandler(bridge.QueryBimDocuments, func(ctx context.Context, params json.RawMessage) (any, error) {
		ext := BimExtension
		if len(params) > 0 {
			var requested string
			if err := json.Unmarshal(params, &requested); err == nil && strings.TrimSpace(requested) != "" {
				ext = requested
			}
		}
		return ListWithExtension(dir, ext), nil
	})
	m.RegisterQueryHandler(bridge.QueryChooseDocument, func(ctx context.Context, _ json.RawMessage) (any, error) {
		if chooser == nil {
			return "", nil
		}
		return chooser.Choose(ctx)
	})
}
