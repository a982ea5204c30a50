package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"testing"

	"github.com/atomicstack/imodel-browser/internal/bridge"
	"github.com/atomicstack/imodel-browser/internal/imodel"
	"github.com/atomicstack/imodel-browser/internal/imodel/imodeltest"
)

func messenger(docs []string, chosen string) *bridge.Messenger {
	m := bridge.NewMessenger()
	m.RegisterQueryHandler(bridge.QueryBimDocuments, func(context.Context, json.RawMessage) (any, error) {
		return docs, nil
	})
	m.RegisterQueryHandler(bridge.QueryChooseDocument, func(context.Context, json.RawMessage) (any, error) {
		return chosen, nil
	})
	return m
}

type openRecorder struct {
	opened []string
	paths  []string
}

func (r *openRecorder) opener(ctx context.Context, path string) (*imodel.Connection, error) {
	r.opened = append(r.opened, path)
	return imodel.NewConnection(nil, path), nil
}

func (r *openRecorder) onOpen(path string, conn *imodel.Connection) {
	if conn.Path() != path {
		panic("connection path mismatch")
	}
	r.paths = append(r.paths, path)
}

func rowLabels(s *Screen) []string {
	rows := s.Rows()
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Key == ChooseKey {
			continue
		}
		out = append(out, row.Label)
	}
	return out
}

func TestLoadSortsAndStripsPaths(t *testing.T) {
	s := NewScreen(messenger([]string{"/x/b.bim", "/x/A.bim"}, ""), nil, nil)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := rowLabels(s); !slices.Equal(got, []string{"A.bim", "b.bim"}) {
		t.Fatalf("expected [A.bim b.bim], got %v", got)
	}
	rows := s.Rows()
	if rows[0].Key != ChooseKey || rows[0].Label != ChooseLabel {
		t.Fatalf("expected Choose File... first, got %+v", rows[0])
	}
	if rows[1].Key != "/x/A.bim" {
		t.Fatalf("expected rows keyed by path, got %+v", rows[1])
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"/x/y/plant.bim": "plant.bim",
		"plant.bim":      "plant.bim",
		"/x/":            "",
	}
	for in, want := range cases {
		if got := DisplayName(in); got != want {
			t.Fatalf("DisplayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestActivateOpensEntry(t *testing.T) {
	rec := &openRecorder{}
	s := NewScreen(messenger([]string{"/x/a.bim"}, ""), rec.opener, rec.onOpen)
	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := s.Activate(ctx, "/x/a.bim"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !slices.Equal(rec.paths, []string{"/x/a.bim"}) {
		t.Fatalf("expected open callback for /x/a.bim, got %v", rec.paths)
	}
}

func TestChooseCancelledDoesNothing(t *testing.T) {
	rec := &openRecorder{}
	s := NewScreen(messenger(nil, ""), rec.opener, rec.onOpen)
	if err := s.Activate(context.Background(), ChooseKey); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if len(rec.opened) != 0 || len(rec.paths) != 0 {
		t.Fatalf("expected no open, got %v / %v", rec.opened, rec.paths)
	}
}

func TestChooseOpensChosenFile(t *testing.T) {
	rec := &openRecorder{}
	s := NewScreen(messenger(nil, "/elsewhere/site.bim"), rec.opener, rec.onOpen)
	if err := s.Choose(context.Background()); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !slices.Equal(rec.paths, []string{"/elsewhere/site.bim"}) {
		t.Fatalf("unexpected opens %v", rec.paths)
	}
}

func TestOpenFailureSkipsCallback(t *testing.T) {
	boom := errors.New("locked")
	called := false
	s := NewScreen(messenger(nil, ""), func(context.Context, string) (*imodel.Connection, error) {
		return nil, boom
	}, func(string, *imodel.Connection) { called = true })
	if err := s.Open(context.Background(), "/x/a.bim"); !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if called {
		t.Fatalf("callback must not run after a failed open")
	}
}

func TestLoadWithoutHandlerFails(t *testing.T) {
	s := NewScreen(bridge.NewMessenger(), nil, nil)
	if err := s.Load(context.Background()); !errors.Is(err, bridge.ErrNoHandler) {
		t.Fatalf("expected ErrNoHandler, got %v", err)
	}
}

func TestSetDocumentsDropsBlankPaths(t *testing.T) {
	s := NewScreen(nil, nil, nil)
	s.SetDocuments([]string{"", "/x/c.bim", "  ", "/x/B.bim"})
	if got := rowLabels(s); !slices.Equal(got, []string{"B.bim", "c.bim"}) {
		t.Fatalf("unexpected rows %v", got)
	}
}

func TestOpenRealSnapshot(t *testing.T) {
	path := imodeltest.WriteTemp(t, "plant.bim", imodeltest.Fixture{})
	var got *imodel.Connection
	s := NewScreen(nil, nil, func(_ string, conn *imodel.Connection) { got = conn })
	if err := s.Open(context.Background(), path); err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = got.Close() })
	if got == nil || got.Path() != path || got.Key() == "" {
		t.Fatalf("unexpected connection %+v", got)
	}
}
