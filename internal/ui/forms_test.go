package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/atomicstack/imodel-browser/internal/documents"
	"github.com/atomicstack/imodel-browser/internal/imodel/imodeltest"
	tea "github.com/charmbracelet/bubbletea"
)

func TestChooseRequestOpensForm(t *testing.T) {
	h := startHarness(t, Options{})
	reply := make(chan string, 1)
	h.Send(chooseRequestMsg{reply: reply})
	if h.Model().mode != ModeChooseForm {
		t.Fatalf("expected choose form mode")
	}
	if view := h.View(); !strings.Contains(view, chooseFormTitle) {
		t.Fatalf("expected form in view:\n%s", view)
	}
	h.Type("/tmp/x.bim")
	h.Key(tea.KeyEnter)
	if got := <-reply; got != "/tmp/x.bim" {
		t.Fatalf("expected typed path, got %q", got)
	}
	if h.Model().mode != ModeList {
		t.Fatalf("expected list mode after submit")
	}
	if h.Model().currentLevel().Filter != "" {
		t.Fatalf("expected prompt typing to leave the filter alone")
	}
}

func TestChooseFormEscapeCancels(t *testing.T) {
	h := startHarness(t, Options{})
	reply := make(chan string, 1)
	h.Send(chooseRequestMsg{reply: reply})
	h.Type("abc")
	h.Key(tea.KeyEsc)
	if got := <-reply; got != "" {
		t.Fatalf("expected empty answer, got %q", got)
	}
	if h.Quit() {
		t.Fatalf("did not expect esc in the form to quit")
	}
}

func TestChooserWaitsForAnswer(t *testing.T) {
	h := startHarness(t, Options{})
	chooser := h.Model().Chooser()
	type answer struct {
		path string
		err  error
	}
	done := make(chan answer, 1)
	go func() {
		path, err := chooser.Choose(context.Background())
		done <- answer{path, err}
	}()
	h.Send(<-h.Model().inbox)
	h.Type("a.bim")
	h.Key(tea.KeyEnter)
	got := <-done
	if got.err != nil || got.path != "a.bim" {
		t.Fatalf("unexpected answer %#v", got)
	}
}

func TestChooserHonoursContext(t *testing.T) {
	m := NewModel(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Chooser().Choose(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestChooseFileRowOpensChosenSnapshot(t *testing.T) {
	path := imodeltest.WriteTemp(t, "chosen.bim", plantFixture)
	chooser := documents.ChooserFunc(func(context.Context) (string, error) { return path, nil })
	h := startHarness(t, Options{Bridge: newMessenger(t.TempDir(), chooser)})
	h.Key(tea.KeyEnter)
	m := h.Model()
	if m.Screen() != ScreenModel || m.docPath != path {
		t.Fatalf("expected %s to be open, screen %s, error %q", path, m.Screen(), m.errMsg)
	}
}

func TestChooseFileRowCancelled(t *testing.T) {
	chooser := documents.ChooserFunc(func(context.Context) (string, error) { return "", nil })
	h := startHarness(t, Options{Bridge: newMessenger(t.TempDir(), chooser)})
	h.Key(tea.KeyEnter)
	m := h.Model()
	if m.Screen() != ScreenSnapshots || m.errMsg != "" || m.loading {
		t.Fatalf("expected to stay idle on snapshots, screen %s error %q", m.Screen(), m.errMsg)
	}
}
