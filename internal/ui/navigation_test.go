package ui

import (
	"testing"

	"github.com/atomicstack/imodel-browser/internal/imodel"
	tea "github.com/charmbracelet/bubbletea"
)

func TestHandleEscapeKeyOnSnapshotsQuits(t *testing.T) {
	m := NewModel(Options{})
	cmd := m.handleEscapeKey()
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestEscapeClosesSnapshot(t *testing.T) {
	h, _ := openPlant(t, Options{})
	conn := h.Model().Connection()
	h.Key(tea.KeyEsc)
	m := h.Model()
	if m.Screen() != ScreenSnapshots {
		t.Fatalf("expected snapshots screen, got %s", m.Screen())
	}
	if m.Connection() != nil {
		t.Fatalf("expected connection to be released")
	}
	if m.viewport.ActiveView() != nil {
		t.Fatalf("expected the view to be cleared")
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if h.Quit() {
		t.Fatalf("did not expect to quit")
	}
	h.Key(tea.KeyEsc)
	if !h.Quit() {
		t.Fatalf("expected esc on the snapshots screen to quit")
	}
}

func TestEscapeClearsFilterFirst(t *testing.T) {
	h, _ := openPlant(t, Options{})
	h.Type("pip")
	h.Key(tea.KeyEsc)
	m := h.Model()
	if m.Screen() != ScreenModel {
		t.Fatalf("expected to stay on the model screen")
	}
	if m.currentLevel().Filter != "" {
		t.Fatalf("expected filter to be cleared, got %q", m.currentLevel().Filter)
	}
}

func TestTabSwitchesPanels(t *testing.T) {
	h, _ := openPlant(t, Options{})
	h.Key(tea.KeyTab)
	if id := h.Model().currentLevel().ID; id != "panel:models" {
		t.Fatalf("expected models panel, got %s", id)
	}
	h.Key(tea.KeyTab)
	if id := h.Model().currentLevel().ID; id != "panel:categories" {
		t.Fatalf("expected categories panel after wrapping, got %s", id)
	}
	h.Key(tea.KeyShiftTab)
	if id := h.Model().currentLevel().ID; id != "panel:models" {
		t.Fatalf("expected shift+tab to go back, got %s", id)
	}
}

func TestTabIgnoredOnSnapshots(t *testing.T) {
	h := startHarness(t, Options{})
	h.Key(tea.KeyTab)
	if h.Model().activePanel != 0 {
		t.Fatalf("expected panel to stay unchanged")
	}
}

func TestEnterTogglesCategory(t *testing.T) {
	h, _ := openPlant(t, Options{})
	equipment := imodel.IDFromInt(3)
	h.Key(tea.KeyDown)
	h.Key(tea.KeyDown)
	h.Key(tea.KeyEnter)
	m := h.Model()
	if m.categories.IsVisible(equipment) {
		t.Fatalf("expected equipment to be hidden")
	}
	if !m.categories.IsVisible(imodel.IDFromInt(1)) {
		t.Fatalf("expected piping to stay visible")
	}
	h.Key(tea.KeyEnter)
	if !m.categories.IsVisible(equipment) {
		t.Fatalf("expected equipment to be visible again")
	}
}

func TestNoneThenAllCategories(t *testing.T) {
	h, _ := openPlant(t, Options{})
	m := h.Model()
	h.Key(tea.KeyDown)
	h.Key(tea.KeyEnter)
	for _, id := range []int64{1, 3} {
		if m.categories.IsVisible(imodel.IDFromInt(id)) {
			t.Fatalf("expected category %d hidden after None", id)
		}
	}
	h.Key(tea.KeyUp)
	h.Key(tea.KeyEnter)
	for _, id := range []int64{1, 3} {
		if !m.categories.IsVisible(imodel.IDFromInt(id)) {
			t.Fatalf("expected category %d visible after All", id)
		}
	}
}

func TestEnterTogglesModel(t *testing.T) {
	h, _ := openPlant(t, Options{})
	h.Key(tea.KeyTab)
	h.Key(tea.KeyEnd)
	h.Key(tea.KeyEnter)
	m := h.Model()
	if m.models.IsVisible(imodel.IDFromInt(100)) {
		t.Fatalf("expected Plant to be hidden")
	}
	if !m.models.IsVisible(imodel.IDFromInt(101)) {
		t.Fatalf("expected area 51 to stay visible")
	}
	if m.errMsg != "" {
		t.Fatalf("unexpected error %q", m.errMsg)
	}
}

func TestCursorWrapsOnSnapshots(t *testing.T) {
	h := startHarness(t, Options{})
	m := h.Model()
	m.snapshots.SetDocuments([]string{"/x/a.bim", "/x/b.bim"})
	m.refreshSnapshots()
	h.Key(tea.KeyUp)
	if m.snapshotsLevel.Cursor != 2 {
		t.Fatalf("expected cursor to wrap to the last row, got %d", m.snapshotsLevel.Cursor)
	}
	h.Key(tea.KeyDown)
	if m.snapshotsLevel.Cursor != 0 {
		t.Fatalf("expected cursor to wrap to the first row, got %d", m.snapshotsLevel.Cursor)
	}
}

func TestCtrlCQuits(t *testing.T) {
	h := startHarness(t, Options{})
	h.Key(tea.KeyCtrlC)
	if !h.Quit() {
		t.Fatalf("expected ctrl+c to quit")
	}
}
