package ui

import (
	"context"

	"github.com/atomicstack/imodel-browser/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleEscapeKey() tea.Cmd {
	if current := m.currentLevel(); current != nil && current.Filter != "" {
		before := current.FilterCursorPos()
		current.ClearFilter()
		m.noteFilterCursorChange(current, before)
		events.Filter.Edit(events.FilterClear, current.ID, "")
		m.syncViewport(current)
		return nil
	}
	if m.screen == ScreenSnapshots {
		return tea.Quit
	}
	return m.backToSnapshots()
}

// backToSnapshots closes the open snapshot and lists the documents again.
func (m *Model) backToSnapshots() tea.Cmd {
	m.closeConnection()
	m.viewport.SetView(nil)
	m.categories.SetSource(nil)
	m.models.SetSource(nil)
	m.resetPanels()
	m.screen = ScreenSnapshots
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	m.errMsg = ""
	m.info.reset()
	events.List.Screen(m.screen.String(), "")
	return m.loadSnapshotsCmd()
}

func (m *Model) handleEnterKey() tea.Cmd {
	if m.loading {
		return nil
	}
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	item, ok := current.Current()
	if !ok {
		return nil
	}
	events.List.Activate(current.ID, item.ID, item.Label, current.Filter)
	if m.screen == ScreenSnapshots {
		before := current.FilterCursorPos()
		current.SetFilter("", 0)
		m.noteFilterCursorChange(current, before)
		key := item.ID
		return m.activateCmd(actionActivate, item.Label, func(ctx context.Context) error {
			return m.snapshots.Activate(ctx, key)
		})
	}
	p := m.currentPanel()
	if p == nil {
		return nil
	}
	key := item.ID
	return m.activateCmd(actionActivate, item.Label, func(ctx context.Context) error {
		return p.Activate(ctx, key)
	})
}

func (m *Model) switchPanel(delta int) {
	if m.screen != ScreenModel || len(m.panels) == 0 {
		return
	}
	n := len(m.panels)
	m.activePanel = ((m.activePanel+delta)%n + n) % n
	events.Panel.Switch(m.panels[m.activePanel].Title())
	m.filterCursorDirty = true
	m.syncViewport(m.currentLevel())
}

func (m *Model) moveCursor(move func(*level) bool) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	if move(current) {
		events.List.Cursor(current.ID, current.Cursor)
	}
	m.syncViewport(current)
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeList {
		return nil
	}
	switch keyMsg.Type {
	case tea.KeyTab:
		m.switchPanel(1)
		return nil
	case tea.KeyShiftTab:
		m.switchPanel(-1)
		return nil
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	perPage := m.maxVisibleItems()
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up", "ctrl+p":
		m.moveCursor((*level).MoveCursorUp)
	case "down", "ctrl+n":
		m.moveCursor((*level).MoveCursorDown)
	case "pgup":
		m.moveCursor(func(l *level) bool { return l.MoveCursorPageUp(perPage) })
	case "pgdown":
		m.moveCursor(func(l *level) bool { return l.MoveCursorPageDown(perPage) })
	case "home":
		m.moveCursor((*level).MoveCursorHome)
	case "end":
		m.moveCursor((*level).MoveCursorEnd)
	}
	return nil
}
