package ui

import (
	"github.com/atomicstack/imodel-browser/internal/backend"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// watchEventMsg carries one update from the documents watcher.
type watchEventMsg struct {
	event backend.Event
}

// watchStoppedMsg reports that the watcher closed its event channel.
type watchStoppedMsg struct{}

func waitForWatchEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return watchStoppedMsg{}
		}
		return watchEventMsg{event: evt}
	}
}

func (m *Model) nextWatchEvent() tea.Cmd {
	if m.watcher == nil || m.manualInbox {
		return nil
	}
	return waitForWatchEvent(m.watcher)
}

func (m *Model) handleWatchEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(watchEventMsg)
	if !ok {
		return nil
	}
	evt := eventMsg.event
	if evt.Err != nil {
		m.watchErr = evt.Err.Error()
		if m.watcher != nil {
			events.Documents.WatchError(m.watcher.Dir(), evt.Err)
		}
		return m.nextWatchEvent()
	}
	m.watchErr = ""
	if m.dispatcher.Handle(evt).DocumentsUpdated {
		m.refreshSnapshots()
	}
	return m.nextWatchEvent()
}

func (m *Model) handleWatchStoppedMsg(tea.Msg) tea.Cmd {
	events.Documents.WatchStopped()
	m.watcher = nil
	return nil
}
