package ui

import (
	"context"
	"time"

	"github.com/atomicstack/imodel-browser/internal/imodel"
	"github.com/atomicstack/imodel-browser/internal/logging"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
	"github.com/atomicstack/imodel-browser/internal/snapshot"
	"github.com/atomicstack/imodel-browser/internal/ui/command"
	uistate "github.com/atomicstack/imodel-browser/internal/ui/state"
	"github.com/atomicstack/imodel-browser/internal/view"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	actionOpenSnapshot = "snapshot:open"
	actionPrepareModel = "snapshot:prepare"
	actionActivate     = "activate"
)

// inboxMsg carries a message posted from outside the update loop.
type inboxMsg struct {
	msg tea.Msg
}

type snapshotsLoadedMsg struct {
	err error
}

type snapshotOpenedMsg struct {
	path string
	conn *imodel.Connection
}

type modelReadyMsg struct {
	conn *imodel.Connection
	view *view.SpatialViewState
	err  error
}

type panelLoadedMsg struct {
	index int
	conn  *imodel.Connection
	err   error
}

type panelReloadedMsg struct {
	index int
}

type viewChangedMsg struct{}

func (m *Model) waitForInbox() tea.Cmd {
	if m.manualInbox {
		return nil
	}
	inbox := m.inbox
	return func() tea.Msg {
		return inboxMsg{msg: <-inbox}
	}
}

// post queues msg for the update loop without blocking the caller. When the
// inbox is full the send moves to a goroutine that gives up once the model's
// context ends.
func (m *Model) post(msg tea.Msg) {
	select {
	case m.inbox <- msg:
	default:
		inbox, done := m.inbox, m.ctx.Done()
		m.overflow.Add(1)
		go func() {
			defer m.overflow.Done()
			select {
			case inbox <- msg:
			case <-done:
			}
		}()
	}
}

func (m *Model) handleInboxMsg(msg tea.Msg) tea.Cmd {
	wrapped, ok := msg.(inboxMsg)
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	if wrapped.msg != nil {
		_, cmd = m.Update(wrapped.msg)
	}
	return tea.Batch(cmd, m.waitForInbox())
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if result.ID == m.pendingID {
		m.loading = false
		m.pendingID = ""
		m.pendingLabel = ""
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.info.reset()
		logging.Error(result.Err)
		events.Action.Error(result.ID, result.Err)
		if result.ID == actionOpenSnapshot && m.screen == ScreenSnapshots && !m.listed {
			return m.loadSnapshotsCmd()
		}
		return nil
	}
	if m.verbose && result.Label != "" {
		m.info.set(result.Label, time.Now())
	}
	events.Action.Success(result.ID, result.Label)
	return nil
}

func (m *Model) loadSnapshotsCmd() tea.Cmd {
	screen := m.snapshots
	ctx := m.ctx
	return func() tea.Msg {
		return snapshotsLoadedMsg{err: screen.Load(ctx)}
	}
}

func (m *Model) handleSnapshotsLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(snapshotsLoadedMsg)
	if !ok {
		return nil
	}
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		logging.Error(loaded.err)
	}
	m.listed = true
	m.refreshSnapshots()
	return nil
}

func (m *Model) refreshSnapshots() {
	m.snapshotsLevel.UpdateItems(snapshotItems(m.snapshots))
	m.syncViewport(m.snapshotsLevel)
	if len(m.snapshots.Entries()) == 0 {
		m.info.set("No snapshots found.", time.Now())
	} else {
		m.info.reset()
	}
}

func (m *Model) activateCmd(id, label string, run func(ctx context.Context) error) tea.Cmd {
	m.loading = true
	m.pendingID = id
	m.pendingLabel = label
	m.errMsg = ""
	m.info.reset()
	return m.bus.Execute(command.Request{ID: id, Label: label, Run: run})
}

func (m *Model) openSnapshotCmd(path string) tea.Cmd {
	return m.activateCmd(actionOpenSnapshot, snapshot.DisplayName(path), func(ctx context.Context) error {
		return m.snapshots.Open(ctx, path)
	})
}

// onSnapshotOpened runs on the command goroutine that opened the snapshot.
func (m *Model) onSnapshotOpened(path string, conn *imodel.Connection) {
	m.post(snapshotOpenedMsg{path: path, conn: conn})
}

func (m *Model) handleSnapshotOpenedMsg(msg tea.Msg) tea.Cmd {
	opened, ok := msg.(snapshotOpenedMsg)
	if !ok || opened.conn == nil {
		return nil
	}
	m.closeConnection()
	m.conn = opened.conn
	m.docPath = opened.path
	m.screen = ScreenModel
	m.errMsg = ""
	m.info.reset()
	m.resetPanels()
	events.List.Screen(m.screen.String(), opened.path)
	m.loading = true
	m.pendingID = actionPrepareModel
	m.pendingLabel = snapshot.DisplayName(opened.path)
	return m.prepareModelCmd(opened.conn)
}

// resetPanels drops the rows of the previous snapshot so only the All/None
// headers show until the panels load again.
func (m *Model) resetPanels() {
	for i, p := range m.panels {
		p.Clear()
		m.panelLevels[i] = uistate.NewLevel(panelLevelID(p), p.Title(), panelItems(p))
	}
}

func (m *Model) prepareModelCmd(conn *imodel.Connection) tea.Cmd {
	changes := m.viewport.Changes()
	ctx := m.ctx
	return func() tea.Msg {
		v, err := view.NewDefaultSpatialView(ctx, defaultViewName, conn, changes)
		return modelReadyMsg{conn: conn, view: v, err: err}
	}
}

func (m *Model) handleModelReadyMsg(msg tea.Msg) tea.Cmd {
	ready, ok := msg.(modelReadyMsg)
	if !ok || ready.conn != m.conn || m.conn == nil {
		return nil
	}
	if ready.err != nil {
		m.loading = false
		m.pendingID = ""
		m.pendingLabel = ""
		m.errMsg = ready.err.Error()
		logging.Error(ready.err)
		return nil
	}
	m.viewport.SetView(ready.view)
	m.categories.SetSource(ready.conn)
	m.models.SetSource(ready.conn)
	cmds := make([]tea.Cmd, 0, len(m.panels))
	for i := range m.panels {
		cmds = append(cmds, m.loadPanelCmd(i))
	}
	m.pendingLoads = len(cmds)
	return tea.Batch(cmds...)
}

func (m *Model) loadPanelCmd(index int) tea.Cmd {
	p := m.panels[index]
	conn := m.conn
	ctx := m.ctx
	return func() tea.Msg {
		return panelLoadedMsg{index: index, conn: conn, err: p.Load(ctx)}
	}
}

func (m *Model) handlePanelLoadedMsg(msg tea.Msg) tea.Cmd {
	loaded, ok := msg.(panelLoadedMsg)
	if !ok || loaded.conn != m.conn || m.conn == nil {
		return nil
	}
	if m.pendingLoads > 0 {
		m.pendingLoads--
	}
	if m.pendingLoads == 0 && m.pendingID == actionPrepareModel {
		m.loading = false
		m.pendingID = ""
		m.pendingLabel = ""
	}
	if loaded.err != nil {
		m.errMsg = loaded.err.Error()
		logging.Error(loaded.err)
		return nil
	}
	m.refreshPanel(loaded.index)
	return nil
}

func (m *Model) handlePanelReloadedMsg(msg tea.Msg) tea.Cmd {
	reloaded, ok := msg.(panelReloadedMsg)
	if !ok {
		return nil
	}
	m.refreshPanel(reloaded.index)
	return nil
}

func (m *Model) refreshPanel(index int) {
	if index < 0 || index >= len(m.panels) {
		return
	}
	lvl := m.panelLevels[index]
	lvl.UpdateItems(panelItems(m.panels[index]))
	m.syncViewport(lvl)
}

// handleViewChangedMsg only re-arms the coalescing flag; visibility markers
// are read from the selectors when rendering.
func (m *Model) handleViewChangedMsg(msg tea.Msg) tea.Cmd {
	m.changePending.Store(false)
	return nil
}

func (m *Model) closeConnection() {
	if m.conn == nil {
		return
	}
	events.Snapshot.Close(m.docPath)
	if err := m.conn.Close(); err != nil {
		logging.Error(err)
	}
	m.conn = nil
	m.docPath = ""
	m.pendingLoads = 0
}
