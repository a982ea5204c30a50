package ui

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/atomicstack/imodel-browser/internal/backend"
	"github.com/atomicstack/imodel-browser/internal/bridge"
	"github.com/atomicstack/imodel-browser/internal/data/dispatcher"
	"github.com/atomicstack/imodel-browser/internal/imodel"
	"github.com/atomicstack/imodel-browser/internal/panel"
	"github.com/atomicstack/imodel-browser/internal/snapshot"
	"github.com/atomicstack/imodel-browser/internal/theme"
	"github.com/atomicstack/imodel-browser/internal/ui/command"
	uistate "github.com/atomicstack/imodel-browser/internal/ui/state"
	"github.com/atomicstack/imodel-browser/internal/view"
	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

// Screen identifies what the model is showing.
type Screen int

const (
	ScreenSnapshots Screen = iota
	ScreenModel
)

func (s Screen) String() string {
	switch s {
	case ScreenSnapshots:
		return "snapshots"
	case ScreenModel:
		return "model"
	default:
		return "unknown"
	}
}

type Mode int

const (
	ModeList Mode = iota
	ModeChooseForm
)

// Panel names accepted by Options.Panel.
const (
	PanelCategories = "categories"
	PanelModels     = "models"
)

const (
	snapshotsLevelID = "snapshots"
	inboxSize        = 64
	defaultViewName  = "Default"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures a Model.
type Options struct {
	// Bridge answers the document queries of the snapshots screen.
	Bridge bridge.Querier
	// Opener opens snapshot files; nil means imodel.OpenSnapshot.
	Opener snapshot.Opener
	// Watcher streams document list changes; optional.
	Watcher *backend.Watcher
	// Open is a snapshot to open right away instead of listing.
	Open string
	// Panel selects the panel shown first on the model screen.
	Panel string

	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool

	// Context bounds every query the UI starts.
	Context context.Context
}

// Model implements the Bubble Tea model for the iModel browser.
type Model struct {
	screen Screen
	mode   Mode

	snapshots      *snapshot.Screen
	listed         bool
	snapshotsLevel *level

	viewport    *view.Viewport
	categories  *panel.CategoriesPanel
	models      *panel.ModelsPanel
	panels      []panel.Panel
	panelLevels []*level
	activePanel int

	conn     *imodel.Connection
	docPath  string
	openPath string

	inbox         chan tea.Msg
	overflow      sync.WaitGroup
	manualInbox   bool
	changePending atomic.Bool
	unsubscribe   []func()
	pendingLoads  int

	chooseForm *chooseForm
	chooseReq  *chooseRequestMsg

	loading      bool
	pendingID    string
	pendingLabel string
	errMsg       string
	info         notice

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	watcher    *backend.Watcher
	watchErr   string
	dispatcher *dispatcher.Dispatcher

	filterCursor      cursor.Model
	filterCursorDirty bool
	staticCursor      bool

	handlers map[reflect.Type]msgHandler
	bus      *command.Bus
	ctx      context.Context
}

// NewModel initialises the UI with the snapshots screen.
func NewModel(opts Options) *Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		screen:     ScreenSnapshots,
		mode:       ModeList,
		viewport:   view.NewViewport(),
		inbox:      make(chan tea.Msg, inboxSize),
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		watcher:    opts.Watcher,
		openPath:   strings.TrimSpace(opts.Open),
		bus:        command.New(ctx),
		ctx:        ctx,
	}
	m.snapshots = snapshot.NewScreen(opts.Bridge, opts.Opener, m.onSnapshotOpened)
	m.snapshotsLevel = uistate.NewLevel(snapshotsLevelID, snapshot.Title, snapshotItems(m.snapshots))
	m.dispatcher = dispatcher.New(m.snapshots)

	m.categories = panel.NewCategoriesPanel(nil, m.viewport)
	m.models = panel.NewModelsPanel(nil, m.viewport)
	m.panels = []panel.Panel{m.categories, m.models}
	m.panelLevels = make([]*level, len(m.panels))
	for i, p := range m.panels {
		m.panelLevels[i] = uistate.NewLevel(panelLevelID(p), p.Title(), panelItems(p))
		idx := i
		m.unsubscribe = append(m.unsubscribe, p.Reloaded().Subscribe(func() {
			m.post(panelReloadedMsg{index: idx})
		}))
	}
	if strings.EqualFold(strings.TrimSpace(opts.Panel), PanelModels) {
		m.activePanel = 1
	}
	m.unsubscribe = append(m.unsubscribe, m.viewport.Subscribe(func(view.Change) {
		if m.changePending.CompareAndSwap(false, true) {
			m.post(viewChangedMsg{})
		}
	}))

	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForInbox()}
	if next := m.nextWatchEvent(); next != nil {
		cmds = append(cmds, next)
	}
	if m.openPath != "" {
		cmds = append(cmds, m.openSnapshotCmd(m.openPath))
	} else {
		cmds = append(cmds, m.loadSnapshotsCmd())
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	handled, cmd := m.handleActiveForm(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled {
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

// Close releases the open connection and detaches from panels and views.
func (m *Model) Close() {
	for _, unsubscribe := range m.unsubscribe {
		unsubscribe()
	}
	m.unsubscribe = nil
	m.closeConnection()
}

// Screen reports the screen being shown.
func (m *Model) Screen() Screen { return m.screen }

// Connection returns the open snapshot, if any.
func (m *Model) Connection() *imodel.Connection { return m.conn }

func (m *Model) handleActiveForm(msg tea.Msg) (bool, tea.Cmd) {
	switch m.mode {
	case ModeChooseForm:
		return m.handleChooseForm(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):         m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):  m.handleWindowSizeMsg,
		reflect.TypeOf(inboxMsg{}):           m.handleInboxMsg,
		reflect.TypeOf(command.Result{}):     m.handleActionResultMsg,
		reflect.TypeOf(snapshotsLoadedMsg{}): m.handleSnapshotsLoadedMsg,
		reflect.TypeOf(snapshotOpenedMsg{}):  m.handleSnapshotOpenedMsg,
		reflect.TypeOf(modelReadyMsg{}):      m.handleModelReadyMsg,
		reflect.TypeOf(panelLoadedMsg{}):     m.handlePanelLoadedMsg,
		reflect.TypeOf(panelReloadedMsg{}):   m.handlePanelReloadedMsg,
		reflect.TypeOf(viewChangedMsg{}):     m.handleViewChangedMsg,
		reflect.TypeOf(chooseRequestMsg{}):   m.handleChooseRequestMsg,
		reflect.TypeOf(watchEventMsg{}):      m.handleWatchEventMsg,
		reflect.TypeOf(watchStoppedMsg{}):    m.handleWatchStoppedMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// useStaticCursor stops the filter caret from blinking.
func (m *Model) useStaticCursor() {
	m.staticCursor = true
	m.filterCursor.SetMode(cursor.CursorStatic)
}

func panelLevelID(p panel.Panel) string {
	return "panel:" + strings.ToLower(p.Title())
}

func (m *Model) currentLevel() *level {
	if m.screen == ScreenModel {
		if m.activePanel >= 0 && m.activePanel < len(m.panelLevels) {
			return m.panelLevels[m.activePanel]
		}
		return nil
	}
	return m.snapshotsLevel
}

func (m *Model) currentPanel() panel.Panel {
	if m.screen != ScreenModel || m.activePanel < 0 || m.activePanel >= len(m.panels) {
		return nil
	}
	return m.panels[m.activePanel]
}

func (m *Model) documentName() string {
	if m.docPath == "" {
		return ""
	}
	return filepath.Base(m.docPath)
}

func snapshotItems(s *snapshot.Screen) []uistate.Item {
	rows := s.Rows()
	items := make([]uistate.Item, len(rows))
	for i, row := range rows {
		items[i] = uistate.Item{ID: row.Key, Label: row.Label, Pinned: row.Key == snapshot.ChooseKey}
	}
	return items
}

func panelItems(p panel.Panel) []uistate.Item {
	rows := p.ListPanel().Rows
	items := make([]uistate.Item, len(rows))
	for i, row := range rows {
		items[i] = uistate.Item{ID: row.Key, Label: row.Label, Bold: row.Bold, Pinned: row.Bold}
	}
	return items
}
