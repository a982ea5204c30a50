// Package panel implements the list panels of the model screen: the
// categories and models panels that toggle selector membership, and the
// presentational ListPanel they both render through.
package panel

import (
	"sync"
)

// Row keys of the synthetic rows heading every selectable list.
const (
	KeyAll  = "all"
	KeyNone = "none"
)

// Icons used by list rows.
const (
	IconLayers      = "icon-layers"
	IconModel       = "icon-model"
	IconVisible     = "icon-visibility"
	IconHidden      = "icon-visibility-hide-2"
	IconChooseFile  = "icon-folder"
	IconSnapshotBim = "icon-imodel"
)

// SelectionMode selects how a row activation changes a selector.
type SelectionMode int

const (
	Toggle SelectionMode = iota
	SelectAll
	SelectNone
)

func (m SelectionMode) String() string {
	switch m {
	case Toggle:
		return "toggle"
	case SelectAll:
		return "all"
	case SelectNone:
		return "none"
	default:
		return "unknown"
	}
}

// Row is one rendered list entry.
type Row struct {
	Key      string
	Label    string
	Bold     bool
	Selected bool
	Icon     string
}

// ListPanel is a titled list of rows. It has no state of its own.
type ListPanel struct {
	Title    string
	Icon     string
	Rows     []Row
	Reloaded *ReloadedEvent
}

// Labels localizes panel text.
type Labels struct {
	All  string
	None string
}

// DefaultLabels are the English labels.
var DefaultLabels = Labels{All: "All", None: "None"}

func headerRows(labels Labels) []Row {
	return []Row{
		{Key: KeyAll, Label: labels.All, Bold: true},
		{Key: KeyNone, Label: labels.None, Bold: true},
	}
}

func visibilityIcon(selected bool) string {
	if selected {
		return IconVisible
	}
	return IconHidden
}

// ReloadedEvent signals that a panel replaced its list.
type ReloadedEvent struct {
	mu   sync.Mutex
	next int
	subs map[int]func()
}

// NewReloadedEvent returns an event with no listeners.
func NewReloadedEvent() *ReloadedEvent {
	return &ReloadedEvent{subs: make(map[int]func())}
}

// Subscribe registers fn and returns a function that removes it.
func (e *ReloadedEvent) Subscribe(fn func()) (unsubscribe func()) {
	if e == nil || fn == nil {
		return func() {}
	}
	e.mu.Lock()
	id := e.next
	e.next++
	e.subs[id] = fn
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.subs, id)
		e.mu.Unlock()
	}
}

// Emit calls every listener on the calling goroutine.
func (e *ReloadedEvent) Emit() {
	if e == nil {
		return
	}
	e.mu.Lock()
	subs := make([]func(), 0, len(e.subs))
	for _, fn := range e.subs {
		subs = append(subs, fn)
	}
	e.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}
