package events

import "github.com/atomicstack/imodel-browser/internal/logging"

// ListTracer records movement through the rendered lists: the snapshot list
// and the panel rows.
type ListTracer struct{}

// FilterTracer records edits to a list's filter text.
type FilterTracer struct{}

// FilterEdit names the kind of edit applied to a filter.
type FilterEdit string

const (
	FilterAppend        FilterEdit = "append"
	FilterBackspace     FilterEdit = "backspace"
	FilterWordBackspace FilterEdit = "word-backspace"
	FilterClear         FilterEdit = "clear"
)

var (
	List   = ListTracer{}
	Filter = FilterTracer{}
)

func (ListTracer) Activate(levelID, key, label, filter string) {
	logging.Trace("list.activate", map[string]interface{}{
		"level":  levelID,
		"key":    key,
		"label":  label,
		"filter": filter,
	})
}

func (ListTracer) Cursor(levelID string, cursor int) {
	logging.Trace("list.cursor", map[string]interface{}{"level": levelID, "cursor": cursor})
}

// Screen is traced when the browser moves between the snapshot list and an
// open snapshot. document is empty on the list screen.
func (ListTracer) Screen(screen, document string) {
	payload := map[string]interface{}{"screen": screen}
	if document != "" {
		payload["document"] = document
	}
	logging.Trace("ui.screen", payload)
}

func (FilterTracer) Edit(kind FilterEdit, levelID, filter string) {
	logging.Trace("filter."+string(kind), map[string]interface{}{"level": levelID, "filter": filter})
}

func (FilterTracer) Cursor(levelID string, pos int, byWord bool) {
	event := "filter.cursor"
	if byWord {
		event = "filter.cursor-word"
	}
	logging.Trace(event, map[string]interface{}{"level": levelID, "cursor": pos})
}
