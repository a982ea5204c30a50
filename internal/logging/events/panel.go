package events

import "github.com/atomicstack/imodel-browser/internal/logging"

type PanelTracer struct{}

var Panel = PanelTracer{}

func (PanelTracer) LoadStart(panel string, generation uint64) {
	logging.Trace("panel.load.start", map[string]interface{}{"panel": panel, "generation": generation})
}

func (PanelTracer) Loaded(panel string, generation uint64, count int) {
	logging.Trace("panel.load.done", map[string]interface{}{"panel": panel, "generation": generation, "count": count})
}

func (PanelTracer) Stale(panel string, generation, current uint64) {
	logging.Trace("panel.load.stale", map[string]interface{}{"panel": panel, "generation": generation, "current": current})
}

func (PanelTracer) Select(panel, mode string, ids []string) {
	logging.Trace("panel.select", map[string]interface{}{"panel": panel, "mode": mode, "ids": ids})
}

func (PanelTracer) NoView(panel, mode string) {
	logging.Trace("panel.select.noview", map[string]interface{}{"panel": panel, "mode": mode})
}

func (PanelTracer) Switch(panel string) {
	logging.Trace("panel.switch", map[string]interface{}{"panel": panel})
}
