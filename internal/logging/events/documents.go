package events

import "github.com/atomicstack/imodel-browser/internal/logging"

type DocumentsTracer struct{}

var Documents = DocumentsTracer{}

func (DocumentsTracer) Listed(dir, ext string, count int) {
	logging.Trace("documents.list", map[string]interface{}{"dir": dir, "ext": ext, "count": count})
}

func (DocumentsTracer) Unreadable(dir string, err error) {
	logging.Trace("documents.unreadable", map[string]interface{}{"dir": dir, "error": err.Error()})
}

func (DocumentsTracer) WatchFallback(dir string, err error) {
	logging.Trace("documents.watch.fallback", map[string]interface{}{"dir": dir, "error": err.Error()})
}

func (DocumentsTracer) Query(name string) {
	logging.Trace("bridge.query", map[string]interface{}{"name": name})
}

func (DocumentsTracer) WatchError(dir string, err error) {
	logging.Trace("documents.watch.error", map[string]interface{}{"dir": dir, "error": err.Error()})
}

func (DocumentsTracer) WatchStopped() {
	logging.Trace("documents.watch.stop", nil)
}
