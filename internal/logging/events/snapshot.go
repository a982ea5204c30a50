package events

import "github.com/atomicstack/imodel-browser/internal/logging"

type SnapshotTracer struct{}

type snapshotReason string

const (
	SnapshotReasonCancel snapshotReason = "cancel"
	SnapshotReasonEscape snapshotReason = "escape"
)

var Snapshot = SnapshotTracer{}

func (SnapshotTracer) List(count int) {
	logging.Trace("snapshot.list", map[string]interface{}{"count": count})
}

func (SnapshotTracer) Open(path string) {
	logging.Trace("snapshot.open", map[string]interface{}{"path": path})
}

func (SnapshotTracer) Opened(path, key string) {
	logging.Trace("snapshot.opened", map[string]interface{}{"path": path, "key": key})
}

func (SnapshotTracer) Close(path string) {
	logging.Trace("snapshot.close", map[string]interface{}{"path": path})
}

func (SnapshotTracer) ChoosePrompt() {
	logging.Trace("snapshot.choose.prompt", nil)
}

func (SnapshotTracer) CancelChoose(reason snapshotReason) {
	logging.Trace("snapshot.choose.cancel", map[string]interface{}{"reason": string(reason)})
}

func (SnapshotTracer) SubmitChoose(path string) {
	logging.Trace("snapshot.choose.submit", map[string]interface{}{"path": path})
}
