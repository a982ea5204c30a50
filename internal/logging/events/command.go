package events

import "github.com/atomicstack/imodel-browser/internal/logging"

// CommandTracer follows requests through the ui command bus.
type CommandTracer struct{}

// ActionTracer records the outcome of snapshot and panel actions.
type ActionTracer struct{}

var (
	Command = CommandTracer{}
	Action  = ActionTracer{}
)

func commandPayload(id, label string) map[string]interface{} {
	return map[string]interface{}{"id": id, "label": label}
}

func (CommandTracer) Queue(id, label string) {
	logging.Trace("command.queue", commandPayload(id, label))
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", commandPayload(id, label))
}

func (CommandTracer) Result(id, label, msgType string) {
	payload := commandPayload(id, label)
	payload["msg"] = msgType
	logging.Trace("command.result", payload)
}

func (ActionTracer) Error(id string, err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"id": id, "error": err.Error()})
}

func (ActionTracer) Success(id, label string) {
	logging.Trace("action.success", map[string]interface{}{"id": id, "label": label})
}
