package dispatcher

import "github.com/atomicstack/imodel-browser/internal/backend"

// DocumentStore receives refreshed document lists. *snapshot.Screen
// implements it.
type DocumentStore interface {
	SetDocuments(paths []string)
}

type Result struct {
	DocumentsUpdated bool
}

type Dispatcher struct {
	documents DocumentStore
}

func New(documents DocumentStore) *Dispatcher {
	return &Dispatcher{documents: documents}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	if evt.Err != nil {
		return res
	}
	switch evt.Kind {
	case backend.KindDocuments:
		if d.documents == nil {
			return res
		}
		d.documents.SetDocuments(evt.Documents)
		res.DocumentsUpdated = true
	}
	return res
}
