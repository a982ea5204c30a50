package view

import (
	"sync"

	"github.com/atomicstack/imodel-browser/internal/imodel"
)

// ChangeKind classifies a view change notification.
type ChangeKind int

const (
	// CategoriesChanged follows Add/Drop on a category selector.
	CategoriesChanged ChangeKind = iota
	// ModelsChanged follows Add/Drop on a model selector.
	ModelsChanged
	// ModelsLoaded follows a model selector Load that fetched new models.
	ModelsLoaded
	// ViewChanged follows replacing the view held by a viewport.
	ViewChanged
)

func (k ChangeKind) String() string {
	switch k {
	case CategoriesChanged:
		return "categories"
	case ModelsChanged:
		return "models"
	case ModelsLoaded:
		return "models-loaded"
	case ViewChanged:
		return "view"
	default:
		return "unknown"
	}
}

// Change describes a mutation of view state.
type Change struct {
	Kind ChangeKind
	IDs  []imodel.ID
}

// Notifier fans change notifications out to subscribers. The zero value is
// ready to use and a nil Notifier drops every notification.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Change)
}

// Subscribe registers fn and returns a function that removes it.
func (n *Notifier) Subscribe(fn func(Change)) (unsubscribe func()) {
	if n == nil || fn == nil {
		return func() {}
	}
	n.mu.Lock()
	if n.subs == nil {
		n.subs = make(map[int]func(Change))
	}
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Publish delivers change to every subscriber on the calling goroutine.
func (n *Notifier) Publish(change Change) {
	if n == nil {
		return
	}
	n.mu.Lock()
	subs := make([]func(Change), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.Unlock()
	for _, fn := range subs {
		fn(change)
	}
}
