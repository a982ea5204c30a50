package view

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/atomicstack/imodel-browser/internal/imodel"
)

// Selector is a per-view membership set controlling what is displayed.
type Selector interface {
	Has(id imodel.ID) bool
	Add(ids ...imodel.ID)
	Drop(ids ...imodel.ID)
}

// ModelSelector is a Selector whose newly added models must be loaded before
// the view reflects them.
type ModelSelector interface {
	Selector
	Load(ctx context.Context) error
}

// IDSet is the concrete Selector used by view states.
type IDSet struct {
	mu      sync.RWMutex
	ids     map[imodel.ID]struct{}
	kind    ChangeKind
	changes *Notifier
}

// NewIDSet returns a set publishing kind changes to changes (which may be nil).
func NewIDSet(kind ChangeKind, changes *Notifier, ids ...imodel.ID) *IDSet {
	s := &IDSet{ids: make(map[imodel.ID]struct{}, len(ids)), kind: kind, changes: changes}
	for _, id := range ids {
		if id.Valid() {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

// Has reports membership of id.
func (s *IDSet) Has(id imodel.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Add inserts ids; invalid ids are ignored. Subscribers hear about the ids
// that were not already members.
func (s *IDSet) Add(ids ...imodel.ID) {
	s.mu.Lock()
	added := make([]imodel.ID, 0, len(ids))
	for _, id := range ids {
		if !id.Valid() {
			continue
		}
		if _, ok := s.ids[id]; ok {
			continue
		}
		s.ids[id] = struct{}{}
		added = append(added, id)
	}
	s.mu.Unlock()
	if len(added) > 0 {
		s.changes.Publish(Change{Kind: s.kind, IDs: added})
	}
}

// Drop removes ids.
func (s *IDSet) Drop(ids ...imodel.ID) {
	s.mu.Lock()
	dropped := make([]imodel.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.ids[id]; !ok {
			continue
		}
		delete(s.ids, id)
		dropped = append(dropped, id)
	}
	s.mu.Unlock()
	if len(dropped) > 0 {
		s.changes.Publish(Change{Kind: s.kind, IDs: dropped})
	}
}

// IDs returns the members in ascending order.
func (s *IDSet) IDs() []imodel.ID {
	s.mu.RLock()
	ids := make([]imodel.ID, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.SortFunc(ids, func(a, b imodel.ID) int {
		return cmp.Compare(a.Int64(), b.Int64())
	})
	return ids
}

// Len returns the number of members.
func (s *IDSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
