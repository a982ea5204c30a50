package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/imodel-browser/internal/imodel"
)

// ModelSet is the concrete ModelSelector. Load fetches the props of members
// that have not been loaded yet.
type ModelSet struct {
	*IDSet

	source imodel.ModelQuerier

	mu      sync.RWMutex
	loaded  map[imodel.ID]imodel.ModelProps
	queried map[imodel.ID]struct{}
}

// NewModelSet returns a model selector loading props from source.
func NewModelSet(source imodel.ModelQuerier, changes *Notifier, ids ...imodel.ID) *ModelSet {
	return &ModelSet{
		IDSet:   NewIDSet(ModelsChanged, changes, ids...),
		source:  source,
		loaded:  make(map[imodel.ID]imodel.ModelProps),
		queried: make(map[imodel.ID]struct{}),
	}
}

// Load materializes every member not yet fetched. Ids the source does not know
// are remembered so they are not queried again.
func (s *ModelSet) Load(ctx context.Context) error {
	missing := s.missing()
	if len(missing) == 0 {
		return nil
	}
	models, err := imodel.FetchModels(ctx, s.source, imodel.ModelQueryParams{WantPrivate: true, IDs: missing})
	if err != nil {
		return fmt.Errorf("load models: %w", err)
	}
	s.mu.Lock()
	fetched := make([]imodel.ID, 0, len(models))
	for _, props := range models {
		s.loaded[props.ID] = props
		fetched = append(fetched, props.ID)
	}
	for _, id := range missing {
		s.queried[id] = struct{}{}
	}
	s.mu.Unlock()
	if len(fetched) > 0 {
		s.changes.Publish(Change{Kind: ModelsLoaded, IDs: fetched})
	}
	return nil
}

func (s *ModelSet) missing() []imodel.ID {
	ids := s.IDs()
	s.mu.RLock()
	defer s.mu.RUnlock()
	missing := make([]imodel.ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.queried[id]; ok {
			continue
		}
		missing = append(missing, id)
	}
	return missing
}

// Loaded returns the props fetched for id by an earlier Load.
func (s *ModelSet) Loaded(id imodel.ID) (imodel.ModelProps, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	props, ok := s.loaded[id]
	return props, ok
}
