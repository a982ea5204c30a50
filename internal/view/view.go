// Package view holds the state that decides what a viewport displays: the
// active view and its category and model selectors. Selectors belong to the
// view; list panels only read membership and request Add/Drop. Every
// mutation is published through the viewport's Notifier so renders follow
// data changes instead of manual invalidation.
package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/imodel-browser/internal/imodel"
	"golang.org/x/sync/errgroup"
)

// View is any view state. Every view has a category selector.
type View interface {
	Name() string
	CategorySelector() Selector
}

// Spatial is a 3D view state exposing a model selector too.
type Spatial interface {
	View
	ModelSelector() ModelSelector
}

// Provider yields the view shown by the first viewport, or nil when there is
// none.
type Provider interface {
	ActiveView() View
}

// SpatialViewState is a 3D view.
type SpatialViewState struct {
	name       string
	categories *IDSet
	models     *ModelSet
}

// NewSpatialViewState returns an empty 3D view whose model selector loads
// props from source.
func NewSpatialViewState(name string, source imodel.ModelQuerier, changes *Notifier) *SpatialViewState {
	return &SpatialViewState{
		name:       name,
		categories: NewIDSet(CategoriesChanged, changes),
		models:     NewModelSet(source, changes),
	}
}

func (v *SpatialViewState) Name() string { return v.name }

func (v *SpatialViewState) CategorySelector() Selector { return v.categories }

func (v *SpatialViewState) ModelSelector() ModelSelector { return v.models }

// Categories exposes the concrete category selector.
func (v *SpatialViewState) Categories() *IDSet { return v.categories }

// Models exposes the concrete model selector.
func (v *SpatialViewState) Models() *ModelSet { return v.models }

// DrawingViewState is a 2D view; it has no model selector.
type DrawingViewState struct {
	name       string
	categories *IDSet
}

// NewDrawingViewState returns an empty 2D view.
func NewDrawingViewState(name string, changes *Notifier) *DrawingViewState {
	return &DrawingViewState{name: name, categories: NewIDSet(CategoriesChanged, changes)}
}

func (v *DrawingViewState) Name() string { return v.name }

func (v *DrawingViewState) CategorySelector() Selector { return v.categories }

// Source is what a default view is built from; *imodel.Connection implements it.
type Source interface {
	imodel.Querier
	imodel.ModelQuerier
}

// NewDefaultSpatialView builds the view shown right after a snapshot opens:
// every category used by 3D geometry and every public physical model is
// visible, and the model selector is loaded.
func NewDefaultSpatialView(ctx context.Context, name string, src Source, changes *Notifier) (*SpatialViewState, error) {
	v := NewSpatialViewState(name, src, changes)
	var (
		categoryIDs []imodel.ID
		models      []imodel.ModelProps
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := imodel.Fetch3dCategoryIDs(gctx, src)
		categoryIDs = ids
		return err
	})
	g.Go(func() error {
		props, err := imodel.FetchModels(gctx, src, imodel.ModelQueryParams{From: imodel.PhysicalModelClass})
		models = props
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("default view: %w", err)
	}
	v.categories.Add(categoryIDs...)
	modelIDs := make([]imodel.ID, 0, len(models))
	for _, props := range models {
		modelIDs = append(modelIDs, props.ID)
	}
	v.models.Add(modelIDs...)
	if err := v.models.Load(ctx); err != nil {
		return nil, fmt.Errorf("default view: %w", err)
	}
	return v, nil
}

// Viewport holds the active view and the notifier its selectors publish to.
type Viewport struct {
	mu      sync.RWMutex
	view    View
	changes *Notifier
}

// NewViewport returns a viewport with no view.
func NewViewport() *Viewport {
	return &Viewport{changes: &Notifier{}}
}

// Changes returns the notifier that views built for this viewport publish to.
func (vp *Viewport) Changes() *Notifier {
	if vp == nil {
		return nil
	}
	return vp.changes
}

// ActiveView implements Provider.
func (vp *Viewport) ActiveView() View {
	if vp == nil {
		return nil
	}
	vp.mu.RLock()
	defer vp.mu.RUnlock()
	return vp.view
}

// SetView replaces the active view.
func (vp *Viewport) SetView(v View) {
	vp.mu.Lock()
	vp.view = v
	vp.mu.Unlock()
	vp.changes.Publish(Change{Kind: ViewChanged})
}

// Subscribe registers fn for every change published by this viewport.
func (vp *Viewport) Subscribe(fn func(Change)) (unsubscribe func()) {
	return vp.Changes().Subscribe(fn)
}

// ActiveSpatial returns the provider's view when it is spatial.
func ActiveSpatial(p Provider) (Spatial, bool) {
	if p == nil {
		return nil, false
	}
	v := p.ActiveView()
	if v == nil {
		return nil, false
	}
	s, ok := v.(Spatial)
	return s, ok
}
