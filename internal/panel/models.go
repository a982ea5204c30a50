package panel

import (
	"context"
	"fmt"
	"sync"

	"github.com/atomicstack/imodel-browser/internal/format/order"
	"github.com/atomicstack/imodel-browser/internal/imodel"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
	"github.com/atomicstack/imodel-browser/internal/view"
)

const modelsPanelID = "models"

// Panel is what the model screen needs from a list panel.
type Panel interface {
	Title() string
	Load(ctx context.Context) error
	Activate(ctx context.Context, key string) error
	ListPanel() ListPanel
	Reloaded() *ReloadedEvent
	Clear()
}

var (
	_ Panel = (*CategoriesPanel)(nil)
	_ Panel = (*ModelsPanel)(nil)
)

// ModelsPanel lists the public physical models and toggles their membership
// in the active spatial view's model selector.
type ModelsPanel struct {
	views    view.Provider
	labels   Labels
	reloaded *ReloadedEvent

	mu         sync.RWMutex
	source     imodel.ModelQuerier
	models     []imodel.ModelProps
	generation uint64
}

// NewModelsPanel returns a panel listing models from source.
func NewModelsPanel(source imodel.ModelQuerier, views view.Provider) *ModelsPanel {
	return &ModelsPanel{
		source:   source,
		views:    views,
		labels:   DefaultLabels,
		reloaded: NewReloadedEvent(),
	}
}

func (p *ModelsPanel) Title() string { return "Models" }

// SetLabels replaces the All/None labels.
func (p *ModelsPanel) SetLabels(labels Labels) { p.labels = labels }

func (p *ModelsPanel) Reloaded() *ReloadedEvent { return p.reloaded }

// SetSource swaps the connection the panel reads from.
func (p *ModelsPanel) SetSource(source imodel.ModelQuerier) {
	p.mu.Lock()
	p.source = source
	p.mu.Unlock()
}

// Load rebuilds the list of public physical models, sorted by name.
func (p *ModelsPanel) Load(ctx context.Context) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	source := p.source
	p.models = nil
	p.mu.Unlock()
	events.Panel.LoadStart(modelsPanelID, gen)

	props, err := imodel.FetchModels(ctx, source, imodel.ModelQueryParams{
		WantPrivate: false,
		From:        imodel.PhysicalModelClass,
	})
	if err != nil {
		if p.superseded(gen) {
			return nil
		}
		return err
	}
	list := make([]imodel.ModelProps, 0, len(props))
	for _, model := range props {
		if !model.ID.Valid() || model.Name == "" {
			continue
		}
		list = append(list, model)
	}
	order.By(list, func(m imodel.ModelProps) string { return m.Name })

	p.mu.Lock()
	if gen != p.generation {
		current := p.generation
		p.mu.Unlock()
		events.Panel.Stale(modelsPanelID, gen, current)
		return nil
	}
	p.models = list
	p.mu.Unlock()
	events.Panel.Loaded(modelsPanelID, gen, len(list))
	p.reloaded.Emit()
	return nil
}

func (p *ModelsPanel) superseded(gen uint64) bool {
	p.mu.RLock()
	current := p.generation
	p.mu.RUnlock()
	if gen == current {
		return false
	}
	events.Panel.Stale(modelsPanelID, gen, current)
	return true
}

// Clear empties the list and drops the result of any load in flight.
func (p *ModelsPanel) Clear() {
	p.mu.Lock()
	p.generation++
	p.models = nil
	p.mu.Unlock()
}

// Models returns a copy of the working list.
func (p *ModelsPanel) Models() []imodel.ModelProps {
	p.mu.RLock()
	defer p.mu.RUnlock()
	dup := make([]imodel.ModelProps, len(p.models))
	copy(dup, p.models)
	return dup
}

// Select applies mode to the active view's model selector and waits for the
// selector to load what was added.
func (p *ModelsPanel) Select(ctx context.Context, model *imodel.ModelProps, mode SelectionMode) error {
	spatial, ok := view.ActiveSpatial(p.views)
	if !ok {
		events.Panel.NoView(modelsPanelID, mode.String())
		return nil
	}
	selector := spatial.ModelSelector()
	if selector == nil {
		return nil
	}
	all := p.modelIDs()
	switch mode {
	case Toggle:
		if model == nil {
			return nil
		}
		events.Panel.Select(modelsPanelID, mode.String(), []string{string(model.ID)})
		if selector.Has(model.ID) {
			selector.Drop(model.ID)
		} else {
			selector.Add(model.ID)
		}
	case SelectAll:
		events.Panel.Select(modelsPanelID, mode.String(), imodel.IDStrings(all))
		selector.Add(all...)
	case SelectNone:
		events.Panel.Select(modelsPanelID, mode.String(), imodel.IDStrings(all))
		selector.Drop(all...)
	default:
		return nil
	}
	if err := selector.Load(ctx); err != nil {
		return fmt.Errorf("apply model selection: %w", err)
	}
	return nil
}

// Activate handles a click on the row with key.
func (p *ModelsPanel) Activate(ctx context.Context, key string) error {
	switch key {
	case KeyAll:
		return p.Select(ctx, nil, SelectAll)
	case KeyNone:
		return p.Select(ctx, nil, SelectNone)
	}
	for _, model := range p.Models() {
		if string(model.ID) == key {
			return p.Select(ctx, &model, Toggle)
		}
	}
	return nil
}

// IsVisible reports whether id is in the active spatial view's model
// selector. It is false when the active view is not spatial.
func (p *ModelsPanel) IsVisible(id imodel.ID) bool {
	spatial, ok := view.ActiveSpatial(p.views)
	if !ok {
		return false
	}
	selector := spatial.ModelSelector()
	if selector == nil {
		return false
	}
	return selector.Has(id)
}

// ListPanel renders the All and None rows followed by one row per model.
func (p *ModelsPanel) ListPanel() ListPanel {
	models := p.Models()
	rows := headerRows(p.labels)
	for _, model := range models {
		selected := p.IsVisible(model.ID)
		rows = append(rows, Row{
			Key:      string(model.ID),
			Label:    model.Name,
			Selected: selected,
			Icon:     visibilityIcon(selected),
		})
	}
	return ListPanel{Title: p.Title(), Icon: IconModel, Rows: rows, Reloaded: p.reloaded}
}

func (p *ModelsPanel) modelIDs() []imodel.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]imodel.ID, len(p.models))
	for i, model := range p.models {
		ids[i] = model.ID
	}
	return ids
}
