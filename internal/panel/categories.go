package panel

import (
	"context"
	"sync"

	"github.com/atomicstack/imodel-browser/internal/format/order"
	"github.com/atomicstack/imodel-browser/internal/imodel"
	"github.com/atomicstack/imodel-browser/internal/logging/events"
	"github.com/atomicstack/imodel-browser/internal/view"
	"golang.org/x/sync/errgroup"
)

const categoriesPanelID = "categories"

// CategoryInfo is a category listed by the categories panel.
type CategoryInfo struct {
	ID   imodel.ID
	Name string
}

// CategoriesPanel lists the categories used by 3D geometry and toggles their
// membership in the active view's category selector.
type CategoriesPanel struct {
	views    view.Provider
	labels   Labels
	reloaded *ReloadedEvent

	mu         sync.RWMutex
	source     imodel.Querier
	categories []CategoryInfo
	generation uint64
}

// NewCategoriesPanel returns a panel reading from source and mutating the
// view supplied by views.
func NewCategoriesPanel(source imodel.Querier, views view.Provider) *CategoriesPanel {
	return &CategoriesPanel{
		source:   source,
		views:    views,
		labels:   DefaultLabels,
		reloaded: NewReloadedEvent(),
	}
}

// Title names the panel.
func (p *CategoriesPanel) Title() string { return "Categories" }

// SetLabels replaces the All/None labels.
func (p *CategoriesPanel) SetLabels(labels Labels) { p.labels = labels }

// Reloaded fires after every completed load.
func (p *CategoriesPanel) Reloaded() *ReloadedEvent { return p.reloaded }

// SetSource swaps the connection the panel reads from. Callers reload after.
func (p *CategoriesPanel) SetSource(source imodel.Querier) {
	p.mu.Lock()
	p.source = source
	p.mu.Unlock()
}

// Load rebuilds the list from the source: categories referenced by 3D
// geometry that have a name, sorted by name. The list is cleared first. When
// a newer load starts before this one finishes, this one's result is dropped.
func (p *CategoriesPanel) Load(ctx context.Context) error {
	p.mu.Lock()
	p.generation++
	gen := p.generation
	source := p.source
	p.categories = nil
	p.mu.Unlock()
	events.Panel.LoadStart(categoriesPanelID, gen)

	var (
		categoryIDs []imodel.ID
		categories  []imodel.CategoryProps
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ids, err := imodel.Fetch3dCategoryIDs(gctx, source)
		categoryIDs = ids
		return err
	})
	g.Go(func() error {
		rows, err := imodel.FetchCategories(gctx, source)
		categories = rows
		return err
	})
	if err := g.Wait(); err != nil {
		if p.superseded(gen) {
			return nil
		}
		return err
	}

	list := buildCategoryList(categoryIDs, categories)

	p.mu.Lock()
	if gen != p.generation {
		current := p.generation
		p.mu.Unlock()
		events.Panel.Stale(categoriesPanelID, gen, current)
		return nil
	}
	p.categories = list
	p.mu.Unlock()
	events.Panel.Loaded(categoriesPanelID, gen, len(list))
	p.reloaded.Emit()
	return nil
}

// superseded reports whether a load newer than gen started or the list was
// cleared since. It traces the dropped load.
func (p *CategoriesPanel) superseded(gen uint64) bool {
	p.mu.RLock()
	current := p.generation
	p.mu.RUnlock()
	if gen == current {
		return false
	}
	events.Panel.Stale(categoriesPanelID, gen, current)
	return true
}

// Clear empties the list and drops the result of any load in flight.
func (p *CategoriesPanel) Clear() {
	p.mu.Lock()
	p.generation++
	p.categories = nil
	p.mu.Unlock()
}

// buildCategoryList keeps the categories whose id is referenced by geometry
// and whose name is non-empty, sorted by name.
func buildCategoryList(geometryIDs []imodel.ID, categories []imodel.CategoryProps) []CategoryInfo {
	used := make(map[imodel.ID]struct{}, len(geometryIDs))
	for _, id := range geometryIDs {
		if id.Valid() {
			used[id] = struct{}{}
		}
	}
	list := make([]CategoryInfo, 0, len(used))
	for _, category := range categories {
		if _, ok := used[category.ID]; !ok || category.CodeValue == "" {
			continue
		}
		list = append(list, CategoryInfo{ID: category.ID, Name: category.CodeValue})
	}
	order.By(list, func(c CategoryInfo) string { return c.Name })
	return list
}

// Categories returns a copy of the working list.
func (p *CategoriesPanel) Categories() []CategoryInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()
	dup := make([]CategoryInfo, len(p.categories))
	copy(dup, p.categories)
	return dup
}

// Select applies mode to the active view's category selector. Toggle needs a
// category; the other modes act on every listed category. Without an active
// spatial view nothing happens.
func (p *CategoriesPanel) Select(ctx context.Context, category *CategoryInfo, mode SelectionMode) error {
	spatial, ok := view.ActiveSpatial(p.views)
	if !ok {
		events.Panel.NoView(categoriesPanelID, mode.String())
		return nil
	}
	selector := spatial.CategorySelector()
	all := p.categoryIDs()
	switch mode {
	case Toggle:
		if category == nil {
			return nil
		}
		events.Panel.Select(categoriesPanelID, mode.String(), []string{string(category.ID)})
		if selector.Has(category.ID) {
			selector.Drop(category.ID)
		} else {
			selector.Add(category.ID)
		}
	case SelectAll:
		events.Panel.Select(categoriesPanelID, mode.String(), imodel.IDStrings(all))
		selector.Add(all...)
	case SelectNone:
		events.Panel.Select(categoriesPanelID, mode.String(), imodel.IDStrings(all))
		selector.Drop(all...)
	}
	return nil
}

// Activate handles a click on the row with key.
func (p *CategoriesPanel) Activate(ctx context.Context, key string) error {
	switch key {
	case KeyAll:
		return p.Select(ctx, nil, SelectAll)
	case KeyNone:
		return p.Select(ctx, nil, SelectNone)
	}
	for _, category := range p.Categories() {
		if string(category.ID) == key {
			return p.Select(ctx, &category, Toggle)
		}
	}
	return nil
}

// IsVisible reports whether id is in the active view's category selector.
func (p *CategoriesPanel) IsVisible(id imodel.ID) bool {
	if p.views == nil {
		return false
	}
	v := p.views.ActiveView()
	if v == nil {
		return false
	}
	selector := v.CategorySelector()
	if selector == nil {
		return false
	}
	return selector.Has(id)
}

// ListPanel renders the All and None rows followed by one row per category.
// Visibility is read from the selector on every call.
func (p *CategoriesPanel) ListPanel() ListPanel {
	categories := p.Categories()
	rows := headerRows(p.labels)
	for _, category := range categories {
		selected := p.IsVisible(category.ID)
		rows = append(rows, Row{
			Key:      string(category.ID),
			Label:    category.Name,
			Selected: selected,
			Icon:     visibilityIcon(selected),
		})
	}
	return ListPanel{Title: p.Title(), Icon: IconLayers, Rows: rows, Reloaded: p.reloaded}
}

func (p *CategoriesPanel) categoryIDs() []imodel.ID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]imodel.ID, len(p.categories))
	for i, category := range p.categories {
		ids[i] = category.ID
	}
	return ids
}
