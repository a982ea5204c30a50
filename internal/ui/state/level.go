package state

// Level holds the list state of one screen or panel: the full and filtered
// items, the cursor, the filter and the viewport offset.
type Level struct {
	ID             string
	Title          string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a Level holding items with the cursor on the first one.
func NewLevel(id, title string, items []Item) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		LastCursor: -1,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the index of the visible item with the given id.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Current returns the item under the cursor.
func (l *Level) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the items. The cursor stays on the item it was on when
// that item is still visible.
func (l *Level) UpdateItems(items []Item) {
	current, hadCurrent := l.Current()
	prevOffset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if hadCurrent {
		if idx := l.IndexOf(current.ID); idx >= 0 {
			l.Cursor = idx
		}
	}
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}
