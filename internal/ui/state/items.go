package state

// Item is one selectable row of a level. Pinned items (the All/None and
// Choose File rows) survive filtering.
type Item struct {
	ID     string
	Label  string
	Bold   bool
	Pinned bool
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
