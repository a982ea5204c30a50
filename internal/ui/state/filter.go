package state

import (
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter updates the filter query and its cursor. Starting a filter
// remembers the list cursor; clearing it restores that position.
func (l *Level) SetFilter(query string, cursor int) {
	trimmed := strings.TrimSpace(query)
	wasFiltering := strings.TrimSpace(l.Filter) != ""
	if trimmed != "" && !wasFiltering {
		l.LastCursor = l.Cursor
	}
	l.Filter = query
	l.FilterCursor = min(max(cursor, 0), len([]rune(query)))
	l.applyFilter()

	switch {
	case trimmed != "":
		l.Cursor = 0
		if idx := BestMatchIndex(l.Items, trimmed); idx >= 0 {
			l.Cursor = idx
		}
	case wasFiltering:
		if l.LastCursor >= 0 && l.LastCursor < len(l.Items) {
			l.Cursor = l.LastCursor
		}
		l.LastCursor = -1
	}
}

// ClearFilter drops the filter query.
func (l *Level) ClearFilter() bool {
	if l.Filter == "" {
		return false
	}
	l.SetFilter("", 0)
	return true
}

func (l *Level) applyFilter() {
	l.Items = FilterItems(l.Full, l.Filter)
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), len(l.Items)-1)
	if l.ViewportOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the rune offset of the filter cursor.
func (l *Level) FilterCursorPos() int {
	return min(max(l.FilterCursor, 0), len([]rune(l.Filter)))
}

// InsertFilterText inserts text into the filter at the cursor position.
func (l *Level) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes := []rune(l.Filter)
	pos := l.FilterCursorPos()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(updated, runes[:pos]...)
	updated = append(updated, insert...)
	updated = append(updated, runes[pos:]...)
	l.SetFilter(string(updated), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward deletes the rune before the filter cursor.
func (l *Level) DeleteFilterRuneBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	return l.cutFilter(pos-1, pos)
}

// DeleteFilterWordBackward deletes the word preceding the cursor.
func (l *Level) DeleteFilterWordBackward() bool {
	pos := l.FilterCursorPos()
	if pos == 0 {
		return false
	}
	return l.cutFilter(wordStart([]rune(l.Filter), pos), pos)
}

func (l *Level) cutFilter(from, to int) bool {
	runes := []rune(l.Filter)
	updated := make([]rune, 0, len(runes)-(to-from))
	updated = append(updated, runes[:from]...)
	updated = append(updated, runes[to:]...)
	l.SetFilter(string(updated), from)
	return true
}

// MoveFilterCursorStart moves the filter cursor to the start.
func (l *Level) MoveFilterCursorStart() bool {
	return l.moveFilterCursor(0)
}

// MoveFilterCursorEnd moves the filter cursor to the end.
func (l *Level) MoveFilterCursorEnd() bool {
	return l.moveFilterCursor(len([]rune(l.Filter)))
}

// MoveFilterCursorRuneBackward moves the filter cursor one rune backward.
func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.moveFilterCursor(l.FilterCursorPos() - 1)
}

// MoveFilterCursorRuneForward moves the filter cursor one rune forward.
func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.moveFilterCursor(l.FilterCursorPos() + 1)
}

// MoveFilterCursorWordBackward moves the filter cursor to the start of the
// previous word.
func (l *Level) MoveFilterCursorWordBackward() bool {
	return l.moveFilterCursor(wordStart([]rune(l.Filter), l.FilterCursorPos()))
}

func (l *Level) moveFilterCursor(pos int) bool {
	pos = min(max(pos, 0), len([]rune(l.Filter)))
	if pos == l.FilterCursorPos() {
		return false
	}
	l.FilterCursor = pos
	return true
}

func wordStart(runes []rune, pos int) int {
	i := pos
	for i > 0 && unicode.IsSpace(runes[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(runes[i-1]) {
		i--
	}
	return i
}

// FilterItems returns the pinned items plus the items whose label matches
// query, fuzzily first and by substring when nothing matches fuzzily.
func FilterItems(items []Item, query string) []Item {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return CloneItems(items)
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.Label
	}
	matches := make(map[int]struct{})
	for _, rank := range fuzzy.RankFindNormalizedFold(trimmed, labels) {
		matches[rank.OriginalIndex] = struct{}{}
	}
	if len(matches) == 0 {
		lower := strings.ToLower(trimmed)
		for i, label := range labels {
			if strings.Contains(strings.ToLower(label), lower) {
				matches[i] = struct{}{}
			}
		}
	}
	filtered := make([]Item, 0, len(matches))
	for i, item := range items {
		if _, ok := matches[i]; ok || item.Pinned {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex returns the index of the unpinned item that best matches
// query: an exact label, then a label prefix, then the closest fuzzy match,
// then the first unpinned item. It returns -1 when every item is pinned.
func BestMatchIndex(items []Item, query string) int {
	trimmed := strings.TrimSpace(query)
	lower := strings.ToLower(trimmed)
	candidates := make([]int, 0, len(items))
	for i, item := range items {
		if !item.Pinned {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	if trimmed == "" {
		return candidates[0]
	}
	for _, i := range candidates {
		if strings.EqualFold(items[i].Label, trimmed) {
			return i
		}
	}
	for _, i := range candidates {
		if strings.HasPrefix(strings.ToLower(items[i].Label), lower) {
			return i
		}
	}
	best, bestDistance := -1, 0
	for _, i := range candidates {
		distance := fuzzy.RankMatchNormalizedFold(trimmed, items[i].Label)
		if distance < 0 {
			continue
		}
		if best < 0 || distance < bestDistance {
			best, bestDistance = i, distance
		}
	}
	if best < 0 {
		return candidates[0]
	}
	return best
}
