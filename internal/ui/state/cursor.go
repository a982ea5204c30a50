package state

// MoveCursorUp moves the cursor to the previous item, wrapping to the last.
func (l *Level) MoveCursorUp() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = (l.Cursor - 1 + n) % n
	return old != l.Cursor
}

// MoveCursorDown moves the cursor to the next item, wrapping to the first.
func (l *Level) MoveCursorDown() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = (l.Cursor + 1) % n
	return old != l.Cursor
}

// MoveCursorHome moves the cursor to the first item.
func (l *Level) MoveCursorHome() bool {
	return l.moveCursorTo(0)
}

// MoveCursorEnd moves the cursor to the last item.
func (l *Level) MoveCursorEnd() bool {
	return l.moveCursorTo(len(l.Items) - 1)
}

// MoveCursorPageUp moves the cursor up by the given page size.
func (l *Level) MoveCursorPageUp(maxVisible int) bool {
	return l.moveCursorTo(l.Cursor - l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by the given page size.
func (l *Level) MoveCursorPageDown(maxVisible int) bool {
	return l.moveCursorTo(l.Cursor + l.pageSize(maxVisible))
}

func (l *Level) moveCursorTo(idx int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = min(max(idx, 0), len(l.Items)-1)
	return l.Cursor != old
}

func (l *Level) pageSize(maxVisible int) int {
	total := len(l.Items)
	if maxVisible <= 0 || maxVisible > total {
		return max(total, 1)
	}
	return maxVisible
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := max(len(l.Items)-maxVisible, 0)
	l.ViewportOffset = min(max(l.ViewportOffset, 0), maxOffset)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if l.Cursor > l.ViewportOffset+maxVisible-1 {
		l.ViewportOffset = min(l.Cursor-maxVisible+1, maxOffset)
	}
}

// Visible returns the slice of items inside the viewport.
func (l *Level) Visible(maxVisible int) []Item {
	if maxVisible <= 0 || len(l.Items) <= maxVisible {
		return l.Items
	}
	start := min(max(l.ViewportOffset, 0), len(l.Items)-maxVisible)
	return l.Items[start : start+maxVisible]
}
