package ui

import (
	"unicode"

	"github.com/atomicstack/imodel-browser/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	filterPromptText      = "» "
	filterPlaceholderText = "(type to search)"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l != nil && before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// handleTextInput applies filter editing keys to the current list. Both the
// snapshot list and the panels filter by label. Input is ignored while an
// action is pending.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	if m.loading {
		return false, nil
	}
	current := m.currentLevel()
	if current == nil {
		return false, nil
	}
	switch msg.String() {
	case "ctrl+u":
		return m.editFilter(current, events.FilterClear, func() bool {
			if current.Filter == "" {
				return false
			}
			current.SetFilter("", 0)
			return true
		}), nil
	case "ctrl+w":
		return m.editFilter(current, events.FilterWordBackspace, current.DeleteFilterWordBackward), nil
	case "ctrl+a":
		return m.moveFilterCursor(current, current.MoveFilterCursorStart, false), nil
	case "ctrl+e":
		return m.moveFilterCursor(current, current.MoveFilterCursorEnd, false), nil
	case "alt+b":
		return m.moveFilterCursor(current, current.MoveFilterCursorWordBackward, true), nil
	}

	var text string
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.editFilter(current, events.FilterBackspace, current.DeleteFilterRuneBackward), nil
	case tea.KeyLeft:
		return m.moveFilterCursor(current, current.MoveFilterCursorRuneBackward, false), nil
	case tea.KeyRight:
		return m.moveFilterCursor(current, current.MoveFilterCursorRuneForward, false), nil
	case tea.KeySpace:
		text = " "
	case tea.KeyRunes:
		if msg.Alt || !printable(msg.Runes) {
			return false, nil
		}
		text = string(msg.Runes)
	default:
		return false, nil
	}
	return m.editFilter(current, events.FilterAppend, func() bool {
		return current.InsertFilterText(text)
	}), nil
}

func printable(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// editFilter runs edit against the level's filter. When the filter changed
// the list is refiltered, stale status text is dropped and the edit traced.
func (m *Model) editFilter(current *level, kind events.FilterEdit, edit func() bool) bool {
	before := current.FilterCursorPos()
	if !edit() {
		return false
	}
	m.noteFilterCursorChange(current, before)
	m.info.reset()
	m.errMsg = ""
	m.syncViewport(current)
	events.Filter.Edit(kind, current.ID, current.Filter)
	return true
}

func (m *Model) moveFilterCursor(current *level, move func() bool, byWord bool) bool {
	before := current.FilterCursorPos()
	if !move() {
		return false
	}
	m.noteFilterCursorChange(current, before)
	events.Filter.Cursor(current.ID, current.FilterCursor, byWord)
	return true
}

// filterPrompt renders the bottom prompt line: the prompt glyph, the filter
// text with the cursor drawn over the rune at the cursor position, or the
// placeholder when the filter is empty.
func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	if current == nil {
		return filterPromptText
	}
	styled := func(style *lipgloss.Style, value string) string {
		if value == "" {
			return ""
		}
		return renderStyle(style, value)
	}
	prompt := styled(styles.FilterPrompt, filterPromptText)

	runes := []rune(current.Filter)
	if len(runes) == 0 {
		m.setCursorTextStyle(styles.FilterPlaceholder)
		placeholder := []rune(filterPlaceholderText)
		return prompt + m.renderFilterCursor(string(placeholder[:1])) + styled(styles.FilterPlaceholder, string(placeholder[1:]))
	}

	m.setCursorTextStyle(styles.Filter)
	pos := min(max(current.FilterCursorPos(), 0), len(runes))
	caret, after := " ", ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = styled(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + styled(styles.Filter, string(runes[:pos])) + m.renderFilterCursor(caret) + after
}

func (m *Model) setCursorTextStyle(style *lipgloss.Style) {
	if style == nil {
		m.filterCursor.TextStyle = lipgloss.Style{}
		return
	}
	m.filterCursor.TextStyle = style.Copy()
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy().Inline(true)
	switch {
	case m.filterCursor.Blink:
		return base.Render(char)
	case styles.Cursor != nil:
		return base.Inherit(styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	default:
		return base.Reverse(true).Render(char)
	}
}
