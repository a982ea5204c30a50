package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/imodel-browser/internal/format/table"
	"github.com/atomicstack/imodel-browser/internal/panel"
	"github.com/atomicstack/imodel-browser/internal/snapshot"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	itemIndicator   = "▌"
	visibleMarker   = "●"
	hiddenMarker    = "○"
	headerSeparator = " › "
	tabSeparator    = "  "

	snapshotsFooter = "↑/↓ move  enter open  type to filter  esc quit"
	modelFooter     = "↑/↓ move  enter toggle  tab switch panel  esc close"
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text contains ANSI escapes; skip style wrapping, use ANSI-aware truncation
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.header()
	if m.mode == ModeChooseForm && m.chooseForm != nil {
		return m.viewChooseForm(header)
	}
	lines := make([]styledLine, 0, 16)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header, raw: m.screen == ScreenModel})
	}
	lines = append(lines, m.itemLines()...)
	if m.loading {
		label := m.pendingLabel
		if label == "" {
			label = "…"
		}
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: fmt.Sprintf("Loading %s", label), style: styles.Loading})
	}
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: m.footer(), style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	bottom := applyWidth([]styledLine{m.statusLine(), {text: m.filterPrompt(), raw: true}}, m.width)
	return renderLines(append(lines, bottom...))
}

func (m *Model) footer() string {
	if m.screen == ScreenModel {
		return modelFooter
	}
	return snapshotsFooter
}

func (m *Model) header() string {
	if m.screen == ScreenSnapshots {
		return snapshot.Title
	}
	tabs := make([]string, len(m.panels))
	for i, p := range m.panels {
		if i == m.activePanel {
			tabs[i] = renderStyle(styles.ActiveTab, "["+p.Title()+"]")
		} else {
			tabs[i] = renderStyle(styles.Tab, p.Title())
		}
	}
	title := m.documentName()
	if title == "" {
		return strings.Join(tabs, tabSeparator)
	}
	return renderStyle(styles.Title, title) + headerSeparator + strings.Join(tabs, tabSeparator)
}

func (m *Model) itemLines() []styledLine {
	current := m.currentLevel()
	if current == nil {
		return nil
	}
	m.syncViewport(current)
	if len(current.Items) == 0 {
		msg := "(no entries)"
		if current.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", current.Filter)
		}
		return []styledLine{{text: msg, style: styles.Info}}
	}
	start := 0
	displayItems := current.Items
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(displayItems) > maxItems {
		start = max(current.ViewportOffset, 0)
		if start+maxItems > len(displayItems) {
			start = max(len(displayItems)-maxItems, 0)
			current.ViewportOffset = start
		}
		displayItems = displayItems[start : start+maxItems]
	}

	var rows map[string]panel.Row
	if p := m.currentPanel(); p != nil {
		listed := p.ListPanel().Rows
		rows = make(map[string]panel.Row, len(listed))
		for _, row := range listed {
			rows[row.Key] = row
		}
	}
	cells := make([][]string, len(displayItems))
	for i, item := range displayItems {
		marker := ""
		if row, ok := rows[item.ID]; ok && !row.Bold {
			marker = hiddenMarker
			if row.Selected {
				marker = visibleMarker
			}
		}
		cells[i] = []string{item.Label, marker}
	}
	width := m.width
	if width > 0 {
		width -= len([]rune(itemIndicator)) + 1
	}
	formatted := table.FormatWidth(cells, []table.Alignment{table.AlignLeft, table.AlignRight}, width)

	lines := make([]styledLine, len(displayItems))
	for i, item := range displayItems {
		lines[i] = m.buildItemLine(formatted[i], item.Bold, start+i == current.Cursor, m.width)
	}
	return lines
}

// buildItemLine constructs a single styledLine for a list row. When width is
// positive the text is padded so the selected row's background spans it.
func (m *Model) buildItemLine(text string, bold, selected bool, width int) styledLine {
	lineStyle := styles.Item
	if bold {
		lineStyle = styles.BoldItem
	}
	indicatorStyle := styles.ItemIndicator
	if selected {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := itemIndicator + " " + text
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1,
	}
}

func renderStyle(style *lipgloss.Style, text string) string {
	if style == nil {
		return text
	}
	return style.Render(text)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	m.syncViewport(m.currentLevel())
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 3 // header + error/status + filter prompt
	if m.loading {
		used += 2
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	return max(m.height-used, 1)
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			text = ansi.Truncate(text, width, "…")
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			text = renderStyle(line.prefixStyle, head) + renderStyle(line.style, tail)
		} else {
			text = renderStyle(line.style, text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
