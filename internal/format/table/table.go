// Package table aligns list rows into columns.
package table

import (
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

const gap = "  "

// Format returns the rows padded according to the widest entry in each
// column. Trailing blanks are trimmed.
func Format(rows [][]string, alignments []Alignment) []string {
	return FormatWidth(rows, alignments, 0)
}

// FormatWidth is Format with every line kept within maxWidth cells by
// truncating the first column. A maxWidth of zero or less disables the limit.
func FormatWidth(rows [][]string, alignments []Alignment, maxWidth int) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	widths := make([]int, colCount)
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], cellWidth(cell))
		}
	}
	if maxWidth > 0 && colCount > 0 {
		total := (colCount - 1) * len(gap)
		for _, w := range widths {
			total += w
		}
		if over := total - maxWidth; over > 0 {
			widths[0] = max(widths[0]-over, 1)
		}
	}
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c := 0; c < colCount; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			if c > 0 {
				b.WriteString(gap)
			}
			if cellWidth(cell) > widths[c] {
				cell = truncate.StringWithTail(cell, uint(widths[c]), "…")
			}
			pad := widths[c] - cellWidth(cell)
			if c < len(alignments) && alignments[c] == AlignRight {
				writeSpaces(&b, pad)
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				writeSpaces(&b, pad)
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}

func cellWidth(text string) int {
	return ansi.PrintableRuneWidth(text)
}

func writeSpaces(b *strings.Builder, count int) {
	if count <= 0 {
		return
	}
	b.WriteString(strings.Repeat(" ", count))
}
