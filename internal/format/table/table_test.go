package table

import (
	"slices"
	"testing"
)

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"Piping", "0x1"},
		{"Equipment", "0x1f"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"Piping      0x1",
		"Equipment  0x1f",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("unexpected table:\n%q\nwant\n%q", got, want)
	}
}

func TestFormatWidthTruncatesFirstColumn(t *testing.T) {
	rows := [][]string{
		{"A very long category name", "0x1"},
		{"Short", "0x22"},
	}
	got := FormatWidth(rows, []Alignment{AlignLeft, AlignRight}, 16)
	for _, line := range got {
		if w := cellWidth(line); w > 16 {
			t.Fatalf("line %q is %d cells wide", line, w)
		}
	}
	if got[1] != "Short       0x22" {
		t.Fatalf("unexpected short row %q", got[1])
	}
}

func TestFormatRaggedRowsAndEmpty(t *testing.T) {
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
	got := Format([][]string{{"All"}, {"Site", "0x10"}}, nil)
	if !slices.Equal(got, []string{"All", "Site  0x10"}) {
		t.Fatalf("unexpected ragged table %q", got)
	}
}
