package order

import (
	"slices"
	"testing"
)

func TestStringsIgnoresCase(t *testing.T) {
	values := []string{"b.bim", "A.bim", "c.bim", "B2.bim"}
	Strings(values)
	want := []string{"A.bim", "b.bim", "B2.bim", "c.bim"}
	if !slices.Equal(values, want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
}

func TestCompareBaseStrength(t *testing.T) {
	if Compare("resume", "Résumé") != 0 {
		t.Fatalf("expected accents and case to be ignored")
	}
	if Compare("a", "B") >= 0 {
		t.Fatalf("expected a < B")
	}
	if Compare("Walls", "doors") <= 0 {
		t.Fatalf("expected Walls > doors")
	}
}

func TestByIsStableForEqualNames(t *testing.T) {
	type entry struct {
		id   int
		name string
	}
	items := []entry{{1, "beam"}, {2, "Beam"}, {3, "axis"}}
	By(items, func(e entry) string { return e.name })
	ids := []int{items[0].id, items[1].id, items[2].id}
	if !slices.Equal(ids, []int{3, 1, 2}) {
		t.Fatalf("expected stable order [3 1 2], got %v", ids)
	}
}
