package game

import "testing"

func TestStandingsOrdering(t *testing.T) {
	scores := map[string]int{"A": 3, "B": 5, "C": 1}

	standings := Standings(scores)

	want := []Entry{{"B", 5}, {"A", 3}, {"C", 1}}
	if len(standings) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(standings))
	}
	for i, entry := range standings {
		if entry != want[i] {
			t.Fatalf("position %d: expected %v, got %v", i, want[i], entry)
		}
	}
}

func TestStandingsEmpty(t *testing.T) {
	if got := Standings(map[string]int{}); len(got) != 0 {
		t.Fatalf("expected empty standings, got %v", got)
	}
}

func TestStandingsDoesNotMutateInput(t *testing.T) {
	scores := map[string]int{"A": 3, "B": 5}
	_ = Standings(scores)
	if scores["A"] != 3 || scores["B"] != 5 {
		t.Fatalf("input map was modified: %v", scores)
	}
}
