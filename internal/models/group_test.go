package models

import (
	"testing"
)

func TestDecodeGroupToleratesSparseDocuments(t *testing.T) {
	// A document written by an older client: no status, no dietary, no blocks.
	g, err := DecodeGroup("abc", map[string]any{
		"teamName": "Legacy",
		"time":     "18:30",
		"teamSize": float64(4),
	})
	if err != nil {
		t.Fatalf("DecodeGroup failed: %v", err)
	}

	if g.ID != "abc" || g.TeamName != "Legacy" || g.TeamSize != 4 {
		t.Errorf("unexpected decode: %+v", g)
	}
	if g.Status.Brief || g.Status.Done {
		t.Error("missing status keys must decode as false")
	}
	for _, k := range DietaryKeys {
		if g.DietaryCount(k) != 0 {
			t.Errorf("missing dietary.%s must decode as 0", k)
		}
	}
	if g.Status.FullyComplete() {
		t.Error("sparse group must not read as fully complete")
	}
}

func TestFullyComplete(t *testing.T) {
	s := Status{Brief: true, Chkd: true, Food: true, Paid: true, Done: true}
	if !s.FullyComplete() {
		t.Error("all five flags set should be fully complete")
	}
	s.Paid = false
	if s.FullyComplete() {
		t.Error("four of five flags must not be fully complete")
	}
}

func TestDietarySummary(t *testing.T) {
	tests := []struct {
		name    string
		dietary map[string]int
		want    string
	}{
		{"empty", nil, ""},
		{"all zero", map[string]int{"gf": 0, "ve": 0}, ""},
		{"single", map[string]int{"ve": 1}, "1 VE"},
		{"board order", map[string]int{"nt": 1, "gf": 2}, "2 GF, 1 NT"},
		{"negative ignored", map[string]int{"gf": -1, "df": 3}, "3 DF"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Group{Dietary: tt.dietary}
			if got := g.DietarySummary(); got != tt.want {
				t.Errorf("DietarySummary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSortGroups(t *testing.T) {
	groups := []Group{
		{ID: "c", Time: "19:00", CreatedAt: 30},
		{ID: "a", Time: "18:00", CreatedAt: 20},
		{ID: "b", Time: "18:00", CreatedAt: 10},
	}
	SortGroups(groups)

	wantOrder := []string{"b", "a", "c"}
	for i, want := range wantOrder {
		if groups[i].ID != want {
			t.Errorf("position %d = %s, want %s", i, groups[i].ID, want)
		}
	}
}
