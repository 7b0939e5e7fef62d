package resolver

import (
	"reflect"
	"testing"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

func TestRelevanceThreshold(t *testing.T) {
	tests := []struct {
		terms int
		want  int
	}{
		{0, 1},
		{1, 1},
		{3, 1},
		{4, 1},
		{7, 2},
		{10, 3},
	}

	for _, tt := range tests {
		if got := RelevanceThreshold(tt.terms); got != tt.want {
			t.Errorf("RelevanceThreshold(%d) = %d, want %d", tt.terms, got, tt.want)
		}
	}
}

func TestScoreItem(t *testing.T) {
	item := models.CatalogItem{
		ID:               1,
		Name:             "Hydraterend Serum",
		ShortDescription: "Serum met hyaluronzuur",
		LongDescription:  "Een licht serum voor de droge huid.",
		Tags:             []string{"nacht"},
	}

	tests := []struct {
		name        string
		terms       []string
		wantScore   int
		wantMatched []string
	}{
		{
			name:        "term in name and descriptions",
			terms:       []string{"serum"},
			wantScore:   1 + NameMatchBonus + DescriptionMatchBonus,
			wantMatched: []string{"serum"},
		},
		{
			name:        "term only in description",
			terms:       []string{"hyaluronzuur"},
			wantScore:   1 + DescriptionMatchBonus,
			wantMatched: []string{"hyaluronzuur"},
		},
		{
			name:        "term only in tags",
			terms:       []string{"nacht"},
			wantScore:   1,
			wantMatched: []string{"nacht"},
		},
		{
			name:        "unmatched term scores nothing",
			terms:       []string{"shampoo"},
			wantScore:   0,
			wantMatched: nil,
		},
		{
			name:        "scores accumulate per term",
			terms:       []string{"serum", "huid", "shampoo"},
			wantScore:   (1 + NameMatchBonus + DescriptionMatchBonus) + (1 + DescriptionMatchBonus),
			wantMatched: []string{"serum", "huid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, matched := ScoreItem(item, tt.terms)
			if score != tt.wantScore {
				t.Errorf("score = %d, want %d", score, tt.wantScore)
			}
			if !reflect.DeepEqual(matched, tt.wantMatched) {
				t.Errorf("matched = %v, want %v", matched, tt.wantMatched)
			}
		})
	}
}

func TestIsExcluded(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Cadeaubox Verwenmoment", true},
		{"Gift Set Deluxe", true},
		{"Voordeelpakket Winter", true},
		{"Hydraterend Serum", false},
		{"Nachtcrème Rijk", false},
	}

	for _, tt := range tests {
		item := models.CatalogItem{ID: 1, Name: tt.name}
		if got := IsExcluded(item); got != tt.want {
			t.Errorf("IsExcluded(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestRankCatalog(t *testing.T) {
	candidates := []models.CatalogItem{
		{ID: 1, Name: "Reinigingsgel Mild", ShortDescription: "Milde reiniging"},
		{ID: 2, Name: "Hydraterend Serum", ShortDescription: "Serum met hyaluronzuur"},
		{ID: 3, Name: "Cadeauset Serum Deluxe", ShortDescription: "Serum als cadeau"},
		{ID: 4, Name: "Vitamine C Serum", ShortDescription: "Verhelderend serum"},
	}

	ranked := RankCatalog(candidates, []string{"serum"})

	// The gift set is excluded outright and the gel scores zero.
	if len(ranked) != 2 {
		t.Fatalf("RankCatalog returned %d candidates, want 2", len(ranked))
	}
	for _, c := range ranked {
		if c.Item.ID == 3 {
			t.Error("excluded gift item survived ranking")
		}
		if c.Item.ID == 1 {
			t.Error("zero-score item survived ranking")
		}
	}

	// Equal scores keep search order.
	if ranked[0].Item.ID != 2 || ranked[1].Item.ID != 4 {
		t.Errorf("order = [%d %d], want [2 4]", ranked[0].Item.ID, ranked[1].Item.ID)
	}
}

func TestRankCatalogSortsByDescendingScore(t *testing.T) {
	candidates := []models.CatalogItem{
		{ID: 1, Name: "Bodylotion", ShortDescription: "Voor de droge huid"},
		{ID: 2, Name: "Huidolie Droge Huid", ShortDescription: "Olie voor de droge huid"},
	}

	ranked := RankCatalog(candidates, []string{"droge", "huid"})
	if len(ranked) != 2 {
		t.Fatalf("RankCatalog returned %d candidates, want 2", len(ranked))
	}
	if ranked[0].Item.ID != 2 {
		t.Errorf("highest scoring item = %d, want 2", ranked[0].Item.ID)
	}
	if ranked[0].Score <= ranked[1].Score {
		t.Errorf("scores not descending: %d then %d", ranked[0].Score, ranked[1].Score)
	}
}

func TestRankCatalogNoTerms(t *testing.T) {
	candidates := []models.CatalogItem{{ID: 1, Name: "Hydraterend Serum"}}
	if got := RankCatalog(candidates, nil); got != nil {
		t.Errorf("RankCatalog with no terms = %v, want nil", got)
	}
}
