package resolver

import (
	"strings"
	"testing"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

func TestNewNavigationState(t *testing.T) {
	ranked := []models.ScoredCandidate{
		{Item: models.CatalogItem{ID: 7}, Score: 9},
		{Item: models.CatalogItem{ID: 3}, Score: 6},
		{Item: models.CatalogItem{ID: 12}, Score: 1},
	}

	state := newNavigationState("conv-1", ranked)
	if state.ConversationID != "conv-1" {
		t.Errorf("ConversationID = %q", state.ConversationID)
	}
	if state.CurrentIndex != 0 {
		t.Errorf("CurrentIndex = %d, want 0", state.CurrentIndex)
	}
	if state.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", state.TotalCount)
	}
	want := []int64{7, 3, 12}
	for i, id := range want {
		if state.ItemIDs[i] != id {
			t.Errorf("ItemIDs[%d] = %d, want %d (rank order)", i, state.ItemIDs[i], id)
		}
	}
}

func TestDescriptionFor(t *testing.T) {
	longText := "Dit rijke serum bevat hyaluronzuur en trekt snel in zonder plakkerig gevoel."

	tests := []struct {
		name  string
		item  models.CatalogItem
		terms []string
		want  string
	}{
		{
			name:  "short description wins by default",
			item:  models.CatalogItem{ShortDescription: "Licht serum", LongDescription: longText},
			terms: []string{"serum"},
			want:  "Licht serum",
		},
		{
			name:  "long description wins when it mentions a term the short lacks",
			item:  models.CatalogItem{ShortDescription: "Licht serum", LongDescription: longText},
			terms: []string{"hyaluronzuur"},
			want:  longText,
		},
		{
			name: "long description used when short is empty",
			item: models.CatalogItem{LongDescription: longText},
			want: longText,
		},
		{
			name: "placeholder when no description at all",
			item: models.CatalogItem{},
			want: noDescriptionPlaceholder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := descriptionFor(tt.item, tt.terms); got != tt.want {
				t.Errorf("descriptionFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateWords(t *testing.T) {
	if got := truncateWords("een twee drie", 5); got != "een twee drie" {
		t.Errorf("truncateWords under limit = %q", got)
	}
	if got := truncateWords("een twee drie vier", 2); got != "een twee..." {
		t.Errorf("truncateWords over limit = %q", got)
	}
	if got := truncateWords("  een   twee  ", 5); got != "een twee" {
		t.Errorf("truncateWords whitespace = %q", got)
	}
}

func TestDescriptionForTruncatesLongDescription(t *testing.T) {
	words := make([]string, DescriptionWordLimit+10)
	for i := range words {
		words[i] = "woord"
	}
	item := models.CatalogItem{LongDescription: strings.Join(words, " ")}

	got := descriptionFor(item, nil)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long description not truncated: %q", got)
	}
	if n := len(strings.Fields(got)); n != DescriptionWordLimit {
		t.Errorf("truncated description has %d words, want %d", n, DescriptionWordLimit)
	}
}
