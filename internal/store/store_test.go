package store

import (
	"context"
	"testing"
	"time"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

func TestInMemoryStoreFaqLifecycle(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	id1, err := st.AddFaqEntry(ctx, models.FaqEntry{Question: "Wat zijn de verzendkosten?", Answer: "€3,95"})
	if err != nil {
		t.Fatalf("AddFaqEntry failed: %v", err)
	}
	id2, err := st.AddFaqEntry(ctx, models.FaqEntry{Question: "Kan ik retourneren?", Answer: "Binnen 14 dagen."})
	if err != nil {
		t.Fatalf("AddFaqEntry failed: %v", err)
	}
	if id2 <= id1 {
		t.Errorf("ids not increasing: %d then %d", id1, id2)
	}

	entries, err := st.ListFaqEntries(ctx)
	if err != nil {
		t.Fatalf("ListFaqEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListFaqEntries returned %d entries, want 2", len(entries))
	}
	if entries[0].Status != models.StatusActive {
		t.Errorf("new entry status = %s, want %s", entries[0].Status, models.StatusActive)
	}

	if err := st.DeleteFaqEntry(ctx, id1); err != nil {
		t.Fatalf("DeleteFaqEntry failed: %v", err)
	}
	entries, _ = st.ListFaqEntries(ctx)
	if len(entries) != 1 || entries[0].ID != id2 {
		t.Errorf("after delete, list = %+v, want only entry %d", entries, id2)
	}

	// Soft-deleted entries never surface in search either.
	hits, err := st.SearchFAQ(ctx, "verzendkosten", []string{"verzendkosten"})
	if err != nil {
		t.Fatalf("SearchFAQ failed: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("SearchFAQ returned %d deleted entries", len(hits))
	}

	// Deleting an unknown id is a no-op.
	if err := st.DeleteFaqEntry(ctx, 999); err != nil {
		t.Errorf("DeleteFaqEntry(999) = %v, want nil", err)
	}
}

func TestInMemoryStoreSearchFAQ(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	st.AddFaqEntry(ctx, models.FaqEntry{Question: "Wat zijn de verzendkosten?", Answer: "€3,95"})
	st.AddFaqEntry(ctx, models.FaqEntry{Question: "Kan ik retourneren?", Answer: "Binnen 14 dagen via het retourportaal."})

	// Full-message substring hit.
	hits, _ := st.SearchFAQ(ctx, "verzendkosten", nil)
	if len(hits) != 1 {
		t.Errorf("substring search returned %d hits, want 1", len(hits))
	}

	// Term hit against the answer.
	hits, _ = st.SearchFAQ(ctx, "hoe werkt jullie retourportaal precies", []string{"retourportaal"})
	if len(hits) != 1 {
		t.Errorf("term search returned %d hits, want 1", len(hits))
	}

	hits, _ = st.SearchFAQ(ctx, "openingstijden", []string{"openingstijden"})
	if len(hits) != 0 {
		t.Errorf("unrelated search returned %d hits, want 0", len(hits))
	}
}

func TestInMemoryStoreIngredients(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	if err := st.AddIngredient(ctx, models.IngredientEntry{Name: "Hyaluronzuur", Description: "Houdt vocht vast."}); err != nil {
		t.Fatalf("AddIngredient failed: %v", err)
	}

	// Lookup is case-insensitive.
	entry, err := st.GetIngredient(ctx, "HYALURONZUUR")
	if err != nil {
		t.Fatalf("GetIngredient failed: %v", err)
	}
	if entry == nil || entry.Description != "Houdt vocht vast." {
		t.Fatalf("GetIngredient = %+v", entry)
	}

	// Absent names return nil, nil.
	entry, err = st.GetIngredient(ctx, "retinol")
	if err != nil || entry != nil {
		t.Errorf("GetIngredient(absent) = %+v, %v; want nil, nil", entry, err)
	}

	if err := st.DeleteIngredient(ctx, "hyaluronzuur"); err != nil {
		t.Fatalf("DeleteIngredient failed: %v", err)
	}
	entry, _ = st.GetIngredient(ctx, "hyaluronzuur")
	if entry != nil {
		t.Errorf("GetIngredient after delete = %+v, want nil", entry)
	}
	list, _ := st.ListIngredients(ctx)
	if len(list) != 0 {
		t.Errorf("ListIngredients after delete = %d entries, want 0", len(list))
	}
}

func TestInMemoryStoreSearchCatalogItems(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	items := []models.CatalogItem{
		{ID: 2, Name: "Vitamine C Serum", ShortDescription: "Verhelderend serum", Visible: true},
		{ID: 1, Name: "Hydraterend Serum", ShortDescription: "Serum met hyaluronzuur", Visible: true},
		{ID: 3, Name: "Verborgen Serum", Visible: false},
	}
	for _, item := range items {
		if err := st.UpsertCatalogItem(ctx, item); err != nil {
			t.Fatalf("UpsertCatalogItem failed: %v", err)
		}
	}

	// All query fields must match; results come back ordered by id.
	got, err := st.SearchCatalogItems(ctx, "serum")
	if err != nil {
		t.Fatalf("SearchCatalogItems failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("search returned %d items, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("order = [%d %d], want [1 2]", got[0].ID, got[1].ID)
	}

	got, _ = st.SearchCatalogItems(ctx, "serum hyaluronzuur")
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("multi-field search = %+v, want only item 1", got)
	}

	// An empty query matches nothing.
	got, _ = st.SearchCatalogItems(ctx, "   ")
	if len(got) != 0 {
		t.Errorf("empty query returned %d items, want 0", len(got))
	}
}

func TestInMemoryStoreGetCatalogItem(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	st.UpsertCatalogItem(ctx, models.CatalogItem{ID: 1, Name: "Hydraterend Serum", Visible: true})

	item, err := st.GetCatalogItem(ctx, 1)
	if err != nil || item == nil || item.Name != "Hydraterend Serum" {
		t.Errorf("GetCatalogItem(1) = %+v, %v", item, err)
	}

	item, err = st.GetCatalogItem(ctx, 99)
	if err != nil || item != nil {
		t.Errorf("GetCatalogItem(absent) = %+v, %v; want nil, nil", item, err)
	}
}

func TestInMemoryStoreNavStateTTL(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	current := base
	st.now = func() time.Time { return current }

	state := models.NavigationState{ConversationID: "conv-1", ItemIDs: []int64{1, 2}, TotalCount: 2}
	if err := st.SaveNavState(ctx, state, models.DefaultNavigationTTL); err != nil {
		t.Fatalf("SaveNavState failed: %v", err)
	}

	// Still live just inside the window.
	current = base.Add(29 * time.Minute)
	got, err := st.GetNavState(ctx, "conv-1")
	if err != nil {
		t.Fatalf("GetNavState failed: %v", err)
	}
	if got == nil {
		t.Fatal("state expired before its TTL")
	}

	// A save refreshes the deadline.
	if err := st.SaveNavState(ctx, state, models.DefaultNavigationTTL); err != nil {
		t.Fatalf("SaveNavState failed: %v", err)
	}
	current = base.Add(45 * time.Minute)
	if got, _ := st.GetNavState(ctx, "conv-1"); got == nil {
		t.Fatal("refreshed state expired too early")
	}

	// Past the refreshed deadline the state is gone and stays gone.
	current = base.Add(2 * time.Hour)
	if got, _ := st.GetNavState(ctx, "conv-1"); got != nil {
		t.Errorf("expired state still returned: %+v", got)
	}
	current = base
	if got, _ := st.GetNavState(ctx, "conv-1"); got != nil {
		t.Error("expired state was not removed on read")
	}
}

func TestInMemoryStoreNavStateDelete(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	state := models.NavigationState{ConversationID: "conv-1", ItemIDs: []int64{1}, TotalCount: 1}
	st.SaveNavState(ctx, state, time.Hour)

	if err := st.DeleteNavState(ctx, "conv-1"); err != nil {
		t.Fatalf("DeleteNavState failed: %v", err)
	}
	if got, _ := st.GetNavState(ctx, "conv-1"); got != nil {
		t.Errorf("state present after delete: %+v", got)
	}

	// Deleting absent state is a no-op.
	if err := st.DeleteNavState(ctx, "conv-unknown"); err != nil {
		t.Errorf("DeleteNavState(absent) = %v, want nil", err)
	}
}

func TestInMemoryStoreResolutionStats(t *testing.T) {
	st := NewInMemoryStore()
	ctx := context.Background()

	st.IncrementResolution(ctx, "conv-1", models.SourceCatalog)
	st.IncrementResolution(ctx, "conv-1", models.SourceCatalog)
	st.IncrementResolution(ctx, "conv-1", models.SourceNavigation)
	st.IncrementResolution(ctx, "conv-2", models.SourceCatalog)

	stats, err := st.GetResolutionStats(ctx)
	if err != nil {
		t.Fatalf("GetResolutionStats failed: %v", err)
	}
	if stats[models.SourceCatalog] != 3 {
		t.Errorf("catalog count = %d, want 3", stats[models.SourceCatalog])
	}
	if stats[models.SourceNavigation] != 1 {
		t.Errorf("navigation count = %d, want 1", stats[models.SourceNavigation])
	}
	if stats[models.SourceFAQ] != 0 {
		t.Errorf("faq count = %d, want 0", stats[models.SourceFAQ])
	}
}
