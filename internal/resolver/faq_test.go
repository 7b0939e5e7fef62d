package resolver

import (
	"testing"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

func faqFixture() []models.FaqEntry {
	return []models.FaqEntry{
		{ID: 1, Question: "Wat zijn de verzendkosten?", Answer: "Verzending binnen Nederland kost €3,95.", Status: models.StatusActive},
		{ID: 2, Question: "Wat zijn de verzendkosten naar België?", Answer: "Verzending naar België kost €6,95.", Status: models.StatusActive},
		{ID: 3, Question: "Kan ik retourneren?", Answer: "Retourneren kan binnen 14 dagen, verzendkosten betaal je zelf.", Status: models.StatusActive},
		{ID: 4, Question: "Hoe lang duurt de levering?", Answer: "Bestellingen worden binnen 1 tot 2 werkdagen geleverd.", Status: models.StatusActive},
		{ID: 5, Question: "Oude vraag over verzendkosten?", Answer: "Verouderd antwoord.", Status: models.StatusDeleted},
	}
}

func TestRankFAQExactSubstring(t *testing.T) {
	entries := faqFixture()

	got := RankFAQ(entries, "verzendkosten", []string{"verzendkosten"})
	if len(got) != MaxFAQResults {
		t.Fatalf("RankFAQ returned %d entries, want %d", len(got), MaxFAQResults)
	}

	// Question hits rank before answer-only hits; shorter questions first.
	if got[0].ID != 1 {
		t.Errorf("first entry ID = %d, want 1 (shortest question hit)", got[0].ID)
	}
	if got[1].ID != 2 {
		t.Errorf("second entry ID = %d, want 2", got[1].ID)
	}
}

func TestRankFAQAnswerOnlyHitRanksAfterQuestionHit(t *testing.T) {
	entries := []models.FaqEntry{
		{ID: 1, Question: "Hoe werkt retourneren?", Answer: "Gebruik het retourportaal.", Status: models.StatusActive},
		{ID: 2, Question: "Heb je nog vragen?", Answer: "Over retourneren lees je hier meer.", Status: models.StatusActive},
	}

	got := RankFAQ(entries, "retourneren", []string{"retourneren"})
	if len(got) != 2 {
		t.Fatalf("RankFAQ returned %d entries, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("order = [%d %d], want question hit first", got[0].ID, got[1].ID)
	}
}

func TestRankFAQTermFallback(t *testing.T) {
	entries := faqFixture()

	// The full message matches no entry as a substring; the term does.
	got := RankFAQ(entries, "hoelang moet ik wachten op levering", []string{"hoelang", "wachten", "levering"})
	if len(got) != 1 {
		t.Fatalf("RankFAQ returned %d entries, want 1", len(got))
	}
	if got[0].ID != 4 {
		t.Errorf("entry ID = %d, want 4", got[0].ID)
	}
}

func TestRankFAQSkipsDeletedEntries(t *testing.T) {
	entries := faqFixture()

	got := RankFAQ(entries, "verzendkosten", []string{"verzendkosten"})
	for _, e := range got {
		if e.ID == 5 {
			t.Error("RankFAQ returned a soft-deleted entry")
		}
	}
}

func TestRankFAQNoMatch(t *testing.T) {
	entries := faqFixture()

	if got := RankFAQ(entries, "openingstijden winkel", []string{"openingstijden", "winkel"}); len(got) != 0 {
		t.Errorf("RankFAQ returned %d entries for an unrelated message, want 0", len(got))
	}
	if got := RankFAQ(entries, "xyz", nil); len(got) != 0 {
		t.Errorf("RankFAQ returned %d entries with no substring hit and no terms, want 0", len(got))
	}
}
