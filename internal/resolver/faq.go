package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// MaxFAQResults caps how many FAQ entries one reply may contain.
const MaxFAQResults = 2

// FAQIndex is the read collaborator for authored FAQ entries. Implementations
// return active entries that broadly match the raw message or any of the
// filtered terms; the matcher ranks and trims the result.
type FAQIndex interface {
	SearchFAQ(ctx context.Context, raw string, terms []string) ([]models.FaqEntry, error)
}

type faqCandidate struct {
	entry      models.FaqEntry
	inQuestion bool
}

// matchFAQ runs the two-phase FAQ search and returns the rendered Q/A blocks,
// or an empty string when nothing matched.
func (r *Resolver) matchFAQ(ctx context.Context, norm NormalizedMessage) string {
	entries, err := r.faq.SearchFAQ(ctx, norm.Lower, norm.Terms)
	if err != nil {
		// Collaborator unavailable degrades to "no match", never fails the turn.
		slog.Error("Resolver.matchFAQ: FAQ search failed", "error", err)
		return ""
	}
	if len(entries) == 0 {
		return ""
	}

	ranked := RankFAQ(entries, norm.Lower, norm.Terms)
	if len(ranked) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(ranked))
	for _, e := range ranked {
		blocks = append(blocks, fmt.Sprintf("Vraag: %s\nAntwoord: %s", e.Question, e.Answer))
	}
	slog.Debug("Resolver.matchFAQ: matched entries", "count", len(ranked))
	return strings.Join(blocks, "\n\n")
}

// RankFAQ orders candidate FAQ entries against the message.
//
// Phase 1 keeps entries containing the full message as an exact substring in
// question or answer, question hits ranking before answer-only hits, then by
// ascending question length. Phase 2 runs only when phase 1 is empty and there
// are filtered terms: entries where any term appears in question or answer,
// by ascending question length. Both phases return at most MaxFAQResults.
func RankFAQ(entries []models.FaqEntry, lower string, terms []string) []models.FaqEntry {
	var phase1 []faqCandidate
	for _, e := range entries {
		if e.Status != models.StatusActive {
			continue
		}
		q := strings.ToLower(e.Question)
		a := strings.ToLower(e.Answer)
		if strings.Contains(q, lower) {
			phase1 = append(phase1, faqCandidate{entry: e, inQuestion: true})
		} else if strings.Contains(a, lower) {
			phase1 = append(phase1, faqCandidate{entry: e, inQuestion: false})
		}
	}
	if len(phase1) > 0 {
		sort.SliceStable(phase1, func(i, j int) bool {
			if phase1[i].inQuestion != phase1[j].inQuestion {
				return phase1[i].inQuestion
			}
			return len(phase1[i].entry.Question) < len(phase1[j].entry.Question)
		})
		return takeFAQ(phase1)
	}

	if len(terms) == 0 {
		return nil
	}

	var phase2 []faqCandidate
	for _, e := range entries {
		if e.Status != models.StatusActive {
			continue
		}
		q := strings.ToLower(e.Question)
		a := strings.ToLower(e.Answer)
		for _, term := range terms {
			if strings.Contains(q, term) || strings.Contains(a, term) {
				phase2 = append(phase2, faqCandidate{entry: e})
				break
			}
		}
	}
	sort.SliceStable(phase2, func(i, j int) bool {
		return len(phase2[i].entry.Question) < len(phase2[j].entry.Question)
	})
	return takeFAQ(phase2)
}

func takeFAQ(ranked []faqCandidate) []models.FaqEntry {
	out := make([]models.FaqEntry, 0, MaxFAQResults)
	for _, c := range ranked {
		out = append(out, c.entry)
		if len(out) == MaxFAQResults {
			break
		}
	}
	return out
}
