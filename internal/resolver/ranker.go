package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// Candidate gathering and scoring knobs.
const (
	// MinBroadResults is the result count under which the broad search is
	// widened with per-term fallback searches.
	MinBroadResults = 5
	// MaxCandidates caps the de-duplicated candidate set handed to scoring.
	MaxCandidates = 20
	// NameMatchBonus is added when a matched term also appears in the item name.
	NameMatchBonus = 3
	// DescriptionMatchBonus is added when a matched term also appears in either description.
	DescriptionMatchBonus = 2
	// RelevanceRatio scales the meaningful-term count into the relevance threshold.
	RelevanceRatio = 0.3
)

// exclusionTerms disqualify an item outright when they appear in its name.
// Generic gift bundles would otherwise crowd out specific-need queries.
var exclusionTerms = []string{
	"gift", "cadeau", "kado", "box", "pakket", "package", "set", "bundel", "bundle",
}

// RelevanceThreshold returns the minimum score an item needs to count as
// relevant for a query with the given number of meaningful terms. A query
// without meaningful terms has no relevant items; the caller must not score.
func RelevanceThreshold(meaningfulTermCount int) int {
	threshold := int(float64(meaningfulTermCount) * RelevanceRatio)
	if threshold < 1 {
		threshold = 1
	}
	return threshold
}

// ScoreItem computes the weighted term-overlap score of one item: 1 point per
// query term found anywhere in the combined searchable text, +3 when the term
// also appears in the name, +2 when it also appears in either description.
// One term can earn all three bonuses at once.
func ScoreItem(item models.CatalogItem, terms []string) (int, []string) {
	combined := item.SearchText()
	name := strings.ToLower(item.Name)
	short := strings.ToLower(item.ShortDescription)
	long := strings.ToLower(item.LongDescription)

	score := 0
	var matched []string
	for _, term := range terms {
		if !strings.Contains(combined, term) {
			continue
		}
		score++
		matched = append(matched, term)
		if strings.Contains(name, term) {
			score += NameMatchBonus
		}
		if strings.Contains(short, term) || strings.Contains(long, term) {
			score += DescriptionMatchBonus
		}
	}
	return score, matched
}

// IsExcluded reports whether the item name contains an exclusion term.
// Exclusion is absolute: score never overrides it.
func IsExcluded(item models.CatalogItem) bool {
	name := strings.ToLower(item.Name)
	for _, term := range exclusionTerms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// RankCatalog scores the candidates, drops excluded and sub-threshold items,
// and sorts the survivors by descending score. The sort is stable: ties keep
// the catalog search order.
func RankCatalog(candidates []models.CatalogItem, terms []string) []models.ScoredCandidate {
	if len(terms) == 0 {
		return nil
	}
	threshold := RelevanceThreshold(len(terms))

	var ranked []models.ScoredCandidate
	for _, item := range candidates {
		if IsExcluded(item) {
			continue
		}
		score, matched := ScoreItem(item, terms)
		if score < threshold {
			continue
		}
		ranked = append(ranked, models.ScoredCandidate{Item: item, Score: score, MatchedTerms: matched})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// searchCandidates gathers scoring candidates: a broad search over the joined
// meaningful terms, widened with per-term fallback searches when the broad
// search comes back thin, de-duplicated by identifier up to MaxCandidates.
func (r *Resolver) searchCandidates(ctx context.Context, norm NormalizedMessage) []models.CatalogItem {
	if len(norm.Terms) == 0 {
		return nil
	}

	broad, err := r.catalog.SearchCatalogItems(ctx, strings.Join(norm.Terms, " "))
	if err != nil {
		slog.Error("Resolver.searchCandidates: broad catalog search failed", "error", err)
		broad = nil
	}

	seen := make(map[int64]struct{}, len(broad))
	candidates := make([]models.CatalogItem, 0, len(broad))
	for _, item := range broad {
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}
		candidates = append(candidates, item)
	}

	if len(candidates) < MinBroadResults {
		for _, term := range norm.Terms {
			items, err := r.catalog.SearchCatalogItems(ctx, term)
			if err != nil {
				slog.Error("Resolver.searchCandidates: per-term catalog search failed", "error", err, "term", term)
				continue
			}
			for _, item := range items {
				if _, dup := seen[item.ID]; dup {
					continue
				}
				seen[item.ID] = struct{}{}
				candidates = append(candidates, item)
				if len(candidates) >= MaxCandidates {
					break
				}
			}
			if len(candidates) >= MaxCandidates {
				break
			}
		}
	}

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	slog.Debug("Resolver.searchCandidates: gathered candidates", "count", len(candidates))
	return candidates
}
