package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// NavStore is the ephemeral keyed store for navigation state, addressed by
// conversation id. Entries expire after the configured idle TTL; Get returns
// (nil, nil) for absent or expired state. The read-modify-write across one
// turn is not atomic; concurrent turns on the same conversation are
// last-writer-wins, accepted given negligible real concurrency per conversation.
type NavStore interface {
	GetNavState(ctx context.Context, conversationID string) (*models.NavigationState, error)
	SaveNavState(ctx context.Context, state models.NavigationState, ttl time.Duration) error
	DeleteNavState(ctx context.Context, conversationID string) error
}

// DescriptionWordLimit bounds the long description shown on a navigation card.
const DescriptionWordLimit = 50

// Placeholder shown when an item carries no usable description at all.
const noDescriptionPlaceholder = "Bekijk de productpagina voor meer informatie."

// newNavigationState pins the ranked identifiers of a fresh catalog query.
// Insertion order is rank order and stays fixed for the life of the state.
func newNavigationState(conversationID string, ranked []models.ScoredCandidate) models.NavigationState {
	ids := make([]int64, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.Item.ID)
	}
	now := time.Now()
	return models.NavigationState{
		ConversationID: conversationID,
		ItemIDs:        ids,
		CurrentIndex:   0,
		TotalCount:     len(ids),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// renderNavigation shows the item at the state's cursor. Stored identifiers
// are re-resolved against the live catalog and filtered to currently-visible
// items; an item hidden or removed since the query silently drops out of the
// sequence. TotalCount is not recomputed, so the "N van M" counter may go
// stale when the catalog shrinks. Returns "" when every stored item is gone.
func (r *Resolver) renderNavigation(ctx context.Context, state *models.NavigationState, terms []string) string {
	var visible []models.CatalogItem
	for _, id := range state.ItemIDs {
		item, err := r.catalog.GetCatalogItem(ctx, id)
		if err != nil {
			slog.Error("Resolver.renderNavigation: catalog item fetch failed", "error", err, "item_id", id)
			continue
		}
		if item == nil || !item.Visible {
			continue
		}
		visible = append(visible, *item)
	}
	if len(visible) == 0 {
		slog.Debug("Resolver.renderNavigation: no visible items remain", "conversation_id", state.ConversationID)
		return ""
	}

	idx := state.CurrentIndex
	if idx >= len(visible) {
		idx = len(visible) - 1
	}
	item := visible[idx]

	var b strings.Builder
	b.WriteString(item.Name)
	b.WriteString("\n")
	b.WriteString(descriptionFor(item, terms))
	if item.Permalink != "" {
		fmt.Fprintf(&b, "\n%s", item.Permalink)
	}
	fmt.Fprintf(&b, "\n\nProduct %d van %d", idx+1, state.TotalCount)
	if state.AtLastItem() {
		b.WriteString("\nDit was de laatste match. Stel een nieuwe vraag om opnieuw te zoeken.")
	} else {
		b.WriteString("\nTyp 'volgende' om het volgende product te zien.")
	}
	return b.String()
}

// descriptionFor picks the card description. The truncated long description is
// preferred only when it mentions a query term the short description lacks;
// otherwise the short description wins, then the truncated long description,
// then a generic placeholder.
func descriptionFor(item models.CatalogItem, terms []string) string {
	long := strings.TrimSpace(item.LongDescription)
	short := strings.TrimSpace(item.ShortDescription)

	if long != "" && short != "" {
		lowerLong := strings.ToLower(long)
		lowerShort := strings.ToLower(short)
		for _, term := range terms {
			if strings.Contains(lowerLong, term) && !strings.Contains(lowerShort, term) {
				return truncateWords(long, DescriptionWordLimit)
			}
		}
	}
	if short != "" {
		return short
	}
	if long != "" {
		return truncateWords(long, DescriptionWordLimit)
	}
	return noDescriptionPlaceholder
}

// truncateWords cuts text to at most limit words, appending an ellipsis when truncated.
func truncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + "..."
}
