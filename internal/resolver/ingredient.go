package resolver

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// IngredientKB is the read collaborator for the ingredient knowledge base.
// Lookup is by case-insensitive name; absent entries return (nil, nil).
type IngredientKB interface {
	GetIngredient(ctx context.Context, name string) (*models.IngredientEntry, error)
}

// Catalog is the read collaborator for product snapshots. SearchCatalogItems
// returns visible items matching the query text in stable (identifier) order;
// GetCatalogItem returns (nil, nil) for unknown identifiers.
type Catalog interface {
	SearchCatalogItems(ctx context.Context, query string) ([]models.CatalogItem, error)
	GetCatalogItem(ctx context.Context, id int64) (*models.CatalogItem, error)
}

// genericIngredientBenefit is used when an ingredient is mentioned in the
// catalog but has no authored knowledge-base entry.
const genericIngredientBenefit = "Dit ingrediënt wordt gebruikt in cosmetische producten vanwege de verzorgende eigenschappen voor de huid."

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// resolveIngredient answers an ingredient question. It returns an empty string
// when no ingredient name could be resolved; the caller treats that as
// "no match", not as an error.
func (r *Resolver) resolveIngredient(ctx context.Context, norm NormalizedMessage) string {
	classified, name := ExtractIngredientCandidate(norm.Lower)
	if !classified {
		return ""
	}
	if name == "" {
		name = r.ingredientNameFromCatalog(ctx, norm)
	}
	if name == "" {
		slog.Debug("Resolver.resolveIngredient: no ingredient name resolved")
		return ""
	}

	benefit := r.ingredientBenefitText(ctx, name)
	matches := r.productsMentioning(ctx, name)

	var b strings.Builder
	fmt.Fprintf(&b, "Over %s:\n%s", name, benefit)
	if len(matches) > 0 {
		fmt.Fprintf(&b, "\n\nProducten met %s:", name)
		for _, item := range matches {
			price := CleanPriceText(item.Price)
			if price != "" {
				fmt.Fprintf(&b, "\n• %s (%s)", item.Name, price)
			} else {
				fmt.Fprintf(&b, "\n• %s", item.Name)
			}
			if item.Permalink != "" {
				fmt.Fprintf(&b, "\n  %s", item.Permalink)
			}
		}
	}

	slog.Info("Resolver.resolveIngredient: answered ingredient question", "ingredient", name, "products", len(matches))
	return b.String()
}

// ingredientNameFromCatalog is the extraction fallback: scan catalog items for
// a filtered message term that also appears in an item's combined text.
// Terms are tried in message order and items in store order, so the outcome is
// deterministic for a stable catalog ordering.
func (r *Resolver) ingredientNameFromCatalog(ctx context.Context, norm NormalizedMessage) string {
	for _, term := range norm.Terms {
		items, err := r.catalog.SearchCatalogItems(ctx, term)
		if err != nil {
			slog.Error("Resolver.ingredientNameFromCatalog: catalog search failed", "error", err, "term", term)
			continue
		}
		for _, item := range items {
			if strings.Contains(item.SearchText(), term) {
				slog.Debug("Resolver.ingredientNameFromCatalog: resolved from catalog text", "term", term, "item_id", item.ID)
				return term
			}
		}
	}
	return ""
}

// ingredientBenefitText looks up the resolved name in the knowledge base.
// Preference order: description field, joined benefits list, generic placeholder.
func (r *Resolver) ingredientBenefitText(ctx context.Context, name string) string {
	entry, err := r.kb.GetIngredient(ctx, name)
	if err != nil {
		slog.Error("Resolver.ingredientBenefitText: knowledge base lookup failed", "error", err, "name", name)
		return genericIngredientBenefit
	}
	if entry == nil || entry.Status != models.StatusActive {
		return genericIngredientBenefit
	}
	if entry.Description != "" {
		return entry.Description
	}
	if len(entry.Benefits) > 0 {
		return strings.Join(entry.Benefits, ". ") + "."
	}
	return genericIngredientBenefit
}

// productsMentioning returns catalog items whose combined name and description
// text contains the ingredient name, case-insensitive. Categories and tags are
// not consulted; a product only qualifies when its own copy mentions the
// ingredient.
func (r *Resolver) productsMentioning(ctx context.Context, name string) []models.CatalogItem {
	lowerName := strings.ToLower(name)
	items, err := r.catalog.SearchCatalogItems(ctx, lowerName)
	if err != nil {
		slog.Error("Resolver.productsMentioning: catalog search failed", "error", err, "name", name)
		return nil
	}
	var matches []models.CatalogItem
	for _, item := range items {
		mentionText := strings.ToLower(item.Name + " " + item.ShortDescription + " " + item.LongDescription)
		if strings.Contains(mentionText, lowerName) {
			matches = append(matches, item)
		}
	}
	return matches
}

// CleanPriceText strips shop display markup from a price representation:
// HTML entities are decoded, tags removed, and whitespace collapsed.
func CleanPriceText(price string) string {
	cleaned := htmlTagRegex.ReplaceAllString(html.UnescapeString(price), "")
	return strings.Join(strings.Fields(cleaned), " ")
}
