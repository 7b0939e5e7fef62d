package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// joinList flattens a string list into one column value.
func joinList(values []string) string {
	return strings.Join(values, "|")
}

// splitList reverses joinList; empty columns yield a nil slice.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, "|")
}

// formatIDList flattens catalog item identifiers for the nav_states column.
func formatIDList(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}

// parseIDList reverses formatIDList.
func parseIDList(value string) ([]int64, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// scanFaqEntries reads FaqEntry rows.
func scanFaqEntries(rows *sql.Rows) ([]models.FaqEntry, error) {
	var out []models.FaqEntry
	for rows.Next() {
		var e models.FaqEntry
		if err := rows.Scan(&e.ID, &e.Question, &e.Answer, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan faq row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// scanCatalogItems reads CatalogItem rows.
func scanCatalogItems(rows *sql.Rows) ([]models.CatalogItem, error) {
	var out []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		var categories, tags string
		var visible int
		if err := rows.Scan(&item.ID, &item.Name, &item.ShortDescription, &item.LongDescription,
			&categories, &tags, &visible, &item.Permalink, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		item.Categories = splitList(categories)
		item.Tags = splitList(tags)
		item.Visible = visible != 0
		out = append(out, item)
	}
	return out, rows.Err()
}

// scanPostgresCatalogItems reads CatalogItem rows with a native boolean
// visibility column.
func scanPostgresCatalogItems(rows *sql.Rows) ([]models.CatalogItem, error) {
	var out []models.CatalogItem
	for rows.Next() {
		var item models.CatalogItem
		var categories, tags string
		if err := rows.Scan(&item.ID, &item.Name, &item.ShortDescription, &item.LongDescription,
			&categories, &tags, &item.Visible, &item.Permalink, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		item.Categories = splitList(categories)
		item.Tags = splitList(tags)
		out = append(out, item)
	}
	return out, rows.Err()
}

// scanCatalogItemRow reads one CatalogItem from a single row query.
// Returns sql.ErrNoRows unchanged so callers can map it to absence.
func scanCatalogItemRow(row *sql.Row) (*models.CatalogItem, error) {
	var item models.CatalogItem
	var categories, tags string
	var visible int
	err := row.Scan(&item.ID, &item.Name, &item.ShortDescription, &item.LongDescription,
		&categories, &tags, &visible, &item.Permalink, &item.Price)
	if err != nil {
		return nil, err
	}
	item.Categories = splitList(categories)
	item.Tags = splitList(tags)
	item.Visible = visible != 0
	return &item, nil
}
