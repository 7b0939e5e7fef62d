// Package store provides storage backends for the chatai resolver service.
//
// This file implements the SQLite-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "embed"

	"github.com/Nellyj1/chatai-sub002/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// Constants for SQLite store configuration
const (
	// DefaultDirPermissions defines the default permissions for database directories
	DefaultDirPermissions = 0755
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given DSN.
// The DSN should be a file path to the SQLite database file.
// If the directory doesn't exist, it will be created.
func NewSQLiteStore(opts ...Option) (*SQLiteStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewSQLiteStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("SQLiteStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	dir := filepath.Dir(dsn)
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		slog.Error("Failed to create database directory", "error", err, "dir", dir)
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		slog.Error("Failed to open SQLite connection", "error", err)
		return nil, err
	}
	if err := db.Ping(); err != nil {
		slog.Error("SQLite ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running SQLite migrations")
	if _, err := db.Exec(sqliteMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("SQLite migrations applied successfully")

	return &SQLiteStore{db: db}, nil
}

// SearchFAQ returns active entries where the full message appears in question
// or answer, or where any filtered term does.
func (s *SQLiteStore) SearchFAQ(ctx context.Context, raw string, terms []string) ([]models.FaqEntry, error) {
	conds := []string{"(instr(lower(question), ?) > 0 OR instr(lower(answer), ?) > 0)"}
	lowerRaw := strings.ToLower(raw)
	args := []interface{}{lowerRaw, lowerRaw}
	for _, term := range terms {
		conds = append(conds, "(instr(lower(question), ?) > 0 OR instr(lower(answer), ?) > 0)")
		args = append(args, term, term)
	}

	query := `SELECT id, question, answer, status FROM faq_entries
		WHERE status = 'active' AND (` + strings.Join(conds, " OR ") + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("SQLiteStore SearchFAQ query failed", "error", err)
		return nil, fmt.Errorf("failed to search faq entries: %w", err)
	}
	defer rows.Close()

	return scanFaqEntries(rows)
}

// ListFaqEntries returns all active FAQ entries ordered by id.
func (s *SQLiteStore) ListFaqEntries(ctx context.Context) ([]models.FaqEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, question, answer, status FROM faq_entries WHERE status = 'active' ORDER BY id`)
	if err != nil {
		slog.Error("SQLiteStore ListFaqEntries query failed", "error", err)
		return nil, fmt.Errorf("failed to list faq entries: %w", err)
	}
	defer rows.Close()

	return scanFaqEntries(rows)
}

// AddFaqEntry inserts a new FAQ entry and returns its assigned id.
func (s *SQLiteStore) AddFaqEntry(ctx context.Context, entry models.FaqEntry) (int64, error) {
	status := entry.Status
	if status == "" {
		status = models.StatusActive
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO faq_entries (question, answer, status) VALUES (?, ?, ?)`,
		entry.Question, entry.Answer, string(status))
	if err != nil {
		slog.Error("SQLiteStore AddFaqEntry failed", "error", err)
		return 0, fmt.Errorf("failed to insert faq entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted faq id: %w", err)
	}
	slog.Debug("SQLiteStore AddFaqEntry succeeded", "id", id)
	return id, nil
}

// DeleteFaqEntry soft-deletes a FAQ entry by id.
func (s *SQLiteStore) DeleteFaqEntry(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE faq_entries SET status = 'deleted' WHERE id = ?`, id)
	if err != nil {
		slog.Error("SQLiteStore DeleteFaqEntry failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete faq entry %d: %w", id, err)
	}
	return nil
}

// GetIngredient looks up an active ingredient by case-insensitive name.
func (s *SQLiteStore) GetIngredient(ctx context.Context, name string) (*models.IngredientEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, description, benefits, status FROM ingredients WHERE name = ? COLLATE NOCASE AND status = 'active'`, name)

	var e models.IngredientEntry
	var benefits string
	err := row.Scan(&e.Name, &e.Description, &benefits, &e.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetIngredient failed", "error", err, "name", name)
		return nil, fmt.Errorf("failed to get ingredient %q: %w", name, err)
	}
	e.Benefits = splitList(benefits)
	return &e, nil
}

// ListIngredients returns all active ingredient entries ordered by name.
func (s *SQLiteStore) ListIngredients(ctx context.Context) ([]models.IngredientEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, description, benefits, status FROM ingredients WHERE status = 'active' ORDER BY name`)
	if err != nil {
		slog.Error("SQLiteStore ListIngredients query failed", "error", err)
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var out []models.IngredientEntry
	for rows.Next() {
		var e models.IngredientEntry
		var benefits string
		if err := rows.Scan(&e.Name, &e.Description, &benefits, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient row: %w", err)
		}
		e.Benefits = splitList(benefits)
		out = append(out, e)
	}
	return out, rows.Err()
}

// AddIngredient inserts or replaces an ingredient entry.
func (s *SQLiteStore) AddIngredient(ctx context.Context, entry models.IngredientEntry) error {
	status := entry.Status
	if status == "" {
		status = models.StatusActive
	}
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO ingredients (name, description, benefits, status) VALUES (?, ?, ?, ?)`,
		entry.Name, entry.Description, joinList(entry.Benefits), string(status))
	if err != nil {
		slog.Error("SQLiteStore AddIngredient failed", "error", err, "name", entry.Name)
		return fmt.Errorf("failed to insert ingredient %q: %w", entry.Name, err)
	}
	return nil
}

// DeleteIngredient soft-deletes an ingredient by case-insensitive name.
func (s *SQLiteStore) DeleteIngredient(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE ingredients SET status = 'deleted' WHERE name = ? COLLATE NOCASE`, name)
	if err != nil {
		slog.Error("SQLiteStore DeleteIngredient failed", "error", err, "name", name)
		return fmt.Errorf("failed to delete ingredient %q: %w", name, err)
	}
	return nil
}

// SearchCatalogItems returns visible items whose combined searchable text
// contains every whitespace-separated field of the query, ordered by id.
func (s *SQLiteStore) SearchCatalogItems(ctx context.Context, query string) ([]models.CatalogItem, error) {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		conds = append(conds,
			"instr(lower(name || ' ' || short_description || ' ' || long_description || ' ' || categories || ' ' || tags), ?) > 0")
		args = append(args, f)
	}

	q := `SELECT id, name, short_description, long_description, categories, tags, visible, permalink, price
		FROM catalog_items WHERE visible = 1 AND ` + strings.Join(conds, " AND ") + ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		slog.Error("SQLiteStore SearchCatalogItems query failed", "error", err)
		return nil, fmt.Errorf("failed to search catalog items: %w", err)
	}
	defer rows.Close()

	return scanCatalogItems(rows)
}

// GetCatalogItem returns one item snapshot by id, or nil when absent.
func (s *SQLiteStore) GetCatalogItem(ctx context.Context, id int64) (*models.CatalogItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, short_description, long_description, categories, tags, visible, permalink, price
		 FROM catalog_items WHERE id = ?`, id)

	item, err := scanCatalogItemRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetCatalogItem failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to get catalog item %d: %w", id, err)
	}
	return item, nil
}

// UpsertCatalogItem inserts or replaces a catalog item snapshot.
func (s *SQLiteStore) UpsertCatalogItem(ctx context.Context, item models.CatalogItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO catalog_items (id, name, short_description, long_description, categories, tags, visible, permalink, price)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Name, item.ShortDescription, item.LongDescription,
		joinList(item.Categories), joinList(item.Tags), boolToInt(item.Visible), item.Permalink, item.Price)
	if err != nil {
		slog.Error("SQLiteStore UpsertCatalogItem failed", "error", err, "id", item.ID)
		return fmt.Errorf("failed to upsert catalog item %d: %w", item.ID, err)
	}
	return nil
}

// GetNavState retrieves the navigation state for a conversation, or nil when
// absent or expired. Expired rows are removed lazily on read.
func (s *SQLiteStore) GetNavState(ctx context.Context, conversationID string) (*models.NavigationState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT conversation_id, item_ids, current_index, total_count, created_at, updated_at, expires_at
		 FROM nav_states WHERE conversation_id = ?`, conversationID)

	var state models.NavigationState
	var itemIDs string
	var expiresAt time.Time
	err := row.Scan(&state.ConversationID, &itemIDs, &state.CurrentIndex, &state.TotalCount,
		&state.CreatedAt, &state.UpdatedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("SQLiteStore GetNavState failed", "error", err, "conversationID", conversationID)
		return nil, fmt.Errorf("failed to get nav state: %w", err)
	}

	if time.Now().After(expiresAt) {
		slog.Debug("SQLiteStore GetNavState expired", "conversationID", conversationID)
		if _, err := s.db.ExecContext(ctx, `DELETE FROM nav_states WHERE conversation_id = ?`, conversationID); err != nil {
			slog.Error("SQLiteStore GetNavState cleanup failed", "error", err, "conversationID", conversationID)
		}
		return nil, nil
	}

	state.ItemIDs, err = parseIDList(itemIDs)
	if err != nil {
		slog.Error("SQLiteStore GetNavState item id parse failed", "error", err, "conversationID", conversationID)
		return nil, nil
	}
	return &state, nil
}

// SaveNavState stores or replaces the navigation state with a fresh TTL.
func (s *SQLiteStore) SaveNavState(ctx context.Context, state models.NavigationState, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO nav_states (conversation_id, item_ids, current_index, total_count, created_at, updated_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		state.ConversationID, formatIDList(state.ItemIDs), state.CurrentIndex, state.TotalCount,
		state.CreatedAt, state.UpdatedAt, time.Now().Add(ttl))
	if err != nil {
		slog.Error("SQLiteStore SaveNavState failed", "error", err, "conversationID", state.ConversationID)
		return fmt.Errorf("failed to save nav state: %w", err)
	}
	return nil
}

// DeleteNavState removes the navigation state for a conversation.
func (s *SQLiteStore) DeleteNavState(ctx context.Context, conversationID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM nav_states WHERE conversation_id = ?`, conversationID)
	if err != nil {
		slog.Error("SQLiteStore DeleteNavState failed", "error", err, "conversationID", conversationID)
		return fmt.Errorf("failed to delete nav state: %w", err)
	}
	return nil
}

// IncrementResolution bumps the per-conversation counter for a response source.
func (s *SQLiteStore) IncrementResolution(ctx context.Context, conversationID string, source models.ResponseSource) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolution_counts (conversation_id, source, count) VALUES (?, ?, 1)
		 ON CONFLICT(conversation_id, source) DO UPDATE SET count = count + 1`,
		conversationID, string(source))
	if err != nil {
		slog.Error("SQLiteStore IncrementResolution failed", "error", err, "conversationID", conversationID)
		return fmt.Errorf("failed to increment resolution count: %w", err)
	}
	return nil
}

// GetResolutionStats returns total resolution counts per response source.
func (s *SQLiteStore) GetResolutionStats(ctx context.Context) (map[models.ResponseSource]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, SUM(count) FROM resolution_counts GROUP BY source`)
	if err != nil {
		slog.Error("SQLiteStore GetResolutionStats query failed", "error", err)
		return nil, fmt.Errorf("failed to query resolution stats: %w", err)
	}
	defer rows.Close()

	totals := make(map[models.ResponseSource]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan resolution stat row: %w", err)
		}
		totals[models.ResponseSource(source)] = count
	}
	return totals, rows.Err()
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	slog.Debug("Closing SQLite database connection")
	return s.db.Close()
}
