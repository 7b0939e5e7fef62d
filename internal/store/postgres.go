// Package store provides storage backends for the chatai resolver service.
//
// This file implements the PostgreSQL-backed store.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "embed"

	"github.com/Nellyj1/chatai-sub002/internal/models"
	_ "github.com/lib/pq"
)

// Database connection pool configuration constants
const (
	// DefaultMaxOpenConns is the default maximum number of open connections to the database
	DefaultMaxOpenConns = 25
	// DefaultMaxIdleConns is the default maximum number of idle connections in the pool
	DefaultMaxIdleConns = 25
	// DefaultConnMaxLifetime is the default maximum amount of time a connection may be reused
	DefaultConnMaxLifetime = 5 * time.Minute
)

//go:embed migrations_postgres.sql
var postgresMigrations string

type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new Postgres store based on provided options.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("PostgresStore.NewPostgresStore: creating Postgres store", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open Postgres connection", "error", err)
		return nil, err
	}

	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxLifetime(DefaultConnMaxLifetime)

	if err := db.Ping(); err != nil {
		slog.Error("Postgres ping failed", "error", err)
		return nil, err
	}

	slog.Debug("Running Postgres migrations")
	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// SearchFAQ returns active entries where the full message appears in question
// or answer, or where any filtered term does.
func (s *PostgresStore) SearchFAQ(ctx context.Context, raw string, terms []string) ([]models.FaqEntry, error) {
	conds := []string{"(question ILIKE '%' || $1 || '%' OR answer ILIKE '%' || $1 || '%')"}
	args := []interface{}{raw}
	for i, term := range terms {
		n := i + 2
		conds = append(conds, fmt.Sprintf("(question ILIKE '%%' || $%d || '%%' OR answer ILIKE '%%' || $%d || '%%')", n, n))
		args = append(args, term)
	}

	query := `SELECT id, question, answer, status FROM faq_entries
		WHERE status = 'active' AND (` + strings.Join(conds, " OR ") + `) ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Error("PostgresStore SearchFAQ query failed", "error", err)
		return nil, fmt.Errorf("failed to search faq entries: %w", err)
	}
	defer rows.Close()

	return scanFaqEntries(rows)
}

// ListFaqEntries returns all active FAQ entries ordered by id.
func (s *PostgresStore) ListFaqEntries(ctx context.Context) ([]models.FaqEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, question, answer, status FROM faq_entries WHERE status = 'active' ORDER BY id`)
	if err != nil {
		slog.Error("PostgresStore ListFaqEntries query failed", "error", err)
		return nil, fmt.Errorf("failed to list faq entries: %w", err)
	}
	defer rows.Close()

	return scanFaqEntries(rows)
}

// AddFaqEntry inserts a new FAQ entry and returns its assigned id.
func (s *PostgresStore) AddFaqEntry(ctx context.Context, entry models.FaqEntry) (int64, error) {
	status := entry.Status
	if status == "" {
		status = models.StatusActive
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO faq_entries (question, answer, status) VALUES ($1, $2, $3) RETURNING id`,
		entry.Question, entry.Answer, string(status)).Scan(&id)
	if err != nil {
		slog.Error("PostgresStore AddFaqEntry failed", "error", err)
		return 0, fmt.Errorf("failed to insert faq entry: %w", err)
	}
	return id, nil
}

// DeleteFaqEntry soft-deletes a FAQ entry by id.
func (s *PostgresStore) DeleteFaqEntry(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `UPDATE faq_entries SET status = 'deleted' WHERE id = $1`, id)
	if err != nil {
		slog.Error("PostgresStore DeleteFaqEntry failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete faq entry %d: %w", id, err)
	}
	return nil
}

// GetIngredient looks up an active ingredient by case-insensitive name.
func (s *PostgresStore) GetIngredient(ctx context.Context, name string) (*models.IngredientEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, description, benefits, status FROM ingredients WHERE LOWER(name) = LOWER($1) AND status = 'active'`, name)

	var e models.IngredientEntry
	var benefits string
	err := row.Scan(&e.Name, &e.Description, &benefits, &e.Status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetIngredient failed", "error", err, "name", name)
		return nil, fmt.Errorf("failed to get ingredient %q: %w", name, err)
	}
	e.Benefits = splitList(benefits)
	return &e, nil
}

// ListIngredients returns all active ingredient entries ordered by name.
func (s *PostgresStore) ListIngredients(ctx context.Context) ([]models.IngredientEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, description, benefits, status FROM ingredients WHERE status = 'active' ORDER BY name`)
	if err != nil {
		slog.Error("PostgresStore ListIngredients query failed", "error", err)
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
func (s *PostgresStore) AddIngredient(ctx context.Context, entry models.IngredientEntry) error {
	status := entry.Status
	if status == "" {
		status = models.StatusActive
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingredients (name, description, benefits, status) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, benefits = EXCLUDED.benefits, status = EXCLUDED.status`,
		entry.Name, entry.Description, joinList(entry.Benefits), string(status))
	if err != nil {
		slog.Error("PostgresStore AddIngredient failed", "error", err, "name", entry.Name)
		return fmt.Errorf("failed to insert ingredient %q: %w", entry.Name, err)
	}
	return nil
}

// DeleteIngredient soft-deletes an ingredient by case-insensitive name.
func (s *PostgresStore) DeleteIngredient(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE ingredients SET status = 'deleted' WHERE LOWER(name) = LOWER($1)`, name)
	if err != nil {
		slog.Error("PostgresStore DeleteIngredient failed", "error", err, "name", name)
		return fmt.Errorf("failed to delete ingredient %q: %w", name, err)
	}
	return nil
}

// SearchCatalogItems returns visible items whose combined searchable text
// contains every whitespace-separated field of the query, ordered by id.
func (s *PostgresStore) SearchCatalogItems(ctx context.Context, query string) ([]models.CatalogItem, error) {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil, nil
	}

	conds := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	for i, f := range fields {
		conds = append(conds, fmt.Sprintf(
			"(name || ' ' || short_description || ' ' || long_description || ' ' || categories || ' ' || tags) ILIKE '%%' || $%d || '%%'", i+1))
		args = append(args, f)
	}

	q := `SELECT id, name, short_description, long_description, categories, tags, visible, permalink, price
		FROM catalog_items WHERE visible AND ` + strings.Join(conds, " AND ") + ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		slog.Error("PostgresStore SearchCatalogItems query failed", "error", err)
		return nil, fmt.Errorf("failed to search catalog items: %w", err)
	}
	defer rows.Close()

	return scanPostgresCatalogItems(rows)
}

// GetCatalogItem returns one item snapshot by id, or nil when absent.
func (s *PostgresStore) GetCatalogItem(ctx context.Context, id int64) (*models.CatalogItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, short_description, long_description, categories, tags, visible, permalink, price
		 FROM catalog_items WHERE id = $1`, id)

	var item models.CatalogItem
	var categories, tags string
	err := row.Scan(&item.ID, &item.Name, &item.ShortDescription, &item.LongDescription,
		&categories, &tags, &item.Visible, &item.Permalink, &item.Price)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetCatalogItem failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to get catalog item %d: %w", id, err)
	}
	item.Categories = splitList(categories)
	item.Tags = splitList(tags)
	return &item, nil
}

// UpsertCatalogItem inserts or replaces a catalog item snapshot.
func (s *PostgresStore) UpsertCatalogItem(ctx context.Context, item models.CatalogItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO catalog_items (id, name, short_description, long_description, categories, tags, visible, permalink, price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, short_description = EXCLUDED.short_description,
			long_description = EXCLUDED.long_description, categories = EXCLUDED.categories, tags = EXCLUDED.tags,
			visible = EXCLUDED.visible, permalink = EXCLUDED.permalink, price = EXCLUDED.price`,
		item.ID, item.Name, item.ShortDescription, item.LongDescription,
		joinList(item.Categories), joinList(item.Tags), item.Visible, item.Permalink, item.Price)
	if err != nil {
		slog.Error("PostgresStore UpsertCatalogItem failed", "error", err, "id", item.ID)
		return fmt.Errorf("failed to upsert catalog item %d: %w", item.ID, err)
	}
	return nil
}

// GetNavState retrieves the navigation state for a conversation, or nil when
// absent or expired. Expired rows are removed lazily on read.
func (s *PostgresStore) GetNavState(ctx context.Context, conversationID string) (*models.NavigationState, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT conversation_id, item_ids, current_index, total_count, created_at, updated_at, expires_at
		 FROM nav_states WHERE conversation_id = $1`, conversationID)

	var state models.NavigationState
	var itemIDs string
	var expiresAt time.Time
	err := row.Scan(&state.ConversationID, &itemIDs, &state.CurrentIndex, &state.TotalCount,
		&state.CreatedAt, &state.UpdatedAt, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetNavState failed", "error", err, "conversationID", conversationID)
		return nil, fmt.Errorf("failed to get nav state: %w", err)
	}

	if time.Now().After(expiresAt) {
		slog.Debug("PostgresStore GetNavState expired", "conversationID", conversationID)
		if _, err := s.db.ExecContext(ctx, `DELETE FROM nav_states WHERE conversation_id = $1`, conversationID); err != nil {
			slog.Error("PostgresStore GetNavState cleanup failed", "error", err, "conversationID", conversationID)
		}
		return nil, nil
	}

	state.ItemIDs, err = parseIDList(itemIDs)
	if err != nil {
		slog.Error("PostgresStore GetNavState item id parse failed", "error", err, "conversationID", conversationID)
		return nil, nil
	}
	return &state, nil
}

// SaveNavState stores or replaces the navigation state with a fresh TTL.
func (s *PostgresStore) SaveNavState(ctx context.Context, state models.NavigationState, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO nav_states (conversation_id, item_ids, current_index, total_count, created_at, updated_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (conversation_id) DO UPDATE SET item_ids = EXCLUDED.item_ids, current_index = EXCLUDED.current_index,
			total_count = EXCLUDED.total_count, updated_at = EXCLUDED.updated_at, expires_at = EXCLUDED.expires_at`,
		state.ConversationID, formatIDList(state.ItemIDs), state.CurrentIndex, state.TotalCount,
		state.CreatedAt, state.UpdatedAt, time.Now().Add(ttl))
	if err != nil {
		slog.Error("PostgresStore SaveNavState failed", "error", err, "conversationID", state.ConversationID)
		return fmt.Errorf("failed to save nav state: %w", err)
	}
	return nil
}

// DeleteNavState removes the navigation state for a conversation.
func (s *PostgresStore) DeleteNavState(ctx context.Context, conversationID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM nav_states WHERE conversation_id = $1`, conversationID)
	if err != nil {
		slog.Error("PostgresStore DeleteNavState failed", "error", err, "conversationID", conversationID)
		return fmt.Errorf("failed to delete nav state: %w", err)
	}
	return nil
}

// IncrementResolution bumps the per-conversation counter for a response source.
func (s *PostgresStore) IncrementResolution(ctx context.Context, conversationID string, source models.ResponseSource) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resolution_counts (conversation_id, source, count) VALUES ($1, $2, 1)
		 ON CONFLICT (conversation_id, source) DO UPDATE SET count = resolution_counts.count + 1`,
		conversationID, string(source))
	if err != nil {
		slog.Error("PostgresStore IncrementResolution failed", "error", err, "conversationID", conversationID)
		return fmt.Errorf("failed to increment resolution count: %w", err)
	}
	return nil
}

// GetResolutionStats returns total resolution counts per response source.
func (s *PostgresStore) GetResolutionStats(ctx context.Context) (map[models.ResponseSource]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, SUM(count) FROM resolution_counts GROUP BY source`)
	if err != nil {
		slog.Error("PostgresStore GetResolutionStats query failed", "error", err)
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

// Close closes the Postgres database connection.
func (s *PostgresStore) Close() error {
	slog.Debug("Closing Postgres database connection")
	return s.db.Close()
}
