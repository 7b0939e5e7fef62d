// Package store provides storage backends for the chatai resolver service.
//
// It covers the knowledge base (FAQ entries, ingredients), read-only catalog
// snapshots, the TTL-expiring navigation state keyed by conversation id, and
// best-effort analytics counters. Backends: in-memory (tests and development),
// SQLite, and PostgreSQL.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// Opts holds configuration options for store backends.
type Opts struct {
	// DSN is the database connection string: a file path for SQLite, a
	// connection URL for PostgreSQL.
	DSN string
}

// Option defines a configuration option for store backends.
type Option func(*Opts)

// WithDSN sets the database connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) { o.DSN = dsn }
}

// Store is the full storage interface consumed by the service. The resolver
// core only sees the narrow read interfaces it declares itself; this interface
// additionally carries the knowledge-base writes used by the admin API.
type Store interface {
	// Knowledge base: FAQ
	SearchFAQ(ctx context.Context, raw string, terms []string) ([]models.FaqEntry, error)
	ListFaqEntries(ctx context.Context) ([]models.FaqEntry, error)
	AddFaqEntry(ctx context.Context, entry models.FaqEntry) (int64, error)
	DeleteFaqEntry(ctx context.Context, id int64) error

	// Knowledge base: ingredients
	GetIngredient(ctx context.Context, name string) (*models.IngredientEntry, error)
	ListIngredients(ctx context.Context) ([]models.IngredientEntry, error)
	AddIngredient(ctx context.Context, entry models.IngredientEntry) error
	DeleteIngredient(ctx context.Context, name string) error

	// Catalog snapshots
	SearchCatalogItems(ctx context.Context, query string) ([]models.CatalogItem, error)
	GetCatalogItem(ctx context.Context, id int64) (*models.CatalogItem, error)
	UpsertCatalogItem(ctx context.Context, item models.CatalogItem) error

	// Navigation state
	GetNavState(ctx context.Context, conversationID string) (*models.NavigationState, error)
	SaveNavState(ctx context.Context, state models.NavigationState, ttl time.Duration) error
	DeleteNavState(ctx context.Context, conversationID string) error

	// Analytics
	IncrementResolution(ctx context.Context, conversationID string, source models.ResponseSource) error
	GetResolutionStats(ctx context.Context) (map[models.ResponseSource]int, error)

	Close() error
}

// navEntry pairs a navigation state with its expiry deadline.
type navEntry struct {
	state     models.NavigationState
	expiresAt time.Time
}

// InMemoryStore is a mutex-guarded in-memory Store, used in tests and for
// development without a database.
type InMemoryStore struct {
	mu          sync.RWMutex
	faqSeq      int64
	faqs        []models.FaqEntry
	ingredients map[string]models.IngredientEntry
	catalog     map[int64]models.CatalogItem
	navStates   map[string]navEntry
	resolutions map[string]map[models.ResponseSource]int

	// now is the clock used for TTL checks; replaceable in tests.
	now func() time.Time
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		ingredients: make(map[string]models.IngredientEntry),
		catalog:     make(map[int64]models.CatalogItem),
		navStates:   make(map[string]navEntry),
		resolutions: make(map[string]map[models.ResponseSource]int),
		now:         time.Now,
	}
}

// SearchFAQ returns active entries where the full message appears in question
// or answer, or where any filtered term does.
func (s *InMemoryStore) SearchFAQ(ctx context.Context, raw string, terms []string) ([]models.FaqEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lowerRaw := strings.ToLower(raw)
	var out []models.FaqEntry
	for _, e := range s.faqs {
		if e.Status != models.StatusActive {
			continue
		}
		if faqEntryMatches(e, lowerRaw, terms) {
			out = append(out, e)
		}
	}
	return out, nil
}

func faqEntryMatches(e models.FaqEntry, lowerRaw string, terms []string) bool {
	q := strings.ToLower(e.Question)
	a := strings.ToLower(e.Answer)
	if lowerRaw != "" && (strings.Contains(q, lowerRaw) || strings.Contains(a, lowerRaw)) {
		return true
	}
	for _, term := range terms {
		if strings.Contains(q, term) || strings.Contains(a, term) {
			return true
		}
	}
	return false
}

// ListFaqEntries returns all active FAQ entries in insertion order.
func (s *InMemoryStore) ListFaqEntries(ctx context.Context) ([]models.FaqEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FaqEntry, 0, len(s.faqs))
	for _, e := range s.faqs {
		if e.Status == models.StatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

// AddFaqEntry stores a new FAQ entry and returns its assigned id.
func (s *InMemoryStore) AddFaqEntry(ctx context.Context, entry models.FaqEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.faqSeq++
	entry.ID = s.faqSeq
	if entry.Status == "" {
		entry.Status = models.StatusActive
	}
	s.faqs = append(s.faqs, entry)
	return entry.ID, nil
}

// DeleteFaqEntry soft-deletes an entry by id. Deleting an unknown id is a no-op.
func (s *InMemoryStore) DeleteFaqEntry(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.faqs {
		if s.faqs[i].ID == id {
			s.faqs[i].Status = models.StatusDeleted
			return nil
		}
	}
	return nil
}

// GetIngredient looks up an active ingredient by case-insensitive name.
func (s *InMemoryStore) GetIngredient(ctx context.Context, name string) (*models.IngredientEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.ingredients[strings.ToLower(name)]
	if !ok || e.Status != models.StatusActive {
		return nil, nil
	}
	return &e, nil
}

// ListIngredients returns all active ingredient entries sorted by name.
func (s *InMemoryStore) ListIngredients(ctx context.Context) ([]models.IngredientEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.IngredientEntry, 0, len(s.ingredients))
	for _, e := range s.ingredients {
		if e.Status == models.StatusActive {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AddIngredient stores or replaces an ingredient entry keyed by lowercased name.
func (s *InMemoryStore) AddIngredient(ctx context.Context, entry models.IngredientEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Status == "" {
		entry.Status = models.StatusActive
	}
	s.ingredients[strings.ToLower(entry.Name)] = entry
	return nil
}

// DeleteIngredient soft-deletes an ingredient by case-insensitive name.
func (s *InMemoryStore) DeleteIngredient(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(name)
	if e, ok := s.ingredients[key]; ok {
		e.Status = models.StatusDeleted
		s.ingredients[key] = e
	}
	return nil
}

// SearchCatalogItems returns visible items whose combined searchable text
// contains every whitespace-separated field of the query, ordered by id.
// An empty query matches nothing.
func (s *InMemoryStore) SearchCatalogItems(ctx context.Context, query string) ([]models.CatalogItem, error) {
	fields := strings.Fields(strings.ToLower(query))
	if len(fields) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CatalogItem
	for _, item := range s.catalog {
		if !item.Visible {
			continue
		}
		combined := item.SearchText()
		matched := true
		for _, f := range fields {
			if !strings.Contains(combined, f) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// GetCatalogItem returns the item snapshot for an id, or nil when absent.
func (s *InMemoryStore) GetCatalogItem(ctx context.Context, id int64) (*models.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.catalog[id]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

// UpsertCatalogItem stores or replaces a catalog item snapshot.
func (s *InMemoryStore) UpsertCatalogItem(ctx context.Context, item models.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog[item.ID] = item
	return nil
}

// GetNavState returns the navigation state for a conversation, or nil when
// absent or expired. Expired entries are removed lazily on read.
func (s *InMemoryStore) GetNavState(ctx context.Context, conversationID string) (*models.NavigationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.navStates[conversationID]
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.navStates, conversationID)
		return nil, nil
	}
	state := entry.state
	return &state, nil
}

// SaveNavState stores or replaces the navigation state with a fresh TTL.
func (s *InMemoryStore) SaveNavState(ctx context.Context, state models.NavigationState, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.navStates[state.ConversationID] = navEntry{
		state:     state,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

// DeleteNavState removes the navigation state for a conversation, if any.
func (s *InMemoryStore) DeleteNavState(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.navStates, conversationID)
	return nil
}

// IncrementResolution bumps the per-conversation counter for a response source.
func (s *InMemoryStore) IncrementResolution(ctx context.Context, conversationID string, source models.ResponseSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts, ok := s.resolutions[conversationID]
	if !ok {
		counts = make(map[models.ResponseSource]int)
		s.resolutions[conversationID] = counts
	}
	counts[source]++
	return nil
}

// GetResolutionStats returns total resolution counts per response source.
func (s *InMemoryStore) GetResolutionStats(ctx context.Context) (map[models.ResponseSource]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := make(map[models.ResponseSource]int)
	for _, counts := range s.resolutions {
		for source, n := range counts {
			totals[source] += n
		}
	}
	return totals, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error {
	return nil
}
