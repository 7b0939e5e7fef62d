package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// Observer is notified after a successful resolution, e.g. for per-conversation
// analytics counters. Observer failures must never affect the reply; the
// resolver calls it best-effort and implementations swallow their own errors.
type Observer interface {
	RecordResolution(ctx context.Context, conversationID string, source models.ResponseSource)
}

// Resolver orchestrates one synchronous resolution per inbound message.
// All collaborators are injected; the zero value is not usable.
type Resolver struct {
	faq      FAQIndex
	kb       IngredientKB
	catalog  Catalog
	nav      NavStore
	observer Observer
	navTTL   time.Duration
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithNavigationTTL overrides the idle expiry window for navigation state.
func WithNavigationTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.navTTL = ttl
		}
	}
}

// WithObserver registers a best-effort post-resolution observer.
func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// New creates a Resolver over the given collaborators.
func New(faq FAQIndex, kb IngredientKB, catalog Catalog, nav NavStore, opts ...Option) *Resolver {
	r := &Resolver{
		faq:     faq,
		kb:      kb,
		catalog: catalog,
		nav:     nav,
		navTTL:  models.DefaultNavigationTTL,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve turns one message into a reply. A missing conversation id is
// generated. The operation practically never fails: collaborator errors
// degrade to "no candidates" inside the components, and any internal fault is
// caught here and converted to the fixed fallback reply.
func (r *Resolver) Resolve(ctx context.Context, message, conversationID string) (result models.ResolveResult) {
	if conversationID == "" {
		conversationID = uuid.NewString()
		slog.Debug("Resolver.Resolve: generated conversation id", "conversation_id", conversationID)
	}
	result.ConversationID = conversationID

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Resolver.Resolve: internal fault, returning fallback", "panic", rec, "conversation_id", conversationID)
			result.Reply = fallbackReply
			result.Source = models.SourceFallback
		}
	}()

	res := r.resolveTurn(ctx, message, conversationID)
	result.Reply = ComposeReply(res)
	result.Source = res.source
	if result.Reply == "" {
		result.Reply = lastResortReply
	}

	if r.observer != nil {
		r.observer.RecordResolution(ctx, conversationID, result.Source)
	}

	slog.Info("Resolver.Resolve: turn resolved", "conversation_id", conversationID, "source", result.Source)
	return result
}

// resolveTurn runs the classification and matching pipeline. Precedence for a
// turn with multiple candidate outputs: navigation command on an active state,
// then ingredient, then FAQ, then catalog/navigation, then the fallback.
func (r *Resolver) resolveTurn(ctx context.Context, message, conversationID string) resolution {
	norm := Normalize(message)
	slog.Debug("Resolver.resolveTurn: normalized message", "conversation_id", conversationID, "terms", len(norm.Terms))

	nav, err := r.nav.GetNavState(ctx, conversationID)
	if err != nil {
		// Treat an unreachable state store as absent state.
		slog.Error("Resolver.resolveTurn: navigation state read failed", "error", err, "conversation_id", conversationID)
		nav = nil
	}

	// An explicit navigation command on an active state takes priority over
	// re-running any search for this turn.
	if nav != nil && IsNavigationCommand(norm.Lower) {
		if text := r.advanceNavigation(ctx, nav, norm.Terms); text != "" {
			return resolution{source: models.SourceNavigation, text: text}
		}
		// Every stored item is gone from the catalog; fall through to a fresh turn.
		nav = nil
	}

	if text := r.resolveIngredient(ctx, norm); text != "" {
		return resolution{source: models.SourceIngredient, text: text}
	}

	if text := r.matchFAQ(ctx, norm); text != "" {
		return resolution{source: models.SourceFAQ, text: text}
	}

	// A non-navigation turn that matched nothing while a multi-item state is
	// active behaves as an implicit "next".
	if nav != nil && nav.TotalCount > 1 {
		if text := r.advanceNavigation(ctx, nav, norm.Terms); text != "" {
			return resolution{source: models.SourceNavigation, text: text}
		}
		nav = nil
	}

	candidates := r.searchCandidates(ctx, norm)
	ranked := RankCatalog(candidates, norm.Terms)
	if len(ranked) > 0 {
		state := newNavigationState(conversationID, ranked)
		if err := r.nav.SaveNavState(ctx, state, r.navTTL); err != nil {
			slog.Error("Resolver.resolveTurn: navigation state save failed", "error", err, "conversation_id", conversationID)
		}
		text := r.renderNavigation(ctx, &state, norm.Terms)
		return resolution{
			source: models.SourceCatalog,
			text:   text,
			fresh:  true,
			multi:  len(ranked) > 1,
		}
	}

	// Zero matches everywhere: clear any lingering state and fall back.
	if err := r.nav.DeleteNavState(ctx, conversationID); err != nil {
		slog.Error("Resolver.resolveTurn: navigation state delete failed", "error", err, "conversation_id", conversationID)
	}
	return resolution{source: models.SourceFallback}
}

// advanceNavigation advances the cursor, persists the state, and renders the
// now-current item. Returns "" and deletes the state when no stored item is
// still visible in the catalog.
func (r *Resolver) advanceNavigation(ctx context.Context, state *models.NavigationState, terms []string) string {
	state.Advance()
	text := r.renderNavigation(ctx, state, terms)
	if text == "" {
		if err := r.nav.DeleteNavState(ctx, state.ConversationID); err != nil {
			slog.Error("Resolver.advanceNavigation: navigation state delete failed", "error", err, "conversation_id", state.ConversationID)
		}
		return ""
	}
	if err := r.nav.SaveNavState(ctx, *state, r.navTTL); err != nil {
		slog.Error("Resolver.advanceNavigation: navigation state save failed", "error", err, "conversation_id", state.ConversationID)
	}
	return text
}
