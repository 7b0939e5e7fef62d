// Package api provides HTTP handlers and the main API server logic for the
// chatai resolver service.
//
// It exposes the resolve endpoint, the knowledge-base management endpoints,
// analytics, and the optional Twilio inbound webhook.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nellyj1/chatai-sub002/internal/analytics"
	"github.com/Nellyj1/chatai-sub002/internal/genai"
	"github.com/Nellyj1/chatai-sub002/internal/messaging"
	"github.com/Nellyj1/chatai-sub002/internal/models"
	"github.com/Nellyj1/chatai-sub002/internal/resolver"
	"github.com/Nellyj1/chatai-sub002/internal/store"
)

// DefaultAddr is the default listen address for the API server.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	Addr     string
	AdminKey string
	NavTTL   time.Duration
	GenAI    *genai.Client
	Twilio   *messaging.TwilioService
}

// Option defines a configuration option for the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) { o.Addr = addr }
}

// WithAdminKey enables the X-API-Key check on knowledge-base write endpoints.
func WithAdminKey(key string) Option {
	return func(o *Opts) { o.AdminKey = key }
}

// WithNavigationTTL overrides the navigation state idle expiry window.
func WithNavigationTTL(ttl time.Duration) Option {
	return func(o *Opts) { o.NavTTL = ttl }
}

// WithGenAI enables the generative answer tier.
func WithGenAI(client *genai.Client) Option {
	return func(o *Opts) { o.GenAI = client }
}

// WithTwilio mounts the Twilio inbound webhook and starts the responder loop.
func WithTwilio(svc *messaging.TwilioService) Option {
	return func(o *Opts) { o.Twilio = svc }
}

// Server wires the resolver core and its collaborators behind HTTP handlers.
type Server struct {
	store    store.Store
	resolver *resolver.Resolver
	recorder *analytics.Recorder
	genai    *genai.Client
	twilio   *messaging.TwilioService
	adminKey string
	addr     string
}

// NewServer creates an API server over a store, applying the given options.
func NewServer(st store.Store, opts ...Option) *Server {
	cfg := Opts{Addr: DefaultAddr, NavTTL: models.DefaultNavigationTTL}
	for _, opt := range opts {
		opt(&cfg)
	}

	recorder := analytics.NewRecorder(st)
	res := resolver.New(st, st, st, st,
		resolver.WithNavigationTTL(cfg.NavTTL),
		resolver.WithObserver(recorder),
	)

	return &Server{
		store:    st,
		resolver: res,
		recorder: recorder,
		genai:    cfg.GenAI,
		twilio:   cfg.Twilio,
		adminKey: cfg.AdminKey,
		addr:     cfg.Addr,
	}
}

// Resolver exposes the wired resolver, e.g. for a messaging responder.
func (s *Server) Resolver() *resolver.Resolver {
	return s.resolver
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/resolve", s.resolveHandler)
	mux.HandleFunc("/api/faq", s.faqHandler)
	mux.HandleFunc("/api/faq/", s.faqEntryHandler)
	mux.HandleFunc("/api/ingredients", s.ingredientsHandler)
	mux.HandleFunc("/api/ingredients/", s.ingredientEntryHandler)
	mux.HandleFunc("/api/catalog", s.catalogHandler)
	mux.HandleFunc("/api/stats", s.statsHandler)
	mux.HandleFunc("/api/health", s.healthHandler)
	if s.twilio != nil {
		mux.HandleFunc("/webhook/twilio", s.twilioWebhookHandler)
	}
	return mux
}

// Run starts the API server and, when a Twilio channel is configured, the
// responder loop. It blocks until the server stops.
func Run(st store.Store, opts ...Option) error {
	server := NewServer(st, opts...)

	ctx := context.Background()
	if server.twilio != nil {
		if err := server.twilio.Start(ctx); err != nil {
			return err
		}
		messaging.NewResponder(server.twilio, server.resolver).Start(ctx)
		slog.Info("Twilio responder started")
	}

	slog.Info("chatai API server listening", "addr", server.addr)
	return http.ListenAndServe(server.addr, server.Handler())
}
