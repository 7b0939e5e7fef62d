// Package api provides HTTP handlers for the chatai endpoints.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// resolveHandler turns one message into a reply. The message length bounds are
// enforced here; the resolver core assumes they already held.
func (s *Server) resolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	slog.Debug("Server.resolveHandler: processing resolve request", "method", r.Method)
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req models.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Server.resolveHandler: failed to decode JSON", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}

	msg := models.Message{Text: req.Message, ConversationID: req.ConversationID}
	if err := msg.Validate(); err != nil {
		slog.Warn("Server.resolveHandler: message validation failed", "error", err)
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}

	if req.Tier == "ai" {
		s.resolveWithGenAI(w, r, req)
		return
	}

	result := s.resolver.Resolve(r.Context(), strings.TrimSpace(req.Message), req.ConversationID)
	slog.Info("Server.resolveHandler: resolved", "conversation_id", result.ConversationID, "source", result.Source)
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// resolveWithGenAI answers through the generative tier, bypassing the
// rule-based resolver entirely.
func (s *Server) resolveWithGenAI(w http.ResponseWriter, r *http.Request, req models.ResolveRequest) {
	if s.genai == nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Generative tier is not configured"))
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	reply, err := s.genai.Answer(r.Context(), "", req.Message)
	if err != nil {
		slog.Error("Server.resolveWithGenAI: generation failed", "error", err, "conversation_id", conversationID)
		writeJSONResponse(w, http.StatusBadGateway, models.Error("Failed to generate a reply"))
		return
	}

	result := models.ResolveResult{Reply: reply, ConversationID: conversationID, Source: models.SourceGenAI}
	s.recorder.RecordResolution(r.Context(), conversationID, models.SourceGenAI)
	writeJSONResponse(w, http.StatusOK, models.Success(result))
}

// faqHandler lists active FAQ entries or adds a new one.
func (s *Server) faqHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	switch r.Method {
	case http.MethodGet:
		entries, err := s.store.ListFaqEntries(r.Context())
		if err != nil {
			slog.Error("Server.faqHandler: list failed", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list FAQ entries"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(entries))

	case http.MethodPost:
		if !s.authorizeAdmin(w, r) {
			return
		}
		var entry models.FaqEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		if err := entry.Validate(); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		id, err := s.store.AddFaqEntry(r.Context(), entry)
		if err != nil {
			slog.Error("Server.faqHandler: add failed", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to store FAQ entry"))
			return
		}
		entry.ID = id
		slog.Info("Server.faqHandler: FAQ entry added", "id", id)
		writeJSONResponse(w, http.StatusCreated, models.Success(entry))

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// faqEntryHandler soft-deletes one FAQ entry by id.
func (s *Server) faqEntryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.authorizeAdmin(w, r) {
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/faq/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid FAQ entry id"))
		return
	}

	if err := s.store.DeleteFaqEntry(r.Context(), id); err != nil {
		slog.Error("Server.faqEntryHandler: delete failed", "error", err, "id", id)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to delete FAQ entry"))
		return
	}
	slog.Info("Server.faqEntryHandler: FAQ entry deleted", "id", id)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("FAQ entry deleted", nil))
}

// ingredientsHandler lists active ingredients or adds a new one.
func (s *Server) ingredientsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	switch r.Method {
	case http.MethodGet:
		entries, err := s.store.ListIngredients(r.Context())
		if err != nil {
			slog.Error("Server.ingredientsHandler: list failed", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to list ingredients"))
			return
		}
		writeJSONResponse(w, http.StatusOK, models.Success(entries))

	case http.MethodPost:
		if !s.authorizeAdmin(w, r) {
			return
		}
		var entry models.IngredientEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
			return
		}
		if err := entry.Validate(); err != nil {
			writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
			return
		}
		if err := s.store.AddIngredient(r.Context(), entry); err != nil {
			slog.Error("Server.ingredientsHandler: add failed", "error", err)
			writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to store ingredient"))
			return
		}
		slog.Info("Server.ingredientsHandler: ingredient added", "name", entry.Name)
		writeJSONResponse(w, http.StatusCreated, models.Success(entry))

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// ingredientEntryHandler soft-deletes one ingredient by name.
func (s *Server) ingredientEntryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", http.MethodDelete)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.authorizeAdmin(w, r) {
		return
	}

	name := strings.TrimPrefix(r.URL.Path, "/api/ingredients/")
	if name == "" {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Ingredient name missing"))
		return
	}

	if err := s.store.DeleteIngredient(r.Context(), name); err != nil {
		slog.Error("Server.ingredientEntryHandler: delete failed", "error", err, "name", name)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to delete ingredient"))
		return
	}
	slog.Info("Server.ingredientEntryHandler: ingredient deleted", "name", name)
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("Ingredient deleted", nil))
}

// catalogHandler upserts a catalog item snapshot pushed by the shop.
func (s *Server) catalogHandler(w http.ResponseWriter, r *http.Request) {
	if r.Body != nil {
		defer r.Body.Close()
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.authorizeAdmin(w, r) {
		return
	}

	var item models.CatalogItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error("Invalid JSON format"))
		return
	}
	if err := item.Validate(); err != nil {
		writeJSONResponse(w, http.StatusBadRequest, models.Error(err.Error()))
		return
	}
	if err := s.store.UpsertCatalogItem(r.Context(), item); err != nil {
		slog.Error("Server.catalogHandler: upsert failed", "error", err, "id", item.ID)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to store catalog item"))
		return
	}
	slog.Info("Server.catalogHandler: catalog item upserted", "id", item.ID)
	writeJSONResponse(w, http.StatusOK, models.Success(item))
}

// statsHandler returns aggregated resolution counts per response source.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.recorder.Stats(r.Context())
	if err != nil {
		slog.Error("Server.statsHandler: stats query failed", "error", err)
		writeJSONResponse(w, http.StatusInternalServerError, models.Error("Failed to query stats"))
		return
	}
	writeJSONResponse(w, http.StatusOK, models.Success(stats))
}

// healthHandler reports liveness.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, models.SuccessWithMessage("ok", nil))
}

// twilioWebhookHandler accepts Twilio's inbound message callback and enqueues
// the message for the responder loop.
func (s *Server) twilioWebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.Warn("Server.twilioWebhookHandler: form parse failed", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")
	if from == "" || body == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.twilio.HandleIncoming(from, body)
	w.WriteHeader(http.StatusNoContent)
}

// authorizeAdmin enforces the X-API-Key check on write endpoints when an admin
// key is configured. An unset key leaves the endpoints open (development mode).
func (s *Server) authorizeAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.adminKey == "" {
		return true
	}
	if r.Header.Get("X-API-Key") != s.adminKey {
		slog.Warn("Server.authorizeAdmin: invalid or missing API key", "path", r.URL.Path)
		writeJSONResponse(w, http.StatusUnauthorized, models.Error("Invalid or missing API key"))
		return false
	}
	return true
}
