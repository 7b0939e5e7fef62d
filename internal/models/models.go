// Package models defines the core data structures for the chatai resolver service.
//
// It includes the knowledge-base records (FAQ entries, ingredient entries),
// read-only catalog snapshots, and the request/response envelopes shared across modules.
package models

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// EntryStatus represents the lifecycle status of an authored knowledge-base record.
type EntryStatus string

const (
	// StatusActive marks a record as live and matchable.
	StatusActive EntryStatus = "active"
	// StatusDeleted marks a record as soft-deleted; it is never matched.
	StatusDeleted EntryStatus = "deleted"
)

// Validation constants for input validation
const (
	// MinMessageLength defines the minimum allowed length for an inbound message after trimming
	MinMessageLength = 2
	// MaxMessageLength defines the maximum allowed length for an inbound message after trimming
	MaxMessageLength = 1000
	// MaxQuestionLength defines the maximum allowed length for an authored FAQ question
	MaxQuestionLength = 500
	// MaxAnswerLength defines the maximum allowed length for an authored FAQ answer
	MaxAnswerLength = 4000
)

// Error variables for better error handling and testability
var (
	ErrMessageTooShort      = errors.New("message is too short")
	ErrMessageTooLong       = errors.New("message exceeds maximum length")
	ErrEmptyQuestion        = errors.New("question cannot be empty")
	ErrEmptyAnswer          = errors.New("answer cannot be empty")
	ErrQuestionTooLong      = errors.New("question exceeds maximum length")
	ErrAnswerTooLong        = errors.New("answer exceeds maximum length")
	ErrEmptyIngredientName  = errors.New("ingredient name cannot be empty")
	ErrInvalidCatalogItemID = errors.New("catalog item id must be positive")
	ErrEmptyCatalogItemName = errors.New("catalog item name cannot be empty")
)

// IsValidEntryStatus checks if the given entry status is supported.
func IsValidEntryStatus(s EntryStatus) bool {
	switch s {
	case StatusActive, StatusDeleted:
		return true
	default:
		return false
	}
}

// Message represents one inbound user turn bound to a conversation.
type Message struct {
	Text           string `json:"text"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// Validate checks the message text bounds. The resolver core assumes this ran first.
func (m *Message) Validate() error {
	trimmed := strings.TrimSpace(m.Text)
	if utf8.RuneCountInString(trimmed) < MinMessageLength {
		return ErrMessageTooShort
	}
	if utf8.RuneCountInString(trimmed) > MaxMessageLength {
		return ErrMessageTooLong
	}
	return nil
}

// FaqEntry is an authored question/answer pair with a lifecycle status.
type FaqEntry struct {
	ID       int64       `json:"id"`
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	Status   EntryStatus `json:"status"`
}

// Validate performs validation on a FaqEntry before it is stored.
func (e *FaqEntry) Validate() error {
	if strings.TrimSpace(e.Question) == "" {
		return ErrEmptyQuestion
	}
	if strings.TrimSpace(e.Answer) == "" {
		return ErrEmptyAnswer
	}
	if len(e.Question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	if len(e.Answer) > MaxAnswerLength {
		return ErrAnswerTooLong
	}
	return nil
}

// IngredientEntry is an authored name/description/benefits record used to answer
// "what does X do" style questions independent of any specific catalog item.
// The name is a case-insensitive unique key.
type IngredientEntry struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Benefits    []string    `json:"benefits,omitempty"`
	Status      EntryStatus `json:"status"`
}

// Validate performs validation on an IngredientEntry before it is stored.
func (e *IngredientEntry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyIngredientName
	}
	return nil
}

// CatalogItem is a sellable product record owned by an external store.
// This service only reads snapshots; Price may carry display markup from the shop.
type CatalogItem struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	ShortDescription string   `json:"short_description,omitempty"`
	LongDescription  string   `json:"long_description,omitempty"`
	Categories       []string `json:"categories,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Visible          bool     `json:"visible"`
	Permalink        string   `json:"permalink,omitempty"`
	Price            string   `json:"price,omitempty"`
}

// Validate performs validation on a CatalogItem snapshot before it is stored.
func (c *CatalogItem) Validate() error {
	if c.ID <= 0 {
		return ErrInvalidCatalogItemID
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCatalogItemName
	}
	return nil
}

// SearchText returns the combined searchable text of a catalog item, lowercased.
// Relevance scoring and ingredient matching both operate on this combined text.
func (c *CatalogItem) SearchText() string {
	parts := []string{c.Name, c.ShortDescription, c.LongDescription}
	parts = append(parts, c.Categories...)
	parts = append(parts, c.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// ScoredCandidate pairs a catalog item with its computed relevance score and the
// query terms that matched. Ephemeral, computed per request, never persisted.
type ScoredCandidate struct {
	Item         CatalogItem
	Score        int
	MatchedTerms []string
}

// ResponseSource identifies which component produced the final reply of a turn.
type ResponseSource string

const (
	// SourceIngredient indicates the ingredient resolver produced the reply.
	SourceIngredient ResponseSource = "ingredient"
	// SourceFAQ indicates the FAQ matcher produced the reply.
	SourceFAQ ResponseSource = "faq"
	// SourceCatalog indicates a fresh catalog search produced the reply.
	SourceCatalog ResponseSource = "catalog"
	// SourceNavigation indicates a navigation turn over an existing result set produced the reply.
	SourceNavigation ResponseSource = "navigation"
	// SourceFallback indicates the generic fallback reply was used.
	SourceFallback ResponseSource = "fallback"
	// SourceGenAI indicates the generative tier produced the reply, bypassing the rule-based core.
	SourceGenAI ResponseSource = "genai"
)

// ResolveRequest is the payload for the resolve endpoint.
type ResolveRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
	// Tier selects the response source: empty or "basic" for the rule-based
	// resolver, "ai" for the generative tier when it is configured.
	Tier string `json:"tier,omitempty"`
}

// ResolveResult is the outcome of one resolved turn.
type ResolveResult struct {
	Reply          string         `json:"reply"`
	ConversationID string         `json:"conversation_id"`
	Source         ResponseSource `json:"source"`
}

// InboundMessage represents an incoming message from a delivery channel.
type InboundMessage struct {
	From string `json:"from"`
	Body string `json:"body"`
	Time int64  `json:"time"`
}

// APIStatus represents the status of an API response.
type APIStatus string

const (
	// APIStatusOK indicates an API request completed successfully.
	APIStatusOK APIStatus = "ok"
	// APIStatusError indicates an API request failed with an error.
	APIStatusError APIStatus = "error"
)

// APIResponse represents a standard API response with a status and optional data.
type APIResponse struct {
	Status  string      `json:"status"`            // status of the API response
	Message string      `json:"message,omitempty"` // optional message for error responses or additional info
	Result  interface{} `json:"result,omitempty"`  // optional result data for successful responses
}

// APIResponseBuilder provides a fluent interface for building API responses.
type APIResponseBuilder struct {
	response APIResponse
}

// NewAPIResponseBuilder creates a new APIResponseBuilder instance.
func NewAPIResponseBuilder() *APIResponseBuilder {
	return &APIResponseBuilder{
		response: APIResponse{},
	}
}

// WithStatus sets the status of the API response.
func (b *APIResponseBuilder) WithStatus(status APIStatus) *APIResponseBuilder {
	b.response.Status = string(status)
	return b
}

// WithMessage sets the message of the API response.
func (b *APIResponseBuilder) WithMessage(message string) *APIResponseBuilder {
	b.response.Message = message
	return b
}

// WithResult sets the result data of the API response.
func (b *APIResponseBuilder) WithResult(result interface{}) *APIResponseBuilder {
	b.response.Result = result
	return b
}

// Build constructs and returns the final APIResponse.
func (b *APIResponseBuilder) Build() APIResponse {
	return b.response
}

// Success creates a successful API response with optional result data.
func Success(result interface{}) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusOK).
		WithResult(result).
		Build()
}

// SuccessWithMessage creates a successful API response with a message and optional result data.
func SuccessWithMessage(message string, result interface{}) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusOK).
		WithMessage(message).
		WithResult(result).
		Build()
}

// Error creates an error API response with a message.
func Error(message string) APIResponse {
	return NewAPIResponseBuilder().
		WithStatus(APIStatusError).
		WithMessage(message).
		Build()
}
