// Package testutil provides common test utilities and helpers for chatai tests.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Nellyj1/chatai-sub002/internal/api"
	"github.com/Nellyj1/chatai-sub002/internal/models"
	"github.com/Nellyj1/chatai-sub002/internal/store"
)

// NewTestServer creates a test API server with an in-memory store.
// This centralizes the test server creation logic used across multiple test files.
func NewTestServer() (*api.Server, *store.InMemoryStore) {
	st := store.NewInMemoryStore()
	return api.NewServer(st), st
}

// SeedCatalog inserts a small Dutch cosmetics catalog that resolver and API
// tests share. Item names and descriptions are chosen so that searches for
// "serum", "crème" and "hyaluronzuur" each have known hits.
func SeedCatalog(t *testing.T, st store.Store) []models.CatalogItem {
	t.Helper()
	items := []models.CatalogItem{
		{ID: 1, Name: "Hydraterend Serum", ShortDescription: "Serum met hyaluronzuur", LongDescription: "Een licht serum met hyaluronzuur voor een gehydrateerde huid.", Price: "€24,95", Permalink: "https://shop.example/p/1", Categories: []string{"serums"}, Visible: true},
		{ID: 2, Name: "Vitamine C Serum", ShortDescription: "Verhelderend serum", LongDescription: "Serum met vitamine C voor een stralende teint.", Price: "€29,95", Permalink: "https://shop.example/p/2", Categories: []string{"serums"}, Visible: true},
		{ID: 3, Name: "Nachtcrème Rijk", ShortDescription: "Voedende nachtcrème", LongDescription: "Rijke crème die de huid 's nachts herstelt.", Price: "€19,95", Permalink: "https://shop.example/p/3", Categories: []string{"cremes"}, Visible: true},
		{ID: 4, Name: "Dagcrème SPF30", ShortDescription: "Beschermende dagcrème", LongDescription: "Lichte crème met SPF30 voor dagelijks gebruik.", Price: "€21,50", Permalink: "https://shop.example/p/4", Categories: []string{"cremes"}, Visible: true},
		{ID: 5, Name: "Cadeaubox Verwenmoment", ShortDescription: "Luxe cadeau set", LongDescription: "Een box vol verzorgingsproducten om cadeau te geven.", Price: "€49,95", Permalink: "https://shop.example/p/5", Categories: []string{"cadeaus"}, Visible: true},
		{ID: 6, Name: "Reinigingsgel Mild", ShortDescription: "Milde reiniging", LongDescription: "Zachte gel die de huid reinigt zonder uit te drogen.", Price: "€14,95", Permalink: "https://shop.example/p/6", Categories: []string{"reiniging"}, Visible: true},
		{ID: 7, Name: "Oude Formule Serum", ShortDescription: "Serum", LongDescription: "Niet langer leverbaar serum.", Price: "€9,95", Permalink: "https://shop.example/p/7", Visible: false},
	}
	for _, item := range items {
		if err := st.UpsertCatalogItem(context.Background(), item); err != nil {
			t.Fatalf("failed to seed catalog item %d: %v", item.ID, err)
		}
	}
	return items
}

// SeedFAQ inserts FAQ entries used across tests.
func SeedFAQ(t *testing.T, st store.Store) {
	t.Helper()
	entries := []models.FaqEntry{
		{Question: "Wat zijn de verzendkosten?", Answer: "Verzending binnen Nederland kost €3,95. Boven €40 is verzending gratis."},
		{Question: "Kan ik mijn bestelling retourneren?", Answer: "Je kunt binnen 14 dagen retourneren via ons retourportaal."},
		{Question: "Hoe lang duurt de levering?", Answer: "Bestellingen worden binnen 1-2 werkdagen geleverd."},
	}
	for _, entry := range entries {
		if _, err := st.AddFaqEntry(context.Background(), entry); err != nil {
			t.Fatalf("failed to seed FAQ entry %q: %v", entry.Question, err)
		}
	}
}

// SeedIngredients inserts ingredient records used across tests.
func SeedIngredients(t *testing.T, st store.Store) {
	t.Helper()
	entries := []models.IngredientEntry{
		{Name: "hyaluronzuur", Description: "Hyaluronzuur houdt vocht vast en houdt de huid soepel en gehydrateerd."},
		{Name: "retinol", Benefits: []string{"stimuleert celvernieuwing", "vermindert fijne lijntjes"}},
		{Name: "niacinamide"},
	}
	for _, entry := range entries {
		if err := st.AddIngredient(context.Background(), entry); err != nil {
			t.Fatalf("failed to seed ingredient %q: %v", entry.Name, err)
		}
	}
}

// AssertHTTPStatus checks the HTTP status code and fails the test if it doesn't match.
func AssertHTTPStatus(t *testing.T, expected, actual int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected status %d, got %d", context, expected, actual)
	}
}

// AssertJSONResponse decodes a JSON response envelope and validates the status field.
func AssertJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, expectedStatus string) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}

	if status, ok := response["status"].(string); ok {
		if status != expectedStatus {
			t.Errorf("expected status '%s', got '%s'", expectedStatus, status)
		}
	} else {
		t.Error("response missing or invalid 'status' field")
	}

	return response
}

// CreateHTTPRequest creates an HTTP request with optional JSON body for testing.
func CreateHTTPRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create HTTP request: %v", err)
	}
	return req
}
