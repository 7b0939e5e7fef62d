// Package models defines state management structures for conversation navigation.
package models

import "time"

// DefaultNavigationTTL is the idle window after which a navigation state expires.
const DefaultNavigationTTL = 30 * time.Minute

// NavigationState is the per-conversation cursor over a previously computed
// ranked list of catalog item identifiers. The item order is fixed at creation
// (insertion order = rank order); only CurrentIndex advances on later turns.
//
// Invariant: 0 <= CurrentIndex < TotalCount.
type NavigationState struct {
	ConversationID string    `json:"conversation_id"`
	ItemIDs        []int64   `json:"item_ids"`
	CurrentIndex   int       `json:"current_index"`
	TotalCount     int       `json:"total_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AtLastItem reports whether the cursor sits on the final item of the result set.
func (s *NavigationState) AtLastItem() bool {
	return s.CurrentIndex >= s.TotalCount-1
}

// Advance moves the cursor one item forward, saturating at the last item.
// Repeated calls past the end are no-ops.
func (s *NavigationState) Advance() {
	if s.CurrentIndex < s.TotalCount-1 {
		s.CurrentIndex++
	}
	s.UpdatedAt = time.Now()
}
