// Package messaging provides the optional delivery channel for the resolver.
//
// A Service carries outbound replies and surfaces inbound messages; the
// Responder pipes each inbound message through the resolver, using the
// sender's canonical number as the conversation id.
package messaging

import (
	"context"
	"errors"

	"github.com/Nellyj1/chatai-sub002/internal/models"
)

// DefaultChannelBufferSize sizes the inbound message channel.
const DefaultChannelBufferSize = 100

// ErrServiceStopped is returned when a send is attempted on a stopped service.
var ErrServiceStopped = errors.New("messaging service is stopped")

// Service is a bidirectional delivery channel.
type Service interface {
	// Start prepares the channel for use.
	Start(ctx context.Context) error
	// Stop shuts the channel down; Messages is closed afterwards.
	Stop() error
	// SendMessage delivers one outbound message.
	SendMessage(ctx context.Context, to string, body string) error
	// Messages streams inbound messages.
	Messages() <-chan models.InboundMessage
	// ValidateAndCanonicalizeRecipient normalizes a recipient address.
	ValidateAndCanonicalizeRecipient(recipient string) (string, error)
}
