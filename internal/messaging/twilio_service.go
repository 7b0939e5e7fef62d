package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/Nellyj1/chatai-sub002/internal/models"
	"github.com/Nellyj1/chatai-sub002/internal/twilioclient"
)

// phoneNumberRegex strips everything that is not a digit from a recipient.
var phoneNumberRegex = regexp.MustCompile(`[^0-9]`)

// TwilioService implements Service using the Twilio REST API for outbound
// messages. Inbound messages are pushed by the webhook handler via HandleIncoming.
type TwilioService struct {
	client   twilioclient.Sender
	messages chan models.InboundMessage
	mu       sync.RWMutex
	stopped  bool
}

// NewTwilioService creates a TwilioService over a Twilio sender.
func NewTwilioService(client twilioclient.Sender) *TwilioService {
	return &TwilioService{
		client:   client,
		messages: make(chan models.InboundMessage, DefaultChannelBufferSize),
	}
}

// ValidateAndCanonicalizeRecipient validates and canonicalizes a phone number.
// It removes all non-numeric characters and requires at least 6 digits.
func (s *TwilioService) ValidateAndCanonicalizeRecipient(recipient string) (string, error) {
	if recipient == "" {
		return "", fmt.Errorf("recipient cannot be empty")
	}

	canonical := phoneNumberRegex.ReplaceAllString(recipient, "")
	if canonical == "" {
		return "", fmt.Errorf("invalid phone number: no digits found in recipient %q", recipient)
	}
	if len(canonical) < 6 {
		return "", fmt.Errorf("invalid phone number: %q is too short (minimum 6 digits required)", canonical)
	}

	if recipient != canonical {
		slog.Debug("TwilioService canonicalized recipient", "original", recipient, "canonical", canonical)
	}
	return canonical, nil
}

// Start is a no-op; the webhook handler feeds the inbound channel.
func (s *TwilioService) Start(ctx context.Context) error {
	return nil
}

// Stop marks the service stopped and closes the inbound channel.
func (s *TwilioService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return nil
	}
	s.stopped = true
	close(s.messages)
	return nil
}

// SendMessage sends an outbound reply via Twilio.
func (s *TwilioService) SendMessage(ctx context.Context, to string, body string) error {
	s.mu.RLock()
	stopped := s.stopped
	s.mu.RUnlock()
	if stopped {
		return ErrServiceStopped
	}

	canonicalTo, err := s.ValidateAndCanonicalizeRecipient(to)
	if err != nil {
		return err
	}
	return s.client.SendMessage(ctx, "+"+canonicalTo, body)
}

// Messages streams inbound messages pushed by the webhook handler.
func (s *TwilioService) Messages() <-chan models.InboundMessage {
	return s.messages
}

// HandleIncoming enqueues one inbound message received by the webhook.
// Messages arriving on a stopped or saturated service are dropped.
func (s *TwilioService) HandleIncoming(from, body string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stopped {
		slog.Warn("TwilioService.HandleIncoming: dropping message, service stopped", "from", from)
		return
	}

	select {
	case s.messages <- models.InboundMessage{From: from, Body: body, Time: time.Now().Unix()}:
	default:
		slog.Warn("TwilioService.HandleIncoming: dropping message, channel full", "from", from)
	}
}
