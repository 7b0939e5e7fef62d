package messaging

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Nellyj1/chatai-sub002/internal/models"
	"github.com/Nellyj1/chatai-sub002/internal/resolver"
)

// invalidLengthReply is sent when an inbound message falls outside the
// resolver's accepted length bounds. Length checks are a channel
// responsibility; the resolver core never sees such messages.
const invalidLengthReply = "Stuur een korte vraag (maximaal 1000 tekens), dan help ik je graag verder."

// Responder routes inbound channel messages through the resolver and sends the
// reply back on the same channel. The sender's canonical number doubles as the
// conversation id, so navigation state follows the phone number.
type Responder struct {
	service  Service
	resolver *resolver.Resolver
}

// NewResponder creates a Responder over a messaging service and resolver.
func NewResponder(service Service, res *resolver.Resolver) *Responder {
	return &Responder{service: service, resolver: res}
}

// Start begins consuming inbound messages until the context is cancelled or
// the service's channel is closed.
func (r *Responder) Start(ctx context.Context) {
	slog.Info("Responder starting message processing")

	go func() {
		defer slog.Info("Responder stopped message processing")

		for {
			select {
			case msg, ok := <-r.service.Messages():
				if !ok {
					slog.Debug("Responder messages channel closed")
					return
				}
				if err := r.processMessage(ctx, msg); err != nil {
					slog.Error("Responder failed to process message", "error", err, "from", msg.From)
				}

			case <-ctx.Done():
				slog.Debug("Responder stopping due to context cancellation")
				return
			}
		}
	}()
}

// processMessage resolves one inbound message and sends the reply.
func (r *Responder) processMessage(ctx context.Context, msg models.InboundMessage) error {
	from, err := r.service.ValidateAndCanonicalizeRecipient(msg.From)
	if err != nil {
		return err
	}

	body := strings.TrimSpace(msg.Body)
	length := utf8.RuneCountInString(body)
	if length < models.MinMessageLength || length > models.MaxMessageLength {
		slog.Debug("Responder rejecting message outside length bounds", "from", from, "length", length)
		return r.service.SendMessage(ctx, from, invalidLengthReply)
	}

	result := r.resolver.Resolve(ctx, body, from)
	slog.Debug("Responder resolved message", "from", from, "source", result.Source)
	return r.service.SendMessage(ctx, from, result.Reply)
}
