// Package genai provides the generative answer tier using the OpenAI API.
//
// This tier is an alternative response source that bypasses the rule-based
// resolver entirely; it is only selected by the API layer when an API key is
// configured and the request asks for it.
package genai

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultSystemPrompt frames the assistant for shop questions when the caller
// does not supply its own framing.
const DefaultSystemPrompt = "Je bent een behulpzame assistent van een cosmetica-webwinkel. " +
	"Beantwoord vragen over producten, ingrediënten en huidverzorging kort en vriendelijk, in het Nederlands."

// completionService is the minimal chat-completion surface used by Client,
// split out so tests can substitute a fake.
type completionService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// Client wraps the OpenAI chat completion service.
type Client struct {
	chat  completionService
	model openai.ChatModel
}

// NewClient initializes a GenAI client using the OPENAI_API_KEY environment variable.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	cli := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{chat: &cli.Chat.Completions, model: openai.ChatModelGPT4oMini}, nil
}

// Answer generates a reply for one user message.
func (c *Client) Answer(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
