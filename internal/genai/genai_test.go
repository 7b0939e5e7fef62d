package genai

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// fakeCompletions records the last request and returns a canned completion.
type fakeCompletions struct {
	lastParams openai.ChatCompletionNewParams
	reply      string
	err        error
}

func (f *fakeCompletions) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	f.lastParams = params
	if f.err != nil {
		return nil, f.err
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func TestAnswer(t *testing.T) {
	fake := &fakeCompletions{reply: "Hyaluronzuur hydrateert de huid."}
	client := &Client{chat: fake, model: openai.ChatModelGPT4oMini}

	got, err := client.Answer(context.Background(), "", "Wat doet hyaluronzuur?")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if got != "Hyaluronzuur hydrateert de huid." {
		t.Errorf("Answer = %q", got)
	}
	if len(fake.lastParams.Messages) != 2 {
		t.Fatalf("sent %d messages, want 2", len(fake.lastParams.Messages))
	}
}

func TestAnswerPropagatesError(t *testing.T) {
	fake := &fakeCompletions{err: errors.New("rate limited")}
	client := &Client{chat: fake, model: openai.ChatModelGPT4oMini}

	if _, err := client.Answer(context.Background(), "", "Hallo"); err == nil {
		t.Error("expected error from failing completion service")
	}
}

type emptyCompletions struct{}

func (emptyCompletions) New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error) {
	return &openai.ChatCompletion{}, nil
}

func TestAnswerNoChoices(t *testing.T) {
	client := &Client{chat: emptyCompletions{}, model: openai.ChatModelGPT4oMini}

	if _, err := client.Answer(context.Background(), "", "Hallo"); err == nil {
		t.Error("expected error for a completion without choices")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewClient(); err == nil {
		t.Error("expected error without OPENAI_API_KEY")
	}
}

// The real chat completion service has pointer-receiver methods; make sure the
// pointer type keeps satisfying the interface Client is built on.
var _ completionService = (*openai.ChatCompletionService)(nil)

func TestNewClientBuildsCompletionService(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	client, err := NewClient()
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.chat == nil {
		t.Error("client has no completion service")
	}
}
