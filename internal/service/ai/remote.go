package ai

import (
	"context"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// remoteSystemNote frames the prompt blob for chat-completion APIs.
const remoteSystemNote = "Continue the conversation below. Reply only with the assistant's next message."

// OpenAIOptions configure the remote HTTP backend. BaseURL may point at any
// OpenAI-compatible endpoint.
type OpenAIOptions struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float32
}

// OpenAIBackend issues one authenticated chat-completion request per prompt.
type OpenAIBackend struct {
	client *openai.Client
	opts   OpenAIOptions
}

// NewOpenAIBackend configures the remote HTTP backend.
func NewOpenAIBackend(opts OpenAIOptions) *OpenAIBackend {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), opts: opts}
}

func (b *OpenAIBackend) Name() string  { return "OpenAI" }
func (b *OpenAIBackend) Model() string { return b.opts.Model }

// Generate performs the request with a bounded timeout. Transport errors,
// non-success statuses, and malformed bodies all degrade to "": the SDK
// folds them into the returned error, which is logged and swallowed here.
func (b *OpenAIBackend) Generate(ctx context.Context, prompt string) string {
	ctx, cancel := context.WithTimeout(ctx, b.opts.Timeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: b.opts.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: remoteSystemNote},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   b.opts.MaxTokens,
		Temperature: b.opts.Temperature,
	})

	log := logrus.WithFields(logrus.Fields{"backend": b.Name(), "model": b.opts.Model})
	if err != nil {
		log.WithError(err).Warn("chat completion request failed")
		return ""
	}
	if len(resp.Choices) == 0 {
		log.Warn("chat completion returned no choices")
		return ""
	}
	return resp.Choices[0].Message.Content
}
