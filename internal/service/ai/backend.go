package ai

import (
	"context"

	"github.com/nadhirah/mindcare/backend/internal/config"
)

// Generator is a text-generation backend. Generate maps a finished prompt to
// raw model output, or to the empty string on any failure: backends log their
// own diagnostics and never surface errors to callers. Implementations must
// bound their own execution time and release any process or connection on
// every exit path.
type Generator interface {
	Generate(ctx context.Context, prompt string) string
	// Name and Model identify the backend in logs and the fallback message.
	Name() string
	Model() string
}

// NewGenerator builds the backend the deployment selected. The choice is
// made once at startup; both variants are interchangeable to callers.
func NewGenerator(cfg config.AIConfig) Generator {
	if cfg.Backend == config.BackendOpenAI {
		return NewOpenAIBackend(OpenAIOptions{
			APIKey:      cfg.OpenAIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.OpenAIModel,
			Timeout:     cfg.OpenAITimeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		})
	}
	return NewOllamaBackend(cfg.OllamaModel, cfg.OllamaTimeout)
}
