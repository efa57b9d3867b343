// Package ai turns persisted conversation history plus the knowledge base
// into a bounded prompt, invokes the configured generation backend, and
// cleans its output into a reply that is always safe to show.
package ai

import (
	"context"

	"github.com/nadhirah/mindcare/backend/internal/knowledge"
	"github.com/nadhirah/mindcare/backend/internal/model/chat"
)

// Service orchestrates one generation round trip. All fields are immutable
// after construction, so a single instance serves concurrent requests.
type Service struct {
	gen    Generator
	base   knowledge.Base
	window int
}

// NewService wires the backend, startup-loaded knowledge, and window size.
// A non-positive window falls back to the default.
func NewService(gen Generator, base knowledge.Base, window int) *Service {
	if window <= 0 {
		window = DefaultWindowTurns
	}
	return &Service{gen: gen, base: base, window: window}
}

// Reply produces the assistant's answer to message given prior turns. Backend
// failure and degenerate output both yield the fallback message; the result
// is never empty.
func (s *Service) Reply(ctx context.Context, history []chat.Message, message string) string {
	prompt := BuildPrompt(PersonaInstructions, s.base.Style, s.base.Knowledge, Window(history, s.window), message)
	reply := Normalize(s.gen.Generate(ctx, prompt))
	if Degenerate(reply) {
		return FallbackMessage(s.gen.Name(), s.gen.Model())
	}
	return reply
}
