package ai

import (
	"strings"

	"github.com/nadhirah/mindcare/backend/internal/model/chat"
)

// Turn markers. The builder tags every history turn with these so the
// normalizer can detect where a model spills over into inventing the next
// turn, and can strip echoed tags from the output.
const (
	userOpen       = "<user>"
	userClose      = "</user>"
	assistantOpen  = "<assistant>"
	assistantClose = "</assistant>"
)

// PersonaInstructions is the fixed system block opening every prompt.
const PersonaInstructions = "You are MindCare+, an AI companion for mental health support in Brunei.\n" +
	"Use the knowledge below when answering. If a question is unrelated, gently redirect the conversation back to mental health support."

// DefaultStyle is applied when no style guide is configured or readable.
const DefaultStyle = "Keep replies brief, warm, and supportive. Avoid clinical jargon and never present yourself as a substitute for professional care."

// BuildPrompt composes the full model-ready prompt: system block (persona +
// style + knowledge), the windowed history as tagged turns, the new user
// message verbatim, and an open assistant marker for the reply. It never
// fails; empty style and knowledge simply shrink the system block.
func BuildPrompt(persona, style, knowledgeText string, history []chat.Message, message string) string {
	var b strings.Builder

	b.WriteString(persona)
	b.WriteString("\n\nStyle:\n")
	if style = strings.TrimSpace(style); style == "" {
		style = DefaultStyle
	}
	b.WriteString(style)

	if knowledgeText = strings.TrimSpace(knowledgeText); knowledgeText != "" {
		b.WriteString("\n\nKnowledge:\n")
		b.WriteString(knowledgeText)
	}

	b.WriteString("\n\nConversation so far:\n")
	for _, turn := range history {
		if turn.Role == chat.RoleAssistant {
			b.WriteString(assistantOpen)
			b.WriteString(turn.Content)
			b.WriteString(assistantClose)
		} else {
			b.WriteString(userOpen)
			b.WriteString(turn.Content)
			b.WriteString(userClose)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(userOpen)
	b.WriteString(message)
	b.WriteString(userClose)
	b.WriteString("\n")
	b.WriteString(assistantOpen)
	b.WriteString("\n")

	return b.String()
}
