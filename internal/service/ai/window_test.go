package ai_test

import (
	"testing"

	"github.com/nadhirah/mindcare/backend/internal/model/chat"
	ai "github.com/nadhirah/mindcare/backend/internal/service/ai"
)

func turns(contents ...string) []chat.Message {
	out := make([]chat.Message, len(contents))
	for i, c := range contents {
		role := chat.RoleUser
		if i%2 == 1 {
			role = chat.RoleAssistant
		}
		out[i] = chat.Message{Role: role, Content: c}
	}
	return out
}

func TestWindowShortHistoryUnchanged(t *testing.T) {
	history := turns("a", "b", "c")
	got := ai.Window(history, 6)
	if len(got) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(got))
	}
	if got[0].Content != "a" || got[2].Content != "c" {
		t.Fatalf("order changed: %+v", got)
	}
}

func TestWindowTakesTrailingTurns(t *testing.T) {
	history := turns("a", "b", "c", "d", "e", "f", "g", "h")
	got := ai.Window(history, 6)
	if len(got) != 6 {
		t.Fatalf("expected 6 turns, got %d", len(got))
	}
	if got[0].Content != "c" || got[5].Content != "h" {
		t.Fatalf("expected trailing turns c..h, got %q..%q", got[0].Content, got[5].Content)
	}
}

func TestWindowNonPositive(t *testing.T) {
	if got := ai.Window(turns("a", "b"), 0); got != nil {
		t.Fatalf("expected nil for k=0, got %+v", got)
	}
	if got := ai.Window(nil, 6); got != nil {
		t.Fatalf("expected nil for empty history, got %+v", got)
	}
}
