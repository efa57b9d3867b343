package config_test

import (
	"testing"

	"github.com/nadhirah/mindcare/backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	// Empty values read as unset, so this pins the test against whatever
	// the surrounding environment exports.
	for _, key := range []string{"PORT", "AI_BACKEND", "CHAT_HISTORY_WINDOW"} {
		t.Setenv(key, "")
	}

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.AI.Backend != config.BackendOllama {
		t.Fatalf("unexpected default backend: %q", cfg.AI.Backend)
	}
	if cfg.AI.HistoryWindow != 6 {
		t.Fatalf("unexpected default history window: %d", cfg.AI.HistoryWindow)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsNonPositiveWindow(t *testing.T) {
	for _, raw := range []string{"0", "-3"} {
		t.Setenv("CHAT_HISTORY_WINDOW", raw)
		if _, err := config.Load(); err == nil {
			t.Fatalf("CHAT_HISTORY_WINDOW=%s should fail validation", raw)
		}
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("AI_BACKEND", "bard")
	if _, err := config.Load(); err == nil {
		t.Fatal("unknown AI_BACKEND should fail validation")
	}
}

func TestLoadOpenAIRequiresKey(t *testing.T) {
	t.Setenv("AI_BACKEND", config.BackendOpenAI)
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := config.Load(); err == nil {
		t.Fatal("openai backend without OPENAI_API_KEY should fail validation")
	}
}
