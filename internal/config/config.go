package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend identifiers accepted by AI_BACKEND.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
)

// Config aggregates every runtime setting. It is loaded once in main and
// never mutated afterwards.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	Content  ContentConfig
	CORS     CORSConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Database: DatabaseConfig{URL: strings.TrimSpace(os.Getenv("DATABASE_URL"))},
		Auth:     auth,
		AI:       ai,
		Content: ContentConfig{
			KnowledgePath: getEnvOrDefault("KNOWLEDGE_PATH", "assets/mindcare_context.txt"),
			StylePath:     getEnvOrDefault("STYLE_PATH", "assets/style_guide.txt"),
		},
		CORS: CORSConfig{Origins: splitOrigins(getEnvOrDefault("CORS_ORIGINS", "*"))},
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DatabaseConfig selects the persistence backend. An empty URL runs the
// server on the in-memory store.
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds token-signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

func loadAuthConfig() (AuthConfig, error) {
	ttlSeconds := 7 * 24 * 60 * 60
	if override, err := parseOptionalIntEnv("JWT_TTL_SECONDS"); err != nil {
		return AuthConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return AuthConfig{}, fmt.Errorf("JWT_TTL_SECONDS must be positive, got %d", *override)
		}
		ttlSeconds = *override
	}

	return AuthConfig{
		JWTSecret: getEnvOrDefault("JWT_SECRET", "change_this_secret_key"),
		TokenTTL:  time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// AIConfig describes the generation backend. Exactly one backend is active
// per deployment.
type AIConfig struct {
	Backend string

	OllamaModel   string
	OllamaTimeout time.Duration

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration

	MaxTokens   int
	Temperature float32

	HistoryWindow int
}

// ActiveModel names the model of whichever backend is selected, for logs and
// the generation-failure fallback message.
func (c AIConfig) ActiveModel() string {
	if c.Backend == BackendOpenAI {
		return c.OpenAIModel
	}
	return c.OllamaModel
}

func loadAIConfig() (AIConfig, error) {
	backend := getEnvOrDefault("AI_BACKEND", BackendOllama)
	if backend != BackendOllama && backend != BackendOpenAI {
		return AIConfig{}, fmt.Errorf("invalid AI_BACKEND value %q (supported: %s, %s)", backend, BackendOllama, BackendOpenAI)
	}

	ollamaTimeout := 60
	if override, err := parseOptionalIntEnv("OLLAMA_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		ollamaTimeout = *override
	}

	openAITimeout := 30
	if override, err := parseOptionalIntEnv("OPENAI_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		openAITimeout = *override
	}

	maxTokens := 512
	if override, err := parseOptionalIntEnv("AI_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	temperature := float32(0.7)
	if override, err := parseOptionalFloatEnv("AI_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = float32(*override)
	}

	window := 6
	if override, err := parseOptionalIntEnv("CHAT_HISTORY_WINDOW"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		if *override <= 0 {
			return AIConfig{}, fmt.Errorf("CHAT_HISTORY_WINDOW must be positive, got %d", *override)
		}
		window = *override
	}

	cfg := AIConfig{
		Backend:       backend,
		OllamaModel:   getEnvOrDefault("OLLAMA_MODEL", "llama3"),
		OllamaTimeout: time.Duration(ollamaTimeout) * time.Second,
		OpenAIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAITimeout: time.Duration(openAITimeout) * time.Second,
		MaxTokens:     maxTokens,
		Temperature:   temperature,
		HistoryWindow: window,
	}

	if cfg.Backend == BackendOpenAI && cfg.OpenAIKey == "" {
		return AIConfig{}, fmt.Errorf("AI_BACKEND=%s requires OPENAI_API_KEY", BackendOpenAI)
	}

	return cfg, nil
}

// ContentConfig points at the startup-loaded prompt text.
type ContentConfig struct {
	KnowledgePath string
	StylePath     string
}

// CORSConfig lists allowed origins; "*" allows any.
type CORSConfig struct {
	Origins []string
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
