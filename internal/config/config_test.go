package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so ambient shell state and .env
// files cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY", "OPENAI_API_KEY",
		"EMBEDDING_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIMS",
		"EMBEDDING_TIMEOUT_SECONDS", "EMBEDDING_RETRIES",
		"DB_PATH", "QDRANT_URL", "QDRANT_COLLECTION", "API_PORT",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "test.db"))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.APIPort != "9000" {
		t.Errorf("APIPort = %q, want 9000", cfg.APIPort)
	}
	if cfg.QdrantCollection != "note_chunks" {
		t.Errorf("QdrantCollection = %q, want note_chunks", cfg.QdrantCollection)
	}
	if cfg.EmbeddingDims != 1536 {
		t.Errorf("EmbeddingDims = %d, want 1536", cfg.EmbeddingDims)
	}
	if cfg.EmbeddingTimeout != 15*time.Second {
		t.Errorf("EmbeddingTimeout = %v, want 15s", cfg.EmbeddingTimeout)
	}
	if cfg.EmbeddingRetries != 2 {
		t.Errorf("EmbeddingRetries = %d, want 2", cfg.EmbeddingRetries)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMBEDDING_DIMS", "768")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("API_PORT", "8080")
	t.Setenv("OPENAI_API_KEY", "sk-test-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.EmbeddingDims != 768 {
		t.Errorf("EmbeddingDims = %d, want 768", cfg.EmbeddingDims)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.EmbeddingAPIKey != "sk-test-key" {
		t.Errorf("EmbeddingAPIKey = %q", cfg.EmbeddingAPIKey)
	}
	// LLM key falls back to the OpenAI key when unset.
	if cfg.LLMAPIKey != "sk-test-key" {
		t.Errorf("LLMAPIKey = %q, want OPENAI_API_KEY fallback", cfg.LLMAPIKey)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "non-numeric dims", key: "EMBEDDING_DIMS", value: "lots"},
		{name: "zero dims", key: "EMBEDDING_DIMS", value: "0"},
		{name: "bad timeout", key: "EMBEDDING_TIMEOUT_SECONDS", value: "-1"},
		{name: "negative retries", key: "EMBEDDING_RETRIES", value: "-3"},
		{name: "unknown log level", key: "LOG_LEVEL", value: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%s expected error", tt.key, tt.value)
			}
		})
	}
}

func TestEmbeddingsConfigured(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want bool
	}{
		{name: "empty key", key: "", want: false},
		{name: "whitespace key", key: "   ", want: false},
		{name: "plausible key", key: "sk-proj-abc123", want: true},
		{name: "missing prefix", key: "abc123", want: false},
		{name: "placeholder", key: "sk-placeholder", want: false},
		{name: "placeholder any case", key: "SK-PLACEHOLDER", want: false},
		{name: "template leftover", key: "sk-your-key-here", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{EmbeddingAPIKey: tt.key}
			if got := cfg.EmbeddingsConfigured(); got != tt.want {
				t.Errorf("EmbeddingsConfigured(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}
