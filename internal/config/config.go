package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// placeholderKeys are credential values that look set but are template
// leftovers. A key matching one of these starts the pipeline in
// text-search-only mode rather than failing startup.
var placeholderKeys = map[string]struct{}{
	"your-api-key":     {},
	"your-openai-key":  {},
	"sk-your-key-here": {},
	"sk-placeholder":   {},
	"changeme":         {},
}

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	EmbeddingAPIKey    string
	EmbeddingDims      int
	EmbeddingTimeout   time.Duration
	EmbeddingRetries   int
	DBPath             string
	QdrantURL          string
	QdrantCollection   string
	APIPort            string
	LogLevel           slog.Level
	LogFormat          string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		LLMBaseURL:         getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModelName:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:          getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		EmbeddingAPIKey:    getEnv("OPENAI_API_KEY", ""),
		DBPath:             getEnv("DB_PATH", "./data/notemind.db"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "note_chunks"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	// Embedding dimensionality must match the provider model's output.
	// text-embedding-3-small produces 1536-dim vectors. If the model changes,
	// the Qdrant collection must be recreated with the new size.
	dimsStr := getEnv("EMBEDDING_DIMS", "1536")
	dims, err := strconv.Atoi(dimsStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_DIMS must be a valid integer: %w", err)
	}
	if dims <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIMS must be greater than 0")
	}
	cfg.EmbeddingDims = dims

	timeoutStr := getEnv("EMBEDDING_TIMEOUT_SECONDS", "15")
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSecs <= 0 {
		return nil, fmt.Errorf("EMBEDDING_TIMEOUT_SECONDS must be a positive integer")
	}
	cfg.EmbeddingTimeout = time.Duration(timeoutSecs) * time.Second

	retriesStr := getEnv("EMBEDDING_RETRIES", "2")
	retries, err := strconv.Atoi(retriesStr)
	if err != nil || retries < 0 {
		return nil, fmt.Errorf("EMBEDDING_RETRIES must be a non-negative integer")
	}
	cfg.EmbeddingRetries = retries

	switch strings.ToLower(getEnv("LOG_LEVEL", "info")) {
	case "debug":
		cfg.LogLevel = slog.LevelDebug
	case "info":
		cfg.LogLevel = slog.LevelInfo
	case "warn":
		cfg.LogLevel = slog.LevelWarn
	case "error":
		cfg.LogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// EmbeddingsConfigured reports whether the embedding credential is present,
// syntactically plausible, and not a known placeholder. A false result is not
// an error: the pipeline runs in text-search-only mode.
func (c *Config) EmbeddingsConfigured() bool {
	key := strings.TrimSpace(c.EmbeddingAPIKey)
	if key == "" {
		return false
	}
	if !strings.HasPrefix(key, "sk-") {
		return false
	}
	if _, bad := placeholderKeys[strings.ToLower(key)]; bad {
		return false
	}
	return true
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
