// ABOUTME: Centralized configuration for the document QA pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/harper/docqa/internal/models"
)

// Config holds all configuration for the pipeline
type Config struct {
	// Storage settings
	DataDir string

	// Chunking settings
	ChunkSize    int
	ChunkOverlap int

	// Retrieval settings
	TopK     int
	MinScore float64

	// Conversation settings
	HistoryWindow int

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		DataDir:        getEnv("DOCQA_DATA_DIR", defaultDataDir()),
		ChunkSize:      getEnvInt("DOCQA_CHUNK_SIZE", 500),
		ChunkOverlap:   getEnvInt("DOCQA_CHUNK_OVERLAP", 100),
		TopK:           getEnvInt("DOCQA_TOP_K", 5),
		MinScore:       getEnvFloat("DOCQA_MIN_SCORE", 0.25),
		HistoryWindow:  getEnvInt("DOCQA_HISTORY_WINDOW", 10),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("DOCQA_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("DOCQA_EMBEDDING_MODEL", "text-embedding-3-small"),
		Timeout:        getEnvDuration("OPENAI_TIMEOUT", 30*time.Second),
		MaxRetries:     getEnvInt("OPENAI_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("OPENAI_RETRY_DELAY", 2*time.Second),
	}

	return cfg, cfg.Validate()
}

// Validate checks ranges. Violations are ConfigErrors: fatal at startup,
// never retried.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return models.NewConfigError("DOCQA_CHUNK_SIZE", fmt.Sprintf("must be positive, got %d", c.ChunkSize))
	}
	if c.ChunkOverlap < 0 {
		return models.NewConfigError("DOCQA_CHUNK_OVERLAP", fmt.Sprintf("must be non-negative, got %d", c.ChunkOverlap))
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return models.NewConfigError("DOCQA_CHUNK_OVERLAP",
			fmt.Sprintf("must be smaller than DOCQA_CHUNK_SIZE, got %d >= %d", c.ChunkOverlap, c.ChunkSize))
	}
	if c.TopK <= 0 {
		return models.NewConfigError("DOCQA_TOP_K", fmt.Sprintf("must be positive, got %d", c.TopK))
	}
	if c.MinScore < -1 || c.MinScore > 1 {
		return models.NewConfigError("DOCQA_MIN_SCORE", fmt.Sprintf("must be within [-1, 1], got %f", c.MinScore))
	}
	if c.HistoryWindow < 0 {
		return models.NewConfigError("DOCQA_HISTORY_WINDOW", fmt.Sprintf("must be non-negative, got %d", c.HistoryWindow))
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return models.NewConfigError("OPENAI_MAX_RETRIES", fmt.Sprintf("must be 0-10, got %d", c.MaxRetries))
	}
	return nil
}

// DBPath returns the index database path under the data directory
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "index.db")
}

// defaultDataDir returns the XDG data directory for the index.
// Respects XDG_DATA_HOME environment variable override for testing.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "docqa")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
