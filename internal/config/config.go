// ABOUTME: Centralized configuration for the companion core
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the companion core
type Config struct {
	// Paths
	DataDir   string // watched directory scanned for ingestible files
	StoreDir  string // directory holding the persistent vector store
	StatePath string // processed-file record

	// Remote model settings
	APIKey         string
	BaseURL        string
	ChatModel      string
	EmbeddingModel string
	Temperature    float32
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Ingestion settings
	ChunkSize    int
	ChunkOverlap int
	EmbedBatch   int

	// Retrieval settings
	TopK int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	storeDir := getEnv("COMPANION_STORE_DIR", "./knowledge_db")
	cfg := &Config{
		// Defaults
		DataDir:        getEnv("COMPANION_DATA_DIR", "./data"),
		StoreDir:       storeDir,
		StatePath:      getEnv("COMPANION_STATE_FILE", filepath.Join(storeDir, "processed_files.json")),
		APIKey:         os.Getenv("API_KEY"),
		BaseURL:        os.Getenv("BASE_URL"),
		ChatModel:      getEnv("COMPANION_CHAT_MODEL", "qwen-flash"),
		EmbeddingModel: getEnv("COMPANION_EMBEDDING_MODEL", "text-embedding-3-small"),
		Temperature:    float32(getEnvFloat("COMPANION_TEMPERATURE", 0.3)),
		Timeout:        getEnvDuration("COMPANION_TIMEOUT", 60*time.Second),
		MaxRetries:     getEnvInt("COMPANION_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("COMPANION_RETRY_DELAY", 2*time.Second),
		ChunkSize:      getEnvInt("COMPANION_CHUNK_SIZE", 500),
		ChunkOverlap:   getEnvInt("COMPANION_CHUNK_OVERLAP", 50),
		EmbedBatch:     getEnvInt("COMPANION_EMBED_BATCH", 16),
		TopK:           getEnvInt("COMPANION_TOP_K", 5),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("COMPANION_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("COMPANION_CHUNK_OVERLAP must be in [0, chunk size), got %d", c.ChunkOverlap)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("COMPANION_TEMPERATURE must be 0-2, got %f", c.Temperature)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("COMPANION_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("COMPANION_TOP_K must be positive, got %d", c.TopK)
	}
	if c.EmbedBatch <= 0 {
		return fmt.Errorf("COMPANION_EMBED_BATCH must be positive, got %d", c.EmbedBatch)
	}
	return nil
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
