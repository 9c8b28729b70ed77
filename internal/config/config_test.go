// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %s, want ./data", cfg.DataDir)
	}
	if cfg.StoreDir != "./knowledge_db" {
		t.Errorf("StoreDir = %s, want ./knowledge_db", cfg.StoreDir)
	}
	if cfg.StatePath != filepath.Join("./knowledge_db", "processed_files.json") {
		t.Errorf("StatePath = %s, want state file inside store dir", cfg.StatePath)
	}
	if cfg.ChatModel != "qwen-flash" {
		t.Errorf("ChatModel = %s, want qwen-flash", cfg.ChatModel)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.Temperature != 0.3 {
		t.Errorf("Temperature = %f, want 0.3", cfg.Temperature)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want 500", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 50 {
		t.Errorf("ChunkOverlap = %d, want 50", cfg.ChunkOverlap)
	}
	if cfg.TopK != 5 {
		t.Errorf("TopK = %d, want 5", cfg.TopK)
	}
	if cfg.EmbedBatch != 16 {
		t.Errorf("EmbedBatch = %d, want 16", cfg.EmbedBatch)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	os.Setenv("COMPANION_DATA_DIR", "/srv/drops")
	os.Setenv("COMPANION_STORE_DIR", "/srv/kb")
	os.Setenv("COMPANION_STATE_FILE", "/srv/kb/seen.json")
	os.Setenv("API_KEY", "test-key")
	os.Setenv("BASE_URL", "https://llm.example.com/v1")
	os.Setenv("COMPANION_CHAT_MODEL", "gpt-4o-mini")
	os.Setenv("COMPANION_EMBEDDING_MODEL", "text-embedding-3-large")
	os.Setenv("COMPANION_TEMPERATURE", "0.7")
	os.Setenv("COMPANION_TIMEOUT", "30s")
	os.Setenv("COMPANION_MAX_RETRIES", "5")
	os.Setenv("COMPANION_CHUNK_SIZE", "800")
	os.Setenv("COMPANION_CHUNK_OVERLAP", "80")
	os.Setenv("COMPANION_TOP_K", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != "/srv/drops" {
		t.Errorf("DataDir = %s, want /srv/drops", cfg.DataDir)
	}
	if cfg.StoreDir != "/srv/kb" {
		t.Errorf("StoreDir = %s, want /srv/kb", cfg.StoreDir)
	}
	if cfg.StatePath != "/srv/kb/seen.json" {
		t.Errorf("StatePath = %s, want /srv/kb/seen.json", cfg.StatePath)
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %s, want test-key", cfg.APIKey)
	}
	if cfg.BaseURL != "https://llm.example.com/v1" {
		t.Errorf("BaseURL = %s, want https://llm.example.com/v1", cfg.BaseURL)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("ChatModel = %s, want gpt-4o-mini", cfg.ChatModel)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %f, want 0.7", cfg.Temperature)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.ChunkSize != 800 {
		t.Errorf("ChunkSize = %d, want 800", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 80 {
		t.Errorf("ChunkOverlap = %d, want 80", cfg.ChunkOverlap)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{"temperature too high", func(c *Config) { c.Temperature = 3.0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"too many retries", func(c *Config) { c.MaxRetries = 11 }},
		{"zero top k", func(c *Config) { c.TopK = 0 }},
		{"zero embed batch", func(c *Config) { c.EmbedBatch = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() failed: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	os.Clearenv()
	os.Setenv("COMPANION_CHUNK_SIZE", "not-a-number")
	os.Setenv("COMPANION_TEMPERATURE", "warm")
	os.Setenv("COMPANION_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ChunkSize != 500 {
		t.Errorf("ChunkSize = %d, want default 500", cfg.ChunkSize)
	}
	if cfg.Temperature != 0.3 {
		t.Errorf("Temperature = %f, want default 0.3", cfg.Temperature)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want default 60s", cfg.Timeout)
	}
}
