// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Pipeline construction and small formatting utilities
package commands

import (
	"fmt"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/core"
	"github.com/atelier-iris/companion/internal/loader"
	"github.com/atelier-iris/companion/internal/storage"
)

// buildPipeline assembles the ingestion pipeline from configuration.
// A nil embedder is fine for commands that never write to the store.
func buildPipeline(cfg *config.Config, embedder storage.Embedder) (*core.Pipeline, error) {
	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("configuring chunker: %w", err)
	}
	return core.NewPipeline(cfg, loader.DefaultRegistry(), chunker,
		core.NewTracker(cfg.StatePath), embedder), nil
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}
