// ABOUTME: Chunker splitting source units into overlapping embedding-sized segments
// ABOUTME: Recursive character splitting prefers paragraph, sentence, then word breaks
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/atelier-iris/companion/internal/models"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters
	DefaultChunkSize = 500
	// DefaultChunkOverlap is shared between consecutive chunks of one unit
	DefaultChunkOverlap = 50
)

// Chunker splits loaded source units into chunks for embedding.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with validated settings.
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, errors.New("chunk size must be greater than zero")
	}
	if overlap < 0 {
		return nil, errors.New("chunk overlap cannot be negative")
	}
	if overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split chunks every unit's content, inheriting source metadata unchanged.
// Whitespace-only units yield zero chunks.
func (c *Chunker) Split(units []models.SourceUnit) ([]models.Chunk, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(c.size),
		textsplitter.WithChunkOverlap(c.overlap),
	)

	var chunks []models.Chunk
	for _, unit := range units {
		if strings.TrimSpace(unit.Content) == "" {
			continue
		}

		segments, err := splitter.SplitText(unit.Content)
		if err != nil {
			return nil, fmt.Errorf("splitting %s: %w", unit.SourcePath, err)
		}

		for _, segment := range segments {
			text := strings.TrimSpace(segment)
			if text == "" {
				continue
			}
			chunks = append(chunks, models.NewChunk(text, unit))
		}
	}

	return chunks, nil
}
