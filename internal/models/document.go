// ABOUTME: Document models for the ingestion pipeline
// ABOUTME: Defines SourceUnit and Chunk with source/page provenance
package models

import "github.com/google/uuid"

// SourceUnit is one loaded piece of content: a single PDF page, a whole
// text file, or one markdown section. Immutable once created.
type SourceUnit struct {
	Content    string `json:"content"`
	SourcePath string `json:"source_path"`
	// PageIndex is the zero-based page number for paginated formats.
	// Nil for formats without page structure.
	PageIndex *int `json:"page_index,omitempty"`
}

// Chunk is a bounded-length slice of a SourceUnit's content, the unit of
// embedding and storage. Source metadata is inherited from the parent unit.
type Chunk struct {
	ChunkID    string `json:"chunk_id"`
	Content    string `json:"content"`
	SourcePath string `json:"source_path"`
	PageIndex  *int   `json:"page_index,omitempty"`
}

// NewChunk creates a chunk inheriting the unit's provenance metadata.
func NewChunk(content string, unit SourceUnit) Chunk {
	return Chunk{
		ChunkID:    generateChunkID(),
		Content:    content,
		SourcePath: unit.SourcePath,
		PageIndex:  unit.PageIndex,
	}
}

// PageRef returns a pointer to the given zero-based page index.
func PageRef(page int) *int {
	return &page
}

// generateChunkID generates a unique chunk ID
func generateChunkID() string {
	return "chunk_" + uuid.New().String()
}
