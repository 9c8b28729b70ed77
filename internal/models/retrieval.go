// ABOUTME: Retrieval models for similarity search results
// ABOUTME: Defines RetrievedChunk returned per query with its score
package models

// RetrievedChunk is one similarity-search hit: stored chunk content plus
// its provenance and cosine similarity score. Transient, never persisted.
type RetrievedChunk struct {
	Content    string  `json:"content"`
	SourcePath string  `json:"source_path"`
	PageIndex  *int    `json:"page_index,omitempty"`
	Score      float64 `json:"score"`
}
