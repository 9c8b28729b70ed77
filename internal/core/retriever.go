// ABOUTME: Retriever returning the top-k stored chunks for a query
// ABOUTME: Thin delegation to the index; no rewriting, re-ranking or dedup
package core

import (
	"context"

	"github.com/atelier-iris/companion/internal/models"
	"github.com/atelier-iris/companion/internal/storage"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 5

// Retriever answers similarity queries against an open index.
type Retriever struct {
	index *storage.Index
	k     int
}

func NewRetriever(index *storage.Index, k int) *Retriever {
	if k <= 0 {
		k = DefaultTopK
	}
	return &Retriever{index: index, k: k}
}

// Retrieve returns up to k chunks most similar to the query, best first.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]models.RetrievedChunk, error) {
	return r.index.Query(ctx, query, r.k)
}
