// ABOUTME: Persistent embedding index backed by SQLite with cosine similarity search
// ABOUTME: Append-only vector storage; deleting the store directory is a full reset
package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/atelier-iris/companion/internal/models"
)

const (
	dbFileName       = "knowledge.db"
	defaultBatchSize = 16
)

// Embedder turns text into vectors. The model identity must stay fixed for
// the lifetime of one store; switching models without rebuilding invalidates
// every stored similarity comparison.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	EmbeddingModel() string
}

// Index is a persistent vector store at a filesystem directory.
// Single logical owner per handle; reopen after out-of-band writes.
type Index struct {
	db        *sql.DB
	dir       string
	embedder  Embedder
	batchSize int
}

// Exists reports whether a store is present at the directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, dbFileName))
	return err == nil
}

// Open opens the store at dir, creating directory and schema when absent.
// An empty store is valid and queryable. A nil embedder gives a read-only
// handle: Count and RecordedModel work, Add and Query error.
func Open(dir string, embedder Embedder, batchSize int) (*Index, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ix := &Index{db: db, dir: dir, embedder: embedder, batchSize: batchSize}
	if err := ix.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return ix, nil
}

// Create builds a new store from scratch with an initial chunk set.
// Used when rebuilding after a full reset.
func Create(ctx context.Context, dir string, embedder Embedder, batchSize int, chunks []models.Chunk) (*Index, error) {
	ix, err := Open(dir, embedder, batchSize)
	if err != nil {
		return nil, err
	}
	if err := ix.Reset(); err != nil {
		ix.Close()
		return nil, err
	}
	if err := ix.Add(ctx, chunks); err != nil {
		ix.Close()
		return nil, err
	}
	return ix, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// Dir returns the store directory.
func (ix *Index) Dir() string {
	return ix.dir
}

func (ix *Index) ensureSchema() error {
	_, err := ix.db.Exec(`
		CREATE TABLE IF NOT EXISTS vectors (
			id          TEXT PRIMARY KEY,
			content     TEXT NOT NULL,
			source_path TEXT NOT NULL,
			page_index  INTEGER,
			embedding   BLOB NOT NULL,
			created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS index_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Add embeds the chunks and appends the resulting vectors to the store.
// Existing rows are never touched. The vector dimension is pinned by the
// first insert; a mismatch afterwards is an error.
func (ix *Index) Add(ctx context.Context, chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if ix.embedder == nil {
		return fmt.Errorf("store opened without an embedder")
	}

	dimension, err := ix.metaInt("dimension")
	if err != nil {
		return err
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, content, source_path, page_index, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}

		vectors, err := ix.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}
		if len(vectors) != len(batch) {
			return fmt.Errorf("embedding result size mismatch: got %d, want %d", len(vectors), len(batch))
		}

		for i, chunk := range batch {
			vec := vectors[i]
			if dimension == 0 {
				dimension = len(vec)
				if err := ix.recordMetaTx(tx, dimension); err != nil {
					return err
				}
			}
			if len(vec) != dimension {
				return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vec), dimension)
			}

			var pageIndex interface{}
			if chunk.PageIndex != nil {
				pageIndex = *chunk.PageIndex
			}

			if _, err := stmt.ExecContext(ctx, chunk.ChunkID, chunk.Content,
				chunk.SourcePath, pageIndex, float32SliceToBytes(vec)); err != nil {
				return fmt.Errorf("inserting vector %s: %w", chunk.ChunkID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query embeds the text with the store's embedding model and returns the k
// nearest stored chunks by cosine similarity, highest first.
func (ix *Index) Query(ctx context.Context, text string, k int) ([]models.RetrievedChunk, error) {
	if k <= 0 {
		return nil, nil
	}
	if ix.embedder == nil {
		return nil, fmt.Errorf("store opened without an embedder")
	}

	vectors, err := ix.embedder.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding returned empty vector")
	}
	queryVec := vectors[0]

	rows, err := ix.db.QueryContext(ctx, `
		SELECT id, content, source_path, page_index, embedding FROM vectors
	`)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	type scored struct {
		id     string
		result models.RetrievedChunk
	}

	var candidates []scored
	for rows.Next() {
		var id, content, sourcePath string
		var pageIndex sql.NullInt64
		var blob []byte
		if err := rows.Scan(&id, &content, &sourcePath, &pageIndex, &blob); err != nil {
			return nil, fmt.Errorf("scanning vector row: %w", err)
		}

		result := models.RetrievedChunk{
			Content:    content,
			SourcePath: sourcePath,
			Score:      cosineSimilarity(queryVec, bytesToFloat32Slice(blob)),
		}
		if pageIndex.Valid {
			result.PageIndex = models.PageRef(int(pageIndex.Int64))
		}
		candidates = append(candidates, scored{id: id, result: result})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vectors: %w", err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].result.Score == candidates[j].result.Score {
			return candidates[i].id < candidates[j].id
		}
		return candidates[i].result.Score > candidates[j].result.Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	results := make([]models.RetrievedChunk, len(candidates))
	for i, c := range candidates {
		results[i] = c.result
	}
	return results, nil
}

// Count returns the number of stored vectors.
func (ix *Index) Count() (int, error) {
	var n int
	if err := ix.db.QueryRow("SELECT COUNT(*) FROM vectors").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting vectors: %w", err)
	}
	return n, nil
}

// RecordedModel returns the embedding model recorded at first insert,
// or empty when the store has never been written.
func (ix *Index) RecordedModel() (string, error) {
	var model string
	err := ix.db.QueryRow("SELECT value FROM index_meta WHERE key = 'embedding_model'").Scan(&model)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading recorded model: %w", err)
	}
	return model, nil
}

// Reset deletes every stored vector and meta entry, leaving an open,
// empty, usable store.
func (ix *Index) Reset() error {
	if _, err := ix.db.Exec("DELETE FROM vectors; DELETE FROM index_meta;"); err != nil {
		return fmt.Errorf("resetting store: %w", err)
	}
	return nil
}

func (ix *Index) metaInt(key string) (int, error) {
	var value string
	err := ix.db.QueryRow("SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading meta %s: %w", key, err)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parsing meta %s: %w", key, err)
	}
	return n, nil
}

func (ix *Index) recordMetaTx(tx *sql.Tx, dimension int) error {
	_, err := tx.Exec(`
		INSERT INTO index_meta (key, value) VALUES
			('dimension', ?),
			('embedding_model', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, strconv.Itoa(dimension), ix.embedder.EmbeddingModel())
	if err != nil {
		return fmt.Errorf("recording index meta: %w", err)
	}
	return nil
}

// cosineSimilarity calculates cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes encodes a vector as little-endian float32 bytes.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
