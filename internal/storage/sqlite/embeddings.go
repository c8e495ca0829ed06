// ABOUTME: Embedding storage operations for SQLite
// ABOUTME: Implements vector storage as BLOB and cosine similarity search
package sqlite

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/harper/docqa/internal/models"
)

// EmbeddingStore handles embedding persistence
type EmbeddingStore struct {
	db *DB
}

// NewEmbeddingStore creates a new EmbeddingStore
func NewEmbeddingStore(db *DB) *EmbeddingStore {
	return &EmbeddingStore{db: db}
}

// GetByChunkID retrieves an embedding by chunk ID. Returns nil without
// error when the chunk has no stored vector.
func (s *EmbeddingStore) GetByChunkID(chunkID string) (*models.Embedding, error) {
	var (
		emb  models.Embedding
		blob []byte
	)

	err := s.db.QueryRow(`
		SELECT chunk_id, vector, created_at
		FROM embeddings
		WHERE chunk_id = ?
	`, chunkID).Scan(&emb.ChunkID, &blob, &emb.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get embedding for %s: %w", chunkID, err)
	}

	emb.Vector = blobToVector(blob)
	return &emb, nil
}

// Count returns the number of stored vectors
func (s *EmbeddingStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count embeddings: %w", err)
	}
	return count, nil
}

// SearchSimilar performs cosine similarity search over every stored
// vector and returns the top maxResults hits, best first.
func (s *EmbeddingStore) SearchSimilar(queryVector []float64, maxResults int) ([]models.VectorSearchResult, error) {
	rows, err := s.db.Query(`
		SELECT chunk_id, vector
		FROM embeddings
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to scan embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []models.VectorSearchResult

	for rows.Next() {
		var (
			chunkID string
			blob    []byte
		)

		if err := rows.Scan(&chunkID, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan embedding row: %w", err)
		}

		results = append(results, models.VectorSearchResult{
			ChunkID:         chunkID,
			SimilarityScore: CosineSimilarity(queryVector, blobToVector(blob)),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity descending
	sort.Slice(results, func(i, j int) bool {
		return results[i].SimilarityScore > results[j].SimilarityScore
	})

	// Limit results
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	return results, nil
}

// insertTx inserts a vector inside an index rebuild transaction
func (s *EmbeddingStore) insertTx(tx *sql.Tx, chunkID string, vector []float64) error {
	if len(vector) == 0 {
		return fmt.Errorf("empty vector for chunk %s", chunkID)
	}
	_, err := tx.Exec(`
		INSERT INTO embeddings (chunk_id, vector)
		VALUES (?, ?)
	`, chunkID, vectorToBlob(vector))
	if err != nil {
		return fmt.Errorf("failed to insert embedding for %s: %w", chunkID, err)
	}
	return nil
}

// vectorToBlob converts a float64 slice to binary blob
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob to float64 slice
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
