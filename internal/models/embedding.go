// ABOUTME: Embedding models for vector storage and similarity search
// ABOUTME: Defines the stored Embedding and the raw VectorSearchResult
package models

import "time"

// Embedding represents a stored embedding vector for a chunk
type Embedding struct {
	ChunkID   string    `json:"chunk_id"`
	Vector    []float64 `json:"vector"`
	CreatedAt time.Time `json:"created_at"`
}

// VectorSearchResult is one raw similarity hit before dedup and ranking
type VectorSearchResult struct {
	ChunkID         string  `json:"chunk_id"`
	SimilarityScore float64 `json:"similarity_score"`
}
