// ABOUTME: IndexMeta describes a committed index build
// ABOUTME: Its presence is the marker that a rebuild completed atomically
package models

import "time"

// IndexMeta is the singleton metadata row written in the same
// transaction as the index rows themselves. A store without it holds no
// trustworthy index, whatever else its tables contain.
type IndexMeta struct {
	Fingerprint    string    `json:"fingerprint"`
	EmbeddingModel string    `json:"embedding_model"`
	ChunkSize      int       `json:"chunk_size"`
	ChunkOverlap   int       `json:"chunk_overlap"`
	PageCount      int       `json:"page_count"`
	ChunkCount     int       `json:"chunk_count"`
	BuiltAt        time.Time `json:"built_at"`
}
