// ABOUTME: Unified Store that wraps all SQLite index stores
// ABOUTME: Owns the single transaction that makes index rebuilds atomic
package sqlite

import (
	"fmt"

	"github.com/harper/docqa/internal/models"
)

// Store manages all persisted index data for one document
type Store struct {
	db         *DB
	chunks     *ChunkStore
	embeddings *EmbeddingStore
	meta       *MetaStore
}

// NewStore opens the index database at the given path
func NewStore(path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStore(db), nil
}

// NewStoreInMemory creates an in-memory store (for testing)
func NewStoreInMemory() (*Store, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStore(db), nil
}

func newStore(db *DB) *Store {
	return &Store{
		db:         db,
		chunks:     NewChunkStore(db),
		embeddings: NewEmbeddingStore(db),
		meta:       NewMetaStore(db),
	}
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Chunks returns the chunk store
func (s *Store) Chunks() *ChunkStore {
	return s.chunks
}

// Embeddings returns the embedding store
func (s *Store) Embeddings() *EmbeddingStore {
	return s.embeddings
}

// Meta returns the index metadata store
func (s *Store) Meta() *MetaStore {
	return s.meta
}

// ReplaceIndex swaps the entire index in one transaction: old rows out,
// new chunks and vectors in, metadata written last. A crash anywhere
// rolls the whole thing back, so the store never holds a partial build.
func (s *Store) ReplaceIndex(chunks []models.Chunk, vectors map[string][]float64, meta *models.IndexMeta) error {
	if meta == nil {
		return fmt.Errorf("index metadata is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin index transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{
		`DELETE FROM embeddings`,
		`DELETE FROM chunks`,
		`DELETE FROM index_meta`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to clear previous index: %w", err)
		}
	}

	for i := range chunks {
		chunk := &chunks[i]
		vector, ok := vectors[chunk.ID]
		if !ok {
			return fmt.Errorf("missing vector for chunk %s", chunk.ID)
		}
		if err := s.chunks.insertTx(tx, chunk); err != nil {
			return err
		}
		if err := s.embeddings.insertTx(tx, chunk.ID, vector); err != nil {
			return err
		}
	}

	if err := s.meta.saveTx(tx, meta); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}
