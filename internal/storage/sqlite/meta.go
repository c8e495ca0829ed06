// ABOUTME: Index metadata persistence for the singleton index_meta row
// ABOUTME: The row is written last inside the rebuild transaction, so its presence proves a complete build
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/docqa/internal/models"
)

// MetaStore handles the index_meta singleton
type MetaStore struct {
	db *DB
}

// NewMetaStore creates a new MetaStore
func NewMetaStore(db *DB) *MetaStore {
	return &MetaStore{db: db}
}

// Get returns the committed index metadata, or nil without error when
// no complete build has ever been committed.
func (s *MetaStore) Get() (*models.IndexMeta, error) {
	var meta models.IndexMeta

	err := s.db.QueryRow(`
		SELECT fingerprint, embedding_model, chunk_size, chunk_overlap, page_count, chunk_count, built_at
		FROM index_meta
		WHERE id = 1
	`).Scan(&meta.Fingerprint, &meta.EmbeddingModel, &meta.ChunkSize, &meta.ChunkOverlap,
		&meta.PageCount, &meta.ChunkCount, &meta.BuiltAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get index metadata: %w", err)
	}

	return &meta, nil
}

// saveTx writes the singleton row inside an index rebuild transaction
func (s *MetaStore) saveTx(tx *sql.Tx, meta *models.IndexMeta) error {
	_, err := tx.Exec(`
		INSERT INTO index_meta (id, fingerprint, embedding_model, chunk_size, chunk_overlap, page_count, chunk_count, built_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			embedding_model = excluded.embedding_model,
			chunk_size = excluded.chunk_size,
			chunk_overlap = excluded.chunk_overlap,
			page_count = excluded.page_count,
			chunk_count = excluded.chunk_count,
			built_at = excluded.built_at
	`, meta.Fingerprint, meta.EmbeddingModel, meta.ChunkSize, meta.ChunkOverlap,
		meta.PageCount, meta.ChunkCount, meta.BuiltAt)
	if err != nil {
		return fmt.Errorf("failed to save index metadata: %w", err)
	}
	return nil
}
