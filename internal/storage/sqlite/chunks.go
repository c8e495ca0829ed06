// ABOUTME: Chunk row storage operations for SQLite
// ABOUTME: Chunks are only written through ReplaceIndex, reads happen per query
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/harper/docqa/internal/models"
)

// ChunkStore handles chunk persistence
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// GetByID retrieves a chunk by its id. Returns nil without error when
// the chunk does not exist.
func (s *ChunkStore) GetByID(id string) (*models.Chunk, error) {
	var chunk models.Chunk

	err := s.db.QueryRow(`
		SELECT id, page_number, ordinal, start_offset, end_offset, content
		FROM chunks
		WHERE id = ?
	`, id).Scan(&chunk.ID, &chunk.PageNumber, &chunk.Ordinal, &chunk.Span.Start, &chunk.Span.End, &chunk.Text)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk %s: %w", id, err)
	}

	return &chunk, nil
}

// Count returns the number of stored chunks
func (s *ChunkStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count chunks: %w", err)
	}
	return count, nil
}

// ListAll returns every chunk in page then ordinal order
func (s *ChunkStore) ListAll() ([]models.Chunk, error) {
	rows, err := s.db.Query(`
		SELECT id, page_number, ordinal, start_offset, end_offset, content
		FROM chunks
		ORDER BY page_number ASC, ordinal ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.PageNumber, &chunk.Ordinal,
			&chunk.Span.Start, &chunk.Span.End, &chunk.Text); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// insertTx inserts a chunk inside an index rebuild transaction
func (s *ChunkStore) insertTx(tx *sql.Tx, chunk *models.Chunk) error {
	_, err := tx.Exec(`
		INSERT INTO chunks (id, page_number, ordinal, start_offset, end_offset, content)
		VALUES (?, ?, ?, ?, ?, ?)
	`, chunk.ID, chunk.PageNumber, chunk.Ordinal, chunk.Span.Start, chunk.Span.End, chunk.Text)
	if err != nil {
		return fmt.Errorf("failed to insert chunk %s: %w", chunk.ID, err)
	}
	return nil
}
