// ABOUTME: Index lifecycle manager with fingerprint-gated rebuilds
// ABOUTME: Ensures the vector index matches the document before queries run
package index

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/harper/docqa/internal/chunker"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/storage/sqlite"
)

// Embedder produces embedding vectors for batches of text
type Embedder interface {
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, error)
}

// BuildReport summarizes the outcome of an Ensure call
type BuildReport struct {
	Fingerprint string
	Reused      bool
	PageCount   int
	ChunkCount  int
	Duration    time.Duration
}

// Manager owns the index lifecycle: it decides whether a stored index
// can be reused and rebuilds it atomically when it cannot.
type Manager struct {
	store          *sqlite.Store
	embedder       Embedder
	splitter       *chunker.Splitter
	embeddingModel string
	mu             sync.RWMutex
}

// NewManager creates an index manager over the given store
func NewManager(store *sqlite.Store, embedder Embedder, splitter *chunker.Splitter, embeddingModel string) *Manager {
	return &Manager{
		store:          store,
		embedder:       embedder,
		splitter:       splitter,
		embeddingModel: embeddingModel,
	}
}

// Ensure makes the stored index match the given pages. When the stored
// fingerprint matches and force is false the index is reused without a
// single embedding call; otherwise the document is re-chunked,
// re-embedded, and swapped in atomically. A failed rebuild leaves any
// previous index intact.
func (m *Manager) Ensure(ctx context.Context, pages []models.Page, force bool) (*BuildReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	fingerprint := Fingerprint(pages, m.splitter.Params(), m.embeddingModel)

	if !force {
		meta, err := m.store.Meta().Get()
		if err != nil {
			return nil, fmt.Errorf("failed to read index metadata: %w", err)
		}
		if meta != nil && meta.Fingerprint == fingerprint {
			log.Printf("[Index] Reusing index: %d chunks from %d pages", meta.ChunkCount, meta.PageCount)
			return &BuildReport{
				Fingerprint: fingerprint,
				Reused:      true,
				PageCount:   meta.PageCount,
				ChunkCount:  meta.ChunkCount,
			}, nil
		}
	}

	start := time.Now()
	chunks := m.splitter.Split(pages)
	log.Printf("[Index] Building index: %d chunks from %d pages", len(chunks), len(pages))

	vectors := make(map[string][]float64, len(chunks))
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Text
		}

		embedded, err := m.embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed chunks: %w", err)
		}
		if len(embedded) != len(chunks) {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(embedded), len(chunks))
		}
		for i, chunk := range chunks {
			vectors[chunk.ID] = embedded[i]
		}
	}

	meta := &models.IndexMeta{
		Fingerprint:    fingerprint,
		EmbeddingModel: m.embeddingModel,
		ChunkSize:      m.splitter.Params().TargetSize,
		ChunkOverlap:   m.splitter.Params().Overlap,
		PageCount:      len(pages),
		ChunkCount:     len(chunks),
		BuiltAt:        time.Now().UTC(),
	}
	if err := m.store.ReplaceIndex(chunks, vectors, meta); err != nil {
		return nil, fmt.Errorf("failed to replace index: %w", err)
	}

	duration := time.Since(start)
	log.Printf("[Index] Index built in %v", duration.Round(time.Millisecond))
	return &BuildReport{
		Fingerprint: fingerprint,
		Reused:      false,
		PageCount:   len(pages),
		ChunkCount:  len(chunks),
		Duration:    duration,
	}, nil
}

// Query runs a similarity search against the committed index. k is
// clamped to [1, chunk count]. Returns ErrIndexNotReady when no build
// has ever committed.
func (m *Manager) Query(ctx context.Context, vector []float64, k int) ([]models.VectorSearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meta, err := m.store.Meta().Get()
	if err != nil {
		return nil, fmt.Errorf("failed to read index metadata: %w", err)
	}
	if meta == nil {
		return nil, models.ErrIndexNotReady
	}
	if meta.ChunkCount == 0 {
		return []models.VectorSearchResult{}, nil
	}

	if k < 1 {
		k = 1
	}
	if k > meta.ChunkCount {
		k = meta.ChunkCount
	}

	return m.store.Embeddings().SearchSimilar(vector, k)
}

// ChunkByID fetches one chunk from the committed index
func (m *Manager) ChunkByID(id string) (*models.Chunk, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Chunks().GetByID(id)
}

// Count returns the number of indexed chunks, or ErrIndexNotReady
// before the first committed build
func (m *Manager) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	meta, err := m.store.Meta().Get()
	if err != nil {
		return 0, fmt.Errorf("failed to read index metadata: %w", err)
	}
	if meta == nil {
		return 0, models.ErrIndexNotReady
	}
	return m.store.Chunks().Count()
}

// Status returns the committed build metadata, or nil before the first build
func (m *Manager) Status() (*models.IndexMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store.Meta().Get()
}
