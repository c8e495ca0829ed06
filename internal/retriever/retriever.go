// ABOUTME: Semantic retriever producing ranked, deduplicated evidence
// ABOUTME: Embeds the query text alone and scores chunks by cosine similarity
package retriever

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
)

// Embedder turns one query text into an embedding vector
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
}

// Options tunes retrieval behavior
type Options struct {
	// TopK is the default result count when the caller passes k <= 0
	TopK int
	// MinScore drops matches scoring below this cosine similarity
	MinScore float64
}

// DefaultOptions returns the standard retrieval settings
func DefaultOptions() Options {
	return Options{TopK: 5, MinScore: 0.25}
}

// Retriever finds the document chunks most similar to a query.
// Conversation history never reaches the embedding: follow-up wording
// is the caller's concern, similarity is computed on the query alone.
type Retriever struct {
	index    *index.Manager
	embedder Embedder
	opts     Options
}

// New creates a retriever over the given index
func New(manager *index.Manager, embedder Embedder, opts Options) *Retriever {
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}
	return &Retriever{
		index:    manager,
		embedder: embedder,
		opts:     opts,
	}
}

// Retrieve returns up to k matches for the query, best first. Matches
// below MinScore are dropped; score ties order by page then ordinal.
// An index with nothing relevant yields empty evidence and a nil error,
// while a never-built index yields ErrIndexNotReady.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) (models.Evidence, error) {
	if strings.TrimSpace(query) == "" {
		return models.Evidence{}, fmt.Errorf("query text is empty")
	}
	if k <= 0 {
		k = r.opts.TopK
	}

	vector, err := r.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return models.Evidence{}, fmt.Errorf("failed to embed query: %w", err)
	}

	results, err := r.index.Query(ctx, vector, k)
	if err != nil {
		return models.Evidence{}, err
	}

	matches := make([]models.Match, 0, len(results))
	for _, result := range dedupeBest(results) {
		if result.SimilarityScore < r.opts.MinScore {
			continue
		}

		chunk, err := r.index.ChunkByID(result.ChunkID)
		if err != nil {
			return models.Evidence{}, fmt.Errorf("failed to load chunk %s: %w", result.ChunkID, err)
		}
		if chunk == nil {
			return models.Evidence{}, fmt.Errorf("index references missing chunk %s", result.ChunkID)
		}

		matches = append(matches, models.Match{
			Chunk: *chunk,
			Score: result.SimilarityScore,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].Chunk.PageNumber != matches[j].Chunk.PageNumber {
			return matches[i].Chunk.PageNumber < matches[j].Chunk.PageNumber
		}
		return matches[i].Chunk.Ordinal < matches[j].Chunk.Ordinal
	})

	for i := range matches {
		matches[i].Rank = i + 1
	}

	log.Printf("[Retriever] %d of %d candidates kept above score %.2f", len(matches), len(results), r.opts.MinScore)

	return models.Evidence{Query: query, Matches: matches}, nil
}

// dedupeBest collapses duplicate chunk IDs, keeping the best score
func dedupeBest(results []models.VectorSearchResult) []models.VectorSearchResult {
	best := make(map[string]float64, len(results))
	order := make([]string, 0, len(results))

	for _, result := range results {
		score, seen := best[result.ChunkID]
		if !seen {
			order = append(order, result.ChunkID)
			best[result.ChunkID] = result.SimilarityScore
			continue
		}
		if result.SimilarityScore > score {
			best[result.ChunkID] = result.SimilarityScore
		}
	}

	deduped := make([]models.VectorSearchResult, 0, len(order))
	for _, id := range order {
		deduped = append(deduped, models.VectorSearchResult{ChunkID: id, SimilarityScore: best[id]})
	}
	return deduped
}
