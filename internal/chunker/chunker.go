// ABOUTME: Splitter cuts document pages into overlapping fixed-size chunks
// ABOUTME: Deterministic: identical pages and params always produce identical chunks
package chunker

import (
	"fmt"
	"strings"

	"github.com/harper/docqa/internal/models"
)

// Params configures the chunk window geometry. Sizes are measured in
// runes so multi-byte text never splits mid-character.
type Params struct {
	TargetSize int
	Overlap    int
}

// DefaultParams returns the standard window geometry
func DefaultParams() Params {
	return Params{TargetSize: 500, Overlap: 100}
}

// Validate rejects window geometries whose stepping cannot terminate
func (p Params) Validate() error {
	if p.TargetSize <= 0 {
		return models.NewConfigError("chunk target size", fmt.Sprintf("must be positive, got %d", p.TargetSize))
	}
	if p.Overlap < 0 {
		return models.NewConfigError("chunk overlap", fmt.Sprintf("must be non-negative, got %d", p.Overlap))
	}
	if p.Overlap >= p.TargetSize {
		return models.NewConfigError("chunk overlap",
			fmt.Sprintf("must be smaller than target size, got %d >= %d", p.Overlap, p.TargetSize))
	}
	return nil
}

// Splitter windows page text into chunks
type Splitter struct {
	params Params
}

// NewSplitter creates a Splitter, failing fast on invalid geometry
func NewSplitter(params Params) (*Splitter, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Splitter{params: params}, nil
}

// Params returns the configured window geometry
func (s *Splitter) Params() Params {
	return s.params
}

// Split chunks every page in input order. Uses no randomness and no
// clock, so identical input always yields byte-identical chunks.
func (s *Splitter) Split(pages []models.Page) []models.Chunk {
	var chunks []models.Chunk
	for _, page := range pages {
		chunks = append(chunks, s.splitPage(page)...)
	}
	return chunks
}

// splitPage windows one page. Windows advance by TargetSize - Overlap
// runes; the final window may be shorter and stops at the page end.
// Ordinals restart at 0 on every page.
func (s *Splitter) splitPage(page models.Page) []models.Chunk {
	if strings.TrimSpace(page.Text) == "" {
		return nil
	}

	// Byte offset of each rune start plus the terminal offset, so spans
	// can slice the original page text directly
	offsets := make([]int, 0, len(page.Text)+1)
	for i := range page.Text {
		offsets = append(offsets, i)
	}
	offsets = append(offsets, len(page.Text))
	runeCount := len(offsets) - 1

	var chunks []models.Chunk
	ordinal := 0
	start := 0
	for start < runeCount {
		end := start + s.params.TargetSize
		if end > runeCount {
			end = runeCount
		}

		span := models.Span{Start: offsets[start], End: offsets[end]}
		chunks = append(chunks, models.Chunk{
			ID:         models.ChunkID(page.Number, ordinal),
			PageNumber: page.Number,
			Ordinal:    ordinal,
			Text:       page.Text[span.Start:span.End],
			Span:       span,
		})
		ordinal++

		if end == runeCount {
			break
		}
		start = end - s.params.Overlap
	}

	return chunks
}
