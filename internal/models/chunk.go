// ABOUTME: Chunk represents a fixed-size overlapping fragment of a document page
// ABOUTME: Chunk IDs are deterministic so citations can name them directly
package models

import "fmt"

// Span holds byte offsets into the owning page's text, such that
// page.Text[Start:End] reproduces the chunk text exactly.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Chunk is one retrieval unit cut from a single page. Ordinals count
// chunks within their page starting at 0.
type Chunk struct {
	ID         string `json:"chunk_id"`
	PageNumber int    `json:"page"`
	Ordinal    int    `json:"ordinal"`
	Text       string `json:"text"`
	Span       Span   `json:"span"`
}

// ChunkID builds the deterministic identifier for a chunk. The same id
// doubles as the body of a [pN:cM] citation marker, so the two never
// need a mapping table.
func ChunkID(pageNumber, ordinal int) string {
	return fmt.Sprintf("p%d:c%d", pageNumber, ordinal)
}
