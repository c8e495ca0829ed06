// ABOUTME: Answer is the validated result of grounded generation for one question
// ABOUTME: Always carries the retrieval trace so callers can audit what was used
package models

// RefusalText is the exact literal returned when the document does not
// contain the answer. Callers compare against it verbatim, so it must
// never be reworded.
const RefusalText = "Not found in the document."

// Citation points at one evidence chunk backing an answer. ChunkID is
// always filled in, resolved from the page when the model cited only [pN].
type Citation struct {
	Page    int    `json:"page"`
	ChunkID string `json:"chunk_id"`
}

// RetrievedRef is one entry of the retrieval trace attached to an answer.
type RetrievedRef struct {
	Page    int     `json:"page"`
	ChunkID string  `json:"chunk_id"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// Answer is the final validated output for a question.
type Answer struct {
	Text      string         `json:"answer"`
	Citations []Citation     `json:"citations"`
	Retrieved []RetrievedRef `json:"retrieved"`
}

// IsRefusal reports whether the answer is the refusal literal.
func (a *Answer) IsRefusal() bool {
	return a.Text == RefusalText
}

// RetrievedTrace converts ranked evidence into the trace format stored on
// answers. Returns an empty (non-nil) slice for empty evidence so the
// JSON field serializes as [] rather than null.
func RetrievedTrace(ev Evidence) []RetrievedRef {
	refs := make([]RetrievedRef, 0, len(ev.Matches))
	for _, m := range ev.Matches {
		refs = append(refs, RetrievedRef{
			Page:    m.Chunk.PageNumber,
			ChunkID: m.Chunk.ID,
			Score:   m.Score,
			Rank:    m.Rank,
		})
	}
	return refs
}
