// ABOUTME: Evidence is the ranked set of chunks retrieved for one question
// ABOUTME: Transient per-question data, never persisted
package models

// Match pairs a retrieved chunk with its similarity score and final rank.
// Ranks are 1-based and assigned after dedup and ordering.
type Match struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Evidence carries everything retrieval produced for a single question.
// An empty match list is meaningful: it drives the refusal path.
type Evidence struct {
	Query   string  `json:"query"`
	Matches []Match `json:"matches"`
}

// Empty reports whether retrieval found nothing usable.
func (e Evidence) Empty() bool {
	return len(e.Matches) == 0
}

// ChunkByID returns the match holding the given chunk id, if present.
func (e Evidence) ChunkByID(id string) (Match, bool) {
	for _, m := range e.Matches {
		if m.Chunk.ID == id {
			return m, true
		}
	}
	return Match{}, false
}

// BestOnPage returns the highest-ranked match on the given page, if any.
// Matches are already rank-ordered, so the first hit wins.
func (e Evidence) BestOnPage(page int) (Match, bool) {
	for _, m := range e.Matches {
		if m.Chunk.PageNumber == page {
			return m, true
		}
	}
	return Match{}, false
}
