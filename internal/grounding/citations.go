// ABOUTME: Citation marker parsing and validation against evidence
// ABOUTME: Drops unbacked markers so citations never point outside the retrieval
package grounding

import (
	"regexp"
	"strconv"

	"github.com/harper/docqa/internal/models"
)

// markerPattern matches [pN] and [pN:cM] citation markers
var markerPattern = regexp.MustCompile(`\[p(\d+)(?::c(\d+))?\]`)

// ExtractCitations parses citation markers from generated text and keeps
// only those backed by the evidence. Page-only markers resolve to the
// best-ranked chunk of that page. Duplicates collapse to the first
// appearance. Always returns a non-nil slice.
func ExtractCitations(text string, ev models.Evidence) []models.Citation {
	citations := []models.Citation{}
	seen := make(map[string]bool)

	for _, marker := range markerPattern.FindAllStringSubmatch(text, -1) {
		page, err := strconv.Atoi(marker[1])
		if err != nil {
			continue
		}

		var match models.Match
		var ok bool
		if marker[2] != "" {
			ordinal, err := strconv.Atoi(marker[2])
			if err != nil {
				continue
			}
			match, ok = ev.ChunkByID(models.ChunkID(page, ordinal))
		} else {
			match, ok = ev.BestOnPage(page)
		}
		if !ok {
			continue
		}

		if seen[match.Chunk.ID] {
			continue
		}
		seen[match.Chunk.ID] = true
		citations = append(citations, models.Citation{
			Page:    match.Chunk.PageNumber,
			ChunkID: match.Chunk.ID,
		})
	}

	return citations
}
