// ABOUTME: Tests for citation marker parsing and validation
// ABOUTME: Verifies evidence backing, page resolution, and dedupe order
package grounding

import (
	"reflect"
	"testing"

	"github.com/harper/docqa/internal/models"
)

func groundedEvidence() models.Evidence {
	return models.Evidence{
		Query: "what happened to revenue",
		Matches: []models.Match{
			{Chunk: models.Chunk{ID: "p2:c1", PageNumber: 2, Ordinal: 1, Text: "Revenue grew 12% in the quarter."}, Score: 0.92, Rank: 1},
			{Chunk: models.Chunk{ID: "p2:c0", PageNumber: 2, Ordinal: 0, Text: "Financial summary for the quarter."}, Score: 0.81, Rank: 2},
			{Chunk: models.Chunk{ID: "p3:c0", PageNumber: 3, Ordinal: 0, Text: "EBITDA margin reached 18%."}, Score: 0.74, Rank: 3},
		},
	}
}

func TestExtractCitations(t *testing.T) {
	ev := groundedEvidence()

	tests := []struct {
		name string
		text string
		want []models.Citation
	}{
		{
			name: "chunk marker backed by evidence",
			text: "Revenue grew 12% [p2:c1].",
			want: []models.Citation{{Page: 2, ChunkID: "p2:c1"}},
		},
		{
			name: "chunk marker outside evidence dropped",
			text: "Something invented [p9:c9].",
			want: []models.Citation{},
		},
		{
			name: "known page with unknown ordinal dropped",
			text: "Half right [p2:c7].",
			want: []models.Citation{},
		},
		{
			name: "page marker resolves to best ranked chunk on page",
			text: "Revenue grew 12% [p2].",
			want: []models.Citation{{Page: 2, ChunkID: "p2:c1"}},
		},
		{
			name: "page marker for page outside evidence dropped",
			text: "Margin data [p7].",
			want: []models.Citation{},
		},
		{
			name: "multiple markers keep appearance order",
			text: "Margin reached 18% [p3:c0] while revenue grew [p2:c1].",
			want: []models.Citation{
				{Page: 3, ChunkID: "p3:c0"},
				{Page: 2, ChunkID: "p2:c1"},
			},
		},
		{
			name: "duplicates collapse to first appearance",
			text: "Growth [p2:c1], again [p2:c1], and margin [p3:c0].",
			want: []models.Citation{
				{Page: 2, ChunkID: "p2:c1"},
				{Page: 3, ChunkID: "p3:c0"},
			},
		},
		{
			name: "page and chunk form of same chunk collapse",
			text: "Growth [p2] confirmed [p2:c1].",
			want: []models.Citation{{Page: 2, ChunkID: "p2:c1"}},
		},
		{
			name: "no markers",
			text: "A confident answer with no citations at all.",
			want: []models.Citation{},
		},
		{
			name: "bracketed text that is not a marker",
			text: "See [page 2] and [c1] and [p:c1] for details.",
			want: []models.Citation{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCitations(tt.text, ev)
			if got == nil {
				t.Fatal("ExtractCitations() = nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractCitations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractCitations_EmptyEvidence(t *testing.T) {
	got := ExtractCitations("Everything is cited [p1:c0].", models.Evidence{})
	if len(got) != 0 {
		t.Errorf("ExtractCitations() with no evidence = %v, want empty", got)
	}
}
