// ABOUTME: Tests for Chunk model and deterministic chunk IDs
// ABOUTME: Verifies the ID format that citation markers rely on
package models

import "testing"

func TestChunkID(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		ordinal int
		want    string
	}{
		{"first chunk of first page", 1, 0, "p1:c0"},
		{"later ordinal", 3, 7, "p3:c7"},
		{"double digit page", 42, 0, "p42:c0"},
		{"double digit both", 120, 15, "p120:c15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ChunkID(tt.page, tt.ordinal); got != tt.want {
				t.Errorf("ChunkID(%d, %d) = %q, want %q", tt.page, tt.ordinal, got, tt.want)
			}
		})
	}
}

func TestChunkID_Deterministic(t *testing.T) {
	// Same inputs must always produce the same id: rebuilds depend on it
	if ChunkID(5, 2) != ChunkID(5, 2) {
		t.Error("ChunkID should be deterministic for identical inputs")
	}
}

func TestSpan_RecoverPageText(t *testing.T) {
	pageText := "The quarterly numbers improved across every region."
	chunk := Chunk{
		ID:         ChunkID(1, 0),
		PageNumber: 1,
		Ordinal:    0,
		Text:       pageText[4:13],
		Span:       Span{Start: 4, End: 13},
	}

	if pageText[chunk.Span.Start:chunk.Span.End] != chunk.Text {
		t.Errorf("span does not recover chunk text: got %q, want %q",
			pageText[chunk.Span.Start:chunk.Span.End], chunk.Text)
	}
}
