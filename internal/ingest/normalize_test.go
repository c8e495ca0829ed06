// ABOUTME: Tests for extracted-text normalization
// ABOUTME: Verifies whitespace collapsing and line trimming rules
package ingest

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "collapses space runs",
			in:   "total    income   was $412M",
			want: "total income was $412M",
		},
		{
			name: "collapses newline runs to blank line",
			in:   "heading\n\n\n\n\nbody",
			want: "heading\n\nbody",
		},
		{
			name: "trims line edges",
			in:   "  left pad\nright pad  \n  both  ",
			want: "left pad\nright pad\nboth",
		},
		{
			name: "single newline preserved",
			in:   "line one\nline two",
			want: "line one\nline two",
		},
		{
			name: "whitespace only",
			in:   "   \n\t  \n ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.in); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
