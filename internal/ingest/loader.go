// ABOUTME: Loads document pages from extracted-text files for indexing
// ABOUTME: Supports form-feed separated text (pdftotext convention) and JSON page arrays
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/docqa/internal/models"
)

// LoadPages reads a page file and returns normalized pages. The format
// is picked by extension: .json expects an array of {"page", "text"}
// objects, everything else is treated as plain text with form feeds
// (\f) separating pages.
func LoadPages(path string) ([]models.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages file: %w", err)
	}

	var pages []models.Page
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		pages, err = parseJSONPages(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		pages = parseTextPages(string(data))
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages found in %s", filepath.Base(path))
	}
	if err := validatePages(pages); err != nil {
		return nil, fmt.Errorf("invalid pages in %s: %w", filepath.Base(path), err)
	}
	return pages, nil
}

// parseJSONPages decodes a JSON page array. Entries without an explicit
// page number get their 1-based position.
func parseJSONPages(data []byte) ([]models.Page, error) {
	var raw []models.Page
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	pages := make([]models.Page, 0, len(raw))
	for i, p := range raw {
		if p.Number == 0 {
			p.Number = i + 1
		}
		p.Text = NormalizeText(p.Text)
		pages = append(pages, p)
	}
	return pages, nil
}

// parseTextPages splits plain text on form feeds, one page per segment.
// A trailing empty segment (pdftotext emits a final \f) is dropped, but
// blank pages in the middle keep their position so numbering stays true
// to the source document.
func parseTextPages(text string) []models.Page {
	segments := strings.Split(text, "\f")
	if len(segments) > 1 && strings.TrimSpace(segments[len(segments)-1]) == "" {
		segments = segments[:len(segments)-1]
	}

	pages := make([]models.Page, 0, len(segments))
	anyContent := false
	for i, seg := range segments {
		cleaned := NormalizeText(seg)
		if cleaned != "" {
			anyContent = true
		}
		pages = append(pages, models.Page{
			Number: i + 1,
			Text:   cleaned,
		})
	}
	if !anyContent {
		return nil
	}
	return pages
}

// validatePages rejects inputs that would corrupt chunk identity
func validatePages(pages []models.Page) error {
	seen := make(map[int]bool, len(pages))
	for _, p := range pages {
		if p.Number <= 0 {
			return fmt.Errorf("page number must be positive, got %d", p.Number)
		}
		if seen[p.Number] {
			return fmt.Errorf("duplicate page number %d", p.Number)
		}
		seen[p.Number] = true
	}
	return nil
}
