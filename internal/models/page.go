// ABOUTME: Page represents one extracted document page with its text
// ABOUTME: Pages are the immutable input unit for chunking and fingerprinting
package models

// Page is a single page of the source document. Numbers are 1-based and
// assigned by whatever extracted the text (pdftotext, a JSON export, tests).
type Page struct {
	Number int    `json:"page"`
	Text   string `json:"text"`
}
