// ABOUTME: Content fingerprinting for index reuse decisions
// ABOUTME: Hashes document pages and build parameters into one stable digest
package index

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/harper/docqa/internal/chunker"
	"github.com/harper/docqa/internal/models"
)

// fingerprintVersion is folded into the digest so a change to the
// serialization format invalidates previously built indexes.
const fingerprintVersion = "v1"

// Fingerprint derives a stable digest of the document content and the
// build parameters that shape the index. Any change to page text, page
// numbering, chunk parameters, or the embedding model produces a
// different digest, which forces a rebuild.
func Fingerprint(pages []models.Page, params chunker.Params, embeddingModel string) string {
	h := sha256.New()
	fmt.Fprintf(h, "docqa:%s\n", fingerprintVersion)
	fmt.Fprintf(h, "chunk_size=%d\n", params.TargetSize)
	fmt.Fprintf(h, "chunk_overlap=%d\n", params.Overlap)
	fmt.Fprintf(h, "embedding_model=%s\n", embeddingModel)

	for _, page := range pages {
		// Length prefix keeps page text from masquerading as header lines
		fmt.Fprintf(h, "page=%d bytes=%d\n", page.Number, len(page.Text))
		_, _ = io.WriteString(h, page.Text)
		_, _ = h.Write([]byte{'\n'})
	}

	return hex.EncodeToString(h.Sum(nil))
}
