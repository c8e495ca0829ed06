// ABOUTME: Prompt construction for grounded answer generation
// ABOUTME: Renders rules, recent history, evidence blocks, and the question
package grounding

import (
	"fmt"
	"strings"

	"github.com/harper/docqa/internal/models"
)

// SystemPrompt states the grounding rules. The refusal line must match
// models.RefusalText exactly or refusal detection breaks.
var SystemPrompt = fmt.Sprintf(`You are a question answering assistant for a single document.

Rules:
1. Answer using ONLY the document excerpts provided. Never use outside knowledge.
2. After each claim, cite the excerpt that supports it using its marker, for example [p3:c1].
3. If the excerpts do not contain the answer, reply with exactly: %s
4. Keep answers concise and factual.`, models.RefusalText)

// blockSeparator joins evidence blocks in the user prompt
const blockSeparator = "\n\n---\n\n"

// BuildPrompt renders the user prompt: the last window turns of
// conversation, the evidence blocks best first, and the question.
// Pure function of its inputs.
func BuildPrompt(question string, ev models.Evidence, history []models.Turn, window int) string {
	var b strings.Builder

	if window > 0 && len(history) > 0 {
		turns := history
		if len(turns) > window {
			turns = turns[len(turns)-window:]
		}

		b.WriteString("Conversation so far:\n")
		for _, turn := range turns {
			switch turn.Role {
			case models.RoleAssistant:
				b.WriteString("Assistant: ")
			default:
				b.WriteString("User: ")
			}
			b.WriteString(turn.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Document excerpts:\n\n")
	blocks := make([]string, 0, len(ev.Matches))
	for _, match := range ev.Matches {
		blocks = append(blocks, fmt.Sprintf("[%s] (page %d)\n%s", match.Chunk.ID, match.Chunk.PageNumber, match.Chunk.Text))
	}
	b.WriteString(strings.Join(blocks, blockSeparator))

	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)

	return b.String()
}
