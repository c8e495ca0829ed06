// ABOUTME: Grounding engine turning evidence into cited answers
// ABOUTME: Refuses without generation on empty evidence and fails closed on uncited text
package grounding

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/util"
)

// generationAttempts bounds generator calls per answer: one retry
const generationAttempts = 2

// Generator runs one completion from a system and user prompt
type Generator interface {
	GenerateAnswer(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Options tunes the grounding engine
type Options struct {
	// HistoryWindow caps how many recent turns reach the prompt
	HistoryWindow int
	// RetryDelay is the backoff base before the single generation retry
	RetryDelay time.Duration
}

// DefaultOptions returns the standard engine settings
func DefaultOptions() Options {
	return Options{HistoryWindow: 10, RetryDelay: 2 * time.Second}
}

// Engine produces grounded answers from retrieved evidence
type Engine struct {
	generator Generator
	opts      Options
}

// NewEngine creates a grounding engine over the given generator
func NewEngine(generator Generator, opts Options) *Engine {
	if opts.HistoryWindow < 0 {
		opts.HistoryWindow = 0
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultOptions().RetryDelay
	}
	return &Engine{generator: generator, opts: opts}
}

// Answer generates a cited answer for the question from the evidence.
// Empty evidence refuses immediately without calling the generator.
// Generated text that carries no evidence-backed citation is replaced
// by the refusal, never served as an answer.
func (e *Engine) Answer(ctx context.Context, question string, ev models.Evidence, history []models.Turn) (*models.Answer, error) {
	retrieved := models.RetrievedTrace(ev)

	if ev.Empty() {
		log.Printf("[Grounding] No evidence above threshold, refusing without generation")
		return &models.Answer{
			Text:      models.RefusalText,
			Citations: []models.Citation{},
			Retrieved: retrieved,
		}, nil
	}

	userPrompt := BuildPrompt(question, ev, history, e.opts.HistoryWindow)

	var text string
	var lastErr error
	for attempt := 0; attempt < generationAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(util.CalculateBackoff(e.opts.RetryDelay, attempt))
		}

		text, lastErr = e.generator.GenerateAnswer(ctx, SystemPrompt, userPrompt)
		if lastErr == nil {
			break
		}
		log.Printf("[Grounding] Generation attempt %d failed: %v", attempt+1, lastErr)
	}
	if lastErr != nil {
		// Unavailability is an error, never a refusal: the refusal
		// claims the document lacks the answer, which we do not know
		return nil, &models.GenerationUnavailableError{Attempts: generationAttempts, Err: lastErr}
	}

	answer := &models.Answer{
		Text:      strings.TrimSpace(text),
		Citations: []models.Citation{},
		Retrieved: retrieved,
	}

	if answer.IsRefusal() {
		return answer, nil
	}

	citations := ExtractCitations(answer.Text, ev)
	if len(citations) == 0 {
		log.Printf("[Grounding] Answer carried no valid citations, failing closed")
		answer.Text = models.RefusalText
		return answer, nil
	}

	answer.Citations = citations
	return answer, nil
}
