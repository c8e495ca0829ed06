// ABOUTME: In-memory conversation session over the retrieval pipeline
// ABOUTME: Keeps a strictly alternating transcript, appended only on success
package session

import (
	"context"
	"sync"

	"github.com/harper/docqa/internal/grounding"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/retriever"
)

// Options tunes session behavior
type Options struct {
	// TopK passes through to retrieval; 0 uses the retriever default
	TopK int
}

// Session runs the ask pipeline and records the conversation. A failed
// ask leaves the transcript untouched, so stored history only ever
// contains completed exchanges.
type Session struct {
	retriever *retriever.Retriever
	engine    *grounding.Engine
	opts      Options

	mu    sync.Mutex
	turns []models.Turn
	last  *models.Answer
}

// New creates an empty session over the given pipeline
func New(r *retriever.Retriever, e *grounding.Engine, opts Options) *Session {
	return &Session{
		retriever: r,
		engine:    e,
		opts:      opts,
	}
}

// Ask retrieves evidence for the query, generates a grounded answer,
// and appends exactly one user turn and one assistant turn. On any
// failure nothing is appended and the error is returned. Calls are
// serialized, so the transcript order is the call order.
func (s *Session) Ask(ctx context.Context, query string) (*models.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userTurn, err := models.NewUserTurn(query)
	if err != nil {
		return nil, err
	}

	evidence, err := s.retriever.Retrieve(ctx, query, s.opts.TopK)
	if err != nil {
		return nil, err
	}

	// History passed to the engine is the transcript before this ask;
	// the in-flight question travels separately in the prompt
	answer, err := s.engine.Answer(ctx, query, evidence, s.turns)
	if err != nil {
		return nil, err
	}

	assistantTurn := models.NewAssistantTurn(answer.Text, answer.Citations)

	s.turns = append(s.turns, *userTurn, *assistantTurn)
	s.last = answer
	return assistantTurn, nil
}

// Append adds one turn to the transcript without running the pipeline
func (s *Session) Append(turn models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
}

// History returns a copy of the transcript
func (s *Session) History() []models.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]models.Turn, len(s.turns))
	copy(history, s.turns)
	return history
}

// LastAnswer returns the full answer of the most recent successful ask,
// including the retrieval trace, or nil before the first one
func (s *Session) LastAnswer() *models.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Clear drops the transcript and the last answer
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
	s.last = nil
}
