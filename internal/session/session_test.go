// ABOUTME: Tests for the conversation session
// ABOUTME: Verifies transcript discipline across success, refusal, and failure
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/harper/docqa/internal/chunker"
	"github.com/harper/docqa/internal/grounding"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/retriever"
	"github.com/harper/docqa/internal/storage/sqlite"
)

// hashEmbedder derives a deterministic unit-ish vector from text bytes
// so any query embeds without per-test wiring
type hashEmbedder struct{}

func (hashEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	vector := make([]float64, 4)
	for i, r := range text {
		vector[i%4] += float64(r%13) + 1
	}
	return vector, nil
}

func (h hashEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vector, err := h.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// fixedEmbedder maps exact texts to preset vectors
type fixedEmbedder struct {
	vectors map[string][]float64
}

func (f fixedEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	vector, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return vector, nil
}

func (f fixedEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vector, err := f.GenerateEmbedding(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vector
	}
	return vectors, nil
}

// queueGenerator pops one scripted response per call
type queueGenerator struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (g *queueGenerator) GenerateAnswer(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, userPrompt)
	if g.err != nil {
		return "", g.err
	}
	if len(g.responses) == 0 {
		return "", fmt.Errorf("no scripted response for call %d", g.calls)
	}
	response := g.responses[0]
	g.responses = g.responses[1:]
	return response, nil
}

func testSession(t *testing.T, generator grounding.Generator) *Session {
	t.Helper()

	store, err := sqlite.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.NewSplitter(chunker.Params{TargetSize: 500, Overlap: 100})
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	embedder := hashEmbedder{}
	mgr := index.NewManager(store, embedder, splitter, "text-embedding-3-small")
	pages := []models.Page{
		{Number: 1, Text: "Revenue grew 12% in the first half."},
		{Number: 2, Text: "EBITDA margin reached 18% for the period."},
	}
	if _, err := mgr.Ensure(context.Background(), pages, false); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	// MinScore 0 keeps retrieval deterministic under the hash embedder
	r := retriever.New(mgr, embedder, retriever.Options{TopK: 5, MinScore: 0})
	e := grounding.NewEngine(generator, grounding.Options{HistoryWindow: 10, RetryDelay: time.Millisecond})
	return New(r, e, Options{TopK: 5})
}

func TestAsk_AppendsOneExchange(t *testing.T) {
	generator := &queueGenerator{responses: []string{"Revenue grew 12% [p1:c0]."}}
	s := testSession(t, generator)

	turn, err := s.Ask(context.Background(), "How did revenue do?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if turn.Role != models.RoleAssistant {
		t.Errorf("returned turn role = %q, want assistant", turn.Role)
	}
	if turn.Text != "Revenue grew 12% [p1:c0]." {
		t.Errorf("turn text = %q", turn.Text)
	}
	if len(turn.Citations) != 1 || turn.Citations[0].ChunkID != "p1:c0" {
		t.Errorf("turn citations = %v, want [p1:c0]", turn.Citations)
	}

	history := s.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != models.RoleUser || history[0].Text != "How did revenue do?" {
		t.Errorf("history[0] = %+v, want the user turn", history[0])
	}
	if history[1].Role != models.RoleAssistant {
		t.Errorf("history[1].Role = %q, want assistant", history[1].Role)
	}
}

func TestAsk_GenerationFailureAppendsNothing(t *testing.T) {
	generator := &queueGenerator{err: errors.New("backend down")}
	s := testSession(t, generator)

	_, err := s.Ask(context.Background(), "How did revenue do?")
	if err == nil {
		t.Fatal("Ask() should propagate generation failure")
	}
	if !models.IsGenerationUnavailable(err) {
		t.Errorf("error = %v, want GenerationUnavailableError", err)
	}
	if len(s.History()) != 0 {
		t.Errorf("failed ask left %d turns in history", len(s.History()))
	}
	if s.LastAnswer() != nil {
		t.Error("failed ask should not record a last answer")
	}
}

func TestAsk_IndexNotReadyAppendsNothing(t *testing.T) {
	store, err := sqlite.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.NewSplitter(chunker.DefaultParams())
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	embedder := hashEmbedder{}
	mgr := index.NewManager(store, embedder, splitter, "text-embedding-3-small")
	r := retriever.New(mgr, embedder, retriever.DefaultOptions())
	e := grounding.NewEngine(&queueGenerator{}, grounding.DefaultOptions())
	s := New(r, e, Options{})

	_, err = s.Ask(context.Background(), "Anything?")
	if !errors.Is(err, models.ErrIndexNotReady) {
		t.Errorf("Ask() error = %v, want ErrIndexNotReady", err)
	}
	if len(s.History()) != 0 {
		t.Error("failed ask should append nothing")
	}
}

func TestAsk_EmptyQueryRejected(t *testing.T) {
	s := testSession(t, &queueGenerator{})

	if _, err := s.Ask(context.Background(), "   "); err == nil {
		t.Error("Ask() should reject a blank query")
	}
	if len(s.History()) != 0 {
		t.Error("rejected ask should append nothing")
	}
}

func TestAsk_RefusalStillRecordsExchange(t *testing.T) {
	generator := &queueGenerator{responses: []string{models.RefusalText}}
	s := testSession(t, generator)

	turn, err := s.Ask(context.Background(), "Who is the CEO?")
	if err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if turn.Text != models.RefusalText {
		t.Errorf("turn text = %q, want refusal", turn.Text)
	}
	if len(turn.Citations) != 0 {
		t.Errorf("refusal turn carried citations: %v", turn.Citations)
	}
	if len(s.History()) != 2 {
		t.Errorf("refusal should still record the exchange, got %d turns", len(s.History()))
	}
}

func TestAsk_FollowUpSeesEarlierExchange(t *testing.T) {
	generator := &queueGenerator{responses: []string{
		"Revenue grew 12% [p1:c0].",
		"Margin reached 18% [p2:c0].",
	}}
	s := testSession(t, generator)

	if _, err := s.Ask(context.Background(), "How did revenue do?"); err != nil {
		t.Fatalf("first Ask() error = %v", err)
	}
	if _, err := s.Ask(context.Background(), "And the margin?"); err != nil {
		t.Fatalf("second Ask() error = %v", err)
	}

	lastPrompt := generator.prompts[len(generator.prompts)-1]
	if !strings.Contains(lastPrompt, "User: How did revenue do?") {
		t.Error("follow-up prompt missing the earlier user turn")
	}
	if !strings.Contains(lastPrompt, "Assistant: Revenue grew 12% [p1:c0].") {
		t.Error("follow-up prompt missing the earlier assistant turn")
	}

	if len(s.History()) != 4 {
		t.Errorf("history length = %d, want 4", len(s.History()))
	}
}

func TestHistory_ReturnsCopy(t *testing.T) {
	generator := &queueGenerator{responses: []string{"Revenue grew [p1:c0]."}}
	s := testSession(t, generator)

	if _, err := s.Ask(context.Background(), "How did revenue do?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	history := s.History()
	history[0].Text = "tampered"

	if s.History()[0].Text == "tampered" {
		t.Error("mutating the returned history changed the session transcript")
	}
}

func TestLastAnswer_CarriesRetrievalTrace(t *testing.T) {
	generator := &queueGenerator{responses: []string{"Revenue grew [p1:c0]."}}
	s := testSession(t, generator)

	if s.LastAnswer() != nil {
		t.Error("LastAnswer() should be nil before any ask")
	}

	if _, err := s.Ask(context.Background(), "How did revenue do?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	answer := s.LastAnswer()
	if answer == nil {
		t.Fatal("LastAnswer() = nil after a successful ask")
	}
	if len(answer.Retrieved) == 0 {
		t.Error("last answer missing the retrieval trace")
	}
	for i, ref := range answer.Retrieved {
		if ref.Rank != i+1 {
			t.Errorf("Retrieved[%d].Rank = %d, want %d", i, ref.Rank, i+1)
		}
	}
}

func TestClear_DropsTranscript(t *testing.T) {
	generator := &queueGenerator{responses: []string{"Revenue grew [p1:c0]."}}
	s := testSession(t, generator)

	if _, err := s.Ask(context.Background(), "How did revenue do?"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	s.Clear()

	if len(s.History()) != 0 {
		t.Error("Clear() left turns in the transcript")
	}
	if s.LastAnswer() != nil {
		t.Error("Clear() left a last answer")
	}
}

func TestAsk_GroundedThenOffDocumentRefusal(t *testing.T) {
	pageOne := "Overview of the reporting period."
	pageTwo := "Total consolidated income for H1-26 was $412M."
	pageThree := "Outlook and risk factors."
	incomeQuestion := "What is the consolidated total income in H1-26?"
	ceoQuestion := "What is the CEO's email address?"

	embedder := fixedEmbedder{vectors: map[string][]float64{
		pageOne:        {1, 0, 0, 0},
		pageTwo:        {0, 1, 0, 0},
		pageThree:      {0, 0, 1, 0},
		incomeQuestion: {0.1, 0.9, 0, 0},
		ceoQuestion:    {0, 0, 0, 1},
	}}

	store, err := sqlite.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.NewSplitter(chunker.Params{TargetSize: 500, Overlap: 50})
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}

	mgr := index.NewManager(store, embedder, splitter, "text-embedding-3-small")
	pages := []models.Page{
		{Number: 1, Text: pageOne},
		{Number: 2, Text: pageTwo},
		{Number: 3, Text: pageThree},
	}
	report, err := mgr.Ensure(context.Background(), pages, false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if report.ChunkCount != 3 {
		t.Fatalf("short pages should yield one chunk each, got %d", report.ChunkCount)
	}

	generator := &queueGenerator{responses: []string{
		"Total consolidated income for H1-26 was $412M [p2:c0].",
	}}
	r := retriever.New(mgr, embedder, retriever.Options{TopK: 5, MinScore: 0.25})
	e := grounding.NewEngine(generator, grounding.Options{HistoryWindow: 10, RetryDelay: time.Millisecond})
	s := New(r, e, Options{TopK: 5})

	turn, err := s.Ask(context.Background(), incomeQuestion)
	if err != nil {
		t.Fatalf("Ask(income) error = %v", err)
	}
	if !strings.Contains(turn.Text, "$412M") {
		t.Errorf("answer = %q, want the income figure", turn.Text)
	}
	if len(turn.Citations) != 1 || turn.Citations[0].ChunkID != "p2:c0" {
		t.Errorf("citations = %v, want [p2:c0]", turn.Citations)
	}

	answer := s.LastAnswer()
	if len(answer.Retrieved) != 1 {
		t.Fatalf("retrieved trace has %d entries, want only the matching page", len(answer.Retrieved))
	}
	if answer.Retrieved[0].ChunkID != "p2:c0" || answer.Retrieved[0].Rank != 1 {
		t.Errorf("top retrieval = %+v, want p2:c0 at rank 1", answer.Retrieved[0])
	}

	refusalTurn, err := s.Ask(context.Background(), ceoQuestion)
	if err != nil {
		t.Fatalf("Ask(ceo) error = %v", err)
	}
	if refusalTurn.Text != models.RefusalText {
		t.Errorf("off-document answer = %q, want the refusal literal", refusalTurn.Text)
	}
	if len(refusalTurn.Citations) != 0 {
		t.Errorf("refusal carried citations: %v", refusalTurn.Citations)
	}
	if generator.calls != 1 {
		t.Errorf("generator calls = %d, the off-document question should never reach it", generator.calls)
	}
	if len(s.LastAnswer().Retrieved) != 0 {
		t.Errorf("refusal trace has %d entries, want none above threshold", len(s.LastAnswer().Retrieved))
	}
	if len(s.History()) != 4 {
		t.Errorf("history length = %d, want both exchanges recorded", len(s.History()))
	}
}

func TestAppend_AddsTurnWithoutPipeline(t *testing.T) {
	s := testSession(t, &queueGenerator{})

	turn, err := models.NewUserTurn("imported question")
	if err != nil {
		t.Fatalf("NewUserTurn() error = %v", err)
	}
	s.Append(*turn)

	history := s.History()
	if len(history) != 1 || history[0].Text != "imported question" {
		t.Errorf("history = %+v, want the appended turn", history)
	}
}
