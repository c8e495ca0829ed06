// ABOUTME: Tests for the index lifecycle manager
// ABOUTME: Verifies reuse gating, forced rebuilds, and query clamping
package index

import (
	"context"
	"errors"
	"testing"

	"github.com/harper/docqa/internal/chunker"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/storage/sqlite"
)

// fakeEmbedder returns deterministic vectors derived from text length
// and records how many batches were requested
type fakeEmbedder struct {
	calls int
	texts []string
	err   error
}

func (f *fakeEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	f.calls++
	f.texts = append(f.texts, texts...)
	if f.err != nil {
		return nil, f.err
	}
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = []float64{float64(len(text)), float64(i + 1), 1}
	}
	return vectors, nil
}

func testManager(t *testing.T, embedder Embedder) *Manager {
	t.Helper()
	store, err := sqlite.NewStoreInMemory()
	if err != nil {
		t.Fatalf("NewStoreInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	splitter, err := chunker.NewSplitter(chunker.Params{TargetSize: 20, Overlap: 5})
	if err != nil {
		t.Fatalf("NewSplitter() error = %v", err)
	}
	return NewManager(store, embedder, splitter, "text-embedding-3-small")
}

func managerPages() []models.Page {
	return []models.Page{
		{Number: 1, Text: "The quick brown fox jumps over the lazy dog."},
		{Number: 2, Text: "Pack my box with five dozen liquor jugs."},
	}
}

func TestEnsure_BuildsIndex(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	report, err := mgr.Ensure(context.Background(), managerPages(), false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	if report.Reused {
		t.Error("first build should not report Reused")
	}
	if report.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", report.PageCount)
	}
	if report.ChunkCount == 0 {
		t.Error("ChunkCount = 0, want chunks")
	}
	if len(report.Fingerprint) != 64 {
		t.Errorf("Fingerprint length = %d, want 64", len(report.Fingerprint))
	}
	if embedder.calls == 0 {
		t.Error("embedder was never called during a build")
	}
	if len(embedder.texts) != report.ChunkCount {
		t.Errorf("embedded %d texts, want %d", len(embedder.texts), report.ChunkCount)
	}

	meta, err := mgr.Status()
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if meta == nil || meta.Fingerprint != report.Fingerprint {
		t.Errorf("Status() fingerprint mismatch: %+v", meta)
	}
}

func TestEnsure_ReusesMatchingIndex(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	first, err := mgr.Ensure(context.Background(), managerPages(), false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	callsAfterBuild := embedder.calls

	second, err := mgr.Ensure(context.Background(), managerPages(), false)
	if err != nil {
		t.Fatalf("Ensure() second call error = %v", err)
	}

	if !second.Reused {
		t.Error("unchanged document should reuse the index")
	}
	if second.Fingerprint != first.Fingerprint {
		t.Error("fingerprint changed between identical builds")
	}
	if second.ChunkCount != first.ChunkCount {
		t.Errorf("ChunkCount = %d, want %d", second.ChunkCount, first.ChunkCount)
	}
	if embedder.calls != callsAfterBuild {
		t.Errorf("reuse made %d extra embedder calls", embedder.calls-callsAfterBuild)
	}
}

func TestEnsure_RebuildsWhenContentChanges(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	if _, err := mgr.Ensure(context.Background(), managerPages(), false); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	changed := managerPages()
	changed[0].Text = "An entirely different opening page."
	report, err := mgr.Ensure(context.Background(), changed, false)
	if err != nil {
		t.Fatalf("Ensure() after change error = %v", err)
	}

	if report.Reused {
		t.Error("changed document should trigger a rebuild")
	}
	if embedder.calls < 2 {
		t.Errorf("embedder calls = %d, want a second build", embedder.calls)
	}
}

func TestEnsure_ForceRebuilds(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	if _, err := mgr.Ensure(context.Background(), managerPages(), false); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	report, err := mgr.Ensure(context.Background(), managerPages(), true)
	if err != nil {
		t.Fatalf("Ensure(force) error = %v", err)
	}
	if report.Reused {
		t.Error("forced rebuild should not reuse the index")
	}
	if embedder.calls < 2 {
		t.Errorf("embedder calls = %d, want a second build", embedder.calls)
	}
}

func TestEnsure_FailedRebuildKeepsOldIndex(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	first, err := mgr.Ensure(context.Background(), managerPages(), false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	embedder.err = errors.New("embedding backend down")
	changed := managerPages()
	changed[1].Text = "New second page content."
	if _, err := mgr.Ensure(context.Background(), changed, false); err == nil {
		t.Fatal("Ensure() should fail when embedding fails")
	}

	meta, err := mgr.Status()
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if meta == nil || meta.Fingerprint != first.Fingerprint {
		t.Errorf("failed rebuild should leave the previous index, got %+v", meta)
	}
}

func TestEnsure_EmptyDocument(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	pages := []models.Page{{Number: 1, Text: "   \n\n  "}}
	report, err := mgr.Ensure(context.Background(), pages, false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	if report.ChunkCount != 0 {
		t.Errorf("ChunkCount = %d, want 0 for blank pages", report.ChunkCount)
	}
	if embedder.calls != 0 {
		t.Error("embedder should not be called for an empty chunk set")
	}

	// An empty committed index answers queries with no results, not an error
	results, err := mgr.Query(context.Background(), []float64{1, 0, 0}, 5)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Query() on empty index returned %d results", len(results))
	}
}

func TestQuery_NotReady(t *testing.T) {
	mgr := testManager(t, &fakeEmbedder{})

	_, err := mgr.Query(context.Background(), []float64{1, 0, 0}, 5)
	if !errors.Is(err, models.ErrIndexNotReady) {
		t.Errorf("Query() error = %v, want ErrIndexNotReady", err)
	}

	if _, err := mgr.Count(); !errors.Is(err, models.ErrIndexNotReady) {
		t.Errorf("Count() error = %v, want ErrIndexNotReady", err)
	}
}

func TestQuery_ClampsK(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	report, err := mgr.Ensure(context.Background(), managerPages(), false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	tooMany, err := mgr.Query(context.Background(), []float64{10, 1, 1}, report.ChunkCount+50)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(tooMany) != report.ChunkCount {
		t.Errorf("oversized k returned %d results, want %d", len(tooMany), report.ChunkCount)
	}

	tooFew, err := mgr.Query(context.Background(), []float64{10, 1, 1}, 0)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(tooFew) != 1 {
		t.Errorf("k=0 returned %d results, want clamp to 1", len(tooFew))
	}
}

func TestChunkByID_RoundTrip(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	if _, err := mgr.Ensure(context.Background(), managerPages(), false); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	chunk, err := mgr.ChunkByID("p1:c0")
	if err != nil {
		t.Fatalf("ChunkByID() error = %v", err)
	}
	if chunk == nil {
		t.Fatal("ChunkByID(p1:c0) = nil, want first chunk of page 1")
	}
	if chunk.PageNumber != 1 || chunk.Ordinal != 0 {
		t.Errorf("chunk = p%d:c%d, want p1:c0", chunk.PageNumber, chunk.Ordinal)
	}

	missing, err := mgr.ChunkByID("p9:c9")
	if err != nil {
		t.Fatalf("ChunkByID() error = %v", err)
	}
	if missing != nil {
		t.Errorf("ChunkByID(p9:c9) = %+v, want nil", missing)
	}
}

func TestCount_AfterBuild(t *testing.T) {
	embedder := &fakeEmbedder{}
	mgr := testManager(t, embedder)

	report, err := mgr.Ensure(context.Background(), managerPages(), false)
	if err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}

	count, err := mgr.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != report.ChunkCount {
		t.Errorf("Count() = %d, want %d", count, report.ChunkCount)
	}
}
