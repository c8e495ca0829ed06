// ABOUTME: Shared utility functions and pipeline wiring for CLI commands
// ABOUTME: Consolidates config loading, store setup, and display helpers
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/docqa/internal/chunker"
	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/grounding"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/retriever"
	"github.com/harper/docqa/internal/session"
	"github.com/harper/docqa/internal/storage/sqlite"
)

// pipeline bundles the wired components behind the ask/ingest commands
type pipeline struct {
	cfg       *config.Config
	store     *sqlite.Store
	manager   *index.Manager
	retriever *retriever.Retriever
	engine    *grounding.Engine
	session   *session.Session
}

// Close releases the underlying store
func (p *pipeline) Close() {
	_ = p.store.Close()
}

// loadConfig reads .env plus environment and validates the result
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	return config.Load()
}

// buildPipeline wires store, index, retriever, engine, and session from
// config. Requires OPENAI_API_KEY since every path embeds text.
func buildPipeline(cfg *config.Config) (*pipeline, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing OpenAI client: %w", err)
	}

	splitter, err := chunker.NewSplitter(chunker.Params{
		TargetSize: cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
	})
	if err != nil {
		return nil, err
	}

	store, err := sqlite.NewStore(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}

	manager := index.NewManager(store, client, splitter, cfg.EmbeddingModel)
	ret := retriever.New(manager, client, retriever.Options{
		TopK:     cfg.TopK,
		MinScore: cfg.MinScore,
	})
	engine := grounding.NewEngine(client, grounding.Options{
		HistoryWindow: cfg.HistoryWindow,
		RetryDelay:    cfg.RetryDelay,
	})
	sess := session.New(ret, engine, session.Options{TopK: cfg.TopK})

	return &pipeline{
		cfg:       cfg,
		store:     store,
		manager:   manager,
		retriever: ret,
		engine:    engine,
		session:   sess,
	}, nil
}

// openIndex opens the store and manager without an OpenAI client, for
// read-only commands that never embed
func openIndex(cfg *config.Config) (*sqlite.Store, *index.Manager, error) {
	splitter, err := chunker.NewSplitter(chunker.Params{
		TargetSize: cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := sqlite.NewStore(cfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("initializing store: %w", err)
	}

	return store, index.NewManager(store, nil, splitter, cfg.EmbeddingModel), nil
}

// formatCitations renders citations as "p2:c1, p3:c0"
func formatCitations(citations []models.Citation) string {
	if len(citations) == 0 {
		return "(none)"
	}
	ids := make([]string, len(citations))
	for i, citation := range citations {
		ids[i] = citation.ChunkID
	}
	return strings.Join(ids, ", ")
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		return fmt.Sprintf("%dm ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		return fmt.Sprintf("%dh ago", hours)
	} else if diff < 7*24*time.Hour {
		days := int(diff.Hours() / 24)
		return fmt.Sprintf("%dd ago", days)
	}
	return t.Format("2006-01-02")
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
