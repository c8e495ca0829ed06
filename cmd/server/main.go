// ABOUTME: Main entry point for the DocQA MCP server with stdio transport
// ABOUTME: Initializes the index store, retrieval pipeline, and MCP tools
package main

import (
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/docqa/internal/chunker"
	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/grounding"
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/llm"
	"github.com/harper/docqa/internal/mcp"
	"github.com/harper/docqa/internal/retriever"
	"github.com/harper/docqa/internal/session"
	"github.com/harper/docqa/internal/storage/sqlite"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY not set - the ask and search tools cannot run without it")
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
		log.Fatalf("Failed to initialize OpenAI client: %v", err)
	}

	splitter, err := chunker.NewSplitter(chunker.Params{
		TargetSize: cfg.ChunkSize,
		Overlap:    cfg.ChunkOverlap,
	})
	if err != nil {
		log.Fatalf("Invalid chunk parameters: %v", err)
	}

	// Initialize the index store with XDG-compliant paths
	store, err := sqlite.NewStore(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer func() { _ = store.Close() }()

	manager := index.NewManager(store, client, splitter, cfg.EmbeddingModel)
	ret := retriever.New(manager, client, retriever.Options{TopK: cfg.TopK, MinScore: cfg.MinScore})
	engine := grounding.NewEngine(client, grounding.Options{HistoryWindow: cfg.HistoryWindow, RetryDelay: cfg.RetryDelay})
	sess := session.New(ret, engine, session.Options{TopK: cfg.TopK})

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"DocQA Document Server",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, sess, ret, manager)

	// Start server with stdio transport
	log.Println("DocQA MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
