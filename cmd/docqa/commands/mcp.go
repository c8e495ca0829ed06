// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Enables LLM agents like Claude to query the document via stdio
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs DocQA as an MCP (Model Context Protocol) server, enabling LLM
agents like Claude to ask grounded questions about the ingested
document via stdio.

Exposes ask_document, search_document, and document_status tools.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by Claude Desktop)
  docqa mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "docqa": {
  #       "command": "docqa",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Every tool but document_status embeds text, so the key is required
	if cfg.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is not set")
	}

	p, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	// Create MCP server
	server := mcpserver.NewMCPServer(
		"DocQA Document Server",
		"0.1.0",
	)

	// Register MCP tools
	mcp.RegisterTools(server, p.session, p.retriever, p.manager)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("DocQA MCP server starting on stdio...")
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, gracefully shutting down...")
		}

		p.Close()

		if !quiet {
			log.Println("Shutdown complete")
		}

	case err := <-serverErr:
		p.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
