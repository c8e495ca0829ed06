// ABOUTME: MCP tool handler implementations for the docqa server
// ABOUTME: Maps tool calls onto the session, retriever, and index manager
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/models"
	"github.com/harper/docqa/internal/retriever"
	"github.com/harper/docqa/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	session   *session.Session
	retriever *retriever.Retriever
	index     *index.Manager
}

// AskDocument handles the ask_document tool
func (h *Handlers) AskDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	turn, err := h.session.Ask(ctx, question)
	if err != nil {
		if errors.Is(err, models.ErrIndexNotReady) {
			return mcp.NewToolResultError("no document index exists yet; ingest a document first"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("ask failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"turn_id":   turn.TurnID,
		"answer":    turn.Text,
		"citations": turn.Citations,
		"refused":   turn.Text == models.RefusalText,
	}
	if answer := h.session.LastAnswer(); answer != nil {
		response["retrieved"] = answer.Retrieved
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// SearchDocument handles the search_document tool
func (h *Handlers) SearchDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	topK := request.GetInt("top_k", 5)

	evidence, err := h.retriever.Retrieve(ctx, query, topK)
	if err != nil {
		if errors.Is(err, models.ErrIndexNotReady) {
			return mcp.NewToolResultError("no document index exists yet; ingest a document first"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	matches := make([]map[string]interface{}, 0, len(evidence.Matches))
	for _, match := range evidence.Matches {
		matches = append(matches, map[string]interface{}{
			"chunk_id": match.Chunk.ID,
			"page":     match.Chunk.PageNumber,
			"score":    match.Score,
			"rank":     match.Rank,
			"text":     match.Chunk.Text,
		})
	}

	response := map[string]interface{}{
		"query":   evidence.Query,
		"matches": matches,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// DocumentStatus handles the document_status tool
func (h *Handlers) DocumentStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	meta, err := h.index.Status()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read index status: %v", err)), nil
	}

	var response map[string]interface{}
	if meta == nil {
		response = map[string]interface{}{
			"indexed": false,
		}
	} else {
		response = map[string]interface{}{
			"indexed":         true,
			"fingerprint":     meta.Fingerprint,
			"pages":           meta.PageCount,
			"chunks":          meta.ChunkCount,
			"embedding_model": meta.EmbeddingModel,
			"chunk_size":      meta.ChunkSize,
			"chunk_overlap":   meta.ChunkOverlap,
			"built_at":        meta.BuiltAt.Format(time.RFC3339),
		}
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
