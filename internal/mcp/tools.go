// ABOUTME: MCP tool definitions and registration for the docqa server
// ABOUTME: Defines JSON schemas for the ask, search, and status tools
package mcp

import (
	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/retriever"
	"github.com/harper/docqa/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, sess *session.Session, ret *retriever.Retriever, manager *index.Manager) *Handlers {
	handlers := &Handlers{
		session:   sess,
		retriever: ret,
		index:     manager,
	}

	// 1. ask_document - Grounded question answering with citations
	server.AddTool(mcp.Tool{
		Name:        "ask_document",
		Description: "Ask a question about the ingested document. Answers are grounded in retrieved passages and carry page citations; questions the document cannot answer are refused.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the document",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskDocument)

	// 2. search_document - Raw semantic retrieval without generation
	server.AddTool(mcp.Tool{
		Name:        "search_document",
		Description: "Semantically search the ingested document and return the best matching passages with similarity scores. No answer is generated.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"top_k": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of passages to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchDocument)

	// 3. document_status - Index metadata for the current document
	server.AddTool(mcp.Tool{
		Name:        "document_status",
		Description: "Report whether a document index exists and its build parameters.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.DocumentStatus)

	return handlers
}
