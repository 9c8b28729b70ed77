// ABOUTME: MCP tool definitions and registration for the companion server
// ABOUTME: Exposes ingestion, retrieval-augmented asking and knowledge management
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/core"
)

// RegisterTools registers all companion tools with the server
func RegisterTools(server *mcpserver.MCPServer, cfg *config.Config, pipeline *core.Pipeline, session *core.Session, tracker *core.Tracker) *Handlers {
	handlers := &Handlers{
		cfg:      cfg,
		pipeline: pipeline,
		session:  session,
		tracker:  tracker,
	}

	// 1. ingest_documents - index new files from the watched directory
	server.AddTool(mcp.Tool{
		Name:        "ingest_documents",
		Description: "Scan the watched directory and index any new documents into the companion's knowledge store. Already-processed files are skipped.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.IngestDocuments)

	// 2. ask_companion - retrieval-augmented question answering
	server.AddTool(mcp.Tool{
		Name:        "ask_companion",
		Description: "Ask the companion a question. The answer is grounded in the indexed documents and cites its source when one was found.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer from the knowledge store",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskCompanion)

	// 3. reload_knowledge - pick up a store written after the server started
	server.AddTool(mcp.Tool{
		Name:        "reload_knowledge",
		Description: "Re-open the knowledge store so documents ingested since the session started become visible.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ReloadKnowledge)

	// 4. clear_knowledge - full reset of documents, store and state
	server.AddTool(mcp.Tool{
		Name:        "clear_knowledge",
		Description: "Delete every watched document, the knowledge store and the processed-file state. Irreversible.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ClearKnowledge)

	// 5. knowledge_status - processed files and store size
	server.AddTool(mcp.Tool{
		Name:        "knowledge_status",
		Description: "Report the processed files, stored vector count and store location.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.KnowledgeStatus)

	return handlers
}
