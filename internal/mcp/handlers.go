// ABOUTME: MCP tool handler implementations for the companion server
// ABOUTME: JSON text results on success, tool errors on failure, never transport errors
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/core"
	"github.com/atelier-iris/companion/internal/storage"
)

// Handlers contains the handler functions for all companion tools
type Handlers struct {
	cfg      *config.Config
	pipeline *core.Pipeline
	session  *core.Session
	tracker  *core.Tracker
}

// IngestDocuments handles the ingest_documents tool
func (h *Handlers) IngestDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := h.pipeline.Run(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	// Make the new documents visible to subsequent ask_companion calls.
	if err := h.session.Reload(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reloading knowledge: %v", err)), nil
	}

	response := map[string]interface{}{
		"new_files": result.NewFiles,
		"units":     result.Units,
		"chunks":    result.Chunks,
		"skipped":   result.Skipped,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// AskCompanion handles the ask_companion tool
func (h *Handlers) AskCompanion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	var answer strings.Builder
	for fragment := range h.session.Chat(ctx, question) {
		if fragment.Err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("answer failed: %v", fragment.Err)), nil
		}
		answer.WriteString(fragment.Text)
	}

	response := map[string]interface{}{
		"answer": answer.String(),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ReloadKnowledge handles the reload_knowledge tool
func (h *Handlers) ReloadKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.session.Reload(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reload failed: %v", err)), nil
	}

	response := map[string]interface{}{
		"knowledge_available": h.session.HasKnowledge(),
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// ClearKnowledge handles the clear_knowledge tool
func (h *Handlers) ClearKnowledge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.pipeline.FullReset(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	if err := h.session.Reload(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reloading after reset: %v", err)), nil
	}

	response := map[string]interface{}{
		"success": true,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}

// KnowledgeStatus handles the knowledge_status tool
func (h *Handlers) KnowledgeStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	processed := h.tracker.Load()

	vectors, err := h.session.VectorCount()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("counting vectors: %v", err)), nil
	}

	response := map[string]interface{}{
		"processed_files": processed.Paths(),
		"processed_count": len(processed),
		"vector_count":    vectors,
		"store_dir":       h.cfg.StoreDir,
		"store_exists":    storage.Exists(h.cfg.StoreDir),
		"data_dir":        h.cfg.DataDir,
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}

	return mcp.NewToolResultText(string(responseJSON)), nil
}
