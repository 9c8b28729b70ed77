// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Lets external shells and agents drive the companion via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/core"
	"github.com/atelier-iris/companion/internal/llm"
	"github.com/atelier-iris/companion/internal/mcp"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for external shells and agents",
		Long: `Start MCP server for external shells and agents.

Runs the companion as an MCP (Model Context Protocol) server on stdio,
exposing ingestion, question answering and knowledge management as
tools a desktop shell or LLM agent can call.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically launched by the host application)
  companion mcp

  # Configure in the host's MCP config:
  # {
  #   "mcpServers": {
  #     "companion": {
  #       "command": "companion",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("initializing model client: %w", err)
	}

	pipeline, err := buildPipeline(cfg, client)
	if err != nil {
		return err
	}

	session, err := core.NewSession(cfg, core.ChatClientFrom(client), client)
	if err != nil {
		return err
	}
	defer session.Close()

	server := mcpserver.NewMCPServer(
		"Companion Knowledge Core",
		"0.1.0",
	)

	mcp.RegisterTools(server, cfg, pipeline, session, core.NewTracker(cfg.StatePath))

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Info("companion MCP server starting on stdio")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Info("shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
