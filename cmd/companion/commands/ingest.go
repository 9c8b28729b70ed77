// ABOUTME: CLI command to ingest new documents into the knowledge store
// ABOUTME: Incremental by design, a second run with no new files does nothing
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/llm"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index new documents from the watched directory",
		Long: `Index new documents from the watched directory.

Scans the watched directory for supported files (.pdf, .txt, .md, .py),
skips everything already processed, and adds the rest to the knowledge
store. Files that fail to load are skipped and retried on the next run.

Examples:
  companion ingest
  companion ingest --format json`,
		RunE: runIngest,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env for API keys
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

	result, err := pipeline.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	if quiet {
		return nil
	}

	if result.NewFiles == 0 && result.Skipped == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing new to ingest.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d file(s): %d unit(s), %d chunk(s)\n",
		result.NewFiles, result.Units, result.Chunks)
	if result.Skipped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d unreadable file(s); they will be retried next run\n", result.Skipped)
	}
	return nil
}
