// ABOUTME: CLI command reporting knowledge store and processed-file state
// ABOUTME: Works offline, never touches the remote model
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/core"
	"github.com/atelier-iris/companion/internal/storage"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show knowledge store status",
		Long: `Show knowledge store status.

Reports where the store lives, how many vectors it holds, which
embedding model built it, and the files already processed.

Examples:
  companion status
  companion status --format json`,
		RunE: runStatus,
	}

	return cmd
}

type statusReport struct {
	DataDir        string   `json:"data_dir"`
	StoreDir       string   `json:"store_dir"`
	StoreExists    bool     `json:"store_exists"`
	VectorCount    int      `json:"vector_count"`
	EmbeddingModel string   `json:"embedding_model,omitempty"`
	ProcessedFiles []string `json:"processed_files"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	report := statusReport{
		DataDir:        cfg.DataDir,
		StoreDir:       cfg.StoreDir,
		StoreExists:    storage.Exists(cfg.StoreDir),
		ProcessedFiles: core.NewTracker(cfg.StatePath).Load().Paths(),
	}

	if report.StoreExists {
		ix, err := storage.Open(cfg.StoreDir, nil, 0)
		if err != nil {
			return fmt.Errorf("opening knowledge store: %w", err)
		}
		defer ix.Close()

		if report.VectorCount, err = ix.Count(); err != nil {
			return err
		}
		if report.EmbeddingModel, err = ix.RecordedModel(); err != nil {
			return err
		}
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Watched directory:\t%s\n", report.DataDir)
	fmt.Fprintf(w, "Knowledge store:\t%s\n", report.StoreDir)
	if !report.StoreExists {
		fmt.Fprintf(w, "Store:\tnot built yet (run 'companion ingest')\n")
		w.Flush()
		return nil
	}
	fmt.Fprintf(w, "Stored vectors:\t%d\n", report.VectorCount)
	if report.EmbeddingModel != "" {
		fmt.Fprintf(w, "Embedding model:\t%s\n", report.EmbeddingModel)
	}
	fmt.Fprintf(w, "Processed files:\t%d\n", len(report.ProcessedFiles))
	w.Flush()

	if !quiet {
		for _, path := range report.ProcessedFiles {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", truncate(path, 80))
		}
	}
	return nil
}
