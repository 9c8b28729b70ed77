// ABOUTME: CLI command wiping documents, knowledge store and processed state
// ABOUTME: Destructive, asks for confirmation unless forced
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/atelier-iris/companion/internal/config"
)

var resetForce bool

// NewResetCmd creates the reset command
func NewResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all documents and forget everything",
		Long: `Delete all documents and forget everything.

Removes every file in the watched directory, deletes the knowledge
store and clears the processed-file state. Irreversible.

Examples:
  companion reset
  companion reset --force`,
		RunE: runReset,
	}

	cmd.Flags().BoolVar(&resetForce, "force", false, "Skip the confirmation prompt")

	return cmd
}

func runReset(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if !resetForce {
		fmt.Fprintf(cmd.OutOrStdout(),
			"This deletes every document in %s and the store at %s.\nType 'yes' to continue: ",
			cfg.DataDir, cfg.StoreDir)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	// Reset never touches the remote model, no embedder needed.
	pipeline, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}
	if err := pipeline.FullReset(); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "All knowledge cleared.")
	}
	return nil
}
