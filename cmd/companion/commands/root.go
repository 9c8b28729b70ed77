// ABOUTME: Root CLI command with global flags and subcommand registration
// ABOUTME: Wires logging verbosity before any subcommand runs
package commands

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

const banner = `
██╗██████╗ ██╗███████╗
██║██╔══██╗██║██╔════╝
██║██████╔╝██║███████╗
██║██╔══██╗██║╚════██║
██║██║  ██║██║███████║
╚═╝╚═╝  ╚═╝╚═╝╚══════╝
`

// NewRootCmd creates the root command with all subcommands
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "companion",
		Short: "A desktop companion that remembers your documents",
		Long: banner + `
Companion ingests your documents into a local knowledge store and
answers questions about them in character, streaming its replies.

Drop files into the watched directory, run 'companion ingest', then
ask away with 'companion chat'.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "table", "json":
			default:
				return fmt.Errorf("invalid --format %q (want auto, table or json)", outputFormat)
			}
			if quiet {
				log.SetLevel(log.ErrorLevel)
			} else if verbose {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format (auto, table, json)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewIngestCmd(),
		NewChatCmd(),
		NewStatusCmd(),
		NewResetCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
