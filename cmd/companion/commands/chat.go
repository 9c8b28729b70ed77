// ABOUTME: CLI command for chatting with the companion
// ABOUTME: One-shot with an argument, interactive REPL without
package commands

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/atelier-iris/companion/internal/config"
	"github.com/atelier-iris/companion/internal/core"
	"github.com/atelier-iris/companion/internal/llm"
)

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask the companion about your documents",
		Long: `Ask the companion about your documents.

With a question argument, streams a single answer and exits. Without
one, starts an interactive session; type q, quit or exit to leave.

Answers are grounded in the knowledge store and cite their source.

Examples:
  companion chat
  companion chat "what does chapter two say about whales?"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}

	return cmd
}

func runChat(cmd *cobra.Command, args []string) error {
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

	session, err := core.NewSession(cfg, core.ChatClientFrom(client), client)
	if err != nil {
		return err
	}
	defer session.Close()

	if len(args) == 1 {
		return askOnce(cmd, session, args[0])
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Iris is listening. Type q, quit or exit to leave.")
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(cmd.OutOrStdout(), "Doctor> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		switch strings.ToLower(question) {
		case "q", "quit", "exit":
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Until next time, Doctor.")
			}
			return nil
		}

		if err := askOnce(cmd, session, question); err != nil {
			// A failed answer should not end the session.
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

// askOnce streams one answer to stdout as fragments arrive.
func askOnce(cmd *cobra.Command, session *core.Session, question string) error {
	for fragment := range session.Chat(cmd.Context(), question) {
		if fragment.Err != nil {
			fmt.Fprintln(cmd.OutOrStdout())
			return fragment.Err
		}
		fmt.Fprint(cmd.OutOrStdout(), fragment.Text)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
