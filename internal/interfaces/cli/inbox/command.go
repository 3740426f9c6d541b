// Package inbox is a live terminal inbox for agents and customers. It
// talks to a running server through the helpdesk client, never to the
// database.
package inbox

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/customerly-inc/customerly/internal/shared/version"
	"github.com/customerly-inc/customerly/sdk/helpdesk"
)

const tokenEnv = "CUSTOMERLY_TOKEN"

var (
	serverURL string
	token     string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Open the live terminal inbox",
		Long: `Browse tickets, read threads and reply from the terminal. The list and the
open thread update live over the realtime feed.

Inside a reply, "/attach <path>" stages a file and "/detach <name>" removes it.`,
		Example: `  CUSTOMERLY_TOKEN=$(customerly token --email agent@example.com) customerly inbox
  customerly inbox --server https://support.example.com --token eyJ...`,
		RunE: run,
	}

	cmd.Flags().StringVarP(&serverURL, "server", "s", "http://localhost:8080", "Server base URL")
	cmd.Flags().StringVarP(&token, "token", "t", "", "Access token (default: $"+tokenEnv+")")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	if token == "" {
		return fmt.Errorf("an access token is required: pass --token or set %s", tokenEnv)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	client := helpdesk.NewClient(serverURL, token)

	serverVersion, err := client.ServerVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", serverURL, err)
	}
	if !version.SameMajor(version.Current, serverVersion) {
		return fmt.Errorf("server version %s is not compatible with this client (%s)", serverVersion, version.Current)
	}

	me, err := client.Me(ctx)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	inbox := helpdesk.NewInbox(client, helpdesk.ListTicketsParams{})
	feed := client.NewFeed(nil, inbox.Filters()...)
	go func() { _ = feed.Run(ctx) }()

	model := NewModel(ctx, client, inbox, me, feed, feed.Events())
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("inbox: %w", err)
	}
	return nil
}
