package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/customerly-inc/customerly/internal/interfaces/cli/configcmd"
	"github.com/customerly-inc/customerly/internal/interfaces/cli/inbox"
	"github.com/customerly-inc/customerly/internal/interfaces/cli/migrate"
	"github.com/customerly-inc/customerly/internal/interfaces/cli/server"
	"github.com/customerly-inc/customerly/internal/interfaces/cli/token"
	"github.com/customerly-inc/customerly/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "customerly",
		Short:   "Customerly - customer support ticketing",
		Long:    `Customerly is a ticketing service with a live terminal inbox, realtime updates and attachment storage.`,
		Version: version.Current,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
		token.NewCommand(),
		inbox.NewCommand(),
		configcmd.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
