package migrate

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/customerly-inc/customerly/internal/infrastructure/config"
	"github.com/customerly-inc/customerly/internal/infrastructure/database"
	"github.com/customerly-inc/customerly/internal/infrastructure/migration"
	"github.com/customerly-inc/customerly/internal/shared/logger"
)

var configPath string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Create or widen the ticketing tables and inspect which ones exist.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(
		newUpCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply the schema",
		Long:  `Create missing tables and columns. Existing columns are never dropped.`,
		RunE:  runUp,
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `List the tables the service owns and whether each one exists.`,
		RunE:  runStatus,
	}
}

func initEnv() (logger.Interface, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, false); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return logger.NewLogger(), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := migration.Run(database.Get()); err != nil {
		log.Errorw("migration failed", "error", err)
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✅ Schema is up to date")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	log, err := initEnv()
	if err != nil {
		return err
	}
	defer database.Close()

	statuses, err := migration.Status(database.Get())
	if err != nil {
		log.Errorw("failed to read migration status", "error", err)
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tSTATUS")
	pending := 0
	for _, s := range statuses {
		state := "ok"
		if !s.Exists {
			state = "missing"
			pending++
		}
		fmt.Fprintf(w, "%s\t%s\n", s.Table, state)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if pending > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "\n%d table(s) missing, run `customerly migrate up`\n", pending)
	}
	return nil
}
