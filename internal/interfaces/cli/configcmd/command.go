// Package configcmd prints the effective configuration.
package configcmd

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/customerly-inc/customerly/internal/infrastructure/config"
)

var configPath string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, .env and
CUSTOMERLY_* variables are merged. Secrets are never printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return write(cmd.OutOrStdout(), cfg)
		},
	})

	return cmd
}

func write(w io.Writer, cfg *config.Config) error {
	maxUpload, err := cfg.MaxUploadBytes()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# max upload size: %s\n", humanize.IBytes(uint64(maxUpload)))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}
