package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hours/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the effective configuration and the config file it was loaded from.

Values include defaults and HOURS_* environment overrides.`,
	Example: `
  # Show active configuration
  hours config show
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), appConfig)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func printConfig(out io.Writer, configPath string, cfg *config.Config) error {
	source := configPath
	if source == "" {
		source = "(none, using defaults)"
	}

	_, err := fmt.Fprintf(out, `Config file loaded from: %s
Configuration:
%s: %s
%s: %s
%s: %g
%s: %s
`,
		source,
		config.KeyDatabasePath, cfg.Database.Path,
		config.KeyLogLevel, cfg.Log.Level,
		config.KeyEntryDefaultHours, cfg.Entry.DefaultHours,
		config.KeyExportDirectory, cfg.Export.Directory,
	)
	return err
}
