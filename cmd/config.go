package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the hours configuration file.",
	Long: `Create and display the hours configuration file.

The configuration holds:
- database.path
- log.level
- entry.default_hours
- export.directory

Every key can be overridden by an HOURS_* environment variable, for example
HOURS_DATABASE_PATH, also when set in a .env file in the working directory.`,
	Example: `
  # Create default config in $HOME/.hours.yaml
  hours config create

  # Show active config and source file
  hours config show
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
