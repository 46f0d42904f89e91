/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"hours/config"
	"hours/internal/logging"
	"hours/storage"
)

var (
	cfgFile string
	dbPath  string
	verbose bool
)

// Resolved once per invocation in the root pre-run hook.
var (
	appConfig = defaultConfig()
	logger    = logging.Discard()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "hours",
	Short: "A minimalistic work time logger for the command line.",
	Long: `
**********************************************
*                 HOURS                      *
**********************************************

Log worked hours per client, project and task into a local SQLite database,
list them with amounts computed from each client's hourly rate, and export
monthly reports to Excel or CSV.
`,
	Example: `
  # Register a client with an hourly rate
  hours clients add -n Acme -r 95 -c EUR

  # Log a day of work
  hours log -c Acme -p Website -t "Landing page" -H 7.5

  # Log today the same as last time
  hours log -l

  # Show this month's entries
  hours report

  # Export last month for one client to Excel
  hours export -c Acme
`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareRuntime,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.hours.yaml, then ./.hours.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite database (overrides database.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	_ = viper.BindPFlag(config.KeyDatabasePath, rootCmd.PersistentFlags().Lookup("db"))
}

// initConfig reads in .env, the config file and HOURS_* environment variables.
func initConfig() {
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".hours")
	}

	viper.SetEnvPrefix("HOURS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Could not read config file:", err)
		}
	}
}

func prepareRuntime(cmd *cobra.Command, args []string) error {
	if !requiresConfig(cmd) {
		return nil
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}

	appConfig = cfg
	logger = logging.New(os.Stderr, level)
	logger.Debug("configuration loaded", "file", viper.ConfigFileUsed(), "database", cfg.Database.Path)
	return nil
}

// requiresConfig is false for commands that must work with a broken config.
func requiresConfig(cmd *cobra.Command) bool {
	return cmd != nil && !(cmd.Name() == "create" && cmd.Parent() == configCmd)
}

// withStore opens the configured database for the duration of fn.
func withStore(fn func(store *storage.SQLiteStore) error) error {
	store, err := storage.OpenSQLite(appConfig.Database.Path, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(store)
}

func defaultConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Path: config.DefaultDatabasePath()},
		Log:      config.LogConfig{Level: config.DefaultLogLevel},
		Entry:    config.EntryConfig{DefaultHours: config.DefaultEntryHours},
		Export:   config.ExportConfig{Directory: config.DefaultExportFolder},
	}
}
