package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"hours/storage"
)

var purgeYes bool

var (
	purgePromptInput  io.Reader = os.Stdin
	purgeIsTerminal             = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete the complete SQLite database file",
	Long: `Destructive database cleanup command.

This command deletes the configured SQLite database file with all clients and
entries. Before deletion, an interactive security prompt requires typing
exactly "Y". Without a terminal the command refuses to run unless --yes is set.`,
	Example: `
  # Delete the database (requires interactive confirmation)
  hours purge

  # Delete a specific database file from a script
  hours purge --db ./scratch.db --yes
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig.Database.Path
		if path == storage.MemoryPath {
			return fmt.Errorf("an in-memory database cannot be purged")
		}

		if !purgeYes {
			if !purgeIsTerminal() {
				return fmt.Errorf("purge aborted: stdin is not a terminal (use --yes to confirm)")
			}
			confirmed, err := confirmPurgePrompt(purgePromptInput, cmd.OutOrStdout(), path)
			if err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("purge aborted: confirmation was not 'Y'")
			}
		}

		if err := removeDatabaseFile(path); err != nil {
			return err
		}
		logger.Info("database purged", "path", path)
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted database file: %s\n", path)
		return err
	},
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().BoolVar(&purgeYes, "yes", false, "Skip the confirmation prompt")
}

func confirmPurgePrompt(input io.Reader, output io.Writer, path string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("purge confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete database file %q with all clients and entries? Type Y to confirm: ", path); err != nil {
		return false, fmt.Errorf("write purge confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return strings.TrimSpace(line) == "Y", nil
		}
		return false, fmt.Errorf("read purge confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("database file not found: %s", path)
		}
		return fmt.Errorf("stat database file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("database path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete database file: %w", err)
	}
	return nil
}
