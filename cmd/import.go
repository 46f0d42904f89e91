package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"hours/importer"
	"hours/storage"
)

var (
	importInputs []string
	importFormat string
	importClient string
)

type importOptions struct {
	Inputs []string
	Format string
	Client string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import entries from CSV/Excel files.",
	Long: `Read entries from files with the columns date (or day), client, project,
task and hours (or duration) and store them.

Rows without a date are skipped, so an exported report can be imported again.
Rows without a client use --client. The import is stored completely or not at
all. When --format is omitted, format is inferred from each file extension.`,
	Example: `
  # Import a CSV file
  hours import -i ./hours.csv

  # Import an exported report for a client
  hours import -i "./Acme - 2021 January.xlsx" --client Acme
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := importOptions{Inputs: importInputs, Format: importFormat, Client: importClient}
		return withStore(func(store *storage.SQLiteStore) error {
			return runImport(cmd.Context(), store, opts, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVar(&importClient, "client", "", "Client for rows without a client column")

	_ = importCmd.MarkFlagRequired("input")
}

func runImport(ctx context.Context, store *storage.SQLiteStore, opts importOptions, out io.Writer) error {
	result, err := importer.Run(opts.Inputs, opts.Format, opts.Client)
	if err != nil {
		return err
	}

	inserted, err := store.AddEntries(ctx, result.Entries)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Rows persisted: %d\n",
		result.FilesProcessed,
		result.RowsRead,
		result.RowsMapped,
		result.RowsSkipped,
		len(inserted),
	)
	return err
}
