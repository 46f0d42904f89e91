package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"hours/internal/timeutil"
	"hours/output"
	"hours/storage"
	"hours/worklog"
)

var (
	exportClient string
	exportOutput string
	exportFrom   string
	exportTo     string
	exportFormat string
	exportForce  bool
)

type exportOptions struct {
	Client    string
	Output    string
	From      *string
	To        *string
	Format    string
	Force     bool
	Directory string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries to an Excel or CSV report.",
	Long: `Write the entries of a date range to a report file and print them.

The range defaults to the previous calendar month. Without --out the file is
named "<client> - <year> <month>" and placed in export.directory; such a
derived file is only replaced with --force. The Excel report contains one
sheet named after the month with live SUM formulas in its total row.

Output format can be selected explicitly via --format or inferred from --out.`,
	Example: `
  # Last month for Acme as Excel
  hours export -c Acme

  # Explicit range and file
  hours export -c Acme -f 2021-01-01 -t 2021-02-01 -o ./acme-january.xlsx

  # CSV instead of Excel
  hours export -c Acme --format csv
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := exportOptions{
			Client:    exportClient,
			Output:    exportOutput,
			From:      changedString(cmd, "from", exportFrom),
			To:        changedString(cmd, "to", exportTo),
			Format:    exportFormat,
			Force:     exportForce,
			Directory: appConfig.Export.Directory,
		}
		return withStore(func(store *storage.SQLiteStore) error {
			_, err := runExport(cmd.Context(), store, opts, cmd.OutOrStdout(), time.Now())
			return err
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportClient, "client", "c", "", "Only entries of this client")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output file path, default: \"<client> - <year> <month>\" in export.directory")
	exportCmd.Flags().StringVarP(&exportFrom, "from", "f", "", "From day (YYYY-MM-DD), default: first day of the previous month")
	exportCmd.Flags().StringVarP(&exportTo, "to", "t", "", "To day, exclusive (YYYY-MM-DD), default: first day of this month")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: excel|csv (optional, inferred from --out)")
	exportCmd.Flags().BoolVar(&exportForce, "force", false, "Overwrite an existing derived output file")
}

// runExport writes the report and returns the path written.
func runExport(ctx context.Context, store *storage.SQLiteStore, opts exportOptions, out io.Writer, now time.Time) (string, error) {
	from, err := dayOrDefault("from", opts.From, timeutil.FirstDayOfPrevMonth(now))
	if err != nil {
		return "", err
	}
	to, err := dayOrDefault("to", opts.To, timeutil.FirstDayOfMonth(now))
	if err != nil {
		return "", err
	}
	if !from.Before(to) {
		return "", worklog.Invalidf("--from %s must be before --to %s", timeutil.FormatDay(from), timeutil.FormatDay(to))
	}

	format := strings.TrimSpace(opts.Format)
	if format == "" {
		format = output.DetectFormat(opts.Output)
	}
	writer, err := output.WriterForFormat(format)
	if err != nil {
		return "", worklog.Invalidf("%v", err)
	}

	path, err := resolveExportPath(opts, from, format)
	if err != nil {
		return "", err
	}

	entries, err := store.GetEntries(ctx, storage.EntryFilter{ClientName: opts.Client, From: &from, To: &to})
	if err != nil {
		return "", err
	}
	if err := output.RenderEntries(out, entries); err != nil {
		return "", err
	}

	report := output.Report{SheetName: output.SheetName(from), Entries: entries}
	if err := writer.Write(path, report); err != nil {
		return "", err
	}
	logger.Debug("report written", "path", path, "format", format, "entries", len(entries))

	if _, err := fmt.Fprintf(out, "Export completed. Rows: %d, Format: %s, File: %s\n", len(entries), format, path); err != nil {
		return "", err
	}
	return path, nil
}

func resolveExportPath(opts exportOptions, from time.Time, format string) (string, error) {
	if strings.TrimSpace(opts.Output) != "" {
		return opts.Output, nil
	}

	directory := opts.Directory
	if strings.TrimSpace(directory) == "" {
		directory = "."
	}
	path := filepath.Join(directory, output.DefaultFileName(opts.Client, from, output.Extension(format)))

	_, err := os.Stat(path)
	switch {
	case err == nil && !opts.Force:
		return "", fmt.Errorf("%s already exists (use --out or --force)", path)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("stat export file: %w", err)
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	return path, nil
}
