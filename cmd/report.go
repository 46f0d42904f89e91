package cmd

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"
	"hours/internal/timeutil"
	"hours/output"
	"hours/storage"
)

var (
	reportClient string
	reportFrom   string
	reportTo     string
	reportAll    bool
)

type reportOptions struct {
	Client string
	From   *string
	To     *string
	All    bool
}

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"list"},
	Short:   "List logged entries.",
	Long: `Print entries ordered by day with their amount and a total row.

The range covers the current month up to today unless --from/--to are given;
--to is exclusive. With --all every entry is listed. When the listed entries
use different currencies the total amount is shown as "?".`,
	Example: `
  # This month
  hours report

  # One client, explicit range
  hours report -c Acme -f 2021-01-01 -t 2021-02-01

  # Everything
  hours list --all
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := reportOptions{
			Client: reportClient,
			From:   changedString(cmd, "from", reportFrom),
			To:     changedString(cmd, "to", reportTo),
			All:    reportAll,
		}
		return withStore(func(store *storage.SQLiteStore) error {
			return runReport(cmd.Context(), store, opts, cmd.OutOrStdout(), time.Now())
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportClient, "client", "c", "", "Only entries of this client")
	reportCmd.Flags().StringVarP(&reportFrom, "from", "f", "", "From day (YYYY-MM-DD), default: first day of the month")
	reportCmd.Flags().StringVarP(&reportTo, "to", "t", "", "To day, exclusive (YYYY-MM-DD), default: tomorrow")
	reportCmd.Flags().BoolVarP(&reportAll, "all", "a", false, "Show all entries")
}

func runReport(ctx context.Context, store *storage.SQLiteStore, opts reportOptions, out io.Writer, now time.Time) error {
	filter := storage.EntryFilter{ClientName: opts.Client}
	if !opts.All {
		from, err := dayOrDefault("from", opts.From, timeutil.FirstDayOfMonth(now))
		if err != nil {
			return err
		}
		to, err := dayOrDefault("to", opts.To, timeutil.Tomorrow(now))
		if err != nil {
			return err
		}
		filter.From = &from
		filter.To = &to
	}

	entries, err := store.GetEntries(ctx, filter)
	if err != nil {
		return err
	}
	return output.RenderEntries(out, entries)
}
