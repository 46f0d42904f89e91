package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"hours/internal/timeutil"
	"hours/output"
	"hours/storage"
	"hours/worklog"
)

var (
	logClient    string
	logProject   string
	logTask      string
	logDate      string
	logHours     float64
	logDuplicate bool
)

type logOptions struct {
	Client        *string
	Project       *string
	Task          *string
	Date          *string
	Hours         *float64
	DuplicateLast bool
	DefaultHours  float64
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log worked hours.",
	Long: `Record hours worked for a client on a project and task.

Client, project and task are required. Hours fall back to entry.default_hours
from the configuration and the date defaults to today.

With --duplicate-last the most recent entry is copied to the given date
(today by default); any other flag given replaces the copied value.`,
	Example: `
  # Log 7.5 hours for today
  hours log -c Acme -p Website -t "Landing page" -H 7.5

  # Log a past day with the default hours
  hours log -c Acme -p Website -t Review -d 2021-03-04

  # Repeat the last entry for today with a different task
  hours log -l -t Deployment
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := logOptions{
			Client:        changedString(cmd, "client", logClient),
			Project:       changedString(cmd, "project", logProject),
			Task:          changedString(cmd, "task", logTask),
			Date:          changedString(cmd, "date", logDate),
			Hours:         changedFloat(cmd, "hours", logHours),
			DuplicateLast: logDuplicate,
			DefaultHours:  appConfig.Entry.DefaultHours,
		}
		return withStore(func(store *storage.SQLiteStore) error {
			return runLog(cmd.Context(), store, opts, cmd.OutOrStdout(), time.Now())
		})
	},
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().StringVarP(&logClient, "client", "c", "", "Client name")
	logCmd.Flags().StringVarP(&logProject, "project", "p", "", "Project name")
	logCmd.Flags().StringVarP(&logTask, "task", "t", "", "Task name")
	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "Day (YYYY-MM-DD), default: today")
	logCmd.Flags().Float64VarP(&logHours, "hours", "H", 0, "Hours worked, default: entry.default_hours")
	logCmd.Flags().BoolVarP(&logDuplicate, "duplicate-last", "l", false, "Duplicate the last entry, overriding the values given")
}

func runLog(ctx context.Context, store *storage.SQLiteStore, opts logOptions, out io.Writer, now time.Time) error {
	day, err := dayOrDefault("date", opts.Date, timeutil.StartOfDay(now))
	if err != nil {
		return err
	}

	var entry worklog.Entry
	if opts.DuplicateLast {
		entry, err = store.DuplicateLastEntry(ctx, worklog.DuplicateOverrides{
			ClientName: opts.Client,
			EntryPatch: worklog.EntryPatch{
				Project: opts.Project,
				Task:    opts.Task,
				Day:     &day,
				Hours:   opts.Hours,
			},
		})
	} else {
		if isBlank(opts.Client) || isBlank(opts.Project) || isBlank(opts.Task) {
			return worklog.Invalidf("--client, --project and --task are required unless --duplicate-last is set")
		}

		hours := opts.DefaultHours
		if opts.Hours != nil {
			hours = *opts.Hours
		} else if hours <= 0 {
			return worklog.Invalidf("--hours is required when entry.default_hours is not configured")
		}

		entry, err = store.AddEntry(ctx, worklog.NewEntry{
			ClientName: *opts.Client,
			Project:    *opts.Project,
			Task:       *opts.Task,
			Day:        day,
			Hours:      hours,
		})
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "Logged entry %d: %s, %s, %s/%s, %s h\n",
		entry.ID,
		timeutil.FormatDay(entry.Day),
		entry.Client.Name,
		entry.Project,
		entry.Task,
		output.FormatHours(entry.Hours),
	)
	return err
}
