package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"hours/output"
	"hours/storage"
	"hours/worklog"
)

var (
	updateID      int64
	updateProject string
	updateTask    string
	updateDate    string
	updateHours   float64
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a logged entry.",
	Long: `Change selected fields of one entry. Fields not given keep their value.

An empty --task clears the task.`,
	Example: `
  # Correct the hours of entry 12
  hours update -i 12 -H 6

  # Move entry 12 to another day and project
  hours update -i 12 -d 2021-03-05 -p Backend
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := worklog.EntryPatch{
			Project: changedString(cmd, "project", updateProject),
			Task:    changedString(cmd, "task", updateTask),
			Hours:   changedFloat(cmd, "hours", updateHours),
		}
		if cmd.Flags().Changed("date") {
			day, err := parseDayFlag("date", updateDate)
			if err != nil {
				return err
			}
			patch.Day = &day
		}

		return withStore(func(store *storage.SQLiteStore) error {
			return runUpdate(cmd.Context(), store, updateID, patch, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().Int64VarP(&updateID, "id", "i", 0, "Entry id")
	updateCmd.Flags().StringVarP(&updateProject, "project", "p", "", "Project name")
	updateCmd.Flags().StringVarP(&updateTask, "task", "t", "", "Task name")
	updateCmd.Flags().StringVarP(&updateDate, "date", "d", "", "Day (YYYY-MM-DD)")
	updateCmd.Flags().Float64VarP(&updateHours, "hours", "H", 0, "Hours worked")

	_ = updateCmd.MarkFlagRequired("id")
}

func runUpdate(ctx context.Context, store *storage.SQLiteStore, id int64, patch worklog.EntryPatch, out io.Writer) error {
	if patch.IsEmpty() {
		return worklog.Invalidf("at least one of --project, --task, --date or --hours is required")
	}

	entry, err := store.UpdateEntry(ctx, id, patch)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(out, "Updated entry %d\n", entry.ID); err != nil {
		return err
	}
	return output.RenderEntries(out, []worklog.Entry{entry})
}
