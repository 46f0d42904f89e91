package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"hours/storage"
	"hours/worklog"
)

var removeCmd = &cobra.Command{
	Use:   "remove <id>...",
	Short: "Remove logged entries.",
	Long:  `Delete entries by id. Ids that do not exist are ignored.`,
	Example: `
  # Remove two entries
  hours remove 12 13
`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseEntryIDs(args)
		if err != nil {
			return err
		}
		return withStore(func(store *storage.SQLiteStore) error {
			return runRemove(cmd.Context(), store, ids, cmd.OutOrStdout())
		})
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func parseEntryIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, worklog.Invalidf("%q is not an entry id", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func runRemove(ctx context.Context, store *storage.SQLiteStore, ids []int64, out io.Writer) error {
	removed, err := store.RemoveEntries(ctx, ids)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Removed %d of %d entries\n", removed, len(ids))
	return err
}
