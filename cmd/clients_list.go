package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"hours/output"
	"hours/storage"
)

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.SQLiteStore) error {
			return runClientList(cmd.Context(), store, cmd.OutOrStdout())
		})
	},
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
}

func runClientList(ctx context.Context, store *storage.SQLiteStore, out io.Writer) error {
	clients, err := store.ListClients(ctx)
	if err != nil {
		return err
	}
	return output.RenderClients(out, clients)
}
