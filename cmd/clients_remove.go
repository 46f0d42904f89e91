package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"hours/storage"
)

var (
	clientRemoveName    string
	clientRemoveCascade bool
)

var clientsRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a client.",
	Long: `Remove a client. A client with logged entries is kept unless --cascade
is given, which removes its entries too.`,
	Example: `
  hours clients remove -n Acme
  hours clients remove -n Acme --cascade
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.SQLiteStore) error {
			return runClientRemove(cmd.Context(), store, clientRemoveName, clientRemoveCascade, cmd.OutOrStdout())
		})
	},
}

func init() {
	clientsCmd.AddCommand(clientsRemoveCmd)

	clientsRemoveCmd.Flags().StringVarP(&clientRemoveName, "name", "n", "", "Client name")
	clientsRemoveCmd.Flags().BoolVar(&clientRemoveCascade, "cascade", false, "Also remove the client's entries")

	_ = clientsRemoveCmd.MarkFlagRequired("name")
}

func runClientRemove(ctx context.Context, store *storage.SQLiteStore, name string, cascade bool, out io.Writer) error {
	err := store.RemoveClient(ctx, name, cascade)
	if errors.Is(err, storage.ErrClientHasEntries) {
		return fmt.Errorf("%w (use --cascade to remove them too)", err)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Removed client %s\n", name)
	return err
}
