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
	clientUpdateName     string
	clientUpdateRate     float64
	clientUpdateCurrency string
)

var clientsUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update a client's rate or currency.",
	Long:  `Change the rate and/or currency of a client. Existing entries are valued with the new rate.`,
	Example: `
  hours clients update -n Acme -r 105
  hours clients update -n Acme -c USD
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := worklog.ClientPatch{
			Rate:     changedFloat(cmd, "rate", clientUpdateRate),
			Currency: changedString(cmd, "currency", clientUpdateCurrency),
		}
		return withStore(func(store *storage.SQLiteStore) error {
			return runClientUpdate(cmd.Context(), store, clientUpdateName, patch, cmd.OutOrStdout())
		})
	},
}

func init() {
	clientsCmd.AddCommand(clientsUpdateCmd)

	clientsUpdateCmd.Flags().StringVarP(&clientUpdateName, "name", "n", "", "Client name")
	clientsUpdateCmd.Flags().Float64VarP(&clientUpdateRate, "rate", "r", 0, "Hourly rate")
	clientsUpdateCmd.Flags().StringVarP(&clientUpdateCurrency, "currency", "c", "", "Currency code or symbol")

	_ = clientsUpdateCmd.MarkFlagRequired("name")
}

func runClientUpdate(ctx context.Context, store *storage.SQLiteStore, name string, patch worklog.ClientPatch, out io.Writer) error {
	if patch.IsEmpty() {
		return worklog.Invalidf("at least one of --rate or --currency is required")
	}

	client, err := store.UpdateClient(ctx, name, patch)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Updated client %s (%s)\n", client.Name, output.FormatRate(client))
	return err
}
