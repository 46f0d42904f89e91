package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"hours/output"
	"hours/storage"
)

var (
	clientAddName     string
	clientAddRate     float64
	clientAddCurrency string
)

var clientsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a client.",
	Example: `
  hours clients add -n Acme -r 95 -c EUR
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *storage.SQLiteStore) error {
			return runClientAdd(cmd.Context(), store, clientAddName, clientAddRate, clientAddCurrency, cmd.OutOrStdout())
		})
	},
}

func init() {
	clientsCmd.AddCommand(clientsAddCmd)

	clientsAddCmd.Flags().StringVarP(&clientAddName, "name", "n", "", "Client name")
	clientsAddCmd.Flags().Float64VarP(&clientAddRate, "rate", "r", 0, "Hourly rate")
	clientsAddCmd.Flags().StringVarP(&clientAddCurrency, "currency", "c", "", "Currency code or symbol")

	_ = clientsAddCmd.MarkFlagRequired("name")
	_ = clientsAddCmd.MarkFlagRequired("rate")
	_ = clientsAddCmd.MarkFlagRequired("currency")
}

func runClientAdd(ctx context.Context, store *storage.SQLiteStore, name string, rate float64, currency string, out io.Writer) error {
	client, err := store.AddClient(ctx, name, rate, currency)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Added client %s (%s)\n", client.Name, output.FormatRate(client))
	return err
}
