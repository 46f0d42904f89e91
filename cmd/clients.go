package cmd

import "github.com/spf13/cobra"

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients.",
	Long: `Add, update, remove and list the clients hours are logged for.

Each client has a unique name, an hourly rate and a currency (an ISO code
such as EUR or a symbol) used to compute entry amounts.`,
	Example: `
  # Add a client
  hours clients add -n Acme -r 95 -c EUR

  # Raise the rate
  hours clients update -n Acme -r 105

  # List clients
  hours clients list
`,
}

func init() {
	rootCmd.AddCommand(clientsCmd)
}
