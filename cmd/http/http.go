package http

import "github.com/spf13/cobra"

func NewHTTPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "http",
		Short: "Run the front-desk JSON API",
		Long: `Run the JSON API the front-desk UI talks to. Every /api/v1 route acts with
the caller's clinic API token.`,
	}

	cmd.AddCommand(NewStartCommand())

	return cmd
}
