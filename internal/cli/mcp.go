package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mcpsrv"
)

func newMCPCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the Mullvad tools over MCP on stdio",
		Long: `Serve the Mullvad tools, resources and prompts to an MCP client on stdio.
Logs go to stderr or LOG_FILE; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			cfg := *o.cfg
			server, err := mcpsrv.NewServer(c, mcpsrv.WithConfig(&cfg))
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting Mullvad MCP server on stdio")
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
