package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

func newAmICmd(o *rootOptions) *cobra.Command {
	checks := map[string]func(*mullvad.Client, context.Context) (*mullvad.RawResponse, error){
		"ip":        (*mullvad.Client).AmIIP,
		"city":      (*mullvad.Client).AmICity,
		"country":   (*mullvad.Client).AmICountry,
		"connected": (*mullvad.Client).AmIConnected,
		"json":      (*mullvad.Client).AmIJSON,
	}

	return &cobra.Command{
		Use:   "am-i [ip|city|country|connected|json]",
		Short: "Query the am.i.mullvad.net connection check",
		Long: `Query the am.i.mullvad.net connection check. The check defaults to "connected".

Examples:
  mullvad am-i ip
  mullvad am-i json --jq .mullvad_exit_ip`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"ip", "city", "country", "connected", "json"},
		RunE: func(cmd *cobra.Command, args []string) error {
			check := "connected"
			if len(args) == 1 {
				check = args[0]
			}

			c := o.newClient()
			defer c.Close()

			raw, err := checks[check](c, cmd.Context())
			if err != nil {
				return err
			}
			return o.printRaw(cmd, raw)
		},
	}
}

func newStatusCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize whether traffic leaves through Mullvad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			p, err := c.Profile(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			where := strings.Join(nonEmpty(deref(p.City), p.Country), ", ")
			if p.MullvadExitIP {
				okLabel.Fprint(out, "Connected")
				fmt.Fprintf(out, " via %s (%s, %s)\n", deref(p.MullvadExitIPHostname), p.IP, where)
				return nil
			}
			errorLabel.Fprint(out, "Not connected")
			fmt.Fprintf(out, " (%s, %s)\n", p.IP, where)
			return nil
		},
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonEmpty(ss ...string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
