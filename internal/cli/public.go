package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

func newServersCmd(o *rootOptions) *cobra.Command {
	var country string

	cmd := &cobra.Command{
		Use:   "servers [openvpn|wireguard|wireguard-v2]",
		Short: "List servers from the public API",
		Long: `List servers from the public API, grouped by country and city.
The kind defaults to wireguard-v2.

Examples:
  mullvad servers openvpn
  mullvad servers wireguard --country Sweden`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"openvpn", "wireguard", "wireguard-v2"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "wireguard-v2"
			if len(args) == 1 {
				kind = args[0]
			}

			c := o.newClient()
			defer c.Close()
			ctx := cmd.Context()

			var countries []mullvad.Country
			var result any
			switch kind {
			case "openvpn":
				list, err := c.OpenVPNServerList(ctx)
				if err != nil {
					return err
				}
				countries, result = list.Countries, list
			case "wireguard":
				list, err := c.WireGuardServerListV1(ctx)
				if err != nil {
					return err
				}
				countries, result = list.Countries, list
			default:
				list, err := c.WireGuardServerListV2(ctx)
				if err != nil {
					return err
				}
				countries, result = list.Countries, list
			}

			if country != "" {
				found, ok := (&mullvad.ServerList{Countries: countries}).FindCountry(country)
				if !ok {
					return fmt.Errorf("no %s servers in %q", kind, country)
				}
				result = found
			}
			return o.print(cmd, result)
		},
	}
	cmd.Flags().StringVar(&country, "country", "", "Only show this country (name or code)")
	return cmd
}

func newAccountCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Create accounts and look them up",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create a new account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			acct, err := c.CreateAccount(cmd.Context())
			if err != nil {
				return err
			}
			return o.print(cmd, acct)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "info <account-number>",
		Short: "Show an account's expiry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			acct, err := c.AccountInformation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return o.print(cmd, acct)
		},
	})
	return cmd
}

func newVoucherCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voucher",
		Short: "Redeem vouchers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "activate <account-number> <code>",
		Short: "Redeem a voucher on an account through the public API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			resp, err := c.ActivateVoucher(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return o.print(cmd, resp)
		},
	})

	var token string
	submit := &cobra.Command{
		Use:   "submit <code>",
		Short: "Redeem a voucher through the app API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			resp, err := c.SubmitVoucher(cmd.Context(), token, args[0])
			if err != nil {
				return err
			}
			return o.print(cmd, resp)
		},
	}
	o.addTokenFlag(submit, &token)
	cmd.AddCommand(submit)
	return cmd
}
