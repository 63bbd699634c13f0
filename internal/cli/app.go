package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

func newRelaysCmd(o *rootOptions) *cobra.Command {
	var (
		kind   string
		filter mullvad.RelayFilter
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "relays",
		Short: "List relays from the app API",
		Long: `List relays from the app API relay list.

Examples:
  mullvad relays --country se --active
  mullvad relays --type bridge
  mullvad relays --type openvpn --city Gothenburg --limit 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			list, err := c.RelayList(cmd.Context())
			if err != nil {
				return err
			}

			var relays []any
			switch kind {
			case "wireguard":
				for _, r := range list.WireGuardRelays(filter) {
					relays = append(relays, r)
				}
			case "openvpn":
				for _, r := range list.OpenVPNRelays(filter) {
					relays = append(relays, r)
				}
			case "bridge":
				for _, r := range list.BridgeRelays(filter) {
					relays = append(relays, r)
				}
			default:
				return fmt.Errorf("unknown relay type %q (use wireguard, openvpn or bridge)", kind)
			}

			if limit > 0 && len(relays) > limit {
				relays = relays[:limit]
			}
			if relays == nil {
				relays = []any{}
			}
			return o.print(cmd, relays)
		},
	}

	f := cmd.Flags()
	f.StringVar(&kind, "type", "wireguard", "Relay type: wireguard, openvpn or bridge")
	f.StringVar(&filter.Country, "country", "", "Country name or code")
	f.StringVar(&filter.City, "city", "", "City name or code")
	f.BoolVar(&filter.ActiveOnly, "active", false, "Only active relays")
	f.BoolVar(&filter.OwnedOnly, "owned", false, "Only relays owned by Mullvad")
	f.IntVar(&limit, "limit", o.cfg.RelayLimitDefault, "Maximum relays to print, 0 for all")
	return cmd
}

func newAPIAddrsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "api-addrs",
		Short: "List the addresses the API can be reached on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			raw, err := c.APIAddresses(cmd.Context())
			if err != nil {
				return err
			}
			return o.printRaw(cmd, raw)
		},
	}
}

func newProblemReportCmd(o *rootOptions) *cobra.Command {
	var (
		token    string
		address  string
		message  string
		logText  string
		logFile  string
		metadata map[string]string
	)

	cmd := &cobra.Command{
		Use:   "problem-report",
		Short: "Send a problem report",
		Long: `Send a problem report with a message, a log and metadata.

Examples:
  mullvad problem-report --message "cannot connect" --log-file daemon.log --meta os=linux`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if logFile != "" {
				if logText != "" {
					return errors.New("--log and --log-file are mutually exclusive")
				}
				data, err := os.ReadFile(logFile)
				if err != nil {
					return fmt.Errorf("reading log file: %w", err)
				}
				logText = string(data)
			}
			if metadata == nil {
				metadata = map[string]string{}
			}

			p, err := mullvad.NewProblemReportParams(token, address, message, logText, metadata)
			if err != nil {
				return err
			}

			c := o.newClient()
			defer c.Close()

			resp, err := c.SubmitProblemReport(cmd.Context(), p)
			if err != nil {
				return err
			}
			return o.print(cmd, resp)
		},
	}

	f := cmd.Flags()
	o.addTokenFlag(cmd, &token)
	f.StringVar(&address, "address", "", "E-mail address to reply to")
	f.StringVar(&message, "message", "", "Problem description")
	f.StringVar(&logText, "log", "", "Log text")
	f.StringVar(&logFile, "log-file", "", "Read the log from this file")
	f.StringToStringVar(&metadata, "meta", nil, "Metadata as key=value, repeatable")
	return cmd
}

func newWebsiteTokenCmd(o *rootOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "www-auth-token",
		Short: "Request a website login token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			tok, err := c.WebsiteAuthToken(cmd.Context(), token)
			if err != nil {
				return err
			}
			return o.print(cmd, tok)
		},
	}
	o.addTokenFlag(cmd, &token)
	return cmd
}

// releaseView adds the upgrade verdict to a ReleaseInfo.
type releaseView struct {
	*mullvad.ReleaseInfo
	UpgradeAvailable bool `json:"upgrade_available"`
}

func newReleaseCmd(o *rootOptions) *cobra.Command {
	var beta bool

	cmd := &cobra.Command{
		Use:   "release <platform> <version>",
		Short: "Check whether an app version is supported and up to date",
		Long: fmt.Sprintf(`Check whether an app version is supported and up to date.
Platforms: %s.

Examples:
  mullvad release linux 2024.3
  mullvad release android 2024.4-beta1 --beta`, strings.Join(mullvad.Platforms, ", ")),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			info, err := c.ReleaseInfo(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			upgrade, err := info.UpgradeAvailable(args[1], beta)
			if err != nil {
				return err
			}
			return o.print(cmd, releaseView{ReleaseInfo: info, UpgradeAvailable: upgrade})
		},
	}
	cmd.Flags().BoolVar(&beta, "beta", false, "Compare against the latest beta instead of the latest stable release")
	return cmd
}

func newApplePaymentCmd(o *rootOptions) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "apple-payment <base64-receipt>",
		Short: "Submit an App Store receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := o.newClient()
			defer c.Close()

			resp, err := c.CreateApplePayment(cmd.Context(), token, args[0])
			if err != nil {
				return err
			}
			return o.print(cmd, resp)
		},
	}
	o.addTokenFlag(cmd, &token)
	return cmd
}
