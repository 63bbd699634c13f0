// Package cli implements the mullvad command line tool.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/config"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/query"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	cfg    *config.Config
	engine *query.Engine

	output      string
	excludeNone bool
	jq          string
	apiURL      string
	timeout     time.Duration
	statusCheck bool
}

// NewRootCmd builds the command tree. Flag defaults come from cfg.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	o := &rootOptions{cfg: cfg, engine: query.NewEngine()}

	root := &cobra.Command{
		Use:   "mullvad [command] [flags]",
		Short: "Command line client for the Mullvad VPN APIs",
		Long: `mullvad queries the Mullvad public API, app API and connection check.
Results are printed as JSON (or YAML) and can be filtered with a jq expression.

Examples:
  # WireGuard relays in Sweden
  mullvad relays --country se

  # Hostnames only
  mullvad relays --jq '.[].hostname'

  # Am I connected through Mullvad?
  mullvad status

  # Account details, omitting absent fields
  mullvad account info 1234123412341234 --exclude-none`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: o.preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&o.output, "output", "o", "json", "Output format: json or yaml")
	pf.BoolVar(&o.excludeNone, "exclude-none", false, "Omit fields that are absent or null")
	pf.StringVar(&o.jq, "jq", "", "jq expression applied to the result")
	pf.StringVar(&o.apiURL, "api-url", "", "Root URL serving /app and /public (overrides MULLVAD_API_URL)")
	pf.DurationVar(&o.timeout, "timeout", cfg.HTTPTimeout, "Request timeout, 0 for none")
	pf.BoolVar(&o.statusCheck, "status-check", cfg.StatusCheck, "Fail on HTTP status 400 and above")

	root.AddCommand(
		newServersCmd(o),
		newAccountCmd(o),
		newVoucherCmd(o),
		newRelaysCmd(o),
		newAPIAddrsCmd(o),
		newProblemReportCmd(o),
		newWebsiteTokenCmd(o),
		newReleaseCmd(o),
		newApplePaymentCmd(o),
		newAmICmd(o),
		newStatusCmd(o),
		newEndpointsCmd(o),
		newSchemaCmd(o),
		newMCPCmd(o),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(cfg)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	if output, _ := root.PersistentFlags().GetString("output"); output == "json" {
		data, _ := json.MarshalIndent(errorBody(err), "", "  ")
		fmt.Fprintln(stderr, string(data))
	} else {
		errorLabel.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

// errorBody describes err for JSON output.
func errorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}

	var verr *mullvad.ValidationError
	var perr *mullvad.ParseError
	var apiErr *mullvad.APIError
	switch {
	case errors.As(err, &verr):
		fields := make([]string, len(verr.Fields))
		for i, f := range verr.Fields {
			fields[i] = f.String()
		}
		body["kind"] = "validation"
		body["fields"] = fields
	case errors.As(err, &perr):
		body["kind"] = "parse"
		body["status"] = perr.StatusCode
		if len(perr.Problems) > 0 {
			body["problems"] = perr.Problems
		}
	case errors.As(err, &apiErr):
		body["kind"] = "api"
		body["status"] = apiErr.StatusCode
		if apiErr.Code != "" {
			body["code"] = apiErr.Code
		}
	}
	return body
}

func (o *rootOptions) preRun(cmd *cobra.Command, args []string) error {
	switch o.output {
	case "json", "yaml":
	default:
		return fmt.Errorf("unsupported output format %q (use json or yaml)", o.output)
	}
	if o.jq != "" {
		if err := o.engine.ValidateExpression(o.jq); err != nil {
			return err
		}
	}
	return nil
}

// newClient opens a session from the configuration and flag overrides.
// Callers must Close it.
func (o *rootOptions) newClient() *mullvad.Client {
	cfg := *o.cfg
	if o.apiURL != "" {
		cfg.APIURL = o.apiURL
	}
	cfg.HTTPTimeout = o.timeout
	cfg.StatusCheck = o.statusCheck
	return mullvad.New(cfg.ClientOptions(nil)...)
}

// addTokenFlag registers --token, defaulting to MULLVAD_ACCESS_TOKEN.
func (o *rootOptions) addTokenFlag(cmd *cobra.Command, token *string) {
	cmd.Flags().StringVar(token, "token", o.cfg.AccessToken, "Access token (default from MULLVAD_ACCESS_TOKEN)")
}
