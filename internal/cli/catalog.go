package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/schema"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

func newEndpointsCmd(o *rootOptions) *cobra.Command {
	var api string

	cmd := &cobra.Command{
		Use:   "endpoints",
		Short: "List the endpoints this client knows",
		Long: `List the endpoints this client knows, with method, path, auth kind and
parameter and record type names.

Examples:
  mullvad endpoints --api app
  mullvad endpoints --jq '.[] | select(.auth == "bearer") | .name'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			infos := []mullvad.EndpointInfo{}
			for _, ep := range mullvad.Endpoints() {
				if api != "" && string(ep.API) != api {
					continue
				}
				infos = append(infos, ep.Info())
			}
			return o.print(cmd, infos)
		},
	}
	cmd.Flags().StringVar(&api, "api", "", "Only endpoints of this API: app, public or am-i")
	return cmd
}

func newSchemaCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <endpoint>",
		Short: "Print the JSON Schema an endpoint's responses are validated against",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, ok := mullvad.LookupEndpoint(args[0])
			if !ok {
				return fmt.Errorf("unknown endpoint %q (see mullvad endpoints)", args[0])
			}
			if ep.Response == nil {
				return fmt.Errorf("endpoint %s returns a raw response without a schema", ep.Name)
			}
			doc, err := schema.Reflect(ep.Response)
			if err != nil {
				return err
			}
			return o.printJSON(cmd, doc)
		},
	}
}
