package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleChooseRelay implements the relay selection workflow.
func HandleChooseRelay(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		country := args["country"]
		city := args["city"]
		protocol := args["protocol"]
		if protocol == "" {
			protocol = "wireguard"
		}

		var sb strings.Builder

		sb.WriteString("# Choose a Mullvad Relay\n\n")
		sb.WriteString("You help a Mullvad VPN user pick a relay. Prefer active relays, and prefer relays owned by Mullvad ")
		sb.WriteString("over rented ones when the user cares about who operates the hardware.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Survey locations** - `mullvad_server_list` gives relay counts per country and city\n")
		sb.WriteString("   - Skip this when the user already named a city\n")
		sb.WriteString("2. **List candidates** - `mullvad_list_relays` with the filters below\n")
		fmt.Fprintf(&sb, "   - Results are capped at %d by default; pass `limit: -1` for all\n", cfg.RelayLimit)
		sb.WriteString("   - `total` tells you how many matched before the cap\n")
		sb.WriteString("3. **Compare** - weigh owned vs rented (`owned`, `provider`) and IPv6 availability (`ipv6_addr_in`)\n")
		sb.WriteString("4. **Verify** - after the user connects, `mullvad_connection_status` should report the chosen hostname as `exit_hostname`\n\n")

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		filters := []string{fmt.Sprintf("type: %q", protocol), "active_only: true"}
		if country != "" {
			filters = append(filters, fmt.Sprintf("country: %q", country))
		}
		if city != "" {
			filters = append(filters, fmt.Sprintf("city: %q", city))
		}
		if country == "" && city == "" {
			sb.WriteString("mullvad_server_list()\n")
		}
		fmt.Fprintf(&sb, "mullvad_list_relays(%s)\n", strings.Join(filters, ", "))
		sb.WriteString("```\n\n")

		if protocol == "bridge" {
			sb.WriteString("Bridges only carry OpenVPN traffic. Pair the bridge with an OpenVPN relay, ideally in a different country.\n\n")
		}

		sb.WriteString("## Output\n\n")
		sb.WriteString("Recommend one relay and up to two alternatives. For each give hostname, city, owned/rented and provider.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Choose a Mullvad relay",
			Messages: []*sdkmcp.PromptMessage{
				{Role: "user", Content: &sdkmcp.TextContent{Text: sb.String()}},
			},
		}, nil
	}
}
