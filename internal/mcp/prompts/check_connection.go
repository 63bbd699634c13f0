package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleCheckConnection implements the connection troubleshooting workflow.
func HandleCheckConnection(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		expected := req.Params.Arguments["expected_relay"]

		var sb strings.Builder

		sb.WriteString("# Check the Mullvad Connection\n\n")
		sb.WriteString("1. Call `mullvad_connection_status()`\n")
		sb.WriteString("   - `connected: true` means the exit IP belongs to Mullvad\n")
		if expected != "" {
			fmt.Fprintf(&sb, "   - Compare `exit_hostname` with %q; a mismatch means the app picked another relay\n", expected)
		}
		sb.WriteString("   - `blacklisted: true` explains sites that block the user even though the tunnel works\n")
		sb.WriteString("2. If not connected, check that the API is reachable: `mullvad_api_addresses()`\n")
		sb.WriteString("3. If the relay itself is suspect, look it up: ")
		sb.WriteString("`mullvad_query(endpoints: [\"relay_list\"], expression: \".wireguard.relays[] | select(.hostname == \\\"<hostname>\\\")\")`\n")
		sb.WriteString("   - `active: false` means the relay is out of rotation\n\n")

		if !cfg.StatusCheck {
			sb.WriteString("HTTP error statuses are not classified by this server; a failing endpoint shows up as UPSTREAM_SCHEMA with the status in the message.\n")
		}
		if !cfg.HasToken {
			sb.WriteString("No access token is configured, so account-bound app endpoints are unavailable.\n")
		}

		return &sdkmcp.GetPromptResult{
			Description: "Check the Mullvad connection",
			Messages: []*sdkmcp.PromptMessage{
				{Role: "user", Content: &sdkmcp.TextContent{Text: sb.String()}},
			},
		}, nil
	}
}
