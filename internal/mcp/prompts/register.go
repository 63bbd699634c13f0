package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Pick a relay
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "choose_relay",
		Description: "RECOMMENDED: Pick a Mullvad relay for a location and protocol. Walks through narrowing the relay list and explains the trade-offs between candidates.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "country",
				Description: "Country name or code (e.g., 'Sweden', 'se')",
				Required:    false,
			},
			{
				Name:        "city",
				Description: "City name or code (e.g., 'Gothenburg', 'got')",
				Required:    false,
			},
			{
				Name:        "protocol",
				Description: "wireguard (default), openvpn or bridge",
				Required:    false,
			},
		},
	}, HandleChooseRelay(cfg))

	// Prompt 2: Troubleshoot the connection
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "check_connection",
		Description: "Diagnose whether traffic leaves through Mullvad and, if not, which checks to run next.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "expected_relay",
				Description: "Hostname of the relay the user believes they are connected to (e.g., 'se-got-wg-001')",
				Required:    false,
			},
		},
	}, HandleCheckConnection(cfg))
}
