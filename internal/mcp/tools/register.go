package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: mullvad_list_relays
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_list_relays",
		Description: "List relays from the app API relay list, filtered by type (wireguard, openvpn, bridge), country, city, active and owned flags. Returns {type, total, relays: [{hostname, location, city, country, active, owned, provider, ipv4_addr_in, ipv6_addr_in, public_key}], truncated}. Country and city accept names or codes. Use this to pick a server; use mullvad_server_list for a per-city overview.",
	}, ToolListRelays(d))

	// Tool 2: mullvad_server_list
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_server_list",
		Description: "Summarize a public server list (openvpn, wireguard or wireguard-v2) by country and city. Returns {kind, host_count, countries: [{name, code, cities: [{name, code, relay_count, hostnames}]}]}. Set country to narrow the answer to one country.",
	}, ToolServerList(d))

	// Tool 3: mullvad_connection_status
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_connection_status",
		Description: "Check whether this machine's traffic leaves through a Mullvad relay. Returns {connected, ip, city, country, exit_hostname, server_type, organization, blacklisted, message}.",
	}, ToolConnectionStatus(d))

	// Tool 4: mullvad_account_info
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_account_info",
		Description: "Look up a Mullvad account's expiry. Returns {account, expiry, expired, days_left}. The account number must be 16 digits.",
	}, ToolAccountInfo(d))

	// Tool 5: mullvad_release_info
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_release_info",
		Description: "Check whether a Mullvad app version is supported on a platform and whether an upgrade is available. Returns {platform, version, supported, latest, latest_stable, latest_beta, upgrade_available}.",
	}, ToolReleaseInfo(d))

	// Tool 6: mullvad_api_addresses
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_api_addresses",
		Description: "List the ip:port addresses the Mullvad API can be reached on.",
	}, ToolAPIAddresses(d))

	// Tool 7: mullvad_list_endpoints
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_list_endpoints",
		Description: "List the API endpoints this server knows, with method, API, path, auth kind, parameter and record type names. Use the names with mullvad_query and mullvad_endpoint_schema.",
	}, ToolListEndpoints(d))

	// Tool 8: mullvad_endpoint_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_endpoint_schema",
		Description: "Get the JSON Schema an endpoint's responses are validated against. Useful before writing a jq expression for mullvad_query.",
	}, ToolEndpointSchema(d))

	// Tool 9: mullvad_query
	AddTool(srv, &sdkmcp.Tool{
		Name:        "mullvad_query",
		Description: "Fetch one or more parameterless GET endpoints by name and run a jq expression over each body. Returns {values, errors, raw_count, endpoint_counts, truncated, hints}. Example: endpoints=[\"relay_list\"], expression=\".wireguard.relays[] | select(.owned) | .hostname\".",
	}, ToolQuery(d))
}
