// Package mcpsrv provides an extensible MCP server for the Mullvad VPN APIs.
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin Mullvad tools, prompts, and resources. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with default configuration:
//
//	c := mullvad.New()
//	defer c.Close()
//
//	server, err := mcpsrv.NewServer(c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly. Tools that need the client
// use WithDepsTool:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type OwnedInput struct {
//	    Country string `json:"country"`
//	}
//
//	type OwnedOutput struct {
//	    Count int `json:"count"`
//	}
//
//	server, err := mcpsrv.NewServer(c,
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "owned_relays", Description: "Count owned relays"},
//	        func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, OwnedInput) (*mcp.CallToolResult, OwnedOutput, error) {
//	            return func(ctx context.Context, req *mcp.CallToolRequest, in OwnedInput) (*mcp.CallToolResult, OwnedOutput, error) {
//	                list, err := d.Client.RelayList(ctx)
//	                if err != nil {
//	                    return nil, OwnedOutput{}, err
//	                }
//	                relays := list.WireGuardRelays(mullvad.RelayFilter{Country: in.Country, OwnedOnly: true})
//	                return nil, OwnedOutput{Count: len(relays)}, nil
//	            }
//	        }),
//	)
//
// # Configuration
//
// Configuration is read from the environment (MULLVAD_*, LOG_* and the limit
// variables) unless WithConfig is given. Logging can be overridden per server:
//
//	server, err := mcpsrv.NewServer(c,
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/mullvad-mcp.log"),
//	)
//
// The MCP server owns stdout, so logs go to stderr or the log file.
package mcpsrv
