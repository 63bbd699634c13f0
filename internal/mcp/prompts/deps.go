// Package prompts contains MCP prompt implementations for the Mullvad APIs.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	RelayLimit  int  // default relay limit of mullvad_list_relays
	HasToken    bool // an access token is configured
	StatusCheck bool // HTTP errors are classified
}
