package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// ListRelaysInput is the input for mullvad_list_relays.
type ListRelaysInput struct {
	Type       string `json:"type,omitempty" jsonschema:"Relay type: wireguard, openvpn or bridge (default: wireguard)"`
	Country    string `json:"country,omitempty" jsonschema:"Country name or code, e.g. Sweden or se"`
	City       string `json:"city,omitempty" jsonschema:"City name or code, e.g. Gothenburg or got"`
	ActiveOnly bool   `json:"active_only,omitempty" jsonschema:"Only relays that are currently active"`
	OwnedOnly  bool   `json:"owned_only,omitempty" jsonschema:"Only relays owned by Mullvad"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Max relays to return (default: 25, -1 for all)"`
}

// RelaySummary is a flattened relay with its location resolved.
type RelaySummary struct {
	Hostname  string `json:"hostname"`
	Location  string `json:"location,omitempty"`
	City      string `json:"city,omitempty"`
	Country   string `json:"country,omitempty"`
	Active    bool   `json:"active"`
	Owned     bool   `json:"owned"`
	Provider  string `json:"provider,omitempty"`
	IPv4      string `json:"ipv4_addr_in,omitempty"`
	IPv6      string `json:"ipv6_addr_in,omitempty"`
	PublicKey string `json:"public_key,omitempty"`
}

// ListRelaysOutput is the output for mullvad_list_relays.
type ListRelaysOutput struct {
	Type      string         `json:"type"`
	Total     int            `json:"total"` // matches before the limit
	Relays    []RelaySummary `json:"relays,omitzero"`
	Truncated bool           `json:"truncated,omitempty"`
}

// ToolListRelays filters the app relay list.
func ToolListRelays(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListRelaysInput) (*sdkmcp.CallToolResult, ListRelaysOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListRelaysInput) (*sdkmcp.CallToolResult, ListRelaysOutput, error) {
		kind := input.Type
		if kind == "" {
			kind = "wireguard"
		}
		if kind != "wireguard" && kind != "openvpn" && kind != "bridge" {
			return nil, ListRelaysOutput{}, ErrInvalidInput(fmt.Sprintf("type must be 'wireguard', 'openvpn' or 'bridge', got %q", kind))
		}

		list, err := d.RelayList(ctx)
		if err != nil {
			return nil, ListRelaysOutput{}, err
		}

		filter := mullvad.RelayFilter{
			Country:    input.Country,
			City:       input.City,
			ActiveOnly: input.ActiveOnly,
			OwnedOnly:  input.OwnedOnly,
		}

		var relays []RelaySummary
		switch kind {
		case "wireguard":
			for _, r := range list.WireGuardRelays(filter) {
				s := summarizeRelay(list.Locations, r.Hostname, r.Location, r.Active, r.Owned, r.Provider, r.IPv4AddrIn)
				s.IPv6 = str(r.IPv6AddrIn)
				s.PublicKey = str(r.PublicKey)
				relays = append(relays, s)
			}
		case "openvpn":
			for _, r := range list.OpenVPNRelays(filter) {
				relays = append(relays, summarizeRelay(list.Locations, r.Hostname, r.Location, r.Active, r.Owned, r.Provider, r.IPv4AddrIn))
			}
		case "bridge":
			for _, r := range list.BridgeRelays(filter) {
				relays = append(relays, summarizeRelay(list.Locations, r.Hostname, r.Location, r.Active, r.Owned, r.Provider, r.IPv4AddrIn))
			}
		}

		output := ListRelaysOutput{Type: kind, Total: len(relays), Relays: relays}
		if limit := d.relayLimit(input.Limit); limit > 0 && len(relays) > limit {
			output.Relays = relays[:limit]
			output.Truncated = true
		}
		return nil, output, nil
	}
}

func summarizeRelay(locs map[string]mullvad.Location, hostname, location *string, active, owned *bool, provider, ipv4 *string) RelaySummary {
	s := RelaySummary{
		Hostname: str(hostname),
		Location: str(location),
		Active:   flag(active),
		Owned:    flag(owned),
		Provider: str(provider),
		IPv4:     str(ipv4),
	}
	if loc, ok := locs[s.Location]; ok {
		s.City = str(loc.City)
		s.Country = str(loc.Country)
	}
	return s
}
