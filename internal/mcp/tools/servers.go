package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// ServerListInput is the input for mullvad_server_list.
type ServerListInput struct {
	Kind    string `json:"kind,omitempty" jsonschema:"Server list: openvpn, wireguard or wireguard-v2 (default: wireguard-v2)"`
	Country string `json:"country,omitempty" jsonschema:"Only this country, by name or code"`
}

// CitySummary is one city of a server list.
type CitySummary struct {
	Name       string   `json:"name"`
	Code       string   `json:"code,omitempty"`
	RelayCount int      `json:"relay_count"`
	Hostnames  []string `json:"hostnames,omitzero"`
}

// CountrySummary is one country of a server list.
type CountrySummary struct {
	Name   string        `json:"name"`
	Code   string        `json:"code,omitempty"`
	Cities []CitySummary `json:"cities,omitzero"`
}

// ServerListOutput is the output for mullvad_server_list.
type ServerListOutput struct {
	Kind      string           `json:"kind"`
	HostCount int              `json:"host_count"`
	Countries []CountrySummary `json:"countries,omitzero"`
}

// ToolServerList summarizes a public server list by country and city.
func ToolServerList(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ServerListInput) (*sdkmcp.CallToolResult, ServerListOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ServerListInput) (*sdkmcp.CallToolResult, ServerListOutput, error) {
		kind := input.Kind
		if kind == "" {
			kind = "wireguard-v2"
		}

		var countries []mullvad.Country
		switch kind {
		case "openvpn":
			list, err := d.Client.OpenVPNServerList(ctx)
			if err != nil {
				return nil, ServerListOutput{}, err
			}
			countries = list.Countries
		case "wireguard":
			list, err := d.Client.WireGuardServerListV1(ctx)
			if err != nil {
				return nil, ServerListOutput{}, err
			}
			countries = list.Countries
		case "wireguard-v2":
			list, err := d.Client.WireGuardServerListV2(ctx)
			if err != nil {
				return nil, ServerListOutput{}, err
			}
			countries = list.Countries
			if countries == nil && list.WireGuard != nil {
				countries = countriesFromLocations(list.Locations, list.WireGuard.Relays)
			}
		default:
			return nil, ServerListOutput{}, ErrInvalidInput(fmt.Sprintf("kind must be 'openvpn', 'wireguard' or 'wireguard-v2', got %q", kind))
		}

		if input.Country != "" {
			found, ok := (&mullvad.ServerList{Countries: countries}).FindCountry(input.Country)
			if !ok {
				return nil, ServerListOutput{}, ErrNotFound("country", input.Country)
			}
			countries = []mullvad.Country{*found}
		}

		output := ServerListOutput{Kind: kind}
		for _, country := range countries {
			cs := CountrySummary{Name: str(country.Name), Code: str(country.Code)}
			for _, city := range country.Cities {
				sum := CitySummary{Name: str(city.Name), Code: str(city.Code), RelayCount: len(city.Relays)}
				for _, h := range city.Relays {
					if h.Hostname != nil {
						sum.Hostnames = append(sum.Hostnames, *h.Hostname)
					}
				}
				output.HostCount += sum.RelayCount
				cs.Cities = append(cs.Cities, sum)
			}
			output.Countries = append(output.Countries, cs)
		}
		return nil, output, nil
	}
}

// countriesFromLocations builds the country tree of a v2 list that only
// carries the location map and relays. Location keys are "<country>-<city>".
func countriesFromLocations(locs map[string]mullvad.Location, relays []mullvad.WireGuardRelay) []mullvad.Country {
	byCountry := make(map[string]*mullvad.Country)
	byCity := make(map[string]*mullvad.City)
	var countryOrder, cityOrder []string

	for _, r := range relays {
		key := str(r.Location)
		loc := locs[key]
		countryCode, cityCode, _ := strings.Cut(key, "-")

		country, ok := byCountry[countryCode]
		if !ok {
			country = &mullvad.Country{Name: loc.Country, Code: &countryCode}
			byCountry[countryCode] = country
			countryOrder = append(countryOrder, countryCode)
		}
		city, ok := byCity[key]
		if !ok {
			city = &mullvad.City{Name: loc.City, Code: &cityCode, Latitude: loc.Latitude, Longitude: loc.Longitude}
			byCity[key] = city
			cityOrder = append(cityOrder, key)
		}
		city.Relays = append(city.Relays, mullvad.Host{
			Hostname:   r.Hostname,
			IPv4AddrIn: r.IPv4AddrIn,
			IPv6AddrIn: r.IPv6AddrIn,
			PublicKey:  r.PublicKey,
			Weight:     r.Weight,
		})
	}

	sort.Strings(cityOrder)
	for _, key := range cityOrder {
		countryCode, _, _ := strings.Cut(key, "-")
		byCountry[countryCode].Cities = append(byCountry[countryCode].Cities, *byCity[key])
	}
	sort.Strings(countryOrder)
	countries := make([]mullvad.Country, 0, len(countryOrder))
	for _, code := range countryOrder {
		countries = append(countries, *byCountry[code])
	}
	return countries
}
