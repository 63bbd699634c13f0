package mullvad

import (
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// Record fields follow one convention: pointer, slice and map fields are
// optional and nil when the server omitted them or sent null; value fields are
// required and a body without them fails to parse.

// Account is a Mullvad account.
type Account struct {
	ID     *string `json:"id" jsonschema:"nullable"`     // account number
	Expiry *string `json:"expiry" jsonschema:"nullable"` // ISO 8601
}

// ExpiresAt parses Expiry. It returns the zero time and false when the
// account has no expiry or it is not RFC 3339.
func (a *Account) ExpiresAt() (time.Time, bool) {
	if a.Expiry == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, *a.Expiry)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// OpenVPNRelay is an OpenVPN server in the app relay list.
type OpenVPNRelay struct {
	Hostname         *string `json:"hostname" jsonschema:"nullable"`
	Location         *string `json:"location" jsonschema:"nullable"` // key into RelayList.Locations
	Active           *bool   `json:"active" jsonschema:"nullable"`
	Owned            *bool   `json:"owned" jsonschema:"nullable"`
	Provider         *string `json:"provider" jsonschema:"nullable"`
	Stboot           *bool   `json:"stboot" jsonschema:"nullable"`
	IPv4AddrIn       *string `json:"ipv4_addr_in" jsonschema:"nullable"`
	IncludeInCountry *bool   `json:"include_in_country" jsonschema:"nullable"`
	Weight           *int    `json:"weight" jsonschema:"nullable"`
}

// BridgeRelay is a bridge server in the app relay list.
type BridgeRelay OpenVPNRelay

// WireGuardRelay is a WireGuard server in the app relay list or the v2
// public server list.
type WireGuardRelay struct {
	Hostname         *string `json:"hostname" jsonschema:"nullable"`
	Location         *string `json:"location" jsonschema:"nullable"`
	Active           *bool   `json:"active" jsonschema:"nullable"`
	Owned            *bool   `json:"owned" jsonschema:"nullable"`
	Provider         *string `json:"provider" jsonschema:"nullable"`
	Stboot           *bool   `json:"stboot" jsonschema:"nullable"`
	IPv4AddrIn       *string `json:"ipv4_addr_in" jsonschema:"nullable"`
	IncludeInCountry *bool   `json:"include_in_country" jsonschema:"nullable"`
	Weight           *int    `json:"weight" jsonschema:"nullable"`
	PublicKey        *string `json:"public_key" jsonschema:"nullable"`
	IPv6AddrIn       *string `json:"ipv6_addr_in" jsonschema:"nullable"`
}

// Location is a geographic location referenced by relays.
type Location struct {
	City      *string  `json:"city" jsonschema:"nullable"`
	Country   *string  `json:"country" jsonschema:"nullable"`
	Latitude  *float64 `json:"latitude" jsonschema:"nullable"`
	Longitude *float64 `json:"longitude" jsonschema:"nullable"`
}

// OpenVPNPort is a port/protocol pair OpenVPN relays listen on.
type OpenVPNPort struct {
	Port     int    `json:"port" jsonschema:"required"`
	Protocol string `json:"protocol" jsonschema:"required"`
}

// BridgeShadowsocks is a Shadowsocks configuration offered by bridges.
type BridgeShadowsocks struct {
	Protocol string `json:"protocol" jsonschema:"required"`
	Port     int    `json:"port" jsonschema:"required"`
	Cipher   string `json:"cipher" jsonschema:"required"`
	Password string `json:"password" jsonschema:"required"`
}

// OpenVPNEndpoints is the "openvpn" section of the relay list.
type OpenVPNEndpoints struct {
	Ports  []OpenVPNPort  `json:"ports" jsonschema:"nullable"`
	Relays []OpenVPNRelay `json:"relays" jsonschema:"nullable"`
}

// WireGuardEndpoints is the "wireguard" section of the relay list and of the
// v2 server list. Port ranges are inclusive [first, last] pairs.
type WireGuardEndpoints struct {
	PortRanges            [][]int          `json:"port_ranges" jsonschema:"nullable"`
	IPv4Gateway           *string          `json:"ipv4_gateway" jsonschema:"nullable"`
	IPv6Gateway           *string          `json:"ipv6_gateway" jsonschema:"nullable"`
	ShadowsocksPortRanges [][]int          `json:"shadowsocks_port_ranges" jsonschema:"nullable"`
	Relays                []WireGuardRelay `json:"relays" jsonschema:"nullable"`
}

// BridgeEndpoints is the "bridge" section of the relay list.
type BridgeEndpoints struct {
	Shadowsocks []BridgeShadowsocks `json:"shadowsocks" jsonschema:"nullable"`
	Relays      []BridgeRelay       `json:"relays" jsonschema:"nullable"`
}

// RelayList is the app API relay list.
type RelayList struct {
	Locations map[string]Location `json:"locations" jsonschema:"required"`
	OpenVPN   OpenVPNEndpoints    `json:"openvpn" jsonschema:"required"`
	WireGuard WireGuardEndpoints  `json:"wireguard" jsonschema:"required"`
	Bridge    BridgeEndpoints     `json:"bridge" jsonschema:"required"`
}

// RelayFilter selects relays from a RelayList. Empty fields match everything.
type RelayFilter struct {
	Country    string // country name or code, case-insensitive
	City       string // city name or code, case-insensitive
	ActiveOnly bool
	OwnedOnly  bool
}

// matches checks a relay's location key ("se-sto") and flags against f.
func (f RelayFilter) matches(locs map[string]Location, location *string, active, owned *bool) bool {
	if f.ActiveOnly && (active == nil || !*active) {
		return false
	}
	if f.OwnedOnly && (owned == nil || !*owned) {
		return false
	}
	if f.Country == "" && f.City == "" {
		return true
	}
	if location == nil {
		return false
	}
	countryCode, cityCode, _ := strings.Cut(*location, "-")
	loc := locs[*location]
	if f.Country != "" && !strings.EqualFold(f.Country, countryCode) && !equalFoldPtr(f.Country, loc.Country) {
		return false
	}
	if f.City != "" && !strings.EqualFold(f.City, cityCode) && !equalFoldPtr(f.City, loc.City) {
		return false
	}
	return true
}

func equalFoldPtr(s string, p *string) bool {
	return p != nil && strings.EqualFold(s, *p)
}

// WireGuardRelays returns the WireGuard relays matching f.
func (l *RelayList) WireGuardRelays(f RelayFilter) []WireGuardRelay {
	var out []WireGuardRelay
	for _, r := range l.WireGuard.Relays {
		if f.matches(l.Locations, r.Location, r.Active, r.Owned) {
			out = append(out, r)
		}
	}
	return out
}

// OpenVPNRelays returns the OpenVPN relays matching f.
func (l *RelayList) OpenVPNRelays(f RelayFilter) []OpenVPNRelay {
	var out []OpenVPNRelay
	for _, r := range l.OpenVPN.Relays {
		if f.matches(l.Locations, r.Location, r.Active, r.Owned) {
			out = append(out, r)
		}
	}
	return out
}

// BridgeRelays returns the bridge relays matching f.
func (l *RelayList) BridgeRelays(f RelayFilter) []BridgeRelay {
	var out []BridgeRelay
	for _, r := range l.Bridge.Relays {
		if f.matches(l.Locations, r.Location, r.Active, r.Owned) {
			out = append(out, r)
		}
	}
	return out
}

// Host is a relay in the public server lists.
type Host struct {
	Hostname     *string `json:"hostname" jsonschema:"nullable"`
	IPv4AddrIn   *string `json:"ipv4_addr_in" jsonschema:"nullable"`
	IPv6AddrIn   *string `json:"ipv6_addr_in" jsonschema:"nullable"`
	PublicKey    *string `json:"public_key" jsonschema:"nullable"`
	MultihopPort *int    `json:"multihop_port" jsonschema:"nullable"`
	Weight       *int    `json:"weight" jsonschema:"nullable"`
}

// City groups the relays of one city.
type City struct {
	Name      *string  `json:"name" jsonschema:"nullable"`
	Code      *string  `json:"code" jsonschema:"nullable"`
	Latitude  *float64 `json:"latitude" jsonschema:"nullable"`
	Longitude *float64 `json:"longitude" jsonschema:"nullable"`
	Relays    []Host   `json:"relays" jsonschema:"required,nullable"`
}

// Country groups the cities of one country.
type Country struct {
	Name   *string `json:"name" jsonschema:"nullable"`
	Code   *string `json:"code" jsonschema:"nullable"`
	Cities []City  `json:"cities" jsonschema:"required,nullable"`
}

// ServerList is the country tree returned by the OpenVPN and WireGuard v1
// public server lists.
type ServerList struct {
	Countries []Country `json:"countries" jsonschema:"required,nullable"`
}

// FindCountry returns the country whose name or code matches, case-insensitively.
func (s *ServerList) FindCountry(nameOrCode string) (*Country, bool) {
	return findCountry(s.Countries, nameOrCode)
}

// Hosts returns every host of the list in document order.
func (s *ServerList) Hosts() []Host {
	return hosts(s.Countries)
}

// WireGuardServerListV2 is the v2 WireGuard public server list. Depending on
// the deployment it carries the location map and a WireGuard section, the
// v1 country tree, or both.
type WireGuardServerListV2 struct {
	Locations map[string]Location `json:"locations" jsonschema:"nullable"`
	WireGuard *WireGuardEndpoints `json:"wireguard" jsonschema:"nullable"`
	Countries []Country           `json:"countries" jsonschema:"nullable"`
}

// FindCountry returns the country whose name or code matches, case-insensitively.
func (s *WireGuardServerListV2) FindCountry(nameOrCode string) (*Country, bool) {
	return findCountry(s.Countries, nameOrCode)
}

func findCountry(countries []Country, nameOrCode string) (*Country, bool) {
	for i := range countries {
		c := &countries[i]
		if equalFoldPtr(nameOrCode, c.Name) || equalFoldPtr(nameOrCode, c.Code) {
			return c, true
		}
	}
	return nil, false
}

func hosts(countries []Country) []Host {
	var out []Host
	for _, country := range countries {
		for _, city := range country.Cities {
			out = append(out, city.Relays...)
		}
	}
	return out
}

// ActivateVoucherResponse holds the plain text answer of the voucher
// activation endpoint.
type ActivateVoucherResponse struct {
	Response string `json:"response" jsonschema:"required"`
}

// SubmitVoucherResponse is the result of redeeming a voucher through the app API.
type SubmitVoucherResponse struct {
	TimeAdded int    `json:"time_added" jsonschema:"required"` // seconds
	NewExpiry string `json:"new_expiry" jsonschema:"required"`
}

// ProblemReportResponse is the answer to a problem report.
type ProblemReportResponse struct {
	Code  string `json:"code" jsonschema:"required"`
	Error string `json:"error" jsonschema:"required"`
}

// AuthToken is a short-lived website login token.
type AuthToken struct {
	AuthToken string `json:"auth_token" jsonschema:"required"`
}

// ReleaseInfo describes the app release situation for a platform and version.
type ReleaseInfo struct {
	Supported    bool   `json:"supported" jsonschema:"required"`
	Latest       string `json:"latest" jsonschema:"required"`
	LatestStable string `json:"latest_stable" jsonschema:"required"`
	LatestBeta   string `json:"latest_beta" jsonschema:"required"`
}

// UpgradeAvailable reports whether LatestStable (or LatestBeta when beta is
// true) is newer than current.
func (r *ReleaseInfo) UpgradeAvailable(current string, beta bool) (bool, error) {
	cur, err := semver.NewVersion(current)
	if err != nil {
		return false, fmt.Errorf("parsing current version %q: %w", current, err)
	}
	target := r.LatestStable
	if beta {
		target = r.LatestBeta
	}
	latest, err := semver.NewVersion(target)
	if err != nil {
		return false, fmt.Errorf("parsing latest version %q: %w", target, err)
	}
	return latest.GreaterThan(cur), nil
}

// ApplePaymentResponse is the answer to an App Store receipt submission.
type ApplePaymentResponse struct {
	ReceiptString string `json:"receipt_string" jsonschema:"required"`
}

// IPProfile is the document served by the connection check's /json endpoint.
// Decode it with RawResponse.JSON.
type IPProfile struct {
	IP                    string          `json:"ip"`
	Country               string          `json:"country"`
	City                  *string         `json:"city"`
	Longitude             *float64        `json:"longitude"`
	Latitude              *float64        `json:"latitude"`
	MullvadExitIP         bool            `json:"mullvad_exit_ip"`
	MullvadExitIPHostname *string         `json:"mullvad_exit_ip_hostname"`
	MullvadServerType     *string         `json:"mullvad_server_type"`
	Blacklisted           *BlacklistState `json:"blacklisted"`
	Organization          *string         `json:"organization"`
}

// BlacklistState reports whether the IP is on public blocklists.
type BlacklistState struct {
	Blacklisted bool             `json:"blacklisted"`
	Results     []BlacklistEntry `json:"results"`
}

// BlacklistEntry is one blocklist lookup.
type BlacklistEntry struct {
	Name        string `json:"name"`
	Link        string `json:"link"`
	Blacklisted bool   `json:"blacklisted"`
}
