package tools

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/config"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/query"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

const relayListFixture = `{
	"locations": {
		"se-got": {"city": "Gothenburg", "country": "Sweden", "latitude": 57.7, "longitude": 11.97},
		"de-fra": {"city": "Frankfurt", "country": "Germany", "latitude": 50.11, "longitude": 8.68}
	},
	"openvpn": {
		"ports": [{"port": 1194, "protocol": "udp"}],
		"relays": [{"hostname": "se-got-ovpn-001", "location": "se-got", "active": true, "owned": true, "provider": "31173", "ipv4_addr_in": "185.213.154.1"}]
	},
	"wireguard": {
		"port_ranges": [[53, 53], [4000, 33433]],
		"ipv4_gateway": "10.64.0.1",
		"ipv6_gateway": "fc00:bbbb:bbbb:bb01::1",
		"relays": [
			{"hostname": "se-got-wg-001", "location": "se-got", "active": true, "owned": true, "provider": "31173", "ipv4_addr_in": "185.213.154.66", "public_key": "se1=", "ipv6_addr_in": "2a03:1b20:5::f001"},
			{"hostname": "se-got-wg-002", "location": "se-got", "active": false, "owned": true, "provider": "31173", "ipv4_addr_in": "185.213.154.67", "public_key": "se2="},
			{"hostname": "de-fra-wg-001", "location": "de-fra", "active": true, "owned": false, "provider": "M247", "ipv4_addr_in": "146.70.117.2", "public_key": "de1="}
		]
	},
	"bridge": {
		"shadowsocks": [{"protocol": "tcp", "port": 443, "cipher": "aes-256-gcm", "password": "mullvad"}],
		"relays": [{"hostname": "se-got-br-001", "location": "se-got", "active": true}]
	}
}`

const profileFixture = `{
	"ip": "185.213.154.66",
	"country": "Sweden",
	"city": "Gothenburg",
	"longitude": 11.97,
	"latitude": 57.7,
	"mullvad_exit_ip": true,
	"mullvad_exit_ip_hostname": "se-got-wg-001",
	"mullvad_server_type": "WireGuard",
	"blacklisted": {"blacklisted": false, "results": []},
	"organization": "31173 Services AB"
}`

// newTestDeps serves routes and returns deps whose client points at them.
// The connection check is mounted under /am-i.
func newTestDeps(t *testing.T, routes map[string]string) (*Deps, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if len(body) > 0 && (body[0] == '{' || body[0] == '[') {
			w.Header().Set("Content-Type", "application/json")
		} else {
			w.Header().Set("Content-Type", "text/plain")
		}
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c := mullvad.New(mullvad.WithBaseURL(srv.URL), mullvad.WithAmIURL(srv.URL+"/am-i"))
	t.Cleanup(func() { _ = c.Close() })

	return &Deps{
		Client: c,
		Config: &config.Config{RelayLimitDefault: 2, QueryMaxResults: 100},
		Query:  query.NewEngine(),
	}, &hits
}

func TestRegister_AllOutputSchemasValid(t *testing.T) {
	d, _ := newTestDeps(t, nil)
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	assert.NotPanics(t, func() { Register(srv, d) })
}

func TestListRelays(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{"GET /app/v1/relays": relayListFixture})
	ctx := context.Background()

	_, out, err := ToolListRelays(d)(ctx, nil, ListRelaysInput{Country: "se", ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, "wireguard", out.Type)
	require.Len(t, out.Relays, 1)
	r := out.Relays[0]
	assert.Equal(t, "se-got-wg-001", r.Hostname)
	assert.Equal(t, "Gothenburg", r.City)
	assert.Equal(t, "Sweden", r.Country)
	assert.Equal(t, "se1=", r.PublicKey)
	assert.Equal(t, "2a03:1b20:5::f001", r.IPv6)
	assert.True(t, r.Active)
	assert.True(t, r.Owned)

	_, out, err = ToolListRelays(d)(ctx, nil, ListRelaysInput{Type: "bridge"})
	require.NoError(t, err)
	require.Len(t, out.Relays, 1)
	assert.Equal(t, "se-got-br-001", out.Relays[0].Hostname)
	assert.Empty(t, out.Relays[0].PublicKey)
}

func TestListRelays_Limit(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{"GET /app/v1/relays": relayListFixture})
	ctx := context.Background()

	// Config default is 2.
	_, out, err := ToolListRelays(d)(ctx, nil, ListRelaysInput{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Total)
	assert.Len(t, out.Relays, 2)
	assert.True(t, out.Truncated)

	_, out, err = ToolListRelays(d)(ctx, nil, ListRelaysInput{Limit: -1})
	require.NoError(t, err)
	assert.Len(t, out.Relays, 3)
	assert.False(t, out.Truncated)
}

func TestListRelays_InvalidType(t *testing.T) {
	d, hits := newTestDeps(t, nil)

	_, _, err := ToolListRelays(d)(context.Background(), nil, ListRelaysInput{Type: "ipsec"})
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)
	assert.Zero(t, hits.Load())
}

func TestServerList(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{
		"GET /public/relays/v1": `{"countries":[
			{"name":"Sweden","code":"se","cities":[{"name":"Gothenburg","code":"got","relays":[{"hostname":"se-got-001"},{"hostname":"se-got-002"}]}]},
			{"name":"Germany","code":"de","cities":[{"name":"Frankfurt","code":"fra","relays":[{"hostname":"de-fra-001"}]}]}
		]}`,
	})
	ctx := context.Background()

	_, out, err := ToolServerList(d)(ctx, nil, ServerListInput{Kind: "openvpn"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.HostCount)
	require.Len(t, out.Countries, 2)
	assert.Equal(t, []string{"se-got-001", "se-got-002"}, out.Countries[0].Cities[0].Hostnames)

	_, out, err = ToolServerList(d)(ctx, nil, ServerListInput{Kind: "openvpn", Country: "Germany"})
	require.NoError(t, err)
	require.Len(t, out.Countries, 1)
	assert.Equal(t, "de", out.Countries[0].Code)
	assert.Equal(t, 1, out.HostCount)

	_, _, err = ToolServerList(d)(ctx, nil, ServerListInput{Kind: "openvpn", Country: "Atlantis"})
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeNotFound, coded.Code)
}

func TestServerList_V2FromLocations(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{
		"GET /public/relays/wireguard/v2": `{
			"locations": {"se-got": {"city": "Gothenburg", "country": "Sweden"}, "de-fra": {"city": "Frankfurt", "country": "Germany"}},
			"wireguard": {"relays": [
				{"hostname": "se-got-wg-001", "location": "se-got"},
				{"hostname": "de-fra-wg-001", "location": "de-fra"},
				{"hostname": "se-got-wg-002", "location": "se-got"}
			]}
		}`,
	})

	_, out, err := ToolServerList(d)(context.Background(), nil, ServerListInput{})
	require.NoError(t, err)
	assert.Equal(t, "wireguard-v2", out.Kind)
	assert.Equal(t, 3, out.HostCount)
	require.Len(t, out.Countries, 2)
	assert.Equal(t, "Germany", out.Countries[0].Name)
	assert.Equal(t, "Sweden", out.Countries[1].Name)
	require.Len(t, out.Countries[1].Cities, 1)
	assert.Equal(t, "got", out.Countries[1].Cities[0].Code)
	assert.Equal(t, []string{"se-got-wg-001", "se-got-wg-002"}, out.Countries[1].Cities[0].Hostnames)
}

func TestConnectionStatus(t *testing.T) {
	d, hits := newTestDeps(t, map[string]string{
		"GET /am-i/json":      profileFixture,
		"GET /am-i/connected": "You are connected to Mullvad (server se-got-wg-001). Your IP address is 185.213.154.66\n",
	})

	_, out, err := ToolConnectionStatus(d)(context.Background(), nil, ConnectionStatusInput{})
	require.NoError(t, err)
	assert.True(t, out.Connected)
	assert.Equal(t, "185.213.154.66", out.IP)
	assert.Equal(t, "Gothenburg", out.City)
	assert.Equal(t, "se-got-wg-001", out.ExitHostname)
	assert.Equal(t, "WireGuard", out.ServerType)
	assert.False(t, out.Blacklisted)
	assert.Contains(t, out.Message, "You are connected")
	assert.Equal(t, int32(2), hits.Load())
}

func TestAccountInfo(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{
		"GET /public/accounts/v1/1234567890123456": `{"id":"1234567890123456","expiry":"2099-01-01T00:00:00+00:00"}`,
	})

	_, out, err := ToolAccountInfo(d)(context.Background(), nil, AccountInfoInput{Account: "1234 5678 9012 3456"})
	require.NoError(t, err)
	assert.Equal(t, "1234567890123456", out.Account)
	assert.False(t, out.Expired)
	assert.Positive(t, out.DaysLeft)
}

func TestAccountInfo_InvalidAccount(t *testing.T) {
	d, hits := newTestDeps(t, nil)

	_, _, err := ToolAccountInfo(d)(context.Background(), nil, AccountInfoInput{Account: "42"})
	require.Error(t, err)
	var verr *mullvad.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, ErrCodeInvalidInput, classify(err).Code)
	assert.Zero(t, hits.Load())
}

func TestReleaseInfo(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{
		"GET /app/v1/releases/linux/2024.3": `{"supported":true,"latest":"2024.5-beta1","latest_stable":"2024.4","latest_beta":"2024.5-beta1"}`,
	})
	ctx := context.Background()

	_, out, err := ToolReleaseInfo(d)(ctx, nil, ReleaseInfoInput{Platform: "linux", Version: "2024.3"})
	require.NoError(t, err)
	assert.True(t, out.Supported)
	assert.Equal(t, "2024.4", out.LatestStable)
	assert.True(t, out.UpgradeAvailable)
}

func TestAPIAddresses(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{
		"GET /app/v1/api-addrs": `["45.83.223.196:443","[2a03:ed0:1::]:443"]`,
	})

	_, out, err := ToolAPIAddresses(d)(context.Background(), nil, APIAddressesInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"45.83.223.196:443", "[2a03:ed0:1::]:443"}, out.Addresses)
}

func TestListEndpoints(t *testing.T) {
	d, _ := newTestDeps(t, nil)

	_, out, err := ToolListEndpoints(d)(context.Background(), nil, ListEndpointsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Endpoints, len(mullvad.Endpoints()))

	_, out, err = ToolListEndpoints(d)(context.Background(), nil, ListEndpointsInput{API: "am-i"})
	require.NoError(t, err)
	assert.Len(t, out.Endpoints, 5)
	for _, ep := range out.Endpoints {
		assert.Equal(t, mullvad.AmIAPI, ep.API)
	}
}

func TestEndpointSchema(t *testing.T) {
	out, err := EndpointSchema(mullvad.EndpointReleaseInfo)
	require.NoError(t, err)
	assert.Equal(t, "ReleaseInfo", out.Record)
	s, ok := out.Schema.(map[string]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{"supported", "latest", "latest_stable", "latest_beta"}, s["required"])

	_, err = EndpointSchema(mullvad.EndpointAmIIP)
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeInvalidInput, coded.Code)

	_, err = EndpointSchema("nope")
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeNotFound, coded.Code)
}

func TestQuery(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{
		"GET /app/v1/relays": relayListFixture,
		"GET /am-i/json":     profileFixture,
		"GET /am-i/ip":       "185.213.154.66\n",
	})
	ctx := context.Background()

	_, out, err := ToolQuery(d)(ctx, nil, QueryInput{
		Endpoints:  []string{mullvad.EndpointRelayList},
		Expression: ".wireguard.relays[] | select(.owned) | .hostname",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"se-got-wg-001", "se-got-wg-002"}, out.Values)
	assert.Equal(t, 2, out.EndpointCounts[mullvad.EndpointRelayList])

	_, out, err = ToolQuery(d)(ctx, nil, QueryInput{
		Endpoints:  []string{mullvad.EndpointAmIJSON, mullvad.EndpointAmIIP},
		Expression: ".mullvad_exit_ip_hostname",
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"se-got-wg-001"}, out.Values)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "am_i_ip")
	assert.NotEmpty(t, out.Hints)
}

func TestQuery_TruncatedOnlyPastTheCap(t *testing.T) {
	d, _ := newTestDeps(t, map[string]string{"GET /app/v1/relays": relayListFixture})
	ctx := context.Background()
	in := QueryInput{
		Endpoints:  []string{mullvad.EndpointRelayList},
		Expression: ".wireguard.relays[].hostname",
	}

	in.MaxResults = 3
	_, out, err := ToolQuery(d)(ctx, nil, in)
	require.NoError(t, err)
	assert.Len(t, out.Values, 3)
	assert.False(t, out.Truncated)
	assert.Empty(t, out.Hints)

	in.MaxResults = 2
	_, out, err = ToolQuery(d)(ctx, nil, in)
	require.NoError(t, err)
	assert.Equal(t, []any{"se-got-wg-001", "se-got-wg-002"}, out.Values)
	assert.True(t, out.Truncated)
	require.Len(t, out.Hints, 1)
	assert.Contains(t, out.Hints[0], "capped at 2")
}

func TestQuery_RejectsBeforeFetching(t *testing.T) {
	d, hits := newTestDeps(t, nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		input QueryInput
		code  string
	}{
		{"missing expression", QueryInput{Endpoints: []string{"relay_list"}}, ErrCodeInvalidInput},
		{"no endpoints", QueryInput{Expression: "."}, ErrCodeInvalidInput},
		{"bad expression", QueryInput{Endpoints: []string{"relay_list"}, Expression: ".[["}, ErrCodeInvalidInput},
		{"unknown endpoint", QueryInput{Endpoints: []string{"nope"}, Expression: "."}, ErrCodeNotFound},
		{"endpoint with params", QueryInput{Endpoints: []string{"release_info"}, Expression: "."}, ErrCodeInvalidInput},
		{"POST endpoint", QueryInput{Endpoints: []string{"create_account"}, Expression: "."}, ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ToolQuery(d)(ctx, nil, tt.input)
			var coded *CodedError
			require.ErrorAs(t, err, &coded)
			assert.Equal(t, tt.code, coded.Code)
		})
	}
	assert.Zero(t, hits.Load())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"closed", mullvad.ErrSessionClosed, ErrCodeSessionClosed},
		{"validation", &mullvad.ValidationError{Params: "AccountParams"}, ErrCodeInvalidInput},
		{"parse", &mullvad.ParseError{Endpoint: "relay_list", Record: "RelayList"}, ErrCodeUpstreamSchema},
		{"api 404", &mullvad.APIError{Endpoint: "release_info", StatusCode: 404}, ErrCodeNotFound},
		{"api 500", &mullvad.APIError{Endpoint: "relay_list", StatusCode: 500}, ErrCodeAPIError},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"other", errors.New("connection refused"), ErrCodeUpstreamError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, classify(tt.err).Code)
		})
	}
}

func TestWithCodedErrors(t *testing.T) {
	h := withCodedErrors(func(ctx context.Context, req *sdkmcp.CallToolRequest, in struct{}) (*sdkmcp.CallToolResult, struct{}, error) {
		return nil, struct{}{}, mullvad.ErrSessionClosed
	})
	_, _, err := h(context.Background(), nil, struct{}{})

	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, ErrCodeSessionClosed, coded.Code)
	assert.ErrorIs(t, err, mullvad.ErrSessionClosed)
}

func TestRelayList_CanceledCallerDoesNotFailOthers(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, relayListFixture)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() {
		select {
		case <-release:
		default:
			close(release)
		}
	})

	c := mullvad.New(mullvad.WithBaseURL(srv.URL))
	t.Cleanup(func() { _ = c.Close() })
	d := &Deps{Client: c, Config: &config.Config{}, Query: query.NewEngine()}

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := d.RelayList(firstCtx)
		firstErr <- err
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		list, err := d.RelayList(context.Background())
		if err == nil && len(list.WireGuard.Relays) != 3 {
			err = errors.New("unexpected relay count")
		}
		second <- err
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.NoError(t, <-second)
}
