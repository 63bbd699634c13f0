package mullvad

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelayList_Filters(t *testing.T) {
	list, err := Parse[RelayList]([]byte(relayListFixture))
	require.NoError(t, err)

	tests := []struct {
		name      string
		filter    RelayFilter
		wireguard int
		openvpn   int
		bridge    int
	}{
		{"all", RelayFilter{}, 1, 1, 1},
		{"country code", RelayFilter{Country: "SE"}, 1, 1, 1},
		{"country name", RelayFilter{Country: "sweden"}, 1, 1, 1},
		{"city code", RelayFilter{Country: "se", City: "sto"}, 1, 1, 1},
		{"city name", RelayFilter{City: "Stockholm"}, 1, 1, 1},
		{"other country", RelayFilter{Country: "de"}, 0, 0, 0},
		{"active only", RelayFilter{ActiveOnly: true}, 1, 1, 0},
		{"owned only", RelayFilter{OwnedOnly: true}, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, list.WireGuardRelays(tt.filter), tt.wireguard)
			assert.Len(t, list.OpenVPNRelays(tt.filter), tt.openvpn)
			assert.Len(t, list.BridgeRelays(tt.filter), tt.bridge)
		})
	}
}

func TestServerList_FindCountry(t *testing.T) {
	list, err := Parse[WireGuardServerListV2]([]byte(wireGuardV2Fixture))
	require.NoError(t, err)

	c, ok := list.FindCountry("sweden")
	require.True(t, ok)
	assert.Equal(t, "Sweden", *c.Name)

	_, ok = list.FindCountry("se")
	assert.False(t, ok, "fixture has no country code")
}

func TestRawResponse_IsJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        bool
	}{
		{"json content type", "application/json; charset=utf-8", `{}`, true},
		{"problem json", "application/problem+json", `{}`, true},
		{"plain text", "text/plain", "1.2.3.4\n", false},
		{"plain text carrying JSON", "text/plain", `{"ip":"1.2.3.4"}`, true},
		{"no content type", "", `[1]`, true},
		{"html", "text/html", `{}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &RawResponse{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(tt.body)}
			if tt.contentType != "" {
				raw.Header.Set("Content-Type", tt.contentType)
			}
			assert.Equal(t, tt.want, raw.IsJSON())
		})
	}
}

func TestRawResponse_JSONError(t *testing.T) {
	raw := &RawResponse{StatusCode: http.StatusOK, Body: []byte("1.2.3.4\n")}

	var p IPProfile
	err := raw.JSON(&p)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "IPProfile", perr.Record)
}
