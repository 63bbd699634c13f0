package config

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"MULLVAD_API_URL", "MULLVAD_APP_API_URL", "MULLVAD_PUBLIC_API_URL", "MULLVAD_AM_I_URL",
		"MULLVAD_USER_AGENT", "HTTP_CLIENT_TIMEOUT_MS", "MULLVAD_STATUS_CHECK",
		"RELAY_LIMIT_DEFAULT", "QUERY_MAX_RESULTS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Empty(t, cfg.APIURL)
	assert.Equal(t, mullvad.DefaultAppAPIURL, cfg.AppAPIURL)
	assert.Equal(t, mullvad.DefaultPublicAPIURL, cfg.PublicAPIURL)
	assert.Equal(t, mullvad.DefaultAmIURL, cfg.AmIURL)
	assert.Equal(t, mullvad.DefaultUserAgent, cfg.UserAgent)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.False(t, cfg.StatusCheck)
	assert.Equal(t, DefaultRelayLimitValue, cfg.RelayLimitDefault)
	assert.Equal(t, DefaultQueryMaxResultsValue, cfg.QueryMaxResults)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MULLVAD_API_URL", "http://127.0.0.1:9000")
	t.Setenv("HTTP_CLIENT_TIMEOUT_MS", "2500")
	t.Setenv("MULLVAD_STATUS_CHECK", "yes")
	t.Setenv("RELAY_LIMIT_DEFAULT", "7")
	t.Setenv("QUERY_MAX_RESULTS", "not-a-number")
	t.Setenv("LOG_COMPRESS", "off")
	t.Setenv("LOG_FORMAT", "json")

	cfg := Load()
	assert.Equal(t, "http://127.0.0.1:9000", cfg.APIURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.HTTPTimeout)
	assert.True(t, cfg.StatusCheck)
	assert.Equal(t, 7, cfg.RelayLimitDefault)
	assert.Equal(t, DefaultQueryMaxResultsValue, cfg.QueryMaxResults)
	assert.False(t, cfg.LogCompress)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestClientOptions_APIURLWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/app/v1/api-addrs", r.URL.Path)
		assert.Equal(t, "cfg-agent", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	cfg := &Config{
		APIURL:    srv.URL,
		AppAPIURL: "http://unused.invalid/app",
		UserAgent: "cfg-agent",
	}
	c := mullvad.New(cfg.ClientOptions(nil)...)
	defer c.Close()

	raw, err := c.APIAddresses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, raw.StatusCode)
}
