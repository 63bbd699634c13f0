// Package config provides configuration loading from environment variables.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// Tool output limit defaults
const (
	DefaultRelayLimitValue      = 25
	DefaultQueryMaxResultsValue = 100
)

// Config holds configuration shared by the CLI and the MCP server.
type Config struct {
	APIURL       string        // MULLVAD_API_URL, root serving /app and /public, default "" (use the per-API URLs)
	AppAPIURL    string        // MULLVAD_APP_API_URL, default mullvad.DefaultAppAPIURL
	PublicAPIURL string        // MULLVAD_PUBLIC_API_URL, default mullvad.DefaultPublicAPIURL
	AmIURL       string        // MULLVAD_AM_I_URL, default mullvad.DefaultAmIURL
	UserAgent    string        // MULLVAD_USER_AGENT, default mullvad.DefaultUserAgent
	HTTPTimeout  time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 0 (no timeout)
	StatusCheck  bool          // MULLVAD_STATUS_CHECK, default false
	AccessToken  string        // MULLVAD_ACCESS_TOKEN, default token for bearer endpoints

	// Tool output limits
	RelayLimitDefault int // RELAY_LIMIT_DEFAULT
	QueryMaxResults   int // QUERY_MAX_RESULTS

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		APIURL:       getEnvString("MULLVAD_API_URL", ""),
		AppAPIURL:    getEnvString("MULLVAD_APP_API_URL", mullvad.DefaultAppAPIURL),
		PublicAPIURL: getEnvString("MULLVAD_PUBLIC_API_URL", mullvad.DefaultPublicAPIURL),
		AmIURL:       getEnvString("MULLVAD_AM_I_URL", mullvad.DefaultAmIURL),
		UserAgent:    getEnvString("MULLVAD_USER_AGENT", mullvad.DefaultUserAgent),
		HTTPTimeout:  getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 0),
		StatusCheck:  getEnvBool("MULLVAD_STATUS_CHECK", false),
		AccessToken:  getEnvString("MULLVAD_ACCESS_TOKEN", ""),

		RelayLimitDefault: getEnvInt("RELAY_LIMIT_DEFAULT", DefaultRelayLimitValue),
		QueryMaxResults:   getEnvInt("QUERY_MAX_RESULTS", DefaultQueryMaxResultsValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// ClientOptions translates the configuration into session options.
// MULLVAD_API_URL, when set, wins over the per-API app and public URLs.
func (c *Config) ClientOptions(logger *slog.Logger) []mullvad.Option {
	opts := []mullvad.Option{
		mullvad.WithAppAPIURL(c.AppAPIURL),
		mullvad.WithPublicAPIURL(c.PublicAPIURL),
		mullvad.WithAmIURL(c.AmIURL),
		mullvad.WithUserAgent(c.UserAgent),
		mullvad.WithTimeout(c.HTTPTimeout),
		mullvad.WithStatusCheck(c.StatusCheck),
	}
	if c.APIURL != "" {
		opts = append(opts, mullvad.WithBaseURL(c.APIURL))
	}
	if logger != nil {
		opts = append(opts, mullvad.WithLogger(logger))
	}
	return opts
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
