package mullvad

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// Default base URLs of the Mullvad APIs.
const (
	DefaultAppAPIURL    = "https://api.mullvad.net/app"
	DefaultPublicAPIURL = "https://api.mullvad.net/public"
	DefaultAmIURL       = "https://am.i.mullvad.net"
)

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "mullvad-api-wrapper-go"

// Client is a session against the Mullvad APIs.
//
// A Client is open from New until Close. It owns its HTTP transport, and Close
// releases the pooled connections. Callers must always call Close, typically
// with defer.
type Client struct {
	appURL      string
	publicURL   string
	amIURL      string
	userAgent   string
	timeout     time.Duration
	statusCheck bool
	httpClient  *http.Client
	logger      *slog.Logger

	closed atomic.Bool
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL points both the app and public APIs at root, e.g.
// "http://127.0.0.1:8080" serves "/app/..." and "/public/...".
func WithBaseURL(root string) Option {
	return func(c *Client) {
		root = strings.TrimSuffix(root, "/")
		c.appURL = root + "/app"
		c.publicURL = root + "/public"
	}
}

// WithAppAPIURL sets the app API base URL.
func WithAppAPIURL(u string) Option {
	return func(c *Client) {
		c.appURL = strings.TrimSuffix(u, "/")
	}
}

// WithPublicAPIURL sets the public API base URL.
func WithPublicAPIURL(u string) Option {
	return func(c *Client) {
		c.publicURL = strings.TrimSuffix(u, "/")
	}
}

// WithAmIURL sets the base URL of the connection check service.
func WithAmIURL(u string) Option {
	return func(c *Client) {
		c.amIURL = strings.TrimSuffix(u, "/")
	}
}

// WithHTTPClient sets a custom HTTP client. Close still closes its idle
// connections.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds every request, including reading the body.
// Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger used for per-request debug records. Without it
// the client logs to slog.Default() as it is at the time of each request.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithStatusCheck makes every call fail with *APIError when the server
// answers with a status of 400 or above. Off by default: the status is then
// left to the caller, and typed endpoints only fail if the body does not parse.
func WithStatusCheck(enabled bool) Option {
	return func(c *Client) {
		c.statusCheck = enabled
	}
}

// New opens a session.
func New(opts ...Option) *Client {
	c := &Client{
		appURL:    DefaultAppAPIURL,
		publicURL: DefaultPublicAPIURL,
		amIURL:    DefaultAmIURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

func (c *Client) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

// Close ends the session and releases pooled connections. It is safe to call
// more than once.
func (c *Client) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.httpClient.CloseIdleConnections()
	c.log().Debug("mullvad session closed")
	return nil
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

func (c *Client) baseURL(api API) string {
	switch api {
	case AppAPI:
		return c.appURL
	case PublicAPI:
		return c.publicURL
	default:
		return c.amIURL
	}
}

// request describes one call on top of an Endpoint.
type request struct {
	pathParams  map[string]string
	query       url.Values
	body        []byte
	contentType string
	token       string
}

// do sends one request and reads the whole response.
// Transport errors are returned as produced by the HTTP client.
func (c *Client) do(ctx context.Context, ep Endpoint, r request) (*RawResponse, error) {
	if c.closed.Load() {
		return nil, ErrSessionClosed
	}
	start := time.Now()

	u, err := ep.URL(c.baseURL(ep.API), r.pathParams)
	if err != nil {
		return nil, err
	}
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, ep.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if ep.Auth == AuthBearer && r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log().Debug("HTTP request failed",
			slog.String("method", ep.Method),
			slog.String("endpoint", ep.Name),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	c.log().Debug("HTTP request completed",
		slog.String("method", ep.Method),
		slog.String("endpoint", ep.Name),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(data)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	raw := &RawResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}
	if c.statusCheck && resp.StatusCode >= 400 {
		return nil, newAPIError(ep, raw)
	}
	return raw, nil
}

// Fetch calls a parameterless GET endpoint by name and returns the raw
// response, whatever record type the endpoint normally parses into.
func (c *Client) Fetch(ctx context.Context, name string) (*RawResponse, error) {
	ep, ok := LookupEndpoint(name)
	if !ok {
		return nil, fmt.Errorf("mullvad: unknown endpoint %q", name)
	}
	if !ep.Fetchable() {
		return nil, fmt.Errorf("mullvad: endpoint %q needs parameters, use its method", name)
	}
	return c.do(ctx, ep, request{})
}

// call sends a request and parses the body into T.
func call[T any](ctx context.Context, c *Client, ep Endpoint, r request) (*T, error) {
	raw, err := c.do(ctx, ep, r)
	if err != nil {
		return nil, err
	}
	out, err := Parse[T](raw.Body)
	if err != nil {
		return nil, withResponse(err, ep, raw)
	}
	return out, nil
}
