package mcpsrv

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/config"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

type countOutput struct {
	Count int `json:"count"`
}

type portInput struct {
	Port int `json:"port"`
}

type portOutput struct {
	Default bool `json:"default"`
}

type relayNames struct {
	Hostnames []string `json:"hostnames"`
}

// connect attaches an in-memory MCP client to srv.
func connect(t *testing.T, srv *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	cs, err := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil).Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

// keepDefaultLogger restores the process logger replaced by NewServer.
func keepDefaultLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func testConfig() *config.Config {
	return &config.Config{RelayLimitDefault: 25, QueryMaxResults: 100, LogLevel: "error"}
}

func TestNewServer_RequiresClient(t *testing.T) {
	_, err := NewServer(nil)
	assert.ErrorContains(t, err, "client is required")
}

func TestNewServer_Extensions(t *testing.T) {
	keepDefaultLogger(t)
	c := mullvad.New()
	t.Cleanup(func() { _ = c.Close() })

	srv, err := NewServer(c,
		WithConfig(testConfig()),
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithDepsTool(&mcp.Tool{Name: "endpoint_count", Description: "Count endpoints"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, struct{}) (*mcp.CallToolResult, countOutput, error) {
				return func(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, countOutput, error) {
					assert.Same(t, c, d.Client)
					return nil, countOutput{Count: len(mullvad.Endpoints())}, nil
				}
			}),
		WithPrompt(&mcp.Prompt{Name: "hello"}, func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
			return &mcp.GetPromptResult{}, nil
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })
	assert.Same(t, c, srv.Deps().Client)
	assert.Equal(t, 25, srv.Deps().Config.RelayLimitDefault)

	ctx := context.Background()
	cs := connect(t, srv)

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tools.Tools, 1)
	assert.Equal(t, "endpoint_count", tools.Tools[0].Name)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "endpoint_count", Arguments: map[string]any{}})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	prompts, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	require.Len(t, prompts.Prompts, 1)
	assert.Equal(t, "hello", prompts.Prompts[0].Name)
}

func TestNewServer_ToolAndResourceTemplate(t *testing.T) {
	keepDefaultLogger(t)
	c := mullvad.New()
	t.Cleanup(func() { _ = c.Close() })

	srv, err := NewServer(c,
		WithConfig(testConfig()),
		WithoutBuiltinPrompts(),
		WithTool(&mcp.Tool{Name: "wireguard_port", Description: "Is this the default WireGuard port?"},
			func(ctx context.Context, req *mcp.CallToolRequest, in portInput) (*mcp.CallToolResult, portOutput, error) {
				return nil, portOutput{Default: in.Port == 51820}, nil
			}),
		WithResourceTemplate(&mcp.ResourceTemplate{URITemplate: "notes://{relay}", Name: "Relay Notes", MIMEType: "text/plain"},
			func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
				relay := strings.TrimPrefix(req.Params.URI, "notes://")
				return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
					{URI: req.Params.URI, MIMEType: "text/plain", Text: relay + " is preferred for streaming"},
				}}, nil
			}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	ctx := context.Background()
	cs := connect(t, srv)

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "wireguard_port")
	assert.Contains(t, names, "mullvad_list_relays")

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "wireguard_port", Arguments: map[string]any{"port": 51820}})
	require.NoError(t, err)
	require.False(t, res.IsError)
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	assert.JSONEq(t, `{"default": true}`, string(data))

	templates, err := cs.ListResourceTemplates(ctx, nil)
	require.NoError(t, err)
	var uris []string
	for _, tmpl := range templates.ResourceTemplates {
		uris = append(uris, tmpl.URITemplate)
	}
	assert.Contains(t, uris, "notes://{relay}")
	assert.Contains(t, uris, "mullvad://schema/{endpoint}")

	read, err := cs.ReadResource(ctx, &mcp.ReadResourceParams{URI: "notes://se-got-wg-001"})
	require.NoError(t, err)
	require.Len(t, read.Contents, 1)
	assert.Equal(t, "se-got-wg-001 is preferred for streaming", read.Contents[0].Text)
}

func TestNewServer_LogOverrides(t *testing.T) {
	keepDefaultLogger(t)
	c := mullvad.New()
	t.Cleanup(func() { _ = c.Close() })

	logFile := filepath.Join(t.TempDir(), "logs", "mullvad-mcp.log")
	cfg := testConfig()
	cfg.LogFile = ""
	cfg.LogLevel = "error"

	srv, err := NewServer(c, WithConfig(cfg), WithLogLevel("debug"), WithLogFile(logFile))
	require.NoError(t, err)

	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	slog.Debug("relay list refreshed", "relays", 3)
	require.NoError(t, srv.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "relay list refreshed")
	assert.Contains(t, string(data), "relays=3")

	// The configuration itself is left alone.
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestAddTool_RejectsNullSliceOutput(t *testing.T) {
	keepDefaultLogger(t)
	c := mullvad.New()
	t.Cleanup(func() { _ = c.Close() })

	srv, err := NewServer(c, WithConfig(testConfig()), WithoutBuiltinTools(), WithoutBuiltinPrompts())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	assert.Panics(t, func() {
		AddTool(srv.MCPServer(), &mcp.Tool{Name: "relay_names"},
			func(ctx context.Context, req *mcp.CallToolRequest, in struct{}) (*mcp.CallToolResult, relayNames, error) {
				return nil, relayNames{}, nil
			})
	})
}
