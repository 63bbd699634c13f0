package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/config"
	"github.com/and-viceversa/mullvad-api-wrapper/internal/logging"
)

// extension registers something on the server once Deps exist.
type extension func(*mcp.Server, *Deps)

// serverConfig collects what the options ask for.
type serverConfig struct {
	config *config.Config

	// applied on top of the logging settings of config
	logOverrides []func(*logging.Config)

	builtinTools   bool
	builtinPrompts bool

	extensions []extension
}

func newServerConfig(opts []Option) *serverConfig {
	cfg := &serverConfig{builtinTools: true, builtinPrompts: true}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.config == nil {
		cfg.config = config.Load()
	}
	return cfg
}

// loggingConfig returns the logging settings of the configuration with the
// option overrides applied.
func (c *serverConfig) loggingConfig() logging.Config {
	lc := logging.FromConfig(c.config)
	for _, override := range c.logOverrides {
		override(&lc)
	}
	return lc
}

// Option configures the server.
type Option func(*serverConfig)

// WithConfig replaces the configuration loaded from the environment.
// The client passed to NewServer is not reconfigured; build it with
// cfg.ClientOptions to keep the two consistent.
func WithConfig(c *config.Config) Option {
	return func(cfg *serverConfig) {
		cfg.config = c
	}
}

// WithLogLevel overrides LOG_LEVEL (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logOverrides = append(cfg.logOverrides, func(lc *logging.Config) {
			lc.Level = level
		})
	}
}

// WithLogFile overrides LOG_FILE. Logs rotate in that file instead of going
// to stderr.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logOverrides = append(cfg.logOverrides, func(lc *logging.Config) {
			lc.FilePath = path
		})
	}
}

// WithoutBuiltinTools leaves out the mullvad_* tools and the builtin
// resources.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.builtinTools = false
	}
}

// WithoutBuiltinPrompts leaves out choose_relay and check_connection.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.builtinPrompts = false
	}
}

// WithTool registers a tool that needs nothing from the server, such as a
// calculation over its input. Its output type goes through the same
// registration checks as the builtin tools (see AddTool).
//
//	type PortInput struct {
//	    Port int `json:"port"`
//	}
//	type PortOutput struct {
//	    Default bool `json:"default"`
//	}
//
//	mcpsrv.WithTool(&mcp.Tool{Name: "wireguard_port", Description: "Is this the default WireGuard port?"},
//	    func(ctx context.Context, req *mcp.CallToolRequest, in PortInput) (*mcp.CallToolResult, PortOutput, error) {
//	        return nil, PortOutput{Default: in.Port == 51820}, nil
//	    })
func WithTool[In, Out any](tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, _ *Deps) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a tool whose handler is built from Deps, for tools
// that call the Mullvad client or the query engine.
//
//	mcpsrv.WithDepsTool(&mcp.Tool{Name: "exit_country", Description: "Country of the exit IP"},
//	    func(d *mcpsrv.Deps) mcp.ToolHandlerFor[struct{}, CountryOutput] {
//	        return func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, CountryOutput, error) {
//	            p, err := d.Client.Profile(ctx)
//	            if err != nil {
//	                return nil, CountryOutput{}, err
//	            }
//	            return nil, CountryOutput{Country: p.Country}, nil
//	        }
//	    })
func WithDepsTool[In, Out any](tool *mcp.Tool, build func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, d *Deps) {
			AddTool(srv, tool, build(d))
		})
	}
}

// WithPrompt registers a prompt next to choose_relay and check_connection.
//
//	mcpsrv.WithPrompt(&mcp.Prompt{Name: "renew_account", Description: "Remind the user to renew"},
//	    func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
//	        return &mcp.GetPromptResult{Messages: []*mcp.PromptMessage{
//	            {Role: "user", Content: &mcp.TextContent{Text: "Call mullvad_account_info and report days_left."}},
//	        }}, nil
//	    })
func WithPrompt(prompt *mcp.Prompt, handler mcp.PromptHandler) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, _ *Deps) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResourceTemplate registers a resource template next to
// mullvad://schema/{endpoint}.
//
//	mcpsrv.WithResourceTemplate(&mcp.ResourceTemplate{URITemplate: "notes://{relay}", Name: "Relay Notes"},
//	    func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
//	        return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
//	            {URI: req.Params.URI, MIMEType: "text/plain", Text: "preferred for streaming"},
//	        }}, nil
//	    })
func WithResourceTemplate(template *mcp.ResourceTemplate, handler mcp.ResourceHandler) Option {
	return func(cfg *serverConfig) {
		cfg.extensions = append(cfg.extensions, func(srv *mcp.Server, _ *Deps) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
