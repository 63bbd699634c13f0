package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// ConnectionStatusInput is the input for mullvad_connection_status.
type ConnectionStatusInput struct{}

// ConnectionStatusOutput is the output for mullvad_connection_status.
type ConnectionStatusOutput struct {
	Connected    bool   `json:"connected"`
	IP           string `json:"ip"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
	ExitHostname string `json:"exit_hostname,omitempty"`
	ServerType   string `json:"server_type,omitempty"`
	Organization string `json:"organization,omitempty"`
	Blacklisted  bool   `json:"blacklisted"`
	Message      string `json:"message,omitempty"` // text of the /connected check
}

// ToolConnectionStatus runs the connection checks concurrently and merges them.
func ToolConnectionStatus(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ConnectionStatusInput) (*sdkmcp.CallToolResult, ConnectionStatusOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ConnectionStatusInput) (*sdkmcp.CallToolResult, ConnectionStatusOutput, error) {
		var (
			profile *mullvad.IPProfile
			message string
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			p, err := d.Client.Profile(gctx)
			profile = p
			return err
		})
		g.Go(func() error {
			raw, err := d.Client.AmIConnected(gctx)
			if err != nil {
				return err
			}
			if raw.OK() {
				message = strings.TrimSpace(raw.Text())
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, ConnectionStatusOutput{}, err
		}

		output := ConnectionStatusOutput{
			Connected:    profile.MullvadExitIP,
			IP:           profile.IP,
			City:         str(profile.City),
			Country:      profile.Country,
			ExitHostname: str(profile.MullvadExitIPHostname),
			ServerType:   str(profile.MullvadServerType),
			Organization: str(profile.Organization),
			Message:      message,
		}
		if profile.Blacklisted != nil {
			output.Blacklisted = profile.Blacklisted.Blacklisted
		}
		return nil, output, nil
	}
}
