package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ReleaseInfoInput is the input for mullvad_release_info.
type ReleaseInfoInput struct {
	Platform string `json:"platform" jsonschema:"App platform: windows, linux, macos, android or ios"`
	Version  string `json:"version" jsonschema:"Installed app version, e.g. 2024.3 or 2024.4-beta1"`
	Beta     bool   `json:"beta,omitempty" jsonschema:"Compare against the latest beta instead of the latest stable release"`
}

// ReleaseInfoOutput is the output for mullvad_release_info.
type ReleaseInfoOutput struct {
	Platform         string `json:"platform"`
	Version          string `json:"version"`
	Supported        bool   `json:"supported"`
	Latest           string `json:"latest"`
	LatestStable     string `json:"latest_stable"`
	LatestBeta       string `json:"latest_beta"`
	UpgradeAvailable bool   `json:"upgrade_available"`
}

// ToolReleaseInfo checks whether an app version is supported and current.
func ToolReleaseInfo(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReleaseInfoInput) (*sdkmcp.CallToolResult, ReleaseInfoOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReleaseInfoInput) (*sdkmcp.CallToolResult, ReleaseInfoOutput, error) {
		info, err := d.Client.ReleaseInfo(ctx, input.Platform, input.Version)
		if err != nil {
			return nil, ReleaseInfoOutput{}, err
		}

		upgrade, err := info.UpgradeAvailable(input.Version, input.Beta)
		if err != nil {
			return nil, ReleaseInfoOutput{}, ErrInvalidInput(err.Error())
		}

		return nil, ReleaseInfoOutput{
			Platform:         input.Platform,
			Version:          input.Version,
			Supported:        info.Supported,
			Latest:           info.Latest,
			LatestStable:     info.LatestStable,
			LatestBeta:       info.LatestBeta,
			UpgradeAvailable: upgrade,
		}, nil
	}
}
