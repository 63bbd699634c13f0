package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/mcp/tools"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// Resource URI scheme: mullvad://
// Supported URIs:
//   mullvad://endpoints
//   mullvad://locations
//   mullvad://schema/{endpoint}

const resourceScheme = "mullvad://"

// registerResources registers resources, resource templates and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         resourceScheme + "endpoints",
		Name:        "Endpoint Catalog",
		Description: "Every endpoint with method, API, path, auth kind and record types.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceEndpoints)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         resourceScheme + "locations",
		Name:        "Relay Locations",
		Description: "Location map of the relay list, keyed by \"<country>-<city>\" codes. Fetches the relay list; mullvad_list_relays already resolves locations per relay.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceLocations)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: resourceScheme + "schema/{endpoint}",
		Name:        "Response Schema",
		Description: "JSON Schema an endpoint's responses are validated against. Same content as the mullvad_endpoint_schema tool.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceSchema)
}

// Resource handlers

func (s *Server) handleResourceEndpoints(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	eps := mullvad.Endpoints()
	infos := make([]mullvad.EndpointInfo, len(eps))
	for i, ep := range eps {
		infos[i] = ep.Info()
	}
	return toResourceResult(req.Params.URI, infos)
}

func (s *Server) handleResourceLocations(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	list, err := s.deps.RelayList(ctx)
	if err != nil {
		return nil, tools.WrapMullvadError(err)
	}
	content, err := tools.ToAny(list.Locations)
	if err != nil {
		return nil, err
	}
	return toResourceResult(req.Params.URI, content)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	name, err := parseSchemaURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	if _, ok := mullvad.LookupEndpoint(name); !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	out, err := tools.EndpointSchema(name)
	if err != nil {
		return nil, err
	}
	return toResourceResult(req.Params.URI, out.Schema)
}

// Helper functions

// parseSchemaURI extracts the endpoint name from a mullvad://schema/ URI.
func parseSchemaURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, resourceScheme) {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected " + resourceScheme)
	}
	path := strings.TrimPrefix(uri, resourceScheme)
	kind, name, ok := strings.Cut(path, "/")
	if kind != "schema" {
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", kind))
	}
	if !ok || name == "" || strings.Contains(name, "/") {
		return "", tools.ErrInvalidInput("schema URI requires one endpoint name")
	}
	return name, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
