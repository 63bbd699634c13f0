package tools

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/schema"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// ListEndpointsInput is the input for mullvad_list_endpoints.
type ListEndpointsInput struct {
	API string `json:"api,omitempty" jsonschema:"Only endpoints of this API: app, public or am-i"`
}

// ListEndpointsOutput is the output for mullvad_list_endpoints.
type ListEndpointsOutput struct {
	Endpoints []mullvad.EndpointInfo `json:"endpoints,omitzero"`
}

// ToolListEndpoints lists the endpoint catalog.
func ToolListEndpoints(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListEndpointsInput) (*sdkmcp.CallToolResult, ListEndpointsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ListEndpointsInput) (*sdkmcp.CallToolResult, ListEndpointsOutput, error) {
		var output ListEndpointsOutput
		for _, ep := range mullvad.Endpoints() {
			if input.API != "" && string(ep.API) != input.API {
				continue
			}
			output.Endpoints = append(output.Endpoints, ep.Info())
		}
		return nil, output, nil
	}
}

// EndpointSchemaInput is the input for mullvad_endpoint_schema.
type EndpointSchemaInput struct {
	Endpoint string `json:"endpoint" jsonschema:"Endpoint name from mullvad_list_endpoints, e.g. relay_list"`
}

// EndpointSchemaOutput is the output for mullvad_endpoint_schema.
type EndpointSchemaOutput struct {
	Endpoint string `json:"endpoint"`
	Record   string `json:"record"`
	Schema   any    `json:"schema"`
}

// ToolEndpointSchema returns the JSON Schema responses of an endpoint are
// validated against.
func ToolEndpointSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input EndpointSchemaInput) (*sdkmcp.CallToolResult, EndpointSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input EndpointSchemaInput) (*sdkmcp.CallToolResult, EndpointSchemaOutput, error) {
		output, err := EndpointSchema(input.Endpoint)
		if err != nil {
			return nil, EndpointSchemaOutput{}, err
		}
		return nil, *output, nil
	}
}

// EndpointSchema reflects the response schema of the named endpoint.
func EndpointSchema(name string) (*EndpointSchemaOutput, error) {
	ep, ok := mullvad.LookupEndpoint(name)
	if !ok {
		return nil, ErrNotFound("endpoint", name)
	}
	if ep.Response == nil {
		return nil, ErrInvalidInput(fmt.Sprintf("endpoint %s returns a raw response without a schema", name))
	}

	doc, err := schema.Reflect(ep.Response)
	if err != nil {
		return nil, err
	}
	var s any
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("decoding schema: %w", err)
	}
	return &EndpointSchemaOutput{Endpoint: ep.Name, Record: ep.Response.Name(), Schema: s}, nil
}

// APIAddressesInput is the input for mullvad_api_addresses.
type APIAddressesInput struct{}

// APIAddressesOutput is the output for mullvad_api_addresses.
type APIAddressesOutput struct {
	Addresses []string `json:"addresses,omitzero"`
}

// ToolAPIAddresses lists the addresses the API is reachable on.
func ToolAPIAddresses(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input APIAddressesInput) (*sdkmcp.CallToolResult, APIAddressesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input APIAddressesInput) (*sdkmcp.CallToolResult, APIAddressesOutput, error) {
		raw, err := d.Client.APIAddresses(ctx)
		if err != nil {
			return nil, APIAddressesOutput{}, err
		}
		if !raw.OK() {
			return nil, APIAddressesOutput{}, &CodedError{Code: ErrCodeAPIError, Message: "api_addresses returned " + raw.Status}
		}

		var output APIAddressesOutput
		if err := raw.JSON(&output.Addresses); err != nil {
			return nil, APIAddressesOutput{}, err
		}
		return nil, output, nil
	}
}
