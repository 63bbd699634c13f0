package tools

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/query"
	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// maxConcurrentFetches bounds the endpoint fetches of one query.
const maxConcurrentFetches = 4

// QueryInput is the input for mullvad_query.
type QueryInput struct {
	Endpoints   []string `json:"endpoints" jsonschema:"Endpoints to fetch and query, e.g. relay_list or am_i_json. Only GET endpoints without parameters are accepted"`
	Expression  string   `json:"expression" jsonschema:"jq expression applied to each response body"`
	Deduplicate bool     `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults  int      `json:"max_results,omitempty" jsonschema:"Max results to return (default: 100)"`
}

// QueryOutput is the output for mullvad_query.
type QueryOutput struct {
	Values         []any          `json:"values,omitzero"`
	Errors         []string       `json:"errors,omitzero"`
	RawCount       int            `json:"raw_count"`
	EndpointCounts map[string]int `json:"endpoint_counts,omitzero"`
	Truncated      bool           `json:"truncated,omitempty"`
	Hints          []string       `json:"hints,omitzero"`
}

// ToolQuery fetches endpoints by name and runs a jq expression over their
// bodies. Text bodies are reported as errors and skipped.
func ToolQuery(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryInput) (*sdkmcp.CallToolResult, QueryOutput, error) {
		if input.Expression == "" {
			return nil, QueryOutput{}, ErrInvalidInput("expression is required")
		}
		if len(input.Endpoints) == 0 {
			return nil, QueryOutput{}, ErrInvalidInput("at least one endpoint is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, QueryOutput{}, ErrInvalidInput(err.Error())
		}
		for _, name := range input.Endpoints {
			ep, ok := mullvad.LookupEndpoint(name)
			if !ok {
				return nil, QueryOutput{}, ErrNotFound("endpoint", name)
			}
			if !ep.Fetchable() {
				return nil, QueryOutput{}, ErrInvalidInput(fmt.Sprintf("endpoint %s needs parameters and cannot be queried by name", name))
			}
		}

		inputs := make([]query.Input, len(input.Endpoints))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentFetches)
		for i, name := range input.Endpoints {
			g.Go(func() error {
				raw, err := d.Client.Fetch(gctx, name)
				if err != nil {
					return err
				}
				inputs[i] = query.Input{Label: name, Data: raw.Body}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, QueryOutput{}, err
		}

		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = d.Config.QueryMaxResults
		}

		result, err := d.Query.QueryInputs(inputs, input.Expression, query.Options{
			Deduplicate: input.Deduplicate,
			MaxResults:  maxResults,
		})
		if err != nil {
			return nil, QueryOutput{}, ErrInvalidInput(err.Error())
		}

		output := QueryOutput{
			Values:         result.Values,
			Errors:         result.Errors,
			RawCount:       result.RawCount,
			EndpointCounts: result.LabelCounts,
			Truncated:      result.Truncated,
		}
		if len(output.Values) == 0 {
			output.Hints = append(output.Hints, "No values matched. Use mullvad_endpoint_schema to check field names.")
		}
		for _, msg := range output.Errors {
			if strings.Contains(msg, "invalid JSON") {
				output.Hints = append(output.Hints, "Connection check endpoints other than am_i_json return plain text and cannot be queried.")
				break
			}
		}
		if output.Truncated {
			output.Hints = append(output.Hints, fmt.Sprintf("Results capped at %d. Narrow the expression or raise max_results.", maxResults))
		}
		return nil, output, nil
	}
}
