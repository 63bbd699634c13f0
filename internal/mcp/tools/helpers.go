// Package tools contains MCP tool implementations for the Mullvad APIs.
package tools

import (
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// MIME type constant.
const MimeJSON = "application/json"

// MakeJSONToolResult creates a CallToolResult with JSON text content.
func MakeJSONToolResult(v any) (*sdkmcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{
			&sdkmcp.TextContent{Text: string(b)},
		},
	}, nil
}

// ToAny converts a record to its generic JSON form, dropping absent fields.
// Tool outputs carry records as any so the inferred output schema stays open.
func ToAny(v any) (any, error) {
	data, err := mullvad.Serialize(v, mullvad.SerializeOptions{ExcludeNone: true})
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}
	return out, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func flag(p *bool) bool {
	return p != nil && *p
}
