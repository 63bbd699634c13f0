package tools

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AccountInfoInput is the input for mullvad_account_info.
type AccountInfoInput struct {
	Account string `json:"account" jsonschema:"16-digit account number, spaces allowed"`
}

// AccountInfoOutput is the output for mullvad_account_info.
type AccountInfoOutput struct {
	Account  string `json:"account"`
	Expiry   string `json:"expiry,omitempty"`
	Expired  bool   `json:"expired"`
	DaysLeft int    `json:"days_left"`
}

// ToolAccountInfo looks up an account's expiry.
func ToolAccountInfo(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input AccountInfoInput) (*sdkmcp.CallToolResult, AccountInfoOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input AccountInfoInput) (*sdkmcp.CallToolResult, AccountInfoOutput, error) {
		acct, err := d.Client.AccountInformation(ctx, input.Account)
		if err != nil {
			return nil, AccountInfoOutput{}, err
		}

		output := AccountInfoOutput{
			Account: str(acct.ID),
			Expiry:  str(acct.Expiry),
		}
		if expires, ok := acct.ExpiresAt(); ok {
			left := time.Until(expires)
			output.Expired = left <= 0
			if left > 0 {
				output.DaysLeft = int(left.Hours() / 24)
			}
		}
		return nil, output, nil
	}
}
