package mullvad

import (
	"context"
	"net/url"
)

// OpenVPNServerList returns the OpenVPN servers grouped by country and city.
func (c *Client) OpenVPNServerList(ctx context.Context) (*ServerList, error) {
	return call[ServerList](ctx, c, epOpenVPNServerList, request{})
}

// WireGuardServerListV1 returns the WireGuard servers grouped by country and city.
func (c *Client) WireGuardServerListV1(ctx context.Context) (*ServerList, error) {
	return call[ServerList](ctx, c, epWireGuardServerListV1, request{})
}

// WireGuardServerListV2 returns the v2 WireGuard server list.
func (c *Client) WireGuardServerListV2(ctx context.Context) (*WireGuardServerListV2, error) {
	return call[WireGuardServerListV2](ctx, c, epWireGuardServerListV2, request{})
}

// CreateAccount creates a new account. The returned record carries the new
// account number.
func (c *Client) CreateAccount(ctx context.Context) (*Account, error) {
	return call[Account](ctx, c, epCreateAccount, request{})
}

// AccountInformation returns the account with the given number.
func (c *Client) AccountInformation(ctx context.Context, account string) (*Account, error) {
	p, err := NewAccountParams(account)
	if err != nil {
		return nil, err
	}
	return c.AccountInformationWithParams(ctx, p)
}

// AccountInformationWithParams is AccountInformation with a params record.
func (c *Client) AccountInformationWithParams(ctx context.Context, p *AccountParams) (*Account, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	return call[Account](ctx, c, epAccountInformation, request{
		pathParams: map[string]string{"account": p.Account},
	})
}

// ActivateVoucher redeems a voucher code on an account. The server answers
// in plain text, which is returned verbatim.
func (c *Client) ActivateVoucher(ctx context.Context, account, code string) (*ActivateVoucherResponse, error) {
	p, err := NewActivateVoucherParams(account, code)
	if err != nil {
		return nil, err
	}
	return c.ActivateVoucherWithParams(ctx, p)
}

// ActivateVoucherWithParams is ActivateVoucher with a params record.
func (c *Client) ActivateVoucherWithParams(ctx context.Context, p *ActivateVoucherParams) (*ActivateVoucherResponse, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set("account", p.Account)
	form.Set("code", p.Code)

	raw, err := c.do(ctx, epActivateVoucher, request{
		body:        []byte(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	})
	if err != nil {
		return nil, err
	}
	return &ActivateVoucherResponse{Response: raw.Text()}, nil
}
