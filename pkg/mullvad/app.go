package mullvad

import (
	"context"
	"encoding/json"
	"fmt"
)

// RelayList returns every relay known to the app API together with the
// location table they reference.
func (c *Client) RelayList(ctx context.Context) (*RelayList, error) {
	return call[RelayList](ctx, c, epRelayList, request{})
}

// APIAddresses returns the raw list of "ip:port" addresses the API can be
// reached on.
func (c *Client) APIAddresses(ctx context.Context) (*RawResponse, error) {
	return c.do(ctx, epAPIAddresses, request{})
}

// SubmitVoucher redeems a voucher on the account behind accessToken.
func (c *Client) SubmitVoucher(ctx context.Context, accessToken, voucherCode string) (*SubmitVoucherResponse, error) {
	p, err := NewSubmitVoucherParams(accessToken, voucherCode)
	if err != nil {
		return nil, err
	}
	return c.SubmitVoucherWithParams(ctx, p)
}

// SubmitVoucherWithParams is SubmitVoucher with a params record.
func (c *Client) SubmitVoucherWithParams(ctx context.Context, p *SubmitVoucherParams) (*SubmitVoucherResponse, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	r, err := jsonRequest(p.AccessToken, struct {
		VoucherCode string `json:"voucher_code"`
	}{p.VoucherCode})
	if err != nil {
		return nil, err
	}
	return call[SubmitVoucherResponse](ctx, c, epSubmitVoucher, r)
}

// SubmitProblemReport sends a problem report.
func (c *Client) SubmitProblemReport(ctx context.Context, p *ProblemReportParams) (*ProblemReportResponse, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	r, err := jsonRequest(p.AccessToken, struct {
		Address  string            `json:"address,omitempty"`
		Message  string            `json:"message"`
		Log      string            `json:"log"`
		Metadata map[string]string `json:"metadata"`
	}{p.Address, p.Message, p.Log, p.Metadata})
	if err != nil {
		return nil, err
	}
	return call[ProblemReportResponse](ctx, c, epSubmitProblemReport, r)
}

// WebsiteAuthToken requests a short-lived token for logging in on the website.
func (c *Client) WebsiteAuthToken(ctx context.Context, accessToken string) (*AuthToken, error) {
	p, err := NewWebsiteTokenParams(accessToken)
	if err != nil {
		return nil, err
	}
	return c.WebsiteAuthTokenWithParams(ctx, p)
}

// WebsiteAuthTokenWithParams is WebsiteAuthToken with a params record.
func (c *Client) WebsiteAuthTokenWithParams(ctx context.Context, p *WebsiteTokenParams) (*AuthToken, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	return call[AuthToken](ctx, c, epWebsiteAuthToken, request{token: p.AccessToken})
}

// ReleaseInfo reports whether an app version is supported on a platform and
// which versions are the latest.
func (c *Client) ReleaseInfo(ctx context.Context, platform, version string) (*ReleaseInfo, error) {
	p, err := NewReleaseParams(platform, version)
	if err != nil {
		return nil, err
	}
	return c.ReleaseInfoWithParams(ctx, p)
}

// ReleaseInfoWithParams is ReleaseInfo with a params record.
func (c *Client) ReleaseInfoWithParams(ctx context.Context, p *ReleaseParams) (*ReleaseInfo, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	return call[ReleaseInfo](ctx, c, epReleaseInfo, request{
		pathParams: map[string]string{"platform": p.Platform, "version": p.Version},
	})
}

// CreateApplePayment submits a base64 encoded App Store receipt.
func (c *Client) CreateApplePayment(ctx context.Context, accessToken, receiptString string) (*ApplePaymentResponse, error) {
	p, err := NewApplePaymentParams(accessToken, receiptString)
	if err != nil {
		return nil, err
	}
	return c.CreateApplePaymentWithParams(ctx, p)
}

// CreateApplePaymentWithParams is CreateApplePayment with a params record.
func (c *Client) CreateApplePaymentWithParams(ctx context.Context, p *ApplePaymentParams) (*ApplePaymentResponse, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	r, err := jsonRequest(p.AccessToken, struct {
		ReceiptString string `json:"receipt_string"`
	}{p.ReceiptString})
	if err != nil {
		return nil, err
	}
	return call[ApplePaymentResponse](ctx, c, epCreateApplePayment, r)
}

func jsonRequest(token string, body any) (request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return request{}, fmt.Errorf("encoding request body: %w", err)
	}
	return request{body: data, contentType: "application/json", token: token}, nil
}
