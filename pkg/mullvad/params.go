package mullvad

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
)

// Platforms accepted by ReleaseParams.
var Platforms = []string{"windows", "linux", "macos", "android", "ios"}

// AccountParams identifies an account by its number.
type AccountParams struct {
	Account string `json:"account" validate:"required,numeric,len=16"`
}

// ActivateVoucherParams redeems a voucher on an account through the public API.
type ActivateVoucherParams struct {
	Account string `json:"account" validate:"required,numeric,len=16"`
	Code    string `json:"code" validate:"required"`
}

// SubmitVoucherParams redeems a voucher through the app API.
type SubmitVoucherParams struct {
	AccessToken string `json:"access_token" validate:"required"`
	VoucherCode string `json:"voucher_code" validate:"required"`
}

// ProblemReportParams is a problem report. Address is optional.
type ProblemReportParams struct {
	AccessToken string            `json:"access_token" validate:"required"`
	Address     string            `json:"address,omitempty" validate:"omitempty,email"`
	Message     string            `json:"message" validate:"required"`
	Log         string            `json:"log" validate:"required"`
	Metadata    map[string]string `json:"metadata" validate:"required"`
}

// WebsiteTokenParams requests a website login token.
type WebsiteTokenParams struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// ReleaseParams selects an app build.
type ReleaseParams struct {
	Platform string `json:"platform" validate:"required,oneof=windows linux macos android ios"`
	Version  string `json:"version" validate:"required,appversion"`
}

// ApplePaymentParams submits an App Store receipt.
type ApplePaymentParams struct {
	AccessToken   string `json:"access_token" validate:"required"`
	ReceiptString string `json:"receipt_string" validate:"required,base64"`
}

// NewAccountParams validates an account number. Spaces are ignored, so
// "1234 5678 9012 3456" is accepted.
func NewAccountParams(account string) (*AccountParams, error) {
	return validated(&AccountParams{Account: normalizeAccount(account)})
}

// NewActivateVoucherParams validates a public API voucher redemption.
func NewActivateVoucherParams(account, code string) (*ActivateVoucherParams, error) {
	return validated(&ActivateVoucherParams{Account: normalizeAccount(account), Code: code})
}

// NewSubmitVoucherParams validates an app API voucher redemption.
func NewSubmitVoucherParams(accessToken, voucherCode string) (*SubmitVoucherParams, error) {
	return validated(&SubmitVoucherParams{AccessToken: accessToken, VoucherCode: voucherCode})
}

// NewProblemReportParams validates a problem report.
func NewProblemReportParams(accessToken, address, message, log string, metadata map[string]string) (*ProblemReportParams, error) {
	return validated(&ProblemReportParams{
		AccessToken: accessToken,
		Address:     address,
		Message:     message,
		Log:         log,
		Metadata:    metadata,
	})
}

// NewWebsiteTokenParams validates a website token request.
func NewWebsiteTokenParams(accessToken string) (*WebsiteTokenParams, error) {
	return validated(&WebsiteTokenParams{AccessToken: accessToken})
}

// NewReleaseParams validates a platform and app version such as "2024.3"
// or "2024.4-beta1".
func NewReleaseParams(platform, version string) (*ReleaseParams, error) {
	return validated(&ReleaseParams{Platform: strings.ToLower(platform), Version: version})
}

// NewApplePaymentParams validates an App Store receipt submission.
func NewApplePaymentParams(accessToken, receiptString string) (*ApplePaymentParams, error) {
	return validated(&ApplePaymentParams{AccessToken: accessToken, ReceiptString: receiptString})
}

func normalizeAccount(account string) string {
	return strings.ReplaceAll(strings.TrimSpace(account), " ", "")
}

var paramsValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("appversion", appVersionValidator)
	return v
})

func appVersionValidator(fl validator.FieldLevel) bool {
	_, err := semver.NewVersion(fl.Field().String())
	return err == nil
}

// validated returns p when it passes validation and nil otherwise, so no
// partially valid record escapes.
func validated[T any](p *T) (*T, error) {
	if err := validateParams(p); err != nil {
		return nil, err
	}
	return p, nil
}

// validateParams checks a params record built by hand or by a constructor.
func validateParams(p any) error {
	if rv := reflect.ValueOf(p); p == nil || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return &ValidationError{Params: typeName(p), Fields: []FieldError{{Field: "-", Rule: "required"}}}
	}
	err := paramsValidator().Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Params: typeName(p), Fields: []FieldError{{Field: "-", Rule: err.Error()}}}
	}
	out := &ValidationError{Params: typeName(p), Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field: fe.Field(),
			Rule:  fe.Tag(),
			Param: fe.Param(),
			Value: fe.Value(),
		})
	}
	return out
}
