package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/and-viceversa/mullvad-api-wrapper/pkg/mullvad"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeInvalidInput   = "INVALID_INPUT"
	ErrCodeUpstreamSchema = "UPSTREAM_SCHEMA"
	ErrCodeAPIError       = "API_ERROR"
	ErrCodeTimeout        = "TIMEOUT"
	ErrCodeSessionClosed  = "SESSION_CLOSED"
	ErrCodeUpstreamError  = "UPSTREAM_ERROR"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapMullvadError converts an error from the mullvad client to a coded error.
func WrapMullvadError(err error) error {
	if err == nil {
		return nil
	}

	coded := classify(err)
	slog.Warn("mullvad API error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)
	return coded
}

func classify(err error) *CodedError {
	var (
		verr   *mullvad.ValidationError
		perr   *mullvad.ParseError
		apiErr *mullvad.APIError
		netErr net.Error
	)
	switch {
	case errors.As(err, &verr):
		return &CodedError{Code: ErrCodeInvalidInput, Message: "invalid parameters", Cause: err}
	case errors.Is(err, mullvad.ErrSessionClosed):
		return &CodedError{Code: ErrCodeSessionClosed, Message: "client session is closed", Cause: err}
	case errors.As(err, &apiErr):
		code := ErrCodeAPIError
		if apiErr.StatusCode == 404 {
			code = ErrCodeNotFound
		}
		return &CodedError{Code: code, Message: fmt.Sprintf("%s returned HTTP %d", apiErr.Endpoint, apiErr.StatusCode), Cause: err}
	case errors.As(err, &perr):
		return &CodedError{Code: ErrCodeUpstreamSchema, Message: fmt.Sprintf("%s response did not match %s", perr.Endpoint, perr.Record), Cause: err}
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return &CodedError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
	default:
		return &CodedError{Code: ErrCodeUpstreamError, Message: "request failed", Cause: err}
	}
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
