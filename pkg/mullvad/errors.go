package mullvad

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionClosed is returned by every endpoint method called after Close.
// No request is sent in that case.
var ErrSessionClosed = errors.New("mullvad: session is closed")

// FieldError describes one rejected request parameter.
type FieldError struct {
	Field string // JSON name of the field
	Rule  string // failed rule, e.g. "required", "oneof"
	Param string // rule parameter, e.g. the allowed values for "oneof"
	Value any
}

func (e FieldError) String() string {
	if e.Param != "" {
		return fmt.Sprintf("%s: failed %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s: failed %s", e.Field, e.Rule)
}

// ValidationError reports caller input rejected before any request was sent.
type ValidationError struct {
	Params string // name of the parameters record
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("mullvad: invalid %s: %s", e.Params, strings.Join(parts, "; "))
}

// Field returns the error for the named field, if any.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// ParseError reports a response body that does not match the declared record.
type ParseError struct {
	Endpoint   string   // endpoint name, empty when Parse was called directly
	StatusCode int      // HTTP status, zero when Parse was called directly
	Record     string   // Go type the body was parsed into
	Problems   []string // schema violations, "path: message"
	Body       []byte
	Err        error // underlying decode error, if any
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("mullvad: ")
	if e.Endpoint != "" {
		fmt.Fprintf(&sb, "%s (status %d): ", e.Endpoint, e.StatusCode)
	}
	fmt.Fprintf(&sb, "cannot parse %s", e.Record)
	if len(e.Problems) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(e.Problems, "; "))
	} else if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// withResponse attaches endpoint and status to a ParseError.
func withResponse(err error, ep Endpoint, raw *RawResponse) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Endpoint = ep.Name
		pe.StatusCode = raw.StatusCode
	}
	return err
}

// APIError is returned for status codes of 400 and above when the client was
// created with WithStatusCheck(true).
type APIError struct {
	Endpoint   string
	StatusCode int
	Code       string // "code" member of a JSON error body, if present
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("mullvad API error %d on %s: %s: %s", e.StatusCode, e.Endpoint, e.Code, e.Message)
	}
	return fmt.Sprintf("mullvad API error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
}

// newAPIError extracts an APIError from an error response.
func newAPIError(ep Endpoint, raw *RawResponse) error {
	apiErr := &APIError{Endpoint: ep.Name, StatusCode: raw.StatusCode}
	if raw.IsJSON() {
		apiErr.Code = raw.Get("code").String()
		apiErr.Message = raw.Get("error").String()
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(raw.Text())
	}
	if apiErr.Message == "" {
		apiErr.Message = raw.Status
	}
	return apiErr
}
