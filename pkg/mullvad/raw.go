package mullvad

import (
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// RawResponse is returned by endpoints without a typed record. The body has
// been read in full and the connection released.
type RawResponse struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r *RawResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *RawResponse) Text() string {
	return string(r.Body)
}

// JSON decodes the body into v. A body that is not valid JSON for v yields a
// *ParseError.
func (r *RawResponse) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &ParseError{StatusCode: r.StatusCode, Record: typeName(v), Body: r.Body, Err: err}
	}
	return nil
}

// Get returns the value at a gjson path, e.g. "mullvad_exit_ip" or "0".
func (r *RawResponse) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// IsJSON reports whether the body is JSON, judged by Content-Type and, when
// that is missing or generic, by the body itself.
func (r *RawResponse) IsJSON() bool {
	ct := r.Header.Get("Content-Type")
	if ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil {
			mediaType = strings.ToLower(strings.TrimSpace(ct))
		}
		if strings.Contains(mediaType, "json") {
			return true
		}
		if mediaType != "text/plain" && mediaType != "application/octet-stream" {
			return false
		}
	}
	return gjson.ValidBytes(r.Body)
}
