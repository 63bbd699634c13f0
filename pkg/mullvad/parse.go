package mullvad

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/itchyny/gojq"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/schema"
)

// Parse decodes a response body into record type T.
//
// The body must be valid JSON, carry every required field of T and match
// the declared types. Optional fields that are absent or null are left nil.
// Any mismatch yields a *ParseError.
func Parse[T any](data []byte) (*T, error) {
	var out T
	record := typeName(&out)

	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ParseError{Record: record, Body: data, Err: err}
	}

	v, err := schema.ForType[T]()
	if err != nil {
		return nil, fmt.Errorf("mullvad: schema for %s: %w", record, err)
	}
	if res := v.Validate(data); !res.Valid {
		return nil, &ParseError{Record: record, Problems: res.Errors, Body: data}
	}
	return &out, nil
}

// SerializeOptions controls Serialize.
type SerializeOptions struct {
	// ExcludeNone drops object members whose value is null at any depth.
	// Object keys are then emitted in sorted order.
	ExcludeNone bool
	// Indent, when set, pretty-prints with this indent string.
	Indent string
}

// Serialize encodes a record or params value as JSON. Absent optional fields
// are written as null unless opts.ExcludeNone is set.
func Serialize(v any, opts SerializeOptions) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mullvad: serializing %s: %w", typeName(v), err)
	}
	if opts.ExcludeNone {
		if data, err = dropNulls(data); err != nil {
			return nil, err
		}
	}
	if opts.Indent != "" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", opts.Indent); err != nil {
			return nil, fmt.Errorf("mullvad: indenting: %w", err)
		}
		data = buf.Bytes()
	}
	return data, nil
}

var dropNullsCode = sync.OnceValues(func() (*gojq.Code, error) {
	q, err := gojq.Parse(`walk(if type == "object" then with_entries(select(.value != null)) else . end)`)
	if err != nil {
		return nil, err
	}
	return gojq.Compile(q)
})

func dropNulls(data []byte) ([]byte, error) {
	code, err := dropNullsCode()
	if err != nil {
		return nil, fmt.Errorf("mullvad: compiling null filter: %w", err)
	}
	// json.Number keeps integers above 2^53 exact through the filter.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var input any
	if err := dec.Decode(&input); err != nil {
		return nil, fmt.Errorf("mullvad: decoding for null filter: %w", err)
	}
	out, ok := code.Run(input).Next()
	if !ok {
		return []byte("null"), nil
	}
	if err, isErr := out.(error); isErr {
		return nil, fmt.Errorf("mullvad: null filter: %w", err)
	}
	return json.Marshal(out)
}

// typeName returns the bare type name of v, dereferencing pointers.
func typeName(v any) string {
	if v == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
