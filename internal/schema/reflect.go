// Package schema derives JSON Schemas from Go record types and validates raw
// JSON documents against them.
//
// Field rules come from struct tags:
//
//	Name   string  `json:"name" jsonschema:"required"`          // must be present, must not be null
//	Relays []Relay `json:"relays" jsonschema:"required,nullable"` // must be present, may be null
//	City   *string `json:"city" jsonschema:"nullable"`          // may be absent or null
//
// Unknown properties are always accepted.
package schema

import (
	"encoding/json"
	"fmt"
	"reflect"

	invschema "github.com/invopop/jsonschema"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/cache"
)

// maxCachedValidators bounds the number of compiled record schemas kept.
const maxCachedValidators = 64

var reflector = &invschema.Reflector{
	RequiredFromJSONSchemaTags: true,
	AllowAdditionalProperties:  true,
	DoNotReference:             true,
	Anonymous:                  true,
}

var validators *cache.Memo[reflect.Type, *Validator]

func init() {
	m, err := cache.NewMemo[reflect.Type, *Validator](maxCachedValidators)
	if err != nil {
		panic(err)
	}
	validators = m
}

// Reflect returns the JSON Schema document for Go type t.
func Reflect(t reflect.Type) ([]byte, error) {
	t = indirect(t)
	s := reflector.ReflectFromType(t)
	doc, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshaling schema for %s: %w", t, err)
	}
	return doc, nil
}

// For returns the validator for Go type t, compiling it on first use.
func For(t reflect.Type) (*Validator, error) {
	t = indirect(t)
	return validators.GetOrBuild(t, func() (*Validator, error) {
		doc, err := Reflect(t)
		if err != nil {
			return nil, err
		}
		return Compile(t.String(), doc)
	})
}

// ForType is the generic form of [For].
func ForType[T any]() (*Validator, error) {
	return For(reflect.TypeFor[T]())
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
