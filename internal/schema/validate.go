package schema

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Validator validates JSON data against a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
	source []byte
}

// Result is the outcome of a validation.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Compile compiles a JSON Schema document. name identifies the document in
// compiler error messages.
func Compile(name string, doc []byte) (*Validator, error) {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()

	url := "mem://schemas/" + name + ".json"
	if err := compiler.AddResource(url, value); err != nil {
		return nil, fmt.Errorf("adding schema resource %s: %w", name, err)
	}

	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}

	return &Validator{schema: compiled, source: doc}, nil
}

// Validate parses data as JSON and validates it against the schema.
// Malformed JSON yields an invalid result, not an error.
func (v *Validator) Validate(data []byte) *Result {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &Result{Errors: []string{fmt.Sprintf("invalid JSON: %s", err)}}
	}
	return v.ValidateValue(value)
}

// ValidateValue validates a value produced by [jsonschema.UnmarshalJSON].
func (v *Validator) ValidateValue(value any) *Result {
	err := v.schema.Validate(value)
	if err == nil {
		return &Result{Valid: true}
	}
	return &Result{Errors: extractValidationErrors(err)}
}

// Source returns the schema document the validator was compiled from.
func (v *Validator) Source() []byte {
	return v.source
}

func extractValidationErrors(err error) []string {
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return extractDetailedErrors(validationErr)
	}
	return []string{err.Error()}
}

var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens a ValidationError tree into sorted,
// de-duplicated "path: message" lines.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	var result []string
	for path, msgs := range errorsByPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	slices.Sort(result)
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		// A nullable field fails both branches of its oneOf; the null
		// branch says nothing useful once the other one reported.
		if len(err.Causes) > 1 && wantsOnlyNull(cause) {
			continue
		}
		collectErrors(cause, errorsByPath)
	}
}

func wantsOnlyNull(err *jsonschema.ValidationError) bool {
	t, ok := err.ErrorKind.(*kind.Type)
	return ok && len(err.Causes) == 0 && len(t.Want) == 1 && t.Want[0] == "null"
}
