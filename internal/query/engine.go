// Package query evaluates jq expressions over API responses and records.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/and-viceversa/mullvad-api-wrapper/internal/cache"
)

// maxCompiledQueries bounds the compiled-expression cache.
const maxCompiledQueries = 128

// Engine executes jq expressions. Compiled expressions are cached, so an
// Engine should be reused.
type Engine struct {
	compiled *cache.Memo[string, *gojq.Code]
}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	m, err := cache.NewMemo[string, *gojq.Code](maxCompiledQueries)
	if err != nil {
		panic(err)
	}
	return &Engine{compiled: m}
}

// Options tunes a query run.
type Options struct {
	Deduplicate bool // drop repeated values
	MaxResults  int  // stop after this many values, 0 for no limit
	KeepNulls   bool // keep null results, dropped by default
}

// Input is one labeled JSON document, e.g. the body of one endpoint.
type Input struct {
	Label string
	Data  []byte
}

// Result contains the results of a jq query.
type Result struct {
	Values      []any          `json:"values"`
	Errors      []string       `json:"errors,omitempty"`       // per-input errors
	RawCount    int            `json:"raw_count"`              // count before deduplication
	LabelCounts map[string]int `json:"label_counts,omitempty"` // value count per input label
	Truncated   bool           `json:"truncated,omitempty"`    // a value past MaxResults was dropped
}

// Query runs expression against one JSON document.
func (e *Engine) Query(data []byte, expression string, opts Options) (*Result, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("invalid JSON data: %w", err)
	}
	return e.QueryInputs([]Input{{Label: "input", Data: data}}, expression, opts)
}

// QueryValue runs expression against the JSON encoding of v.
func (e *Engine) QueryValue(v any, expression string, opts Options) (*Result, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding query input: %w", err)
	}
	return e.Query(data, expression, opts)
}

// QueryInputs runs expression against every input in order, combining the
// results. Inputs that are not JSON or fail at runtime are reported in
// Result.Errors and skipped.
func (e *Engine) QueryInputs(inputs []Input, expression string, opts Options) (*Result, error) {
	code, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Values:      make([]any, 0),
		LabelCounts: make(map[string]int),
	}
	seen := make(map[string]bool)
	seenErrors := make(map[string]bool)
	addError := func(msg string) {
		if !seenErrors[msg] {
			result.Errors = append(result.Errors, msg)
			seenErrors[msg] = true
		}
	}

	for i, in := range inputs {
		label := in.Label
		if label == "" {
			label = fmt.Sprintf("input[%d]", i)
		}

		var doc any
		if err := json.Unmarshal(in.Data, &doc); err != nil {
			addError(fmt.Sprintf("%s: invalid JSON: %v", label, err))
			continue
		}

		iter := code.Run(doc)
		for {
			v, ok := iter.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				addError(formatJQError(label, err))
				continue
			}
			if v == nil && !opts.KeepNulls {
				continue
			}

			var key string
			if opts.Deduplicate {
				key = valueKey(v)
				if seen[key] {
					result.RawCount++
					result.LabelCounts[label]++
					continue
				}
			}
			if opts.MaxResults > 0 && len(result.Values) >= opts.MaxResults {
				result.Truncated = true
				return result, nil
			}

			result.RawCount++
			result.LabelCounts[label]++
			if opts.Deduplicate {
				seen[key] = true
			}
			result.Values = append(result.Values, v)
		}
	}
	return result, nil
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.compile(expression)
	return err
}

func (e *Engine) compile(expression string) (*gojq.Code, error) {
	return e.compiled.GetOrBuild(expression, func() (*gojq.Code, error) {
		q, err := gojq.Parse(expression)
		if err != nil {
			var parseErr *gojq.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
			}
			return nil, fmt.Errorf("invalid jq expression: %w", err)
		}
		code, err := gojq.Compile(q)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jq expression: %w", err)
		}
		return code, nil
	})
}

// formatJQError decorates runtime jq errors with a hint for common mistakes.
//
// gojq runtime errors are untyped, so hints are chosen by message text. They
// only affect the displayed message.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the field is absent or null in this response)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case float64, int:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
