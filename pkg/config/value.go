// Package config holds the dynamic value vocabulary shared by page metadata
// and stage-tree configuration. Reading configuration files is the caller's
// concern; this package only defines what a decoded value looks like.
package config

import (
	"fmt"

	"github.com/abissens/elepages/pkg/errors"
)

// Value is a dynamic configuration or data value: nil, string, int, bool,
// map[string]Value or []Value. Decoders produce it, Normalize canonicalises
// it.
type Value = any

// Normalize converts decoder output into the canonical Value shape:
// map keys become strings, integer kinds collapse to int, nested values are
// normalised recursively. Unsupported kinds pass through untouched.
func Normalize(v any) Value {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]Value, len(t))
		for k, e := range t {
			out[fmt.Sprintf("%v", k)] = Normalize(e)
		}
		return out
	case []any:
		out := make([]Value, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case int64:
		return int(t)
	case uint64:
		return int(t)
	case float64:
		// JSON decoders produce float64 for every number.
		if t == float64(int(t)) {
			return int(t)
		}
		return t
	default:
		return v
	}
}

// AsString returns the value as a string.
func AsString(v Value) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", errors.ValueParsing(fmt.Sprintf("expected string, got %T", v))
}

// AsBool returns the value as a bool.
func AsBool(v Value) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, errors.ValueParsing(fmt.Sprintf("expected bool, got %T", v))
}

// AsInt returns the value as an int.
func AsInt(v Value) (int, error) {
	switch t := Normalize(v).(type) {
	case int:
		return t, nil
	default:
		return 0, errors.ValueParsing(fmt.Sprintf("expected int, got %T", v))
	}
}

// AsMap returns the value as a string-keyed map.
func AsMap(v Value) (map[string]Value, error) {
	if m, ok := Normalize(v).(map[string]Value); ok {
		return m, nil
	}
	return nil, errors.ValueParsing(fmt.Sprintf("expected map, got %T", v))
}

// AsSlice returns the value as a slice.
func AsSlice(v Value) ([]Value, error) {
	if s, ok := Normalize(v).([]Value); ok {
		return s, nil
	}
	return nil, errors.ValueParsing(fmt.Sprintf("expected sequence, got %T", v))
}
