package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// NormalizeParams converts render parameters into a fresh map. nil (typed or
// untyped) yields an empty map. String-keyed maps are copied and structs are
// exposed through their JSON field names. Scalars, slices and other values
// fail with ErrInvalidArgument.
func NormalizeParams(params any) (map[string]any, error) {
	if params == nil {
		return map[string]any{}, nil
	}
	if m, ok := params.(map[string]any); ok {
		return copyParams(m), nil
	}

	rv := reflect.ValueOf(params)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return map[string]any{}, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, invalidParams(params)
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	case reflect.Struct:
		return structParams(rv.Interface())
	default:
		return nil, invalidParams(params)
	}
}

func structParams(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode params %T: %v", ErrInvalidArgument, v, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	out := map[string]any{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: decode params %T: %v", ErrInvalidArgument, v, err)
	}
	for key, value := range out {
		out[key] = nativeNumbers(value)
	}
	return out, nil
}

// NumberValue turns a json.Number into an int64 when it is integral and a
// float64 otherwise, so templates can do arithmetic on it.
func NumberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func nativeNumbers(value any) any {
	switch v := value.(type) {
	case json.Number:
		return NumberValue(v)
	case map[string]any:
		for key, item := range v {
			v[key] = nativeNumbers(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = nativeNumbers(item)
		}
		return v
	default:
		return value
	}
}

func invalidParams(params any) error {
	return fmt.Errorf("%w: render params must be a map or struct, got %T", ErrInvalidArgument, params)
}

func copyParams(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
