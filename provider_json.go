// FILE: lixenwraith/flatconfig/provider_json.go
package flatconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// NewJSONProvider returns the provider for ".json" sources.
// Integral literals become int64, other numbers float64.
func NewJSONProvider() Provider {
	return &fileProvider{
		name:       ProviderJSON,
		extensions: extensionMatcher{".json"},
		parse:      parseJSON,
	}
}

func parseJSON(data []byte) (FlatMap, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Preserve number precision until typed below

	var tree any
	if err := decoder.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}

	switch tree.(type) {
	case map[string]any, []any:
	default:
		return nil, fmt.Errorf("top-level value must be an object or array, got %T", tree)
	}

	typed, err := typeJSONNumbers(tree)
	if err != nil {
		return nil, err
	}
	return flattenTree(typed), nil
}

// typeJSONNumbers replaces json.Number leaves with int64 or float64.
func typeJSONNumbers(node any) (any, error) {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			typed, err := typeJSONNumbers(child)
			if err != nil {
				return nil, err
			}
			v[key] = typed
		}
		return v, nil
	case []any:
		for i, child := range v {
			typed, err := typeJSONNumbers(child)
			if err != nil {
				return nil, err
			}
			v[i] = typed
		}
		return v, nil
	case json.Number:
		return jsonNumber(v)
	default:
		return v, nil
	}
}

func jsonNumber(n json.Number) (any, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		// Integral but outside int64: keep magnitude as float64
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return f, nil
}
