// FILE: lixenwraith/flatconfig/provider_toml.go
package flatconfig

import (
	"github.com/BurntSushi/toml"
)

// NewTOMLProvider returns a provider for ".toml" and ".tml" sources.
// It is not registered by default; add it with RegisterProvider or
// Builder.AddProvider.
func NewTOMLProvider() Provider {
	return &fileProvider{
		name:       ProviderTOML,
		extensions: extensionMatcher{".toml", ".tml"},
		parse:      parseTOML,
	}
}

func parseTOML(data []byte) (FlatMap, error) {
	tree := make(map[string]any)
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}
	return flattenTree(normalizeTOML(tree)), nil
}

// normalizeTOML converts the decoder's typed tables and arrays
// ([]map[string]any for arrays of tables) into the generic tree shape.
func normalizeTOML(node any) any {
	switch v := node.(type) {
	case map[string]any:
		for key, child := range v {
			v[key] = normalizeTOML(child)
		}
		return v
	case []map[string]any:
		list := make([]any, len(v))
		for i, child := range v {
			list[i] = normalizeTOML(child)
		}
		return list
	case []any:
		for i, child := range v {
			v[i] = normalizeTOML(child)
		}
		return v
	default:
		return v
	}
}
