// FILE: lixenwraith/flatconfig/provider_yaml.go
package flatconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// NewYAMLProvider returns the provider for ".yaml" and ".yml" sources.
// Leaves keep the type the YAML resolver assigns them.
func NewYAMLProvider() Provider {
	return &fileProvider{
		name:       ProviderYAML,
		extensions: extensionMatcher{".yaml", ".yml"},
		parse:      parseYAML,
	}
}

func parseYAML(data []byte) (FlatMap, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, err
	}

	switch tree.(type) {
	case nil:
		return make(FlatMap), nil
	case map[string]any, map[any]any, []any:
		return flattenTree(tree), nil
	default:
		return nil, fmt.Errorf("top-level node must be a mapping or sequence, got %T", tree)
	}
}
