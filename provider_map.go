// FILE: lixenwraith/flatconfig/provider_map.go
package flatconfig

import (
	"fmt"
	"strings"
)

// MapProvider serves in-memory documents. Each source name maps to a nested
// tree of map[string]any / []any / scalars, flattened with the same rules as
// JSON and YAML. Source names are matched case-insensitively.
type MapProvider struct {
	name    string
	sources map[string]any
}

// NewMapProvider creates a MapProvider called name serving the given sources.
// The trees are flattened on every Load; callers must not mutate them afterwards.
func NewMapProvider(name string, sources map[string]map[string]any) *MapProvider {
	normalized := make(map[string]any, len(sources))
	for source, tree := range sources {
		normalized[strings.ToLower(source)] = tree
	}
	return &MapProvider{name: name, sources: normalized}
}

func (p *MapProvider) Name() string {
	return p.name
}

func (p *MapProvider) CanHandle(source string) bool {
	_, ok := p.sources[strings.ToLower(source)]
	return ok
}

func (p *MapProvider) Load(source string) (FlatMap, error) {
	tree, ok := p.sources[strings.ToLower(source)]
	if !ok {
		return nil, fmt.Errorf("%s: unknown in-memory source %q", p.name, source)
	}
	return flattenTree(tree), nil
}
