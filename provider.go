// FILE: lixenwraith/flatconfig/provider.go
package flatconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Provider claims a class of configuration sources and knows how to parse
// and flatten them. Implementations must not call back into the Service
// that invokes them: loads run under the Service lock.
type Provider interface {
	// Name identifies the provider. Names are unique, compared case-insensitively.
	Name() string

	// CanHandle reports whether the provider is responsible for source.
	CanHandle(source string) bool

	// Load parses source into a freshly allocated FlatMap.
	Load(source string) (FlatMap, error)
}

// ContextLoader is implemented by providers that offer a cancellable load.
// Semantics are identical to Provider.Load.
type ContextLoader interface {
	LoadContext(ctx context.Context, source string) (FlatMap, error)
}

// Built-in provider names.
const (
	ProviderJSON = "json"
	ProviderXML  = "xml"
	ProviderYAML = "yaml"
	ProviderTOML = "toml"
)

// extensionMatcher implements CanHandle for file-based providers.
type extensionMatcher []string

// matches compares the extension only, case-insensitively.
func (m extensionMatcher) matches(source string) bool {
	ext := strings.ToLower(filepath.Ext(source))
	if ext == "" {
		return false
	}
	for _, candidate := range m {
		if ext == candidate {
			return true
		}
	}
	return false
}

// readSource reads a configuration file, reporting ErrConfigNotFound
// before any parse attempt when it does not exist.
func readSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notFound(path)
		}
		return nil, fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config source '%s' is a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return data, nil
}

// fileProvider is the shared shape of the extension-based built-ins.
type fileProvider struct {
	name       string
	extensions extensionMatcher
	parse      func(data []byte) (FlatMap, error)
}

func (p *fileProvider) Name() string {
	return p.name
}

func (p *fileProvider) CanHandle(source string) bool {
	return p.extensions.matches(source)
}

func (p *fileProvider) Load(source string) (FlatMap, error) {
	data, err := readSource(source)
	if err != nil {
		return nil, err
	}
	flat, err := p.parse(data)
	if err != nil {
		return nil, &ParseError{Format: p.name, Path: source, Err: err}
	}
	return flat, nil
}

// LoadContext honours cancellation up to the point the file has been read.
func (p *fileProvider) LoadContext(ctx context.Context, source string) (FlatMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Load(source)
}

// builtinProviders returns the providers every Service starts with,
// in lookup order.
func builtinProviders() []Provider {
	return []Provider{
		NewJSONProvider(),
		NewXMLProvider(),
		NewYAMLProvider(),
	}
}
