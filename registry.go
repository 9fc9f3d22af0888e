// FILE: lixenwraith/flatconfig/registry.go
package flatconfig

import "strings"

// Registry is an ordered list of providers with case-insensitive unique names.
// It is not safe for concurrent use on its own; Service serialises access.
type Registry struct {
	providers []Provider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends p unless a provider with the same name (ignoring case) is
// already present. It reports whether p was added; a duplicate is not an error.
func (r *Registry) Register(p Provider) bool {
	if r.lookup(p.Name()) != nil {
		return false
	}
	r.providers = append(r.providers, p)
	return true
}

// Find returns the first provider, in registration order, that can handle
// source, or nil when none claims it.
func (r *Registry) Find(source string) Provider {
	for _, p := range r.providers {
		if p.CanHandle(source) {
			return p
		}
	}
	return nil
}

// Get returns the provider registered under name, ignoring case.
func (r *Registry) Get(name string) (Provider, bool) {
	p := r.lookup(name)
	return p, p != nil
}

// Names lists provider names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.providers)
}

func (r *Registry) lookup(name string) Provider {
	for _, p := range r.providers {
		if strings.EqualFold(p.Name(), name) {
			return p
		}
	}
	return nil
}
