// FILE: lixenwraith/flatconfig/service.go
package flatconfig

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
)

// Service owns the provider registry and the merged flat configuration.
// A single lock serialises registration, loads and writes; reads share it.
type Service struct {
	mu       sync.RWMutex
	registry *Registry
	cache    *cache

	logger  hclog.Logger
	metrics *metrics

	// providers registered ahead of the built-ins (WithProviders)
	early []Provider
}

// Option configures a Service at construction.
type Option func(*Service)

// WithLogger sets the sink for load, merge and conversion events.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics registers the Service's collectors with registerer.
func WithMetrics(registerer prometheus.Registerer) Option {
	return func(s *Service) {
		if registerer != nil {
			s.metrics = newMetrics(registerer)
		}
	}
}

// WithProviders registers providers ahead of the built-ins, so they are
// consulted first when several providers could handle a source.
func WithProviders(providers ...Provider) Option {
	return func(s *Service) {
		for _, p := range providers {
			if p != nil {
				s.early = append(s.early, p)
			}
		}
	}
}

// New creates an independent Service with the JSON, XML and YAML providers registered.
func New(opts ...Option) *Service {
	s := &Service{
		registry: NewRegistry(),
		cache:    newCache(),
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, p := range append(s.early, builtinProviders()...) {
		s.register(p)
	}
	s.early = nil

	return s
}

var (
	defaultService *Service
	defaultOnce    sync.Once
)

// Default returns the process-wide Service, constructing it on first use.
// Applications with a composition root should prefer New and pass the
// instance along; Default exists for code that cannot.
func Default() *Service {
	defaultOnce.Do(func() {
		defaultService = New()
	})
	return defaultService
}

// RegisterProvider adds p after the providers already registered.
// Registering a name that is already taken (ignoring case) is a no-op.
func (s *Service) RegisterProvider(p Provider) error {
	if p == nil {
		return invalidArgument("provider cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.register(p)
	return nil
}

// register adds p to the registry. Callers hold the lock or own s exclusively.
func (s *Service) register(p Provider) {
	if s.registry.Register(p) {
		s.logger.Debug("provider registered", "provider", p.Name())
	} else {
		s.logger.Debug("duplicate provider ignored", "provider", p.Name())
	}
}

// Providers lists registered provider names in lookup order.
func (s *Service) Providers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.registry.Names()
}

// LoadConfiguration loads source through the first provider that claims it,
// merges the result over the current configuration and returns a snapshot of
// the merged view. A failed load leaves the configuration untouched.
func (s *Service) LoadConfiguration(source string) (FlatMap, error) {
	return s.LoadContext(context.Background(), source)
}

// LoadContext is LoadConfiguration with a context. The context is checked
// before the load starts and handed to providers implementing ContextLoader;
// once a provider returns successfully the merge always completes.
func (s *Service) LoadContext(ctx context.Context, source string) (FlatMap, error) {
	if isBlank(source) {
		return nil, invalidArgument("configuration source cannot be empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	provider := s.registry.Find(source)
	if provider == nil {
		s.logger.Error("no provider for configuration source", "source", source)
		return nil, fmt.Errorf("%w for source '%s'", ErrNoSuitableProvider, source)
	}
	name := provider.Name()

	s.logger.Debug("loading configuration", "source", source, "provider", name)

	var (
		flat FlatMap
		err  error
	)
	if loader, ok := provider.(ContextLoader); ok {
		flat, err = loader.LoadContext(ctx, source)
	} else {
		flat, err = provider.Load(source)
	}
	if err != nil {
		s.metrics.observeLoad(name, loadResult(err))
		s.logger.Error("configuration load failed", "source", source, "provider", name, "error", err)
		return nil, &LoadError{Source: source, Provider: name, Err: err}
	}

	s.cache.merge(flat)
	s.metrics.observeLoad(name, resultSuccess)
	s.metrics.setKeys(s.cache.len())
	s.logger.Info("configuration merged", "source", source, "provider", name,
		"loaded_keys", len(flat), "total_keys", s.cache.len())

	return s.cache.snapshot(), nil
}

// loadResult classifies a load error for metrics.
func loadResult(err error) string {
	switch {
	case errors.Is(err, ErrConfigNotFound):
		return resultNotFound
	case errors.Is(err, ErrParse):
		return resultParseError
	default:
		return resultError
	}
}

// Get returns the raw stored value for key.
func (s *Service) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.get(key)
}

// SetValue stores value under key, replacing any loaded value.
func (s *Service) SetValue(key string, value any) error {
	if isBlank(key) {
		return invalidArgument("configuration key cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.set(key, value)
	s.metrics.setKeys(s.cache.len())
	s.logger.Trace("configuration value set", "key", key)
	return nil
}

// ContainsKey reports whether key is present. An empty key is never present.
func (s *Service) ContainsKey(key string) bool {
	if key == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.has(key)
}

// Keys returns all keys in sorted order.
func (s *Service) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.keys()
}

// Snapshot returns a copy of the merged configuration.
func (s *Service) Snapshot() FlatMap {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.snapshot()
}

// Refresh drops every value. Registered providers are kept.
func (s *Service) Refresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := s.cache.len()
	s.cache.clear()
	s.metrics.setKeys(0)
	s.logger.Info("configuration cleared", "dropped_keys", dropped)
}

// String returns key as a string, or def when absent or unconvertible.
func (s *Service) String(key, def string) (string, error) {
	return GetValue(s, key, def)
}

// Int returns key as an int, or def when absent or unconvertible.
func (s *Service) Int(key string, def int) (int, error) {
	return GetValue(s, key, def)
}

// Int64 returns key as an int64, or def when absent or unconvertible.
func (s *Service) Int64(key string, def int64) (int64, error) {
	return GetValue(s, key, def)
}

// Float64 returns key as a float64, or def when absent or unconvertible.
func (s *Service) Float64(key string, def float64) (float64, error) {
	return GetValue(s, key, def)
}

// Bool returns key as a bool, or def when absent or unconvertible.
func (s *Service) Bool(key string, def bool) (bool, error) {
	return GetValue(s, key, def)
}
