// FILE: lixenwraith/flatconfig/builder.go
package flatconfig

import (
	"fmt"
)

// Builder provides a fluent interface over a Service. It holds no state of
// its own beyond the first error encountered; once an error is recorded,
// later calls are skipped and Build returns it.
type Builder struct {
	svc *Service
	err error
}

// NewBuilder returns a Builder over the process-wide Default service.
func NewBuilder() *Builder {
	return &Builder{svc: Default()}
}

// NewBuilderFor returns a Builder over svc.
func NewBuilderFor(svc *Service) *Builder {
	b := &Builder{svc: svc}
	if svc == nil {
		b.err = invalidArgument("builder service cannot be nil")
	}
	return b
}

// AddProvider registers p with the service.
func (b *Builder) AddProvider(p Provider) *Builder {
	if b.err != nil {
		return b
	}
	b.err = b.svc.RegisterProvider(p)
	return b
}

// LoadFrom loads each source in order. Sources are validated one by one:
// an empty source stops the call before any further source is processed,
// while sources before it have already been merged.
func (b *Builder) LoadFrom(sources ...string) *Builder {
	if b.err != nil {
		return b
	}
	if len(sources) == 0 {
		b.err = invalidArgument("at least one configuration source is required")
		return b
	}

	for i, source := range sources {
		if isBlank(source) {
			b.err = invalidArgument("configuration source %d cannot be empty", i)
			return b
		}
		if _, err := b.svc.LoadConfiguration(source); err != nil {
			b.err = err
			return b
		}
	}
	return b
}

// WithDefaults seeds values from a struct; see Service.SetStruct.
// Call it before LoadFrom so loaded sources override the defaults.
func (b *Builder) WithDefaults(prefix string, defaults any) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.svc.SetStruct(prefix, defaults); err != nil {
		b.err = fmt.Errorf("failed to set defaults: %w", err)
	}
	return b
}

// WithFileDiscovery loads the first configuration file found by Discover.
// Finding no file is not an error; the application can run on defaults.
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	if b.err != nil {
		return b
	}
	if path := Discover(opts); path != "" {
		return b.LoadFrom(path)
	}
	return b
}

// Build returns the service, or the first error recorded by the chain.
func (b *Builder) Build() (*Service, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.svc, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Service {
	svc, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("config build failed: %v", err))
	}
	return svc
}
