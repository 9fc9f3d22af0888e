// FILE: lixenwraith/flatconfig/errors.go
package flatconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for an empty source, key or provider.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConfigNotFound is returned when a source resolves to a provider but the file is absent.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("configuration parse error")

	// ErrNoSuitableProvider is returned when no registered provider claims a source.
	ErrNoSuitableProvider = errors.New("no suitable configuration provider")

	// ErrConversion reports a failed value conversion. It never escapes GetValue,
	// which logs it and falls back to the caller's default.
	ErrConversion = errors.New("value conversion failed")
)

// ParseError describes a malformed configuration document.
type ParseError struct {
	Format string // "json", "xml", "yaml", ...
	Path   string // Source the document was read from
	Err    error  // Underlying parser error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s config file '%s': %v", e.Format, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse as a match so callers need not know the concrete type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// LoadError carries the source and provider of a failed load.
// It unwraps to the provider's error, so errors.Is(err, ErrConfigNotFound)
// and errors.As(err, &parseErr) keep working.
type LoadError struct {
	Source   string
	Provider string
	Err      error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("config load of '%s' via provider %s failed: %v", e.Source, e.Provider, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// invalidArgument builds an ErrInvalidArgument with context.
func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// notFound builds an ErrConfigNotFound naming the path.
func notFound(path string) error {
	return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
}
