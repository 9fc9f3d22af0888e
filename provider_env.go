// FILE: lixenwraith/flatconfig/provider_env.go
package flatconfig

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Source schemes understood by the non-file providers.
const (
	// EnvScheme prefixes environment sources: "env:" or "env:MYAPP_".
	EnvScheme = "env:"
	// ArgsSource names the command-line source.
	ArgsSource = "args"
)

// MaxValueSize caps a single environment or command-line value.
const MaxValueSize = 1 << 20

// EnvProvider loads environment variables. For a source "env:MYAPP_" every
// variable starting with MYAPP_ contributes an entry named by the rest of
// the variable, with "__" standing for the path separator:
// MYAPP_Server__Port=9090 becomes "Server.Port" = "9090".
type EnvProvider struct {
	environ func() []string
}

// NewEnvProvider returns a provider reading the process environment.
func NewEnvProvider() *EnvProvider {
	return &EnvProvider{environ: os.Environ}
}

func (p *EnvProvider) Name() string {
	return "env"
}

func (p *EnvProvider) CanHandle(source string) bool {
	return len(source) >= len(EnvScheme) && strings.EqualFold(source[:len(EnvScheme)], EnvScheme)
}

func (p *EnvProvider) Load(source string) (FlatMap, error) {
	prefix := source[len(EnvScheme):]

	flat := make(FlatMap)
	for _, entry := range p.environ() {
		name, value, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		key := strings.ReplaceAll(strings.TrimPrefix(name, prefix), "__", ".")
		if key == "" {
			continue
		}
		if len(value) > MaxValueSize {
			return nil, fmt.Errorf("environment variable %s exceeds %d bytes", name, MaxValueSize)
		}
		flat[key] = value
	}
	return flat, nil
}

func (p *EnvProvider) LoadContext(ctx context.Context, source string) (FlatMap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Load(source)
}

// ArgsProvider turns command-line flags into entries for the "args" source.
// Accepted forms are "--key.path=value", "--key.path value" and a bare
// "--flag" (which stores "true"). Values are kept as strings.
type ArgsProvider struct {
	args []string
}

// NewArgsProvider captures args (typically os.Args[1:]).
func NewArgsProvider(args []string) *ArgsProvider {
	captured := make([]string, len(args))
	copy(captured, args)
	return &ArgsProvider{args: captured}
}

func (p *ArgsProvider) Name() string {
	return "args"
}

func (p *ArgsProvider) CanHandle(source string) bool {
	return strings.EqualFold(source, ArgsSource)
}

func (p *ArgsProvider) Load(string) (FlatMap, error) {
	return parseArgs(p.args)
}

// parseArgs processes command-line arguments into flat entries.
func parseArgs(args []string) (FlatMap, error) {
	result := make(FlatMap)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath, valueStr string
		if k, v, found := strings.Cut(argContent, "="); found {
			keyPath, valueStr = k, v
			i++
		} else {
			keyPath = argContent
			// Boolean flag when the next arg is another flag or there is none
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			continue
		}
		for _, segment := range strings.Split(keyPath, ".") {
			if segment == "" {
				return nil, fmt.Errorf("invalid command-line key %q: empty path segment", keyPath)
			}
		}
		if len(valueStr) > MaxValueSize {
			return nil, fmt.Errorf("command-line value for %q exceeds %d bytes", keyPath, MaxValueSize)
		}

		result[keyPath] = valueStr
	}

	return result, nil
}
