// FILE: lixenwraith/flatconfig/discovery.go
package flatconfig

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions configures automatic config file discovery
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns discovery options covering the built-in formats
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".json", ".yaml", ".yml", ".xml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// Discover returns the first existing configuration file described by opts,
// or "" when there is none. An explicit path in opts.EnvVar wins even if the
// file is missing, so the subsequent load reports it.
func Discover(opts FileDiscoveryOptions) string {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}

	var searchPaths []string

	// Custom paths first
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
	}

	return ""
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}
