// File: discovery.go
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryOptions configures automatic config file discovery for
// applications that do not hard-code a path before calling FromPath.
type DiscoveryOptions struct {
	// Base name of the config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths checked before the defaults
	Paths []string

	// Environment variable naming an explicit path
	EnvVar string

	// Whether to search XDG config directories
	UseXDG bool

	// Whether to search the current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults for appName.
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	return DiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".conf", ".config"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverPath locates a config file. The explicit environment variable
// wins, then custom paths, the current directory, and XDG directories.
// The second return is false when nothing was found; running without a
// file is not an error, since properties still have env and defaults.
func DiscoverPath(opts DiscoveryOptions) (string, bool) {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path, true
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	if opts.UseXDG {
		searchPaths = append(searchPaths, xdgConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if _, err := os.Stat(path); err == nil {
				return path, true
			}
		}
	}

	return "", false
}

// xdgConfigPaths returns XDG-compliant config search paths.
func xdgConfigPaths(appName string) []string {
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
