// File: config.go
package config

import (
	"errors"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
)

// Config owns the parsed TOML tree. The tree is immutable after
// construction: every accessor is a read, and the only mutable state is
// the per-instance cache populated by Cached bindings.
type Config struct {
	tree map[string]any

	// cache holds at most one computed value per cached binding,
	// keyed by the binding itself. mu synchronizes the
	// check-then-populate sequence so concurrent first accesses
	// observe a single computation's result.
	mu    sync.Mutex
	cache map[any]any
}

// FromData wraps already-parsed data directly, for testing or
// programmatic construction. The tree is copied so later mutation of
// data cannot leak into the instance.
func FromData(data map[string]any) *Config {
	return &Config{
		tree:  deepCopyTable(data),
		cache: make(map[any]any),
	}
}

// FromPath reads and parses the TOML file at path. Failures surface as
// ErrParse without partial state.
func FromPath(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	tree := make(map[string]any)
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &Config{tree: tree, cache: make(map[any]any)}, nil
}

// FromReader parses TOML from r.
func FromReader(r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	tree := make(map[string]any)
	if err := toml.Unmarshal(raw, &tree); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &Config{tree: tree, cache: make(map[any]any)}, nil
}

// Get resolves a dot-separated key path against the tree and returns
// the raw value. Missing or non-table intermediate segments yield
// ErrKeyNotFound.
func (c *Config) Get(keypath string) (any, error) {
	v, found := resolvePath(c.tree, keypath)
	if !found {
		return nil, &KeyError{Path: keypath}
	}
	return v, nil
}

// Has reports whether a key path resolves.
func (c *Config) Has(keypath string) bool {
	_, found := resolvePath(c.tree, keypath)
	return found
}

// Table resolves a key path that must name a nested table and returns a
// copy of it, so callers cannot mutate the tree.
func (c *Config) Table(keypath string) (map[string]any, error) {
	v, found := resolvePath(c.tree, keypath)
	if !found {
		return nil, &KeyError{Path: keypath}
	}
	table, ok := v.(map[string]any)
	if !ok {
		return nil, &TypeError{Path: keypath, Expected: "table", Actual: v}
	}
	return deepCopyTable(table), nil
}

// Keys returns the sorted top-level keys of the tree.
func (c *Config) Keys() []string {
	keys := make([]string, 0, len(c.tree))
	for k := range c.tree {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of top-level keys.
func (c *Config) Len() int { return len(c.tree) }

// GetEnv reads the environment variable name directly, bypassing the
// key path mechanism, for settings that are environment-only. The
// string content is parsed per spec; when the variable is unset the
// default is returned, or ErrKeyNotFound when def is nil.
func (c *Config) GetEnv(name string, spec TypeSpec, def any) (any, error) {
	if err := spec.validate(); err != nil {
		return nil, &BindingError{Key: name, Reason: err.Error()}
	}
	if s, ok := os.LookupEnv(name); ok {
		return spec.Parse(s, name)
	}
	if def != nil {
		return def, nil
	}
	return nil, &KeyError{Path: name}
}

// cached runs compute at most once per key for this instance. The lock
// is held across the computation, so every caller observes the first
// computation's result and factories run at most once per instance.
func (c *Config) cached(key any, compute func() (any, error)) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.cache[key]; ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	c.cache[key] = v
	return v, nil
}

// IsKeyNotFound reports whether err is the missing-key condition.
func IsKeyNotFound(err error) bool { return errors.Is(err, ErrKeyNotFound) }

// IsTypeMismatch reports whether err is the wrong-type condition.
func IsTypeMismatch(err error) bool { return errors.Is(err, ErrTypeMismatch) }
