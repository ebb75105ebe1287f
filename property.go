// File: property.go
package config

import (
	"os"
)

// binding carries the metadata shared by scalar and object properties:
// the key path, the environment lookup policy, the optional default,
// and the cache flag. Bindings are created once at declaration time and
// are stateless afterwards; the optional cache lives on the Config
// instance, not here.
type binding struct {
	key        string
	envName    string
	lookupEnv  bool
	cached     bool
	hasDefault bool
	def        any

	warnDefault func(key string, value any)

	// scalar-property only
	parseEnv func(string) (any, error)

	// object-property only
	recurse   bool
	transform func(map[string]any) (map[string]any, error)
}

// Option adjusts a property declaration. Options that do not apply to
// the property kind they are given to are rejected at declaration time.
type Option func(*binding)

// Default declares the value returned when neither the file nor the
// environment provides one. The default must satisfy the property's
// TypeSpec; it is validated once at declaration and returned as-is at
// access time, never re-coerced or overlaid.
func Default(v any) Option {
	return func(b *binding) {
		b.hasDefault = true
		b.def = v
	}
}

// WithEnvName overrides the derived environment variable name.
func WithEnvName(name string) Option {
	return func(b *binding) { b.envName = name }
}

// NoEnv disables the environment overlay for this binding. Lookup is
// enabled by default.
func NoEnv() Option {
	return func(b *binding) { b.lookupEnv = false }
}

// Cached stores the first successfully computed value per Config
// instance and returns it on every later access without re-resolving.
// Safe because the tree never changes after load.
func Cached() Option {
	return func(b *binding) { b.cached = true }
}

// WarnDefault registers a callback invoked whenever the default is
// used, for bindings whose absence is worth surfacing.
func WarnDefault(fn func(key string, value any)) Option {
	return func(b *binding) { b.warnDefault = fn }
}

// ParseEnv replaces the TypeSpec-driven string parsing of the whole
// environment value with fn. The result still passes through coercion.
// Scalar properties only.
func ParseEnv(fn func(string) (any, error)) Option {
	return func(b *binding) { b.parseEnv = fn }
}

// Recurse makes an object property walk every descendant table
// depth-first, overlaying environment values at every level before the
// table reaches the factory. Object properties only.
func Recurse() Option {
	return func(b *binding) { b.recurse = true }
}

// Transform registers a function applied to the resolved table before
// the factory runs, typically to reshape environment-sourced strings.
// Object properties only.
func Transform(fn func(map[string]any) (map[string]any, error)) Option {
	return func(b *binding) { b.transform = fn }
}

func newBinding(key string, opts []Option) binding {
	b := binding{key: key, lookupEnv: true}
	for _, opt := range opts {
		opt(&b)
	}
	if b.envName == "" {
		b.envName = EnvName(key)
	}
	return b
}

// Property is a reusable read-only accessor bound to a key path and a
// TypeSpec. Declare once (usually in a package variable), then evaluate
// against any Config.
type Property struct {
	binding
	spec TypeSpec
}

// NewProperty declares a property. Declaration errors (an invalid key
// path, a malformed TypeSpec, an inapplicable option, a default that
// fails its spec) are reported immediately, not on first access.
func NewProperty(key string, spec TypeSpec, opts ...Option) (*Property, error) {
	b := newBinding(key, opts)
	if !validKeyPath(key) {
		return nil, &BindingError{Key: key, Reason: "invalid key path"}
	}
	if err := spec.validate(); err != nil {
		return nil, &BindingError{Key: key, Reason: err.Error()}
	}
	if b.recurse || b.transform != nil {
		return nil, &BindingError{Key: key, Reason: "Recurse and Transform apply to object properties only"}
	}
	if b.hasDefault && b.def != nil {
		coerced, err := spec.Coerce(b.def, key)
		if err != nil {
			return nil, &BindingError{Key: key, Reason: "default does not satisfy the declared spec: " + err.Error()}
		}
		b.def = coerced
	}
	return &Property{binding: b, spec: spec}, nil
}

// MustProperty is like NewProperty but panics on declaration errors,
// for package-level bindings.
func MustProperty(key string, spec TypeSpec, opts ...Option) *Property {
	p, err := NewProperty(key, spec, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Key returns the bound key path.
func (p *Property) Key() string { return p.key }

// Spec returns the bound TypeSpec.
func (p *Property) Spec() TypeSpec { return p.spec }

// Value evaluates the property against c. Precedence is environment
// variable over TOML value over declared default; with none of the
// three, ErrKeyNotFound. The result always satisfies the TypeSpec or
// the access fails with ErrTypeMismatch.
func (p *Property) Value(c *Config) (any, error) {
	if p.cached {
		return c.cached(p, func() (any, error) { return p.compute(c) })
	}
	return p.compute(c)
}

func (p *Property) compute(c *Config) (any, error) {
	raw, found := resolvePath(c.tree, p.key)

	if p.lookupEnv {
		if s, ok := os.LookupEnv(p.envName); ok {
			return p.fromEnvString(s)
		}
		if found {
			return p.coerceWithElements(raw)
		}
		// No whole-value source; contiguous per-element overrides can
		// still assemble a list on their own.
		if elem, isList := p.spec.Elem(); isList {
			overrides := listEnvOverrides(p.envName)
			if len(overrides) > 0 {
				return applyListOverrides(nil, overrides, elem, p.key)
			}
		}
	} else if found {
		return p.spec.Coerce(raw, p.key)
	}

	if p.hasDefault {
		if p.warnDefault != nil {
			p.warnDefault(p.key, p.def)
		}
		return p.def, nil
	}
	return nil, &KeyError{Path: p.key}
}

// fromEnvString handles an authoritative whole-value environment
// variable, then layers any per-element overrides on top.
func (p *Property) fromEnvString(s string) (any, error) {
	var v any
	var err error
	if p.parseEnv != nil {
		v, err = p.parseEnv(s)
		if err != nil {
			return nil, &TypeError{Path: p.key, Expected: p.spec.String(), Actual: s, Reason: err.Error()}
		}
		v, err = p.spec.Coerce(v, p.key)
	} else {
		v, err = p.spec.Parse(s, p.key)
	}
	if err != nil {
		return nil, err
	}
	return p.withElementOverrides(v)
}

// coerceWithElements coerces a TOML-sourced value, then applies
// per-element environment overrides when the spec is a list.
func (p *Property) coerceWithElements(raw any) (any, error) {
	v, err := p.spec.Coerce(raw, p.key)
	if err != nil {
		return nil, err
	}
	return p.withElementOverrides(v)
}

func (p *Property) withElementOverrides(v any) (any, error) {
	elem, isList := p.spec.Elem()
	if !isList {
		return v, nil
	}
	elems, ok := v.([]any)
	if !ok {
		return v, nil
	}
	return applyListOverrides(elems, listEnvOverrides(p.envName), elem, p.key)
}
