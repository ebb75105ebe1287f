// File: object.go
package config

// Factory builds a domain object from a resolved (and possibly
// environment-overlaid) table. Object properties act as a small
// dependency injector: the configuration names the values, the factory
// turns them into the object the application needs.
type Factory func(table map[string]any) (any, error)

// ObjectProperty is a property whose value is lazily constructed by a
// factory from a nested table, instead of coerced by a TypeSpec.
type ObjectProperty struct {
	binding
	factory Factory
}

// NewObjectProperty declares an object property over the table at key.
// Declaration errors are reported immediately.
func NewObjectProperty(key string, factory Factory, opts ...Option) (*ObjectProperty, error) {
	b := newBinding(key, opts)
	if !validKeyPath(key) {
		return nil, &BindingError{Key: key, Reason: "invalid key path"}
	}
	if factory == nil {
		return nil, &BindingError{Key: key, Reason: "factory must not be nil"}
	}
	if b.parseEnv != nil {
		return nil, &BindingError{Key: key, Reason: "ParseEnv applies to scalar properties only"}
	}
	return &ObjectProperty{binding: b, factory: factory}, nil
}

// MustObjectProperty is like NewObjectProperty but panics on
// declaration errors, for package-level bindings.
func MustObjectProperty(key string, factory Factory, opts ...Option) *ObjectProperty {
	p, err := NewObjectProperty(key, factory, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Key returns the bound key path.
func (p *ObjectProperty) Key() string { return p.key }

// Value resolves the table at the key path, applies the environment
// overlay (direct children only, or every level with Recurse), runs the
// optional Transform, and hands the result to the factory. With Cached,
// the constructed instance is stored per Config and later accesses
// return the identical instance.
func (p *ObjectProperty) Value(c *Config) (any, error) {
	if p.cached {
		return c.cached(p, func() (any, error) { return p.compute(c) })
	}
	return p.compute(c)
}

func (p *ObjectProperty) compute(c *Config) (any, error) {
	raw, found := resolvePath(c.tree, p.key)

	var table map[string]any
	switch {
	case found:
		t, ok := raw.(map[string]any)
		if !ok {
			return nil, &TypeError{Path: p.key, Expected: "table", Actual: raw}
		}
		if p.lookupEnv {
			overlaid, err := overlayTable(t, p.envName, p.recurse)
			if err != nil {
				return nil, err
			}
			table = overlaid
		} else {
			table = deepCopyTable(t)
		}

	case p.lookupEnv:
		// No table in the file at all: assemble one purely from
		// environment variables carrying the derived prefix.
		t, ok := envTableAt(p.envName)
		if !ok {
			return p.missing()
		}
		table = t

	default:
		return p.missing()
	}

	if p.transform != nil {
		transformed, err := p.transform(table)
		if err != nil {
			return nil, &TypeError{Path: p.key, Expected: "a transformable table", Actual: table, Reason: err.Error()}
		}
		table = transformed
	}

	return p.factory(table)
}

// missing falls through to the default, which is returned directly
// without invoking the factory.
func (p *ObjectProperty) missing() (any, error) {
	if p.hasDefault {
		if p.warnDefault != nil {
			p.warnDefault(p.key, p.def)
		}
		return p.def, nil
	}
	return nil, &KeyError{Path: p.key}
}
