// File: type.go
package config

import "time"

// Typed convenience accessors. Each resolves the path, applies the
// environment overlay, and coerces strictly, exactly as a property
// bound with the matching spec and no default would.

func (c *Config) value(path string, spec TypeSpec) (any, error) {
	p, err := NewProperty(path, spec)
	if err != nil {
		return nil, err
	}
	return p.Value(c)
}

// String retrieves a string value at path.
func (c *Config) String(path string) (string, error) {
	v, err := c.value(path, String())
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Int64 retrieves an integer value at path.
func (c *Config) Int64(path string) (int64, error) {
	v, err := c.value(path, Int())
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Float64 retrieves a float value at path.
func (c *Config) Float64(path string) (float64, error) {
	v, err := c.value(path, Float())
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// Bool retrieves a boolean value at path.
func (c *Config) Bool(path string) (bool, error) {
	v, err := c.value(path, Bool())
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Duration retrieves a duration value at path. File values are strings
// in time.ParseDuration syntax.
func (c *Config) Duration(path string) (time.Duration, error) {
	v, err := c.value(path, Duration())
	if err != nil {
		return 0, err
	}
	return v.(time.Duration), nil
}
