// File: errors.go
package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for the configuration error taxonomy. Every error
// returned by this package wraps ErrConfig; use errors.Is to classify.
var (
	// ErrConfig is the base of all configuration errors.
	ErrConfig = errors.New("config error")

	// ErrKeyNotFound reports a key path that resolves to nothing:
	// no TOML value, no environment override, no declared default.
	ErrKeyNotFound = fmt.Errorf("%w: key not found", ErrConfig)

	// ErrTypeMismatch reports a value that exists but does not satisfy
	// the declared TypeSpec, from either the file or the environment.
	ErrTypeMismatch = fmt.Errorf("%w: type mismatch", ErrConfig)

	// ErrParse reports a configuration file that could not be read or
	// parsed as TOML.
	ErrParse = fmt.Errorf("%w: parse failure", ErrConfig)

	// ErrBinding reports an internally inconsistent property
	// declaration (bad key segment, malformed TypeSpec, a default that
	// fails its own TypeSpec). Raised at declaration time, never
	// deferred to first access.
	ErrBinding = fmt.Errorf("%w: invalid binding", ErrConfig)
)

// KeyError is the concrete ErrKeyNotFound error carrying the key path.
type KeyError struct {
	Path string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("config: key %q not found", e.Path)
}

func (e *KeyError) Unwrap() error { return ErrKeyNotFound }

// TypeError is the concrete ErrTypeMismatch error. Expected holds the
// TypeSpec description, Actual the offending value.
type TypeError struct {
	Path     string
	Expected string
	Actual   any
	Reason   string
}

func (e *TypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("config: %q must be %s: %s", e.Path, e.Expected, e.Reason)
	}
	return fmt.Sprintf("config: %q must be %s, not %v (%T)", e.Path, e.Expected, e.Actual, e.Actual)
}

func (e *TypeError) Unwrap() error { return ErrTypeMismatch }

// ParseError is the concrete ErrParse error raised when loading a
// configuration file fails before any state is built.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: cannot parse configuration: %v", e.Err)
	}
	return fmt.Sprintf("config: cannot parse %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// BindingError is the concrete ErrBinding error for bad declarations.
type BindingError struct {
	Key    string
	Reason string
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("config: invalid binding for %q: %s", e.Key, e.Reason)
}

func (e *BindingError) Unwrap() error { return ErrBinding }
