// File: typespec.go
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind identifies one shape of the closed TypeSpec variant set.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindDuration
	KindUUID
	KindEnum
	KindUnion
	KindList
	KindTable
)

// TypeSpec describes the shape a configuration value must take. It is
// interpreted by a single coercion routine; there is no reflection over
// target types. The zero value is invalid and rejected at binding time.
type TypeSpec struct {
	kind    Kind
	members []TypeSpec // union alternatives, in declared order
	elem    *TypeSpec  // list element spec
	names   []string   // enum literals
}

// String returns the spec for a TOML string.
func String() TypeSpec { return TypeSpec{kind: KindString} }

// Int returns the spec for a TOML integer (int64).
func Int() TypeSpec { return TypeSpec{kind: KindInt} }

// Float returns the spec for a TOML float (float64).
func Float() TypeSpec { return TypeSpec{kind: KindFloat} }

// Bool returns the spec for a TOML boolean.
func Bool() TypeSpec { return TypeSpec{kind: KindBool} }

// Duration returns the spec for a Go duration. TOML has no duration
// scalar, so file values are strings in time.ParseDuration syntax.
func Duration() TypeSpec { return TypeSpec{kind: KindDuration} }

// UUID returns the spec for an RFC 4122 UUID, written as a string.
func UUID() TypeSpec { return TypeSpec{kind: KindUUID} }

// Enum returns the spec for a string restricted to the given literals.
func Enum(names ...string) TypeSpec {
	return TypeSpec{kind: KindEnum, names: names}
}

// Union returns the spec accepting any of the member specs, tried in
// declared order.
func Union(members ...TypeSpec) TypeSpec {
	return TypeSpec{kind: KindUnion, members: members}
}

// List returns the spec for a sequence whose elements all satisfy elem.
func List(elem TypeSpec) TypeSpec {
	return TypeSpec{kind: KindList, elem: &elem}
}

// Table returns the spec for a nested TOML table. No scalar coercion is
// applied to tables; they are handed through as map[string]any.
func Table() TypeSpec { return TypeSpec{kind: KindTable} }

// Kind reports which variant this spec is.
func (t TypeSpec) Kind() Kind { return t.kind }

// Elem returns the element spec of a list spec. The second return is
// false for non-list specs.
func (t TypeSpec) Elem() (TypeSpec, bool) {
	if t.kind != KindList || t.elem == nil {
		return TypeSpec{}, false
	}
	return *t.elem, true
}

// String renders the spec for error messages.
func (t TypeSpec) String() string {
	switch t.kind {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindDuration:
		return "duration"
	case KindUUID:
		return "uuid"
	case KindEnum:
		return "one of [" + strings.Join(t.names, ", ") + "]"
	case KindUnion:
		parts := make([]string, len(t.members))
		for i, m := range t.members {
			parts[i] = m.String()
		}
		return "union(" + strings.Join(parts, " | ") + ")"
	case KindList:
		if t.elem == nil {
			return "list(?)"
		}
		return "list(" + t.elem.String() + ")"
	case KindTable:
		return "table"
	}
	return "invalid"
}

// validate checks structural well-formedness. Called once at binding
// declaration; failures there are programmer errors, not data errors.
func (t TypeSpec) validate() error {
	switch t.kind {
	case KindString, KindInt, KindFloat, KindBool, KindDuration, KindUUID, KindTable:
		return nil
	case KindEnum:
		if len(t.names) == 0 {
			return fmt.Errorf("enum spec declares no literals")
		}
		seen := make(map[string]bool, len(t.names))
		for _, n := range t.names {
			if n == "" {
				return fmt.Errorf("enum spec declares an empty literal")
			}
			if seen[n] {
				return fmt.Errorf("enum spec declares %q twice", n)
			}
			seen[n] = true
		}
		return nil
	case KindUnion:
		if len(t.members) == 0 {
			return fmt.Errorf("union spec declares no members")
		}
		for i, m := range t.members {
			if err := m.validate(); err != nil {
				return fmt.Errorf("union member %d: %w", i, err)
			}
		}
		return nil
	case KindList:
		if t.elem == nil {
			return fmt.Errorf("list spec declares no element spec")
		}
		if err := t.elem.validate(); err != nil {
			return fmt.Errorf("list element: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unrecognized spec shape")
}

// Coerce validates an already-typed value (as produced by the TOML
// parser or FromData) against the spec. Coercion is strict: a TOML
// integer does not satisfy a float spec and vice versa. Duration and
// UUID accept strings since TOML has no scalar for them.
func (t TypeSpec) Coerce(value any, path string) (any, error) {
	switch t.kind {
	case KindString:
		if s, ok := value.(string); ok {
			return s, nil
		}
	case KindInt:
		switch v := value.(type) {
		case int64:
			return v, nil
		case int:
			return int64(v), nil
		}
	case KindFloat:
		if f, ok := value.(float64); ok {
			return f, nil
		}
	case KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
	case KindDuration:
		switch v := value.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, &TypeError{Path: path, Expected: t.String(), Actual: value, Reason: err.Error()}
			}
			return d, nil
		}
	case KindUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v, nil
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, &TypeError{Path: path, Expected: t.String(), Actual: value, Reason: err.Error()}
			}
			return id, nil
		}
	case KindEnum:
		if s, ok := value.(string); ok {
			for _, n := range t.names {
				if s == n {
					return s, nil
				}
			}
			return nil, &TypeError{Path: path, Expected: t.String(), Actual: value}
		}
	case KindUnion:
		for _, m := range t.members {
			if v, err := m.Coerce(value, path); err == nil {
				return v, nil
			}
		}
		return nil, &TypeError{Path: path, Expected: t.String(), Actual: value}
	case KindList:
		seq, ok := value.([]any)
		if !ok {
			return nil, &TypeError{Path: path, Expected: t.String(), Actual: value}
		}
		out := make([]any, len(seq))
		for i, raw := range seq {
			v, err := t.elem.Coerce(raw, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindTable:
		if m, ok := value.(map[string]any); ok {
			return m, nil
		}
	}
	return nil, &TypeError{Path: path, Expected: t.String(), Actual: value}
}

// parseBoolToken maps the accepted boolean vocabulary, shared by typed
// parsing and the untyped table overlay so DEBUG=yes means the same
// thing on both paths.
func parseBoolToken(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "y", "yes", "t", "true", "1":
		return true, true
	case "n", "no", "f", "false", "0":
		return false, true
	}
	return false, false
}

// Parse converts an environment-variable string into a value satisfying
// the spec. The same spec applied to both sources guarantees that a
// TOML value and an environment value describing the same logical value
// coerce to identical results.
func (t TypeSpec) Parse(s string, path string) (any, error) {
	switch t.kind {
	case KindString:
		return s, nil
	case KindInt:
		// Base 0 so hex and octal literals parse, as the booted
		// application would write them.
		i, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return nil, &TypeError{Path: path, Expected: t.String(), Actual: s, Reason: err.Error()}
		}
		return i, nil
	case KindFloat:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, &TypeError{Path: path, Expected: t.String(), Actual: s, Reason: err.Error()}
		}
		return f, nil
	case KindBool:
		if b, ok := parseBoolToken(s); ok {
			return b, nil
		}
		return nil, &TypeError{Path: path, Expected: t.String(), Actual: s}
	case KindDuration:
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, &TypeError{Path: path, Expected: t.String(), Actual: s, Reason: err.Error()}
		}
		return d, nil
	case KindUUID:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, &TypeError{Path: path, Expected: t.String(), Actual: s, Reason: err.Error()}
		}
		return id, nil
	case KindEnum:
		for _, n := range t.names {
			if s == n {
				return s, nil
			}
		}
		return nil, &TypeError{Path: path, Expected: t.String(), Actual: s}
	case KindUnion:
		for _, m := range t.members {
			if v, err := m.Parse(s, path); err == nil {
				return v, nil
			}
		}
		return nil, &TypeError{Path: path, Expected: t.String(), Actual: s}
	case KindList:
		parts := strings.Split(s, listDelimiter)
		out := make([]any, len(parts))
		for i, p := range parts {
			v, err := t.elem.Parse(strings.TrimSpace(p), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case KindTable:
		return nil, &TypeError{Path: path, Expected: t.String(), Actual: s,
			Reason: "a table cannot be parsed from a single environment variable"}
	}
	return nil, &TypeError{Path: path, Expected: "a recognized spec", Actual: s}
}
