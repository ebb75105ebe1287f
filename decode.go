// File: decode.go
package config

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// Scan decodes the table at basePath into the target struct or map.
// The target must be a non-nil pointer. Fields map through the "toml"
// struct tag. Missing paths yield ErrKeyNotFound; paths naming a
// non-table value yield ErrTypeMismatch.
func (c *Config) Scan(basePath string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", target)
	}

	var section map[string]any
	if basePath == "" {
		section = c.tree
	} else {
		raw, found := resolvePath(c.tree, basePath)
		if !found {
			return &KeyError{Path: basePath}
		}
		table, ok := raw.(map[string]any)
		if !ok {
			return &TypeError{Path: basePath, Expected: "table", Actual: raw}
		}
		section = table
	}

	if err := decodeTable(section, target); err != nil {
		return fmt.Errorf("decode failed for path %q: %w", basePath, err)
	}
	return nil
}

// decodeTable runs the shared mapstructure decoder over a table.
func decodeTable(table map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}
	return decoder.Decode(table)
}

// decodeHook composes the conversions applied during struct decoding.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		stringToUUIDHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(listDelimiter),
	)
}

// stringToUUIDHookFunc handles uuid.UUID conversion.
func stringToUUIDHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(uuid.UUID{}) {
			return data, nil
		}
		id, err := uuid.Parse(data.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid UUID: %w", err)
		}
		return id, nil
	}
}

// StructFactory returns a Factory decoding each table into a fresh *T.
// The usual companion of object properties:
//
//	var pool = config.MustObjectProperty("db.pool",
//	    config.StructFactory[PoolSettings](), config.Recurse())
func StructFactory[T any]() Factory {
	return func(table map[string]any) (any, error) {
		out := new(T)
		if err := decodeTable(table, out); err != nil {
			return nil, err
		}
		return out, nil
	}
}

// MapFactory returns a Factory that passes the table through untouched,
// for callers that want the raw (overlaid) mapping.
func MapFactory() Factory {
	return func(table map[string]any) (any, error) {
		return table, nil
	}
}
