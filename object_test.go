// File: object_test.go
package config_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confweave/config"
)

func dbTree() map[string]any {
	return map[string]any{
		"database": map[string]any{
			"url":   "postgres://localhost/app",
			"debug": false,
			"pool": map[string]any{
				"size":    int64(5),
				"timeout": "30s",
			},
			"replicas": []any{"r1", "r2"},
		},
	}
}

func TestObjectProperty(t *testing.T) {
	t.Run("FactoryReceivesTable", func(t *testing.T) {
		var seen map[string]any
		prop := config.MustObjectProperty("database", func(table map[string]any) (any, error) {
			seen = table
			return "built", nil
		})

		v, err := prop.Value(config.FromData(dbTree()))
		require.NoError(t, err)
		assert.Equal(t, "built", v)
		assert.Equal(t, "postgres://localhost/app", seen["url"])
	})

	t.Run("NonTableValue", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory())
		_, err := prop.Value(config.FromData(map[string]any{"database": "oops"}))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrTypeMismatch)
	})

	t.Run("MissingWithDefault", func(t *testing.T) {
		calls := 0
		prop := config.MustObjectProperty("database",
			func(table map[string]any) (any, error) { calls++; return nil, nil },
			config.Default("fallback"), config.NoEnv())

		v, err := prop.Value(config.FromData(map[string]any{}))
		require.NoError(t, err)
		assert.Equal(t, "fallback", v)
		// The default bypasses the factory entirely.
		assert.Zero(t, calls)
	})

	t.Run("MissingWithoutDefault", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory(), config.NoEnv())
		_, err := prop.Value(config.FromData(map[string]any{}))
		assert.True(t, config.IsKeyNotFound(err))
	})

	t.Run("FactoryErrorPropagates", func(t *testing.T) {
		boom := errors.New("broken pool")
		prop := config.MustObjectProperty("database",
			func(table map[string]any) (any, error) { return nil, boom })
		_, err := prop.Value(config.FromData(dbTree()))
		assert.ErrorIs(t, err, boom)
	})
}

func TestObjectPropertyOverlay(t *testing.T) {
	t.Run("DirectChildrenOnly", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory())
		t.Setenv("DATABASE_URL", "postgres://prod/app")
		t.Setenv("DATABASE_POOL_SIZE", "10")

		v, err := prop.Value(config.FromData(dbTree()))
		require.NoError(t, err)
		table := v.(map[string]any)
		assert.Equal(t, "postgres://prod/app", table["url"])
		// Without Recurse the nested pool table is untouched.
		pool := table["pool"].(map[string]any)
		assert.Equal(t, int64(5), pool["size"])
	})

	t.Run("RecurseWalksNestedTables", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory(), config.Recurse())
		t.Setenv("DATABASE_POOL_SIZE", "10")

		v, err := prop.Value(config.FromData(dbTree()))
		require.NoError(t, err)
		pool := v.(map[string]any)["pool"].(map[string]any)
		// Replacement keeps the overlaid value's scalar type.
		assert.Equal(t, int64(10), pool["size"])
		assert.Equal(t, "30s", pool["timeout"])
	})

	t.Run("ListChildWholeAndElement", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory())
		t.Setenv("DATABASE_REPLICAS", "a,b,c")
		t.Setenv("DATABASE_REPLICAS_ASTERISK_0", "z")

		v, err := prop.Value(config.FromData(dbTree()))
		require.NoError(t, err)
		assert.Equal(t, []any{"z", "b", "c"}, v.(map[string]any)["replicas"])
	})

	t.Run("NoEnvCopiesVerbatim", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory(), config.NoEnv())
		t.Setenv("DATABASE_URL", "ignored")

		v, err := prop.Value(config.FromData(dbTree()))
		require.NoError(t, err)
		table := v.(map[string]any)
		assert.Equal(t, "postgres://localhost/app", table["url"])
	})

	t.Run("BoolTokensMatchTypedParsing", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory())
		t.Setenv("DATABASE_DEBUG", "yes")

		v, err := prop.Value(config.FromData(dbTree()))
		require.NoError(t, err)
		assert.Equal(t, true, v.(map[string]any)["debug"])
	})

	t.Run("TreeNeverMutated", func(t *testing.T) {
		cfg := config.FromData(dbTree())
		prop := config.MustObjectProperty("database", config.MapFactory(), config.Recurse())
		t.Setenv("DATABASE_POOL_SIZE", "99")

		_, err := prop.Value(cfg)
		require.NoError(t, err)

		raw, err := cfg.Get("database.pool.size")
		require.NoError(t, err)
		assert.Equal(t, int64(5), raw)
	})

	t.Run("ArrayOfTablesCopied", func(t *testing.T) {
		cfg := config.FromData(map[string]any{
			"database": map[string]any{
				"servers": []any{map[string]any{"host": "a"}},
			},
		})
		prop := config.MustObjectProperty("database", config.MapFactory())

		v, err := prop.Value(cfg)
		require.NoError(t, err)
		v.(map[string]any)["servers"].([]any)[0].(map[string]any)["host"] = "mutated"

		raw, err := cfg.Get("database.servers")
		require.NoError(t, err)
		assert.Equal(t, "a", raw.([]any)[0].(map[string]any)["host"])
	})
}

func TestObjectPropertyEnvAssembly(t *testing.T) {
	t.Run("TableFromEnvAlone", func(t *testing.T) {
		prop := config.MustObjectProperty("cache", config.MapFactory())
		t.Setenv("CACHE_HOST", "localhost")
		t.Setenv("CACHE_TTL", "60")

		v, err := prop.Value(config.FromData(map[string]any{}))
		require.NoError(t, err)
		table := v.(map[string]any)
		assert.Equal(t, "localhost", table["host"])
		// Assembled values are strings; factories decode them.
		assert.Equal(t, "60", table["ttl"])
	})

	t.Run("NestedKeysAndListElements", func(t *testing.T) {
		prop := config.MustObjectProperty("cache", config.MapFactory())
		t.Setenv("CACHE_NODES_ASTERISK_0", "n0")
		t.Setenv("CACHE_NODES_ASTERISK_1", "n1")

		v, err := prop.Value(config.FromData(map[string]any{}))
		require.NoError(t, err)
		table := v.(map[string]any)
		assert.Equal(t, []any{"n0", "n1"}, table["nodes"])
	})

	t.Run("NoVariablesMeansMissing", func(t *testing.T) {
		prop := config.MustObjectProperty("cache", config.MapFactory())
		_, err := prop.Value(config.FromData(map[string]any{}))
		assert.True(t, config.IsKeyNotFound(err))
	})
}

func TestObjectPropertyTransform(t *testing.T) {
	t.Run("RunsBeforeFactory", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory(),
			config.Transform(func(table map[string]any) (map[string]any, error) {
				table["extra"] = true
				return table, nil
			}))

		v, err := prop.Value(config.FromData(dbTree()))
		require.NoError(t, err)
		assert.Equal(t, true, v.(map[string]any)["extra"])
	})

	t.Run("FailureIsTypeMismatch", func(t *testing.T) {
		prop := config.MustObjectProperty("database", config.MapFactory(),
			config.Transform(func(table map[string]any) (map[string]any, error) {
				return nil, errors.New("unusable shape")
			}))

		_, err := prop.Value(config.FromData(dbTree()))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrTypeMismatch)
	})
}

func TestObjectPropertyCached(t *testing.T) {
	t.Run("FactoryRunsOncePerInstance", func(t *testing.T) {
		calls := 0
		prop := config.MustObjectProperty("database",
			func(table map[string]any) (any, error) {
				calls++
				return &struct{ n int }{calls}, nil
			},
			config.Cached())

		cfg := config.FromData(dbTree())
		first, err := prop.Value(cfg)
		require.NoError(t, err)
		second, err := prop.Value(cfg)
		require.NoError(t, err)

		assert.Equal(t, 1, calls)
		assert.Same(t, first, second)

		// A separate root constructs its own instance.
		other := config.FromData(dbTree())
		third, err := prop.Value(other)
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
		assert.NotSame(t, first, third)
	})

	t.Run("ConcurrentFirstAccesses", func(t *testing.T) {
		var calls int32
		prop := config.MustObjectProperty("database",
			func(table map[string]any) (any, error) {
				atomic.AddInt32(&calls, 1)
				return &struct{ url string }{table["url"].(string)}, nil
			},
			config.Cached())

		cfg := config.FromData(dbTree())

		const n = 32
		results := make([]any, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = prop.Value(cfg)
			}(i)
		}
		wg.Wait()

		// Exactly one computation; every caller observes its result.
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.Same(t, results[0], results[i])
		}
	})
}

func TestObjectPropertyDeclaration(t *testing.T) {
	t.Run("NilFactory", func(t *testing.T) {
		_, err := config.NewObjectProperty("database", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrBinding)
	})

	t.Run("ParseEnvRejected", func(t *testing.T) {
		_, err := config.NewObjectProperty("database", config.MapFactory(),
			config.ParseEnv(func(s string) (any, error) { return s, nil }))
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrBinding)
	})
}
