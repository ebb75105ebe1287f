// File: env_test.go
package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confweave/config"
)

func TestEnvName(t *testing.T) {
	cases := []struct {
		keypath string
		want    string
	}{
		{"web.debug", "WEB_DEBUG"},
		{"db.pool.size", "DB_POOL_SIZE"},
		{"database", "DATABASE"},
		{"servers.*.1", "SERVERS_ASTERISK_1"},
		{"cache-ttl.max", "CACHE_TTL_MAX"},
		{"a.b2.c_d", "A_B2_C_D"},
	}
	for _, tc := range cases {
		t.Run(tc.keypath, func(t *testing.T) {
			got := config.EnvName(tc.keypath)
			assert.Equal(t, tc.want, got)
			// Derivation is deterministic.
			assert.Equal(t, got, config.EnvName(tc.keypath))
		})
	}
}

func TestEnvOverridesScalar(t *testing.T) {
	cfg := config.FromData(map[string]any{
		"web": map[string]any{"debug": false},
	})
	prop := config.MustProperty("web.debug", config.Bool())

	t.Run("FileValueWithoutEnv", func(t *testing.T) {
		v, err := prop.Value(cfg)
		require.NoError(t, err)
		assert.Equal(t, false, v)
	})

	t.Run("EnvWins", func(t *testing.T) {
		t.Setenv("WEB_DEBUG", "true")
		v, err := prop.Value(cfg)
		require.NoError(t, err)
		assert.Equal(t, true, v)
	})

	t.Run("EnvAloneSuffices", func(t *testing.T) {
		empty := config.FromData(map[string]any{})
		t.Setenv("WEB_DEBUG", "yes")
		v, err := prop.Value(empty)
		require.NoError(t, err)
		assert.Equal(t, true, v)
	})

	t.Run("UnparsableEnv", func(t *testing.T) {
		t.Setenv("WEB_DEBUG", "probably")
		_, err := prop.Value(cfg)
		assert.ErrorIs(t, err, config.ErrTypeMismatch)
	})
}

func TestEnvListOverrides(t *testing.T) {
	newCfg := func() *config.Config {
		return config.FromData(map[string]any{
			"ports": []any{int64(1), int64(2), int64(3)},
		})
	}
	prop := config.MustProperty("ports", config.List(config.Int()))

	t.Run("ReplaceElement", func(t *testing.T) {
		t.Setenv("PORTS_ASTERISK_1", "20")
		v, err := prop.Value(newCfg())
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(20), int64(3)}, v)
	})

	t.Run("AppendAtLength", func(t *testing.T) {
		t.Setenv("PORTS_ASTERISK_3", "4")
		v, err := prop.Value(newCfg())
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3), int64(4)}, v)
	})

	t.Run("GapFails", func(t *testing.T) {
		t.Setenv("PORTS_ASTERISK_5", "6")
		_, err := prop.Value(newCfg())
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrTypeMismatch)
		assert.Contains(t, err.Error(), "ports[5]")
	})

	t.Run("WholeListThenElement", func(t *testing.T) {
		t.Setenv("PORTS", "10,20,30")
		t.Setenv("PORTS_ASTERISK_0", "99")
		v, err := prop.Value(newCfg())
		require.NoError(t, err)
		assert.Equal(t, []any{int64(99), int64(20), int64(30)}, v)
	})

	t.Run("ElementsAloneAssembleList", func(t *testing.T) {
		empty := config.FromData(map[string]any{})
		t.Setenv("PORTS_ASTERISK_0", "7")
		t.Setenv("PORTS_ASTERISK_1", "8")
		v, err := prop.Value(empty)
		require.NoError(t, err)
		assert.Equal(t, []any{int64(7), int64(8)}, v)
	})

	t.Run("ElementBadValue", func(t *testing.T) {
		t.Setenv("PORTS_ASTERISK_0", "eighty")
		_, err := prop.Value(newCfg())
		assert.ErrorIs(t, err, config.ErrTypeMismatch)
	})

	t.Run("DeeperNamesIgnored", func(t *testing.T) {
		t.Setenv("PORTS_ASTERISK_0_EXTRA", "5")
		v, err := prop.Value(newCfg())
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(2), int64(3)}, v)
	})
}
