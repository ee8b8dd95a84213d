package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/portnet/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvToken, "secret")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "mediterranean", cfg.Dataset)
	assert.Equal(t, config.StoreFile, cfg.Store.Kind)
	assert.Equal(t, 2000, cfg.Fetch.PageSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Fetch.Pause)
	assert.Equal(t, "secret", cfg.Token)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portnet.yaml")
	content := `
dataset: aegean
log_level: debug
store:
  kind: redis
  redis:
    addr: localhost:6379
    ttl: 24h
fetch:
  pause: 1s
  bbox: [22, 35, 28, 41]
build:
  workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "aegean", cfg.Dataset)
	assert.Equal(t, config.StoreRedis, cfg.Store.Kind)
	assert.Equal(t, 24*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, time.Second, cfg.Fetch.Pause)
	assert.Equal(t, []float64{22, 35, 28, 41}, cfg.Fetch.BBox)
	assert.Equal(t, 4, cfg.Build.Workers)
	assert.Equal(t, 2000, cfg.Fetch.PageSize, "unset keys keep their defaults")
}

func TestLoad_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dataset":"levant"}`), 0644))
	t.Setenv(config.EnvConfig, path)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "levant", cfg.Dataset)
}

func TestLoad_JSONDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portnet.json")
	content := `{
  "server": {"cache_ttl": "45s"},
  "store": {"redis": {"ttl": "24h"}},
  "fetch": {"pause": "1s", "timeout": "2m", "page_size": 100, "confidences": ["4"]},
  "build": {"lock_ttl": "90s"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Server.CacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, time.Second, cfg.Fetch.Pause)
	assert.Equal(t, 2*time.Minute, cfg.Fetch.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Build.LockTTL)
	assert.Equal(t, 100, cfg.Fetch.PageSize)
	assert.Equal(t, []string{"4"}, cfg.Fetch.Confidences)

	assert.Equal(t, "mediterranean", cfg.Dataset, "unset keys keep their defaults")
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []float64{-6.0, 30.0, 36.5, 46.5}, cfg.Fetch.BBox)
}

func TestLoad_JSONBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portnet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"fetch": {"pause": "soon"}}`), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown store":  "store: {kind: mongo}",
		"redis no addr":  "store: {kind: redis}",
		"bad bbox":       "fetch: {bbox: [1, 2]}",
		"bad yaml":       "dataset: [",
		"zero page size": "fetch: {page_size: -1}",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "portnet.yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
