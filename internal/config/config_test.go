package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "actvis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 80.0, cfg.Geometry.Cell)
	assert.Equal(t, 64*1024, cfg.Source.MaxTextSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
source:
  url: http://graph:5000
  timeout: 3s
cache:
  backend: redis
  ttl: 1m
  redis:
    addr: redis:6379
geometry:
  cell: 40
palette:
  hover: "#ff0000"
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http://graph:5000", cfg.Source.URL)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "actvis:graph:", cfg.Cache.Redis.Prefix)
	assert.Equal(t, 40.0, cfg.Geometry.Cell)
	assert.Equal(t, 50.0, cfg.Geometry.FitMargin())
	assert.Equal(t, "#ff0000", cfg.Palette["hover"])
}

func TestLoadFromPath_ZeroMargin(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "geometry:\n  margin: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.Geometry.FitMargin())
}

func TestLoadFromPath_Invalid(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "cache:\n  backend: memcached\n"))
	assert.ErrorContains(t, err, "memcached")

	_, err = LoadFromPath(writeConfig(t, "server: [1, 2"))
	assert.ErrorContains(t, err, "parse config")
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Setenv(EnvPath, "")
	t.Chdir(t.TempDir())

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Env(t *testing.T) {
	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv(EnvPath, path)

	cfg, got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, got)
	assert.Equal(t, "debug", cfg.Log.Level)
}
