package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/scenarioflow/pkg/diagram"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	for _, k := range []string{EnvMongoURI, EnvStore, EnvCache, EnvRedisAddr, EnvAddr} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "local", cfg.Server.DefaultUser)
	assert.Equal(t, diagram.DefaultConfig(), cfg.Diagram)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
addr = ":9090"
shutdown_timeout = "3s"

[store]
backend = "mongo"
mongo_uri = "mongodb://db:27017"

[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2

[diagram]
node_spacing = 250.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "local", cfg.Server.DefaultUser, "unset keys keep defaults")
	assert.Equal(t, StoreMongo, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 2, cfg.Cache.RedisDB)
	assert.Equal(t, 250.0, cfg.Diagram.NodeSpacing)
	assert.Equal(t, 350.0, cfg.Diagram.LevelHeight)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvMongoURI, "mongodb://env:27017")
	t.Setenv(EnvStore, "mongo")
	t.Setenv(EnvCache, "redis")
	t.Setenv(EnvRedisAddr, "env:6379")
	t.Setenv(EnvAddr, ":7070")

	cfg, err := Load(writeConfig(t, `[store]
backend = "memory"
`))
	require.NoError(t, err)
	assert.Equal(t, StoreMongo, cfg.Store.Backend)
	assert.Equal(t, "mongodb://env:27017", cfg.Store.MongoURI)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, "env:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, ":7070", cfg.Server.Addr)
}

func TestLoadMissing(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err, "explicit path must exist")

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err, "missing default file falls back to defaults")
	assert.Equal(t, Default(), cfg)
}

func TestLoadMalformed(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "[server\naddr = "))
	assert.Error(t, err)
}

func TestDefaultPathXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg", appName, "config.toml"), p)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"unknown store", func(c *Config) { c.Store.Backend = "sqlite" }, "unknown store backend"},
		{"mongo without uri", func(c *Config) { c.Store.Backend = StoreMongo }, "requires mongo_uri"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "unknown cache backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheRedis }, "requires redis_addr"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "addr is required"},
		{"negative spacing", func(c *Config) { c.Diagram.NodeSpacing = -1 }, "must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q", err)
		})
	}
}
