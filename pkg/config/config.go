// Package config loads scenarioflow settings.
//
// Settings come from a TOML file (default ~/.config/scenarioflow/config.toml)
// and are then overridden by environment variables:
//
//	MONGODB_URI               store.mongo_uri
//	SCENARIOFLOW_STORE        store.backend
//	SCENARIOFLOW_CACHE        cache.backend
//	SCENARIOFLOW_REDIS_ADDR   cache.redis_addr
//	SCENARIOFLOW_ADDR         server.addr
//
// Example file:
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[diagram]
//	node_spacing = 400
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/scenarioflow/pkg/diagram"
)

const appName = "scenarioflow"

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreMongo  = "mongo"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Environment variables that override file settings.
const (
	EnvMongoURI  = "MONGODB_URI"
	EnvStore     = "SCENARIOFLOW_STORE"
	EnvCache     = "SCENARIOFLOW_CACHE"
	EnvRedisAddr = "SCENARIOFLOW_REDIS_ADDR"
	EnvAddr      = "SCENARIOFLOW_ADDR"
)

// Config is the full application configuration.
type Config struct {
	Server  ServerConfig   `toml:"server"`
	Store   StoreConfig    `toml:"store"`
	Cache   CacheConfig    `toml:"cache"`
	Diagram diagram.Config `toml:"diagram"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	DefaultUser     string        `toml:"default_user"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// StoreConfig selects and configures the scenario store.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// CacheConfig selects and configures the layout/artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// Prefix namespaces cache keys, e.g. "staging:" on a shared Redis.
	Prefix string `toml:"prefix"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			DefaultUser:     "local",
			ShutdownTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Backend:  StoreFile,
			Database: "scenarioflow",
		},
		Cache: CacheConfig{
			Backend: CacheFile,
		},
		Diagram: diagram.DefaultConfig(),
	}
}

// DefaultPath returns the config file location, honouring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path on top of Default, applies environment
// overrides and validates the result. An empty path means DefaultPath,
// which may be absent; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, fmt.Errorf("locate config: %w", err)
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			cfg = Default()
		} else {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvMongoURI); ok && v != "" {
		c.Store.MongoURI = v
	}
	if v, ok := lookup(EnvStore); ok && v != "" {
		c.Store.Backend = v
	}
	if v, ok := lookup(EnvCache); ok && v != "" {
		c.Cache.Backend = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Cache.RedisAddr = v
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Server.Addr = v
	}
}

// Validate checks backend names and their required settings.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile:
	case StoreMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store backend %q requires mongo_uri or %s", StoreMongo, EnvMongoURI)
		}
	default:
		return fmt.Errorf("unknown store backend %q (must be one of: memory, file, mongo)", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache backend %q requires redis_addr or %s", CacheRedis, EnvRedisAddr)
		}
	default:
		return fmt.Errorf("unknown cache backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server addr is required")
	}
	if c.Diagram.NodeSpacing < 0 || c.Diagram.LevelHeight < 0 || c.Diagram.TopPadding < 0 {
		return fmt.Errorf("diagram spacing must not be negative")
	}
	return nil
}
