// Package config loads the actvis configuration file.
//
// Config file locations (priority order):
//  1. the path given with --config
//  2. $ACTVIS_CONFIG
//  3. ./actvis.yaml
//
// A missing file is not an error: defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aretw0/actvis/pkg/viewport"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable holding the config path.
const EnvPath = "ACTVIS_CONFIG"

// DefaultPath is used when neither a flag nor the environment names a file.
const DefaultPath = "actvis.yaml"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the root of actvis.yaml.
type Config struct {
	Server   ServerConfig      `yaml:"server"`
	Source   SourceConfig      `yaml:"source"`
	Cache    CacheConfig       `yaml:"cache"`
	Canvas   CanvasConfig      `yaml:"canvas"`
	Geometry viewport.Geometry `yaml:"geometry"`
	Palette  map[string]string `yaml:"palette"`
	Log      LogConfig         `yaml:"log"`
	Metrics  MetricsConfig     `yaml:"metrics"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

// SourceConfig points at the graph service.
type SourceConfig struct {
	URL         string        `yaml:"url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxTextSize int           `yaml:"max_text_size"`
}

// CacheConfig selects where graph responses are cached.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type CanvasConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// FindPath resolves the config path from an explicit value, the environment
// or the working directory default.
func FindPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads the config at FindPath(explicit). A missing file yields the
// defaults, unless the path was given explicitly.
func Load(explicit string) (*Config, string, error) {
	path := FindPath(explicit)
	cfg, err := LoadFromPath(path)
	if err != nil {
		if explicit == "" && errors.Is(err, fs.ErrNotExist) {
			return Default(), "", nil
		}
		return nil, path, err
	}
	return cfg, path, nil
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Source.URL == "" {
		c.Source.URL = "http://localhost:5000"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 10 * time.Second
	}
	if c.Source.MaxTextSize == 0 {
		c.Source.MaxTextSize = 64 * 1024
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheNone
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 10 * time.Minute
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "actvis:graph:"
	}
	if c.Canvas.Width == 0 {
		c.Canvas.Width = 1024
	}
	if c.Canvas.Height == 0 {
		c.Canvas.Height = 768
	}
	c.Geometry = c.Geometry.WithDefaults()
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate rejects values that cannot be defaulted away.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port: %d out of range", c.Server.Port)
	}
	if c.Canvas.Width < 0 || c.Canvas.Height < 0 {
		return fmt.Errorf("canvas: negative size %vx%v", c.Canvas.Width, c.Canvas.Height)
	}
	return nil
}
