// Package config loads casemap settings from a TOML file.
//
// Every field has a default, so a missing file or a partial file is valid:
//
//	[layout]
//	radius_step = 50
//
//	[viewport.initial]
//	width = 1200
//	height = 800
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap/layout"
	"github.com/lexora/casemap/pkg/viewport"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Environment overrides.
const (
	EnvConfig    = "CASEMAP_CONFIG"
	EnvRedisAddr = "CASEMAP_REDIS_ADDR"
	EnvMongoURI  = "CASEMAP_MONGO_URI"
)

// Config is the full configuration.
type Config struct {
	Layout   layout.Config   `toml:"layout"`
	Viewport viewport.Config `toml:"viewport"`
	Server   ServerConfig    `toml:"server"`
	Cache    CacheConfig     `toml:"cache"`
	Source   SourceConfig    `toml:"source"`
}

// ServerConfig configures `casemap serve`.
type ServerConfig struct {
	Addr        string        `toml:"addr"`
	MaxNodes    int           `toml:"max_nodes"` // 0 disables the limit
	MaxSessions int           `toml:"max_sessions"`
	SessionTTL  time.Duration `toml:"session_ttl"`
}

// CacheConfig selects and configures the layout and artifact cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"` // empty means the XDG cache dir
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	Prefix        string        `toml:"prefix"`
	LayoutTTL     time.Duration `toml:"layout_ttl"`
	ArtifactTTL   time.Duration `toml:"artifact_ttl"`
}

// SourceConfig locates stored case mind maps. MongoURI takes precedence over
// Dir when both are set.
type SourceConfig struct {
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:   layout.DefaultConfig(),
		Viewport: viewport.DefaultConfig(),
		Server: ServerConfig{
			Addr:        ":8080",
			MaxNodes:    5000,
			MaxSessions: 1000,
			SessionTTL:  30 * time.Minute,
		},
		Cache: CacheConfig{
			Backend:     CacheFile,
			RedisAddr:   "localhost:6379",
			Prefix:      "casemap:",
			LayoutTTL:   7 * 24 * time.Hour,
			ArtifactTTL: 24 * time.Hour,
		},
		Source: SourceConfig{
			Database:   "lexora",
			Collection: "threads",
		},
	}
}

// DefaultPath returns $CASEMAP_CONFIG, else <user config dir>/casemap/config.toml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "casemap", "config.toml")
}

// Load reads path over the defaults. A missing file yields the defaults.
// Keys present in the file but unknown to Config are returned so the caller
// can warn about them.
func Load(path string) (Config, []string, error) {
	cfg := Default()
	if path == "" {
		cfg.applyEnv()
		return cfg, nil, cfg.Validate()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.applyEnv()
		return cfg, nil, cfg.Validate()
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, unknown, err
	}
	return cfg, unknown, nil
}

// Parse decodes TOML text over the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Source.MongoURI = v
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	l := c.Layout
	if l.RadiusStep < 0 || l.MaxRadius < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout radius values must not be negative")
	}
	if !c.Viewport.Initial.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport.initial must have positive width and height")
	}
	if c.Viewport.ZoomIn <= 0 || c.Viewport.ZoomOut <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "viewport zoom factors must be positive")
	}
	if c.Server.MaxNodes < 0 || c.Server.MaxSessions < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server limits must not be negative")
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.session_ttl must be positive")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be one of file, redis, none (got %q)", c.Cache.Backend)
	}
	return nil
}
