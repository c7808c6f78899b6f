// Package config loads folder service settings from a TOML file.
//
// The default location is $XDG_CONFIG_HOME/folder/config.toml. A missing
// default file is not an error: [Default] already describes a working
// single-process deployment (PDF output, no cache, in-memory jobs).
//
//	[server]
//	port = 0            # 0 picks a free port and prints SERVER_PORT=<n>
//
//	[writer]
//	backend = "pdf"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[jobs]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/aanbieding/folder/pkg/artifacts"
	"github.com/aanbieding/folder/pkg/cache"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/jobs"
	"github.com/aanbieding/folder/pkg/writer"
)

const appName = "folder"

// Environment overrides for the default directories.
const (
	EnvConfigDir = "FOLDER_CONFIG_DIR"
	EnvCacheDir  = "FOLDER_CACHE_DIR"
)

// Config is the complete service configuration.
type Config struct {
	Log       Log       `toml:"log"`
	Server    Server    `toml:"server"`
	Writer    Writer    `toml:"writer"`
	Cache     Cache     `toml:"cache"`
	Jobs      Jobs      `toml:"jobs"`
	Artifacts Artifacts `toml:"artifacts"`
}

type Log struct {
	Level string `toml:"level"`
}

type Server struct {
	Addr           string   `toml:"addr"`
	Port           int      `toml:"port"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

type Writer struct {
	Backend string `toml:"backend"`
}

type Cache struct {
	Backend       string   `toml:"backend"`
	Dir           string   `toml:"dir"`
	RedisAddr     string   `toml:"redis_addr"`
	RedisPassword string   `toml:"redis_password"`
	RedisDB       int      `toml:"redis_db"`
	Prefix        string   `toml:"prefix"`
	PlanTTL       Duration `toml:"plan_ttl"`
	ArtifactTTL   Duration `toml:"artifact_ttl"`
}

type Jobs struct {
	Backend         string `toml:"backend"`
	Keep            int    `toml:"keep"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

type Artifacts struct {
	Dir    string   `toml:"dir"`
	MaxAge Duration `toml:"max_age"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultOrigins are the dev UI origins allowed by CORS.
var DefaultOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
}

// Default returns a configuration that works without a config file.
func Default() *Config {
	return &Config{
		Log: Log{Level: "info"},
		Server: Server{
			Addr:           "127.0.0.1",
			AllowedOrigins: slices.Clone(DefaultOrigins),
		},
		Writer: Writer{Backend: string(writer.DefaultFormat)},
		Cache: Cache{
			Backend:     cache.BackendNone,
			Dir:         filepath.Join(CacheDir(), "plans"),
			PlanTTL:     Duration{cache.TTLPlan},
			ArtifactTTL: Duration{cache.TTLArtifact},
		},
		Jobs: Jobs{
			Backend:         jobs.BackendMemory,
			Keep:            jobs.DefaultKeep,
			MongoDatabase:   jobs.DefaultMongoDatabase,
			MongoCollection: jobs.DefaultMongoCollection,
		},
		Artifacts: Artifacts{
			Dir:    artifacts.DefaultDir(),
			MaxAge: Duration{artifacts.DefaultMaxAge},
		},
	}
}

// ConfigDir returns the directory holding config.toml.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, appName)
}

// CacheDir returns the directory for the file cache.
func CacheDir() string {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.CacheHome, appName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config at path on top of Default. An empty path loads the
// default location, where a missing file is tolerated. An explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return invalid("log.level", c.Log.Level)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.port %d out of range", c.Server.Port)
	}
	if !slices.Contains(writer.Formats(), c.Writer.Backend) {
		return invalid("writer.backend", c.Writer.Backend)
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile:
	case cache.BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return invalid("cache.backend", c.Cache.Backend)
	}
	switch c.Jobs.Backend {
	case "", jobs.BackendMemory:
	case jobs.BackendMongo:
		if c.Jobs.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "jobs.mongo_uri is required for the mongo backend")
		}
	default:
		return invalid("jobs.backend", c.Jobs.Backend)
	}
	if c.Jobs.Keep < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "jobs.keep must not be negative")
	}
	return nil
}

func invalid(key, value string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "invalid %s %q", key, value)
}

// CacheOptions maps the [cache] section onto cache.Open options.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
		},
	}
}

// Keyer returns the cache keyer for the [cache] section. A non-empty
// prefix scopes every key so deployments can share one Redis instance.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.Cache.Prefix)
}

// JobsOptions maps the [jobs] section onto jobs.Open options.
func (c *Config) JobsOptions() jobs.Options {
	return jobs.Options{
		Backend: c.Jobs.Backend,
		Mongo: jobs.MongoOptions{
			URI:        c.Jobs.MongoURI,
			Database:   c.Jobs.MongoDatabase,
			Collection: c.Jobs.MongoCollection,
		},
	}
}
