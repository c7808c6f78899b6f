package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aanbieding/folder/pkg/cache"
	"github.com/aanbieding/folder/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingDefault(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Writer.Backend != "pdf" {
		t.Errorf("backend = %q, want pdf", cfg.Writer.Backend)
	}
}

func TestLoadMissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[server]\nport = 8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[server]
port = 9000
allowed_origins = ["https://folders.example"]

[writer]
backend = "png"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
plan_ttl = "1h"
prefix = "staging:"

[jobs]
backend = "mongo"
keep = 25
mongo_uri = "mongodb://localhost:27017"

[artifacts]
dir = "/var/lib/folder"
max_age = "48h"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q", cfg.Log.Level)
	}
	if cfg.Server.Port != 9000 || cfg.Server.Addr != "127.0.0.1" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Writer.Backend != "png" {
		t.Errorf("writer.backend = %q", cfg.Writer.Backend)
	}
	if cfg.Cache.PlanTTL.Duration != time.Hour {
		t.Errorf("plan_ttl = %v, want 1h", cfg.Cache.PlanTTL)
	}
	if cfg.Cache.ArtifactTTL.Duration != 24*time.Hour {
		t.Errorf("artifact_ttl = %v, want default 24h", cfg.Cache.ArtifactTTL)
	}
	if got, want := cfg.Keyer().PlanKey("abc"), "staging:"+cache.NewDefaultKeyer().PlanKey("abc"); got != want {
		t.Errorf("Keyer().PlanKey = %q, want %q", got, want)
	}
	if got, want := Default().Keyer().PlanKey("abc"), cache.NewDefaultKeyer().PlanKey("abc"); got != want {
		t.Errorf("Default().Keyer().PlanKey = %q, want %q", got, want)
	}
	if cfg.Jobs.Keep != 25 || cfg.Jobs.MongoDatabase != "folder" {
		t.Errorf("jobs = %+v", cfg.Jobs)
	}
	if cfg.Artifacts.MaxAge.Duration != 48*time.Hour || cfg.Artifacts.Dir != "/var/lib/folder" {
		t.Errorf("artifacts = %+v", cfg.Artifacts)
	}

	jo := cfg.JobsOptions()
	if jo.Backend != "mongo" || jo.Mongo.URI != "mongodb://localhost:27017" {
		t.Errorf("JobsOptions = %+v", jo)
	}
	co := cfg.CacheOptions()
	if co.Backend != "redis" || co.Redis.Addr != "localhost:6379" {
		t.Errorf("CacheOptions = %+v", co)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[server\nport = 1"},
		{"unknown key", "[server]\nhost = \"x\"\n"},
		{"bad duration", "[artifacts]\nmax_age = \"soon\"\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"bad port", "[server]\nport = 70000\n"},
		{"bad writer", "[writer]\nbackend = \"docx\"\n"},
		{"bad cache", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"bad jobs", "[jobs]\nbackend = \"sqlite\"\n"},
		{"mongo without uri", "[jobs]\nbackend = \"mongo\"\n"},
		{"negative keep", "[jobs]\nkeep = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestDirsOverride(t *testing.T) {
	t.Setenv(EnvCacheDir, "/tmp/folder-cache")
	if got := CacheDir(); got != "/tmp/folder-cache" {
		t.Errorf("CacheDir = %q", got)
	}
	t.Setenv(EnvConfigDir, "/tmp/folder-config")
	if got := DefaultPath(); got != "/tmp/folder-config/config.toml" {
		t.Errorf("DefaultPath = %q", got)
	}
}
