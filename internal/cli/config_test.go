package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

func TestLoadConfigMissingFile(t *testing.T) {
	t.Setenv(envRedisURL, "")
	t.Setenv(envMongoURI, "")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv(envRedisURL, "")
	t.Setenv(envMongoURI, "mongodb://env:27017")

	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[cache]
redis_url = "redis://file:6379/1"
ttl = "90m"

[store]
database = "circuits"

[server]
addr = "127.0.0.1:9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.RedisURL != "redis://file:6379/1" || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Prefix != "cm2kit:" {
		t.Errorf("default prefix lost: %q", cfg.Cache.Prefix)
	}
	if cfg.Store.MongoURI != "mongodb://env:27017" || cfg.Store.Database != "circuits" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{"UnknownKey", "[cache]\nredis = \"x\"\n"},
		{"BadDuration", "[cache]\nttl = \"soon\"\n"},
		{"Syntax", "[cache\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".toml")
			_ = os.WriteFile(path, []byte(tt.data), 0o644)
			if _, err := loadConfig(path); !errors.Is(err, errors.ErrCodeInvalidManifest) {
				t.Errorf("loadConfig = %v, want INVALID_MANIFEST", err)
			}
		})
	}
}
