package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cm2kit/pkg/errors"
)

// Environment variables that override the config file.
const (
	envRedisURL = "CM2KIT_REDIS_URL"
	envMongoURI = "CM2KIT_MONGO_URI"
	envConfig   = "CM2KIT_CONFIG"
)

// Config is the optional user configuration read from config.toml:
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	prefix = "cm2kit:"
//	ttl = "168h"
//
//	[store]
//	mongo_uri = "mongodb://localhost:27017"
//	database = "cm2kit"
//	collection = "artifacts"
//
//	[server]
//	addr = ":8080"
type Config struct {
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

type CacheConfig struct {
	// RedisURL selects the Redis cache; empty means the file cache.
	RedisURL string   `toml:"redis_url"`
	Prefix   string   `toml:"prefix"`
	TTL      duration `toml:"ttl"`
}

type StoreConfig struct {
	// MongoURI selects the Mongo store; empty means the file store in Dir.
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Dir        string `toml:"dir"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration lets config files spell durations as "90m" or "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultConfig() Config {
	return Config{
		Cache:  CacheConfig{Prefix: appName + ":"},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// loadConfig reads path over the defaults and applies environment
// overrides. A missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
			if keys := md.Undecoded(); len(keys) > 0 {
				return cfg, errors.New(errors.ErrCodeInvalidManifest, "%s: unknown key %s", path, keys[0])
			}
		case os.IsNotExist(err):
		default:
			return cfg, errors.Wrap(errors.ErrCodeInvalidManifest, err, "read config %s", path)
		}
	}
	if v := os.Getenv(envRedisURL); v != "" {
		cfg.Cache.RedisURL = v
	}
	if v := os.Getenv(envMongoURI); v != "" {
		cfg.Store.MongoURI = v
	}
	return cfg, nil
}

// configPath returns $CM2KIT_CONFIG, or config.toml under the XDG config
// directory.
func configPath() (string, error) {
	if p := os.Getenv(envConfig); p != "" {
		return p, nil
	}
	return xdgDir("XDG_CONFIG_HOME", ".config", "config.toml")
}

// cacheDir returns the cache directory using XDG standard (~/.cache/cm2kit/).
func cacheDir() (string, error) {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// dataDir is where the file store keeps artifacts (~/.local/share/cm2kit/artifacts).
func dataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"), "artifacts")
}

func xdgDir(env, fallback string, elem ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base, appName}, elem...)...), nil
}
