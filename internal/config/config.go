// Package config loads the portnet configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfig names the environment variable holding the config path.
	EnvConfig = "PORTNET_CONFIG"
	// EnvToken names the environment variable holding the acquisition API token.
	EnvToken = "GFW_TOKEN"
	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "portnet.yaml"
)

// Store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the portnet configuration file.
type Config struct {
	Dataset  string        `yaml:"dataset" json:"dataset"`
	LogLevel string        `yaml:"log_level" json:"log_level"`
	Records  RecordsConfig `yaml:"records" json:"records"`
	Store    StoreConfig   `yaml:"store" json:"store"`
	Fetch    FetchConfig   `yaml:"fetch" json:"fetch"`
	Build    BuildConfig   `yaml:"build" json:"build"`
	Server   ServerConfig  `yaml:"server" json:"server"`

	// Token is read from the environment only.
	Token string `yaml:"-" json:"-"`
}

// RecordsConfig locates the flat raw record store.
type RecordsConfig struct {
	// Kind is "file" or "sqlite".
	Kind string `yaml:"kind" json:"kind"`
	Path string `yaml:"path" json:"path"`
	// Format applies to file records: json, ndjson or csv. Empty means detect.
	Format string `yaml:"format" json:"format"`
}

// StoreConfig selects where built networks are kept.
type StoreConfig struct {
	Kind  string      `yaml:"kind" json:"kind"`
	Path  string      `yaml:"path" json:"path"`
	Redis RedisConfig `yaml:"redis" json:"redis"`
}

// RedisConfig configures the Redis network store and build lock.
type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
}

// FetchConfig configures the paginated event acquisition.
type FetchConfig struct {
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	Dataset     string        `yaml:"dataset" json:"dataset"`
	StartDate   string        `yaml:"start_date" json:"start_date"`
	EndDate     string        `yaml:"end_date" json:"end_date"`
	Confidences []string      `yaml:"confidences" json:"confidences"`
	BBox        []float64     `yaml:"bbox" json:"bbox"`
	PageSize    int           `yaml:"page_size" json:"page_size"`
	MaxEvents   int           `yaml:"max_events" json:"max_events"`
	Pause       time.Duration `yaml:"pause" json:"pause"`
	Retries     int           `yaml:"retries" json:"retries"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// BuildConfig tunes the pipeline.
type BuildConfig struct {
	Workers int           `yaml:"workers" json:"workers"`
	LockTTL time.Duration `yaml:"lock_ttl" json:"lock_ttl"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" json:"port"`
	// CacheTTL keeps loaded datasets in memory while serving. Zero disables the cache.
	CacheTTL time.Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

// Default returns the configuration used when no file is found.
// The fetch window and bounding box cover the Mediterranean in July 2024.
func Default() *Config {
	return &Config{
		Dataset:  "mediterranean",
		LogLevel: "info",
		Records:  RecordsConfig{Kind: "file", Path: "data/port_visits.ndjson"},
		Store:    StoreConfig{Kind: StoreFile, Path: filepath.Join(".portnet", "datasets")},
		Fetch: FetchConfig{
			BaseURL:     "https://gateway.api.globalfishingwatch.org",
			Dataset:     "public-global-port-visits-events:latest",
			StartDate:   "2024-07-01",
			EndDate:     "2024-08-01",
			Confidences: []string{"3", "4"},
			BBox:        []float64{-6.0, 30.0, 36.5, 46.5},
			PageSize:    2000,
			MaxEvents:   50000,
			Pause:       250 * time.Millisecond,
			Retries:     3,
			Timeout:     60 * time.Second,
		},
		Build:  BuildConfig{Workers: 1, LockTTL: 5 * time.Minute},
		Server: ServerConfig{Port: 8080, CacheTTL: 30 * time.Second},
	}
}

// Resolve picks the config path: explicit, then $PORTNET_CONFIG, then ./portnet.yaml
// when it exists. An empty result means "use defaults".
func Resolve(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// Load reads the config at the resolved path over the defaults and validates it.
// A path given explicitly (or through the environment) must exist.
func Load(explicit string) (*Config, error) {
	cfg := Default()
	path := Resolve(explicit)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if err := decodeJSON(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else {
			// Default to YAML
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}
	}

	cfg.Token = os.Getenv(EnvToken)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeJSON overlays a JSON document on cfg. Durations accept the same "30s"
// strings as the YAML form; lists replace the defaults instead of merging into them.
func decodeJSON(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		ZeroFields: true,
		Result:     cfg,
	})
	if err != nil {
		return err
	}
	return dec.Decode(raw)
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("store.kind: unknown store %q", c.Store.Kind)
	}
	switch c.Records.Kind {
	case "file", StoreSQLite:
	default:
		return fmt.Errorf("records.kind: unknown record store %q", c.Records.Kind)
	}
	if c.Store.Kind == StoreSQLite && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for sqlite")
	}
	if c.Store.Kind == StoreRedis && c.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for redis")
	}
	if len(c.Fetch.BBox) != 0 && len(c.Fetch.BBox) != 4 {
		return fmt.Errorf("fetch.bbox must have 4 values (min_lon, min_lat, max_lon, max_lat)")
	}
	if c.Fetch.PageSize <= 0 {
		return fmt.Errorf("fetch.page_size must be positive")
	}
	if c.Build.Workers < 1 {
		c.Build.Workers = 1
	}
	return nil
}
