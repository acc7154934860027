package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	API         APIConfig     `toml:"api"`
	Auth        AuthConfig    `toml:"auth"`
	Cache       CacheConfig   `toml:"cache"`
	Poll        PollConfig    `toml:"poll"`
	Fetch       FetchConfig   `toml:"fetch"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// APIConfig points at the recommendation backend.
type APIConfig struct {
	URL     string `toml:"url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses the request timeout, falling back to 15s.
func (c *APIConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 15*time.Second)
}

// AuthConfig contains session settings.
type AuthConfig struct {
	JWTSecret      string `toml:"jwt_secret"`
	GoogleClientID string `toml:"google_client_id"`
}

// CacheConfig contains settings for the regime cache.
type CacheConfig struct {
	Backend    string `toml:"backend"` // "memory" or "redis"
	RedisURL   string `toml:"redis_url"`
	RegimeTTL  string `toml:"regime_ttl"`
	MaxEntries int    `toml:"max_entries"`
}

// GetRegimeTTL parses the regime TTL, falling back to 15m.
func (c *CacheConfig) GetRegimeTTL() time.Duration {
	return parseDuration(c.RegimeTTL, 15*time.Minute)
}

// PollConfig contains settings for refresh polling and the alert monitor.
type PollConfig struct {
	Interval          string `toml:"interval"`
	LosersMaxWait     string `toml:"losers_max_wait"`
	ConnectorsMaxWait string `toml:"connectors_max_wait"`
	MonitorInterval   string `toml:"monitor_interval"`
}

// GetInterval returns the refresh polling interval (default 5s).
func (c *PollConfig) GetInterval() time.Duration {
	return parseDuration(c.Interval, 5*time.Second)
}

// GetLosersMaxWait returns the losers refresh deadline (default 3m).
func (c *PollConfig) GetLosersMaxWait() time.Duration {
	return parseDuration(c.LosersMaxWait, 3*time.Minute)
}

// GetConnectorsMaxWait returns the connectors refresh deadline (default 2m).
func (c *PollConfig) GetConnectorsMaxWait() time.Duration {
	return parseDuration(c.ConnectorsMaxWait, 2*time.Minute)
}

// GetMonitorInterval returns the over-10% monitor interval (default 1m).
func (c *PollConfig) GetMonitorInterval() time.Duration {
	return parseDuration(c.MonitorInterval, time.Minute)
}

// FetchConfig bounds fan-out to the backend.
type FetchConfig struct {
	RegimeConcurrency int `toml:"regime_concurrency"`
}

// StorageConfig contains storage layer settings.
type StorageConfig struct {
	Backend string       `toml:"backend"` // "badger" or "sqlite"
	Badger  BadgerConfig `toml:"badger"`
	SQLite  SQLiteConfig `toml:"sqlite"`
}

// BadgerConfig contains BadgerDB-specific settings.
type BadgerConfig struct {
	Path string `toml:"path"`
}

// SQLiteConfig contains SQLite-specific settings.
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// IsDevMode reports whether the portal runs in dev mode.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// BaseURL returns the externally reachable portal URL.
func (c *Config) BaseURL() string {
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadDotEnv loads .env files into the process environment. Missing files
// are skipped and variables already set are never overwritten.
func LoadDotEnv(paths ...string) []string {
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err == nil {
			loaded = append(loaded, p)
		}
	}
	return loaded
}

// applyEnvOverrides applies STOCKREC_* environment variable overrides to config.
// The Vite variables are honoured so a .env shared with the old web client
// keeps pointing the portal at the same backend.
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKREC_ENV"); env != "" {
		config.Environment = env
	}
	if port := os.Getenv("STOCKREC_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("STOCKREC_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	for _, key := range []string{"STOCKREC_API_URL", "VITE_PUBLIC_API_URL", "VITE_API_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			config.API.URL = strings.TrimRight(v, "/")
			break
		}
	}
	if timeout := os.Getenv("STOCKREC_API_TIMEOUT"); timeout != "" {
		config.API.Timeout = timeout
	}

	if secret := os.Getenv("STOCKREC_JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if clientID := os.Getenv("STOCKREC_GOOGLE_CLIENT_ID"); clientID != "" {
		config.Auth.GoogleClientID = clientID
	}

	if backend := os.Getenv("STOCKREC_CACHE_BACKEND"); backend != "" {
		config.Cache.Backend = backend
	}
	if redisURL := os.Getenv("STOCKREC_REDIS_URL"); redisURL != "" {
		config.Cache.RedisURL = redisURL
	}
	if ttl := os.Getenv("STOCKREC_REGIME_TTL"); ttl != "" {
		config.Cache.RegimeTTL = ttl
	}
	if n := os.Getenv("STOCKREC_REGIME_CONCURRENCY"); n != "" {
		if v, err := strconv.Atoi(n); err == nil {
			config.Fetch.RegimeConcurrency = v
		}
	}

	if backend := os.Getenv("STOCKREC_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}
	if badgerPath := os.Getenv("STOCKREC_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}
	if sqlitePath := os.Getenv("STOCKREC_SQLITE_PATH"); sqlitePath != "" {
		config.Storage.SQLite.Path = sqlitePath
	}

	if level := os.Getenv("STOCKREC_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("STOCKREC_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate returns a list of problems with the configuration. An empty list
// means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	if strings.TrimSpace(c.API.URL) == "" {
		issues = append(issues, "api.url is required (or set STOCKREC_API_URL / VITE_API_URL)")
	} else if u, err := url.Parse(c.API.URL); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, fmt.Sprintf("api.url is not a valid absolute URL: %q", c.API.URL))
	}

	switch c.Cache.Backend {
	case "memory", "":
	case "redis":
		if c.Cache.RedisURL == "" {
			issues = append(issues, "cache.redis_url is required when cache.backend = \"redis\"")
		}
	default:
		issues = append(issues, fmt.Sprintf("cache.backend must be \"memory\" or \"redis\" (got %q)", c.Cache.Backend))
	}
	if c.Cache.MaxEntries <= 0 {
		issues = append(issues, "cache.max_entries must be positive")
	}

	switch c.Storage.Backend {
	case "badger", "":
	case "sqlite":
		if c.Storage.SQLite.Path == "" {
			issues = append(issues, "storage.sqlite.path is required when storage.backend = \"sqlite\"")
		}
	default:
		issues = append(issues, fmt.Sprintf("storage.backend must be \"badger\" or \"sqlite\" (got %q)", c.Storage.Backend))
	}

	if c.Fetch.RegimeConcurrency <= 0 {
		issues = append(issues, "fetch.regime_concurrency must be positive")
	}

	return issues
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
