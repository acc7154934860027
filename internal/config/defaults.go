package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4241,
			Host: "localhost",
		},
		API: APIConfig{
			URL:     "http://localhost:3001",
			Timeout: "15s",
		},
		Cache: CacheConfig{
			Backend:    "memory",
			RegimeTTL:  "15m",
			MaxEntries: 500,
		},
		Poll: PollConfig{
			Interval:          "5s",
			LosersMaxWait:     "3m",
			ConnectorsMaxWait: "2m",
			MonitorInterval:   "1m",
		},
		Fetch: FetchConfig{
			RegimeConcurrency: 4,
		},
		Storage: StorageConfig{
			Backend: "badger",
			Badger: BadgerConfig{
				Path: "./data/stockrec",
			},
			SQLite: SQLiteConfig{
				Path: "./data/stockrec.db",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Outputs:    []string{"console", "file"},
			FilePath:   "logs/stockrec-portal.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}
